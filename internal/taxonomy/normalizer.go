package taxonomy

import "strings"

// Normalize rewrites parser output into the canonical shape the store
// consumes: on every category block Parents, Names and Properties are
// non-nil, every value list is non-nil, values are trimmed, and empty
// values (artifacts of trailing commas in the source) are dropped. Name
// entries left without any value disappear entirely. Downstream code never
// has to distinguish "absent" from "empty" or "one" from "many".
func Normalize(blocks []Block) []Block {
	normalized := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		switch block := b.(type) {
		case CategoryBlock:
			normalized = append(normalized, normalizeCategory(block))
		case SynonymBlock:
			normalized = append(normalized, SynonymBlock{Entries: normalizeEntries(block.Entries)})
		case StopwordBlock:
			normalized = append(normalized, StopwordBlock{Entries: normalizeEntries(block.Entries)})
		default:
			normalized = append(normalized, b)
		}
	}
	return normalized
}

func normalizeCategory(block CategoryBlock) CategoryBlock {
	out := CategoryBlock{
		Parents:    make([]ParentRef, 0, len(block.Parents)),
		Names:      make([]LangValues, 0, len(block.Names)),
		Properties: make([]Property, 0, len(block.Properties)),
	}
	for _, p := range block.Parents {
		if name := strings.TrimSpace(p.Name); name != "" {
			out.Parents = append(out.Parents, ParentRef{Lang: p.Lang, Name: name})
		}
	}
	for _, e := range block.Names {
		if values := cleanValues(e.Values); len(values) > 0 {
			out.Names = append(out.Names, LangValues{Lang: e.Lang, Values: values})
		}
	}
	out.Properties = append(out.Properties, block.Properties...)
	return out
}

func normalizeEntries(entries []LangValues) []LangValues {
	out := make([]LangValues, 0, len(entries))
	for _, e := range entries {
		if values := cleanValues(e.Values); len(values) > 0 {
			out = append(out, LangValues{Lang: e.Lang, Values: values})
		}
	}
	return out
}

func cleanValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
