package taxonomy

import (
	"fmt"
	"regexp"
	"strings"
)

// The format is parsed greedily with ordered choice and no unlimited
// lookahead. Block alternatives must be tried most specific first:
// synonyms, then stopwords, then category, and a bare comment run last.
// Trying the comment alternative earlier would misclassify a comment line
// at the head of a category block as a standalone comment block. This
// ordering is a correctness requirement, not a style choice.

// langTagRe matches a 2-3 letter lowercase language code, optionally
// followed by a 2-letter uppercase region code, e.g. `en`, `nds`, `pt-BR`.
var langTagRe = regexp.MustCompile(`^[a-z]{2,3}(-[A-Z]{2})?$`)

// ParseError reports the position of a fatal grammar failure. Line numbers
// are 1-based and refer to the text after fixups were applied.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("taxonomy parse error at line %d: %s", e.Line, e.Message)
}

type sourceLine struct {
	num  int
	text string
}

// Parse converts taxonomy text into an ordered sequence of blocks. The
// input is expected to have fixups already applied (see ApplyFixups). Any
// grammar failure is fatal and reported with its line number.
func Parse(text string) ([]Block, error) {
	var blocks []Block

	for _, run := range splitRuns(text) {
		block, err := parseRun(run)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// splitRuns groups the input into runs of consecutive non-blank lines.
func splitRuns(text string) [][]sourceLine {
	var runs [][]sourceLine
	var current []sourceLine

	for i, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			if len(current) > 0 {
				runs = append(runs, current)
				current = nil
			}
			continue
		}
		current = append(current, sourceLine{num: i + 1, text: raw})
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}

func isComment(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "#")
}

// parseRun classifies one run of non-blank lines. The first non-comment
// line commits the run to an alternative; within a committed block a
// malformed line is a parse error, not a reason to try the next
// alternative.
func parseRun(run []sourceLine) (Block, error) {
	first, ok := firstNonComment(run)
	switch {
	case !ok:
		return parseCommentBlock(run), nil
	case strings.HasPrefix(strings.TrimSpace(first.text), "synonyms:"):
		return parseTaggedListBlock(run, "synonyms")
	case strings.HasPrefix(strings.TrimSpace(first.text), "stopwords:"):
		return parseTaggedListBlock(run, "stopwords")
	default:
		return parseCategoryBlock(run)
	}
}

func firstNonComment(run []sourceLine) (sourceLine, bool) {
	for _, line := range run {
		if !isComment(line.text) {
			return line, true
		}
	}
	return sourceLine{}, false
}

func parseCommentBlock(run []sourceLine) CommentBlock {
	block := CommentBlock{}
	for _, line := range run {
		block.Lines = append(block.Lines, strings.TrimSpace(line.text))
	}
	return block
}

// parseTaggedListBlock parses a run of `<keyword>:<lang>:<values>` lines,
// used for both synonym and stopword blocks.
func parseTaggedListBlock(run []sourceLine, keyword string) (Block, error) {
	var entries []LangValues

	for _, line := range run {
		if isComment(line.text) {
			continue
		}
		text := strings.TrimSpace(line.text)
		rest, found := strings.CutPrefix(text, keyword+":")
		if !found {
			return nil, &ParseError{Line: line.num, Message: fmt.Sprintf("expected %s line in %s block", keyword, keyword)}
		}
		lang, values, found := strings.Cut(rest, ":")
		if !found {
			return nil, &ParseError{Line: line.num, Message: fmt.Sprintf("missing language tag in %s line", keyword)}
		}
		if !langTagRe.MatchString(lang) {
			return nil, &ParseError{Line: line.num, Message: fmt.Sprintf("invalid language tag %q", lang)}
		}
		entries = append(entries, LangValues{Lang: lang, Values: splitValues(values)})
	}

	if keyword == "stopwords" {
		return StopwordBlock{Entries: entries}, nil
	}
	return SynonymBlock{Entries: entries}, nil
}

// Category block line kinds, in the only order the grammar allows:
// parent lines, then name lines, then property lines.
const (
	sectParents = iota
	sectNames
	sectProperties
)

func parseCategoryBlock(run []sourceLine) (Block, error) {
	block := CategoryBlock{}
	section := sectParents

	for _, line := range run {
		if isComment(line.text) {
			continue
		}
		text := strings.TrimSpace(line.text)

		if rest, found := strings.CutPrefix(text, "<"); found {
			if section != sectParents {
				return nil, &ParseError{Line: line.num, Message: "parent line after name or property line"}
			}
			parent, err := parseParentLine(rest, line.num)
			if err != nil {
				return nil, err
			}
			block.Parents = append(block.Parents, parent)
			continue
		}

		head, rest, found := strings.Cut(text, ":")
		if !found {
			return nil, &ParseError{Line: line.num, Message: fmt.Sprintf("expected `lang:` or `property:` line, got %q", text)}
		}

		if langTagRe.MatchString(head) {
			if section == sectProperties {
				return nil, &ParseError{Line: line.num, Message: "name line after property line"}
			}
			section = sectNames
			block.Names = append(block.Names, LangValues{Lang: head, Values: splitValues(rest)})
			continue
		}

		if section == sectParents {
			return nil, &ParseError{Line: line.num, Message: fmt.Sprintf("property line %q before any name line", head)}
		}
		section = sectProperties
		block.Properties = append(block.Properties, parsePropertyLine(head, rest))
	}

	if len(block.Names) == 0 {
		return nil, &ParseError{Line: run[0].num, Message: "category block has no name line"}
	}
	return block, nil
}

func parseParentLine(rest string, lineNum int) (ParentRef, error) {
	lang, name, found := strings.Cut(rest, ":")
	if !found {
		return ParentRef{}, &ParseError{Line: lineNum, Message: "parent line is missing `:`"}
	}
	if !langTagRe.MatchString(lang) {
		return ParentRef{}, &ParseError{Line: lineNum, Message: fmt.Sprintf("invalid language tag %q in parent line", lang)}
	}
	return ParentRef{Lang: lang, Name: strings.TrimSpace(name)}, nil
}

// parsePropertyLine splits `<name>[:<lang>]:<value>`. head is the property
// name, rest everything after the first colon. A leading language tag in
// rest tags the property; otherwise rest is the whole value.
func parsePropertyLine(head, rest string) Property {
	maybeLang, value, found := strings.Cut(rest, ":")
	if found && langTagRe.MatchString(maybeLang) {
		return Property{Name: head, Lang: maybeLang, Value: strings.TrimSpace(value)}
	}
	return Property{Name: head, Value: strings.TrimSpace(rest)}
}

func splitValues(s string) []string {
	var values []string
	for _, v := range strings.Split(s, ",") {
		values = append(values, strings.TrimSpace(v))
	}
	return values
}
