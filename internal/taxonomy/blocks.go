package taxonomy

// Block is one parsed unit of the taxonomy file. Blocks are separated by
// one or more blank lines and appear in file order.
type Block interface {
	block()
}

// LangValues holds the comma-separated values of a single tagged line,
// e.g. `en: Fruits, Fruit` or `synonyms:fr: fruit, fruits`.
type LangValues struct {
	Lang   string
	Values []string
}

// ParentRef is one `<lang:name` parent declaration of a category block.
type ParentRef struct {
	Lang string
	Name string
}

// Property is one `<name>[:<lang>]:<value>` line of a category block.
// Lang is empty for untagged properties.
type Property struct {
	Name  string
	Lang  string
	Value string
}

// CommentBlock is a run of lines that all start with `#`.
type CommentBlock struct {
	Lines []string
}

// SynonymBlock is a run of `synonyms:<lang>:<values>` lines.
type SynonymBlock struct {
	Entries []LangValues
}

// StopwordBlock is a run of `stopwords:<lang>:<values>` lines.
type StopwordBlock struct {
	Entries []LangValues
}

// CategoryBlock describes one category: its parent references, its names
// per language (first entry per language is the display name, the rest are
// synonyms), and free-form properties.
type CategoryBlock struct {
	Parents    []ParentRef
	Names      []LangValues
	Properties []Property
}

func (CommentBlock) block()  {}
func (SynonymBlock) block()  {}
func (StopwordBlock) block() {}
func (CategoryBlock) block() {}

// MainName selects the canonical display name of a category block: the
// first English name if present, otherwise the first name of the first
// listed language. ok is false when the block has no names at all.
func (b CategoryBlock) MainName() (name, lang string, ok bool) {
	for _, e := range b.Names {
		if e.Lang == "en" && len(e.Values) > 0 {
			return e.Values[0], "en", true
		}
	}
	for _, e := range b.Names {
		if len(e.Values) > 0 {
			return e.Values[0], e.Lang, true
		}
	}
	return "", "", false
}
