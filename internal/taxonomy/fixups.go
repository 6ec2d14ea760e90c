package taxonomy

import "regexp"

// Fixup is one rewrite rule applied to the raw taxonomy text before
// parsing. The upstream file accumulates typos faster than they get fixed;
// keeping the rules in one ordered, named list makes it cheap to add a rule
// when a new defect appears. Order matters only where substitutions
// overlap (line-ending normalization must run first).
type Fixup struct {
	Name    string
	Pattern *regexp.Regexp
	Replace string
}

// DefaultFixups lists the known defects of the current upstream
// categories.txt. Each rule documents one defect.
var DefaultFixups = []Fixup{
	{
		Name:    "normalize CRLF line endings",
		Pattern: regexp.MustCompile("\r\n?"),
		Replace: "\n",
	},
	{
		Name:    "strip UTF-8 byte order mark",
		Pattern: regexp.MustCompile(`\x{FEFF}`),
		Replace: "",
	},
	{
		Name:    "remove soft hyphens",
		Pattern: regexp.MustCompile(`\x{00AD}`),
		Replace: "",
	},
	{
		Name:    "lowercase miscased English line tags",
		Pattern: regexp.MustCompile(`(?m)^(<?)EN:`),
		Replace: "${1}en:",
	},
	{
		Name:    "lowercase miscased French line tags",
		Pattern: regexp.MustCompile(`(?m)^(<?)FR:`),
		Replace: "${1}fr:",
	},
	{
		Name:    "collapse doubled English language prefix",
		Pattern: regexp.MustCompile(`(?m)^en:en:`),
		Replace: "en:",
	},
	{
		Name:    "collapse doubled French language prefix",
		Pattern: regexp.MustCompile(`(?m)^fr:fr:`),
		Replace: "fr:",
	},
	{
		Name:    "strip stray quotes wrapping a whole name line",
		Pattern: regexp.MustCompile(`(?m)^([a-z]{2,3}(?:-[A-Z]{2})?:)\s*"([^"\n]*)"\s*$`),
		Replace: "${1} ${2}",
	},
	{
		Name:    "drop trailing whitespace",
		Pattern: regexp.MustCompile(`(?m)[ \t]+$`),
		Replace: "",
	},
}

// ApplyFixups runs DefaultFixups over the raw taxonomy text.
func ApplyFixups(text string) string {
	return ApplyFixupList(text, DefaultFixups)
}

// ApplyFixupList runs an explicit rule list, in order.
func ApplyFixupList(text string, fixups []Fixup) string {
	for _, f := range fixups {
		text = f.Pattern.ReplaceAllString(text, f.Replace)
	}
	return text
}
