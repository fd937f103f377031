package relgraph

import (
	"strings"
	"unicode"
)

// stopWords are excluded from title keyword overlap. Besides articles and
// prepositions the list carries words every catalog title tends to share.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"into": true, "onto": true, "your": true, "our": true, "you": true,
	"are": true, "was": true, "its": true, "this": true, "that": true,
	"how": true, "what": true, "why": true, "who": true, "out": true,
	"about": true, "over": true, "under": true, "via": true, "per": true,
	"all": true, "any": true, "not": true, "but": true, "can": true,
	"tool": true, "tools": true, "framework": true, "frameworks": true,
	"method": true, "methods": true, "canvas": true, "toolkit": true,
	"guide": true, "guides": true, "assessment": true, "template": true,
}

// TitleKeywords returns the distinct lowercase alphanumeric tokens of a
// title that are longer than two characters and not stop words, in order of
// first appearance.
func TitleKeywords(title string) []string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if len([]rune(f)) <= 2 || stopWords[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
