package console

import (
	"strings"
)

// ProductLister provides the product names offered for completion
type ProductLister interface {
	ProductNames() []string
}

// Complete returns the completion candidates for a partially typed line and
// the word they complete. The first word completes command names (all of them
// when nothing matches); the second word of select and remove completes
// product names.
func Complete(products ProductLister, line string) ([]string, string) {
	words := strings.Fields(line)
	trailingSpace := strings.HasSuffix(line, " ")

	if len(words) == 0 || (len(words) == 1 && !trailingSpace) {
		var word string
		if len(words) == 1 {
			word = words[0]
		}
		hits := withPrefix(Commands, word)
		if len(hits) == 0 {
			return append([]string(nil), Commands...), word
		}
		return hits, word
	}

	switch words[0] {
	case CommandSelect, CommandRemove:
		var word string
		if len(words) > 1 {
			word = words[1]
		}
		if len(words) > 2 || (len(words) == 2 && trailingSpace) {
			return []string{}, ""
		}
		return withPrefix(products.ProductNames(), word), word
	default:
		return []string{}, line
	}
}

func withPrefix(values []string, prefix string) []string {
	hits := make([]string, 0, len(values))
	for _, value := range values {
		if strings.HasPrefix(value, prefix) {
			hits = append(hits, value)
		}
	}
	return hits
}
