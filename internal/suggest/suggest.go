// Package suggest finds the closest known spelling for a mistyped name.
package suggest

import (
	"strings"

	"github.com/agext/levenshtein"
)

// Nearest returns the candidate closest to word by edit distance. Matches
// further than a third of the word's length (minimum 2 edits) are not
// considered close enough to suggest.
func Nearest(word string, candidates []string) (string, bool) {
	word = strings.ToLower(word)
	limit := len(word) / 3
	if limit < 2 {
		limit = 2
	}
	best, bestDist := "", limit+1
	for _, c := range candidates {
		d := levenshtein.Distance(word, strings.ToLower(c), nil)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}

// Hint renders a "did you mean" hint, or "" when nothing is close.
func Hint(word string, candidates []string) string {
	if s, ok := Nearest(word, candidates); ok {
		return `did you mean "` + s + `"?`
	}
	return ""
}
