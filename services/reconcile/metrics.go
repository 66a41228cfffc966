package reconcile

import (
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// LevenshteinDistance is the unit-cost edit distance between a and b,
// counted in runes.
func LevenshteinDistance(a, b string) int {
	return matchr.Levenshtein(a, b)
}

// Similarity returns 1 - distance/maxLen over the lower-cased, trimmed
// inputs. Equal strings are 1, an empty side is 0.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}
