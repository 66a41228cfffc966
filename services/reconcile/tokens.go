package reconcile

import (
	"strings"
	"unicode/utf8"
)

const (
	initialScore       = 0.7
	fuzzyTokenFloor    = 0.75
	fuzzyTokenDiscount = 0.9
)

func stripPeriods(token string) string {
	return strings.TrimRight(token, ".")
}

// an initial is "j" or "j." (at most two characters, the second a period)
func isInitial(token string) bool {
	n := utf8.RuneCountInString(token)
	return n == 1 || (n == 2 && strings.HasSuffix(token, "."))
}

// pairScore is the contribution a single token pair makes, 0 means the pair
// does not match at all.
type pairScore func(a, b string) float64

func basicPairScore(a, b string) float64 {
	strippedA := stripPeriods(a)
	if strippedA == "" {
		return 0
	}
	if strippedA == stripPeriods(b) {
		return 1
	}
	if isInitial(a) && strings.HasPrefix(b, strippedA) {
		return initialScore
	}
	sim := Similarity(strippedA, b)
	if sim > fuzzyTokenFloor {
		return sim * fuzzyTokenDiscount
	}
	return 0
}

// alignTokens greedily pairs every token of a with the best unused token of
// b, in order, and normalizes the summed contributions by the longer list.
func alignTokens(a, b []string, score pairScore) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	used := make([]bool, len(b))
	var total float64
	for _, ta := range a {
		best := 0.0
		bestIdx := -1
		for j, tb := range b {
			if used[j] {
				continue
			}
			s := score(ta, tb)
			if s > best {
				best = s
				bestIdx = j
			}
		}
		if bestIdx >= 0 {
			used[bestIdx] = true
			total += best
		}
	}

	return total / float64(max(len(a), len(b)))
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// TokenSimilarity compares two names token by token, tolerating reordered
// parts, initials and small typos.
func TokenSimilarity(a, b string) float64 {
	return alignTokens(tokenize(a), tokenize(b), basicPairScore)
}
