package reconcile

import "fmt"

// DefaultReviewThreshold is the confidence below which a result should be
// checked by a person.
const DefaultReviewThreshold = 0.6

// Gate decides which results are confident enough to accept as is.
type Gate struct {
	ReviewThreshold float64
}

// NewGate clamps threshold into [0, 1]. Pass DefaultReviewThreshold for the
// usual cut.
func NewGate(threshold float64) Gate {
	return Gate{ReviewThreshold: clamp01(threshold)}
}

func (g Gate) NeedsReview(r MatchResult) bool {
	return r.MatchedMember == nil || r.Confidence < g.ReviewThreshold
}

type Summary struct {
	Total       int `json:"total"`
	Matched     int `json:"matched"`
	FromAlias   int `json:"from_alias"`
	Unmatched   int `json:"unmatched"`
	NeedsReview int `json:"needs_review"`
}

func (g Gate) Summarize(results []MatchResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.MatchedMember == nil {
			s.Unmatched++
		} else {
			s.Matched++
			if r.IsFromAlias {
				s.FromAlias++
			}
		}
		if g.NeedsReview(r) {
			s.NeedsReview++
		}
	}
	return s
}

// Review returns the indices of the results that need a person to look at
// them.
func (g Gate) Review(results []MatchResult) []int {
	var out []int
	for i, r := range results {
		if g.NeedsReview(r) {
			out = append(out, i)
		}
	}
	return out
}

// CheckUnique reports an error if two results claim the same member.
func CheckUnique(results []MatchResult) error {
	seen := make(map[string]int, len(results))
	for i, r := range results {
		if r.MatchedMember == nil {
			continue
		}
		if prev, dup := seen[r.MatchedMember.ID]; dup {
			return fmt.Errorf(
				"member %q matched by both %q (row %d) and %q (row %d)",
				r.MatchedMember.ID, results[prev].ExtractedName, prev, r.ExtractedName, i,
			)
		}
		seen[r.MatchedMember.ID] = i
	}
	return nil
}
