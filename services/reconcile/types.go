package reconcile

import "strings"

// ExtractedName is a single name read off a ledger page. Position is the
// 1-based row the name was found on, zero or negative means unknown.
type ExtractedName struct {
	Name     string `json:"name"`
	Position int    `json:"position"`
}

// Member is a read-only roster record. Attributes carries any extra fields
// the roster owner keeps, they are passed through untouched.
type Member struct {
	ID            string            `json:"id"`
	Surname       string            `json:"surname"`
	FirstName     string            `json:"first_name"`
	OtherNames    string            `json:"other_names,omitempty"`
	KnownPosition int               `json:"known_position,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
}

// DisplayName renders the member as "Surname First Other".
func (m Member) DisplayName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{m.Surname, m.FirstName, m.OtherNames} {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type ScoredCandidate struct {
	Member Member  `json:"member"`
	Score  float64 `json:"score"`
}

// MatchResult is the outcome for one extracted name. MatchedMember is nil
// when nothing cleared the acceptance threshold.
type MatchResult struct {
	ExtractedName string            `json:"extracted_name"`
	Position      int               `json:"position"`
	MatchedMember *Member           `json:"matched_member"`
	Confidence    float64           `json:"confidence"`
	Alternatives  []ScoredCandidate `json:"alternatives"`
	IsFromAlias   bool              `json:"is_from_alias"`
}

// Override replaces the match with a member picked by a person, the result
// becomes fully confident.
func Override(result MatchResult, member Member) MatchResult {
	chosen := member
	result.MatchedMember = &chosen
	result.Confidence = 1
	result.IsFromAlias = false

	alternatives := make([]ScoredCandidate, 0, len(result.Alternatives))
	for _, alt := range result.Alternatives {
		if alt.Member.ID == member.ID {
			continue
		}
		alternatives = append(alternatives, alt)
	}
	result.Alternatives = alternatives
	return result
}
