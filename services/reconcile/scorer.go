package reconcile

import (
	"math"
	"strings"

	"churchledger-backend/lib/textutil"
)

// Weights combine the individual signals into one score. Every signal is
// in [0, 1] before weighting.
type Weights struct {
	Levenshtein    float64 `json:"levenshtein"`
	Token          float64 `json:"token"`
	CultureToken   float64 `json:"culture_token"`
	Position       float64 `json:"position"`
	SurnameVariant float64 `json:"surname_variant"`
}

var (
	// SimpleWeights are used for generic rosters.
	SimpleWeights = Weights{
		Levenshtein: 0.55,
		Token:       0.35,
		Position:    0.10,
	}
	// EnrichedWeights are used when a culture Normalizer is configured.
	EnrichedWeights = Weights{
		Levenshtein:    0.40,
		Token:          0.25,
		CultureToken:   0.20,
		Position:       0.10,
		SurnameVariant: 0.05,
	}
)

// Breakdown is the per-signal view of a score.
type Breakdown struct {
	Levenshtein    float64 `json:"levenshtein"`
	Token          float64 `json:"token"`
	CultureToken   float64 `json:"culture_token"`
	Position       float64 `json:"position"`
	SurnameVariant float64 `json:"surname_variant"`
	Total          float64 `json:"total"`
}

// Scorer rates how well an extracted name fits a roster member. It holds no
// mutable state, the same inputs always produce the same score.
type Scorer struct {
	culture   Normalizer
	positions PositionMap
	weights   Weights
}

func NewScorer(culture Normalizer, positions PositionMap) Scorer {
	weights := SimpleWeights
	if culture != nil {
		weights = EnrichedWeights
	}
	return Scorer{
		culture:   culture,
		positions: positions,
		weights:   weights,
	}
}

func (s Scorer) Weights() Weights {
	return s.weights
}

type preparedName struct {
	text     string
	position int
	tokens   []string
}

type preparedMember struct {
	member     Member
	renderings []string
	surnames   []string
	known      int
}

func (s Scorer) prepareName(name string, position int) preparedName {
	text := textutil.NormalizeFolded(CleanOCRName(name))
	if text == "" {
		text = textutil.NormalizeFolded(name)
	}
	p := preparedName{text: text, position: position}
	if s.culture != nil {
		p.tokens = s.culture.Tokenize(text)
	}
	return p
}

func (s Scorer) prepareMember(m Member) preparedMember {
	surname := textutil.NormalizeFolded(m.Surname)
	first := textutil.NormalizeFolded(m.FirstName)
	other := textutil.NormalizeFolded(m.OtherNames)

	candidates := []string{
		join(surname, first),
		join(first, surname),
		join(surname, first, other),
		join(first, other, surname),
	}
	seen := make(map[string]struct{}, len(candidates))
	renderings := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		renderings = append(renderings, c)
	}

	return preparedMember{
		member:     m,
		renderings: renderings,
		surnames: strings.FieldsFunc(surname, func(r rune) bool {
			return r == ' ' || r == '-'
		}),
		known: s.positions.Of(m),
	}
}

func join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

func (s Scorer) explain(name preparedName, m preparedMember) Breakdown {
	var b Breakdown
	for _, r := range m.renderings {
		b.Levenshtein = max(b.Levenshtein, Similarity(name.text, r))
		b.Token = max(b.Token, TokenSimilarity(name.text, r))
		if s.culture != nil {
			b.CultureToken = max(b.CultureToken, s.culture.TokenSimilarity(name.text, r))
		}
	}

	b.Position = PositionBoost(name.position, m.known) / maxPositionBoost

	if s.culture != nil && s.hasSurnameVariant(name.tokens, m.surnames) {
		b.SurnameVariant = 1
	}

	total := s.weights.Levenshtein*b.Levenshtein +
		s.weights.Token*b.Token +
		s.weights.CultureToken*b.CultureToken +
		s.weights.Position*b.Position +
		s.weights.SurnameVariant*b.SurnameVariant
	b.Total = clamp01(total)
	return b
}

func (s Scorer) hasSurnameVariant(tokens, surnames []string) bool {
	for _, tok := range tokens {
		for _, surname := range surnames {
			if s.culture.AreSurnameVariants(tok, surname) {
				return true
			}
		}
	}
	return false
}

// Explain scores name against m and returns every signal that went into it.
// position is the row the name was read from, zero when unknown.
func (s Scorer) Explain(name string, position int, m Member) Breakdown {
	return s.explain(s.prepareName(name, position), s.prepareMember(m))
}

// Score is Explain(...).Total.
func (s Scorer) Score(name string, position int, m Member) float64 {
	return s.Explain(name, position, m).Total
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
