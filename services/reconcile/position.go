package reconcile

import "strings"

// position boost table
const (
	exactPositionBoost = 0.15
	nearPositionBoost  = 0.08
	farPositionBoost   = 0.03

	maxPositionBoost = exactPositionBoost
)

// PositionMap maps a lower-cased member id to the row that member is
// expected on.
type PositionMap map[string]int

// Of returns the expected position of the member, falling back to the
// member's own KnownPosition. Zero means unknown.
func (p PositionMap) Of(m Member) int {
	if pos, ok := p[strings.ToLower(m.ID)]; ok && pos > 0 {
		return pos
	}
	if m.KnownPosition > 0 {
		return m.KnownPosition
	}
	return 0
}

// PositionBoost rewards an extracted row that sits where the member is
// expected. Unknown or non-positive positions give no boost.
func PositionBoost(extracted, known int) float64 {
	if extracted <= 0 || known <= 0 {
		return 0
	}
	diff := extracted - known
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return exactPositionBoost
	case diff <= 2:
		return nearPositionBoost
	case diff <= 5:
		return farPositionBoost
	}
	return 0
}
