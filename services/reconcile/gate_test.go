package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	member := testRoster[0]
	results := []MatchResult{
		{ExtractedName: "a", MatchedMember: &member, Confidence: AliasConfidence, IsFromAlias: true},
		{ExtractedName: "b", MatchedMember: &testRoster[1], Confidence: 0.55},
		{ExtractedName: "c", MatchedMember: &testRoster[2], Confidence: 0.8},
		{ExtractedName: "d"},
	}

	gate := NewGate(DefaultReviewThreshold)
	require.False(t, gate.NeedsReview(results[0]))
	require.True(t, gate.NeedsReview(results[1]))
	require.False(t, gate.NeedsReview(results[2]))
	require.True(t, gate.NeedsReview(results[3]))

	diff := cmp.Diff([]int{1, 3}, gate.Review(results))
	if diff != "" {
		t.Fatal(diff)
	}

	diff = cmp.Diff(Summary{
		Total:       4,
		Matched:     3,
		FromAlias:   1,
		Unmatched:   1,
		NeedsReview: 2,
	}, gate.Summarize(results))
	if diff != "" {
		t.Fatal(diff)
	}

	loose := NewGate(0.5)
	require.False(t, loose.NeedsReview(results[1]))
	require.Equal(t, 1.0, NewGate(7).ReviewThreshold)
	require.Equal(t, 0.0, NewGate(-1).ReviewThreshold)
}

func TestCheckUnique(t *testing.T) {
	a := testRoster[0]
	b := testRoster[1]

	require.NoError(t, CheckUnique(nil))
	require.NoError(t, CheckUnique([]MatchResult{
		{ExtractedName: "x", MatchedMember: &a},
		{ExtractedName: "y"},
		{ExtractedName: "z", MatchedMember: &b},
	}))
	require.Error(t, CheckUnique([]MatchResult{
		{ExtractedName: "x", MatchedMember: &a},
		{ExtractedName: "y", MatchedMember: &a},
	}))
}

func TestOverride(t *testing.T) {
	result := MatchResult{
		ExtractedName: "Owusu Amma",
		Position:      2,
		Confidence:    0.52,
		Alternatives: []ScoredCandidate{
			{Member: testRoster[1], Score: 0.52},
			{Member: testRoster[2], Score: 0.41},
		},
	}

	overridden := Override(result, testRoster[1])
	require.Equal(t, "TAC002", matchedID(overridden))
	require.Equal(t, 1.0, overridden.Confidence)
	require.False(t, overridden.IsFromAlias)
	require.Len(t, overridden.Alternatives, 1)
	require.Equal(t, "TAC003", overridden.Alternatives[0].Member.ID)

	// the input is left alone
	require.Nil(t, result.MatchedMember)
	require.Len(t, result.Alternatives, 2)
}

func TestMemberDisplayName(t *testing.T) {
	require.Equal(t, "Mensah Kofi Agyeman", testRoster[0].DisplayName())
	require.Equal(t, "Owusu Ama", testRoster[1].DisplayName())
	require.Equal(t, "", Member{ID: "x"}.DisplayName())
}
