package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"churchledger-backend/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestReconcileEmptyInputs(t *testing.T) {
	require.Empty(t, Reconcile(nil, testRoster, ghanaian()))
	require.Empty(t, Reconcile([]ExtractedName{}, testRoster, ghanaian()))

	extracted := []ExtractedName{
		{Name: "Mensah Kofi", Position: 1},
		{Name: "Owusu Ama", Position: 2},
	}
	results := Reconcile(extracted, nil, ghanaian())
	require.Len(t, results, 2)
	for i, r := range results {
		require.Nil(t, r.MatchedMember)
		require.Equal(t, 0.0, r.Confidence)
		require.Equal(t, extracted[i].Name, r.ExtractedName)
		require.Equal(t, extracted[i].Position, r.Position)
	}
}

func TestReconcileExactName(t *testing.T) {
	for _, opts := range []Options{{}, ghanaian()} {
		results := Reconcile(
			[]ExtractedName{{Name: "Mensah Kofi Agyeman", Position: 1}},
			testRoster,
			opts,
		)
		require.Len(t, results, 1)
		require.Equal(t, "TAC001", matchedID(results[0]))
		require.Greater(t, results[0].Confidence, 0.8)
		require.False(t, results[0].IsFromAlias)
	}
}

func TestReconcileTypo(t *testing.T) {
	for _, opts := range []Options{{}, ghanaian()} {
		results := Reconcile(
			[]ExtractedName{{Name: "Mensaa Kofi", Position: 1}},
			testRoster,
			opts,
		)
		require.Equal(t, "TAC001", matchedID(results[0]))
	}
}

func TestReconcileNoMatch(t *testing.T) {
	results := Reconcile(
		[]ExtractedName{{Name: "Elizabeth Windsor", Position: 1}},
		testRoster,
		ghanaian(),
	)
	require.Nil(t, results[0].MatchedMember)
	require.Less(t, results[0].Confidence, 0.5)
	require.Empty(t, results[0].Alternatives)
}

func TestReconcileGlobalOptimality(t *testing.T) {
	roster := []Member{
		{ID: "J1", Surname: "Doe", FirstName: "John"},
		{ID: "J2", Surname: "Doe", FirstName: "Jon"},
	}
	// both names are closest to J1, "John Doe" is the better fit for it
	extracted := []ExtractedName{
		{Name: "Johnn Doe", Position: 1},
		{Name: "John Doe", Position: 2},
	}

	scorer := NewScorer(nil, nil)
	for _, e := range extracted {
		require.Greater(t, scorer.Score(e.Name, 0, roster[0]), scorer.Score(e.Name, 0, roster[1]))
	}

	results := Reconcile(extracted, roster, Options{})
	require.Equal(t, "J2", matchedID(results[0]))
	require.Equal(t, "J1", matchedID(results[1]))
	require.NoError(t, CheckUnique(results))
}

func TestReconcileAliasPrecedence(t *testing.T) {
	opts := ghanaian()
	opts.Aliases = AliasMap{"mensah kofi agyeman": "TAC002"}

	results := Reconcile(
		[]ExtractedName{
			{Name: "  Mensah  Kofi Agyeman ", Position: 1},
			{Name: "Owusu Ama", Position: 2},
		},
		testRoster,
		opts,
	)

	require.Equal(t, "TAC002", matchedID(results[0]))
	require.Equal(t, AliasConfidence, results[0].Confidence)
	require.True(t, results[0].IsFromAlias)
	require.Empty(t, results[0].Alternatives)

	// TAC002 is taken by the alias, the solver may not hand it out again
	require.NotEqual(t, "TAC002", matchedID(results[1]))
	require.False(t, results[1].IsFromAlias)
	for _, alt := range results[1].Alternatives {
		require.NotEqual(t, "TAC002", alt.Member.ID)
	}
	require.NoError(t, CheckUnique(results))
}

func TestReconcileAliasMissingMember(t *testing.T) {
	opts := ghanaian()
	opts.Aliases = AliasMap{"mensah kofi agyeman": "TAC999"}

	results := Reconcile(
		[]ExtractedName{{Name: "Mensah Kofi Agyeman", Position: 1}},
		testRoster,
		opts,
	)
	require.Equal(t, "TAC001", matchedID(results[0]))
	require.False(t, results[0].IsFromAlias)
	require.Less(t, results[0].Confidence, AliasConfidence)
}

func TestReconcileAliasCaseInsensitiveID(t *testing.T) {
	opts := ghanaian()
	opts.Aliases = AliasMap{"k. asante": "tac003"}

	results := Reconcile([]ExtractedName{{Name: "K. Asante", Position: 3}}, testRoster, opts)
	require.Equal(t, "TAC003", matchedID(results[0]))
	require.True(t, results[0].IsFromAlias)
}

func TestReconcileTwoAliasesSameMember(t *testing.T) {
	opts := ghanaian()
	opts.Aliases = AliasMap{
		"mensah k.":  "TAC001",
		"mensah kof": "TAC001",
	}

	results := Reconcile(
		[]ExtractedName{
			{Name: "Mensah K.", Position: 1},
			{Name: "Mensah Kof", Position: 2},
		},
		testRoster,
		opts,
	)
	require.Equal(t, "TAC001", matchedID(results[0]))
	require.True(t, results[0].IsFromAlias)
	require.NotEqual(t, "TAC001", matchedID(results[1]))
	require.False(t, results[1].IsFromAlias)
	require.NoError(t, CheckUnique(results))
}

func TestReconcileAlternatives(t *testing.T) {
	roster := append([]Member{}, testRoster...)
	roster = append(roster, Member{ID: "TAC004", Surname: "Mensah", FirstName: "Kofi"})

	results := Reconcile([]ExtractedName{{Name: "Mensah Kofi", Position: 1}}, roster, ghanaian())
	// both TAC001 and TAC004 score the same, roster order breaks the tie
	require.Equal(t, "TAC001", matchedID(results[0]))
	require.NotEmpty(t, results[0].Alternatives)
	require.Equal(t, "TAC004", results[0].Alternatives[0].Member.ID)

	for _, alt := range results[0].Alternatives {
		require.NotEqual(t, "TAC001", alt.Member.ID)
		require.GreaterOrEqual(t, alt.Score, AlternativeThreshold)
	}
}

func TestReconcileAlternativesBounded(t *testing.T) {
	var roster []Member
	for i := 0; i < 8; i++ {
		roster = append(roster, Member{
			ID:        fmt.Sprintf("M%d", i),
			Surname:   "Mensah",
			FirstName: "Kofi",
		})
	}

	results := Reconcile([]ExtractedName{{Name: "Mensah Kofi", Position: 1}}, roster, ghanaian())
	require.Len(t, results[0].Alternatives, MaxAlternatives)
	for i := 1; i < len(results[0].Alternatives); i++ {
		require.GreaterOrEqual(t, results[0].Alternatives[i-1].Score, results[0].Alternatives[i].Score)
	}
}

func TestReconcileAcceptThreshold(t *testing.T) {
	extracted := []ExtractedName{{Name: "Mensaa Kofi", Position: 1}}

	strict := ghanaian()
	strict.AcceptThreshold = 0.99
	results := Reconcile(extracted, testRoster, strict)
	require.Nil(t, results[0].MatchedMember)
	require.Equal(t, 0.0, results[0].Confidence)
	// the rejected candidate is still visible for diagnostics
	require.NotEmpty(t, results[0].Alternatives)
	require.Equal(t, "TAC001", results[0].Alternatives[0].Member.ID)
}

func TestReconcileRectangular(t *testing.T) {
	extracted := []ExtractedName{
		{Name: "Mensah Kofi", Position: 1},
		{Name: "Owusu Ama", Position: 2},
		{Name: "Asante Kwame", Position: 3},
		{Name: "Owusu Amma", Position: 4},
		{Name: "Kwame Asante N.", Position: 5},
	}
	results := Reconcile(extracted, testRoster, ghanaian())
	require.Len(t, results, len(extracted))
	require.NoError(t, CheckUnique(results))

	matched := 0
	for _, r := range results {
		if r.MatchedMember != nil {
			matched++
		}
	}
	require.LessOrEqual(t, matched, len(testRoster))
	require.Equal(t, "TAC001", matchedID(results[0]))
}

func TestReconcileAttributesPassThrough(t *testing.T) {
	roster := []Member{{
		ID:         "TAC020",
		Surname:    "Tetteh",
		FirstName:  "Esi",
		Attributes: map[string]string{"phone": "0244000000", "group": "choir"},
	}}
	results := Reconcile([]ExtractedName{{Name: "Tetteh Esi", Position: 1}}, roster, ghanaian())
	require.NotNil(t, results[0].MatchedMember)
	diff := cmp.Diff(roster[0], *results[0].MatchedMember)
	if diff != "" {
		t.Fatal(diff)
	}
}

func randomRoster(rndm *rand.Rand, n int) []Member {
	roster := make([]Member, n)
	for i := range roster {
		roster[i] = Member{
			ID:            fmt.Sprintf("R%03d", i),
			Surname:       testutil.RandomString(rndm, 4+rndm.Intn(5)),
			FirstName:     testutil.RandomString(rndm, 3+rndm.Intn(5)),
			KnownPosition: i + 1,
		}
	}
	return roster
}

func randomExtracted(rndm *rand.Rand, roster []Member, n int) []ExtractedName {
	pick := testutil.RandomSwitch(5, 3, 2)
	extracted := make([]ExtractedName, n)
	for i := range extracted {
		m := roster[rndm.Intn(len(roster))]
		var name string
		switch pick(rndm) {
		case 0:
			name = m.Surname + " " + m.FirstName
		case 1:
			name = testutil.Misspell(rndm, m.FirstName) + " " + testutil.Misspell(rndm, m.Surname)
		default:
			name = testutil.RandomString(rndm, 9)
		}
		extracted[i] = ExtractedName{Name: name, Position: i + 1}
	}
	return extracted
}

func TestReconcileUniquenessRandomized(t *testing.T) {
	rndm := rand.New(rand.NewSource(7))

	for iter := 0; iter < 40; iter++ {
		roster := randomRoster(rndm, 1+rndm.Intn(15))
		extracted := randomExtracted(rndm, roster, 1+rndm.Intn(20))

		opts := ghanaian()
		if iter%2 == 0 {
			opts = Options{}
		}
		opts.Aliases = AliasMap{
			NormalizeAlias(extracted[0].Name): roster[0].ID,
		}

		results := Reconcile(extracted, roster, opts)
		require.Len(t, results, len(extracted))
		require.NoError(t, CheckUnique(results))
		require.Equal(t, roster[0].ID, matchedID(results[0]))

		for _, r := range results {
			require.GreaterOrEqual(t, r.Confidence, 0.0)
			require.LessOrEqual(t, r.Confidence, 1.0)
			require.LessOrEqual(t, len(r.Alternatives), MaxAlternatives)
			if r.MatchedMember != nil && !r.IsFromAlias {
				require.GreaterOrEqual(t, r.Confidence, DefaultAcceptThreshold)
			}
		}
	}
}

func TestReconcileDeterministic(t *testing.T) {
	rndm := rand.New(rand.NewSource(11))
	roster := randomRoster(rndm, 25)
	extracted := randomExtracted(rndm, roster, 30)

	opts := ghanaian()
	opts.Positions = PositionMap{"r003": 2, "r010": 11}

	first := Reconcile(extracted, roster, opts)
	second := Reconcile(extracted, roster, opts)
	diff := cmp.Diff(first, second)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestReconcileParallelMatchesSequential(t *testing.T) {
	rndm := rand.New(rand.NewSource(3))
	roster := randomRoster(rndm, 70)
	extracted := randomExtracted(rndm, roster, 70)

	sequential := ghanaian()
	sequential.Parallelism = 1
	parallel := ghanaian()
	parallel.Parallelism = 4

	diff := cmp.Diff(
		Reconcile(extracted, roster, sequential),
		Reconcile(extracted, roster, parallel),
	)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestFindBestMatch(t *testing.T) {
	best, ok := FindBestMatch("Asante Kwame", testRoster, ghanaian())
	require.True(t, ok)
	require.Equal(t, "TAC003", best.Member.ID)

	_, ok = FindBestMatch("Elizabeth Windsor", testRoster, ghanaian())
	require.False(t, ok)

	_, ok = FindBestMatch("Asante Kwame", nil, ghanaian())
	require.False(t, ok)
}

func TestSearch(t *testing.T) {
	ranked := Search("owusu", testRoster, ghanaian(), 2)
	require.Len(t, ranked, 2)
	require.Equal(t, "TAC002", ranked[0].Member.ID)
	require.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)

	require.Len(t, Search("owusu", testRoster, ghanaian(), 0), len(testRoster))
}
