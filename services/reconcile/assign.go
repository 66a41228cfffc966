package reconcile

import (
	"runtime"
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultAcceptThreshold is the lowest score an assignment needs to be
	// reported as a match.
	DefaultAcceptThreshold = 0.5
	// AlternativeThreshold is the lowest score a runner-up needs to be
	// listed as an alternative.
	AlternativeThreshold = 0.4
	// MaxAlternatives bounds the alternatives listed per result.
	MaxAlternatives = 3

	// score matrices with at least this many cells are built concurrently
	parallelCells = 4096
)

// Options toggles the optional capabilities of Reconcile. The zero value is
// generic matching with no aliases and no positional prior.
type Options struct {
	Aliases   AliasMap
	Positions PositionMap
	// Culture enables culture specific normalization and the enriched
	// weighting scheme.
	Culture Normalizer
	// AcceptThreshold defaults to DefaultAcceptThreshold when <= 0.
	AcceptThreshold float64
	// Parallelism caps the goroutines used to build large score matrices,
	// 0 uses GOMAXPROCS and 1 forces a sequential build.
	Parallelism int
}

func (o Options) acceptThreshold() float64 {
	if o.AcceptThreshold <= 0 {
		return DefaultAcceptThreshold
	}
	return min(o.AcceptThreshold, 1)
}

func (o Options) parallelism() int {
	if o.Parallelism <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Parallelism
}

// Reconcile maps every extracted name to at most one roster member such
// that no member is claimed twice. Results are returned in input order.
//
// Alias confirmed names are settled first and removed from the pool, the
// remaining names and members are scored against each other and assigned
// by SolveAssignment.
func Reconcile(extracted []ExtractedName, roster []Member, opts Options) []MatchResult {
	results := make([]MatchResult, len(extracted))
	if len(extracted) == 0 {
		return results
	}
	for i, e := range extracted {
		results[i] = MatchResult{
			ExtractedName: e.Name,
			Position:      e.Position,
		}
	}
	if len(roster) == 0 {
		return results
	}

	claimed := make([]bool, len(roster))
	settled := make([]bool, len(extracted))
	applyAliases(extracted, roster, opts.Aliases, results, claimed, settled)

	var pendingRows []int
	for i := range extracted {
		if !settled[i] {
			pendingRows = append(pendingRows, i)
		}
	}
	var poolCols []int
	for j := range roster {
		if !claimed[j] {
			poolCols = append(poolCols, j)
		}
	}
	if len(pendingRows) == 0 || len(poolCols) == 0 {
		return results
	}

	scorer := NewScorer(opts.Culture, opts.Positions)
	matrix := buildMatrix(scorer, extracted, roster, pendingRows, poolCols, opts.parallelism())

	var assignment []int
	if len(pendingRows) == 1 || len(poolCols) == 1 {
		assignment = assignDegenerate(matrix)
	} else {
		assignment = SolveAssignment(matrix)
	}

	threshold := opts.acceptThreshold()
	for r, row := range pendingRows {
		chosen := Unassigned
		if c := assignment[r]; c != Unassigned && matrix[r][c] >= threshold {
			chosen = c
			member := roster[poolCols[c]]
			results[row].MatchedMember = &member
			results[row].Confidence = matrix[r][c]
		}
		results[row].Alternatives = alternatives(matrix[r], poolCols, roster, chosen)
	}

	return results
}

func applyAliases(extracted []ExtractedName, roster []Member, aliases AliasMap, results []MatchResult, claimed, settled []bool) {
	if len(aliases) == 0 {
		return
	}
	byID := make(map[string]int, len(roster))
	for j, m := range roster {
		key := strings.ToLower(m.ID)
		if _, dup := byID[key]; !dup {
			byID[key] = j
		}
	}

	for i, e := range extracted {
		id, ok := aliases.Lookup(e.Name)
		if !ok {
			continue
		}
		j, exists := byID[strings.ToLower(id)]
		// a member already claimed by an earlier alias stays with that row,
		// this one falls through to fuzzy matching
		if !exists || claimed[j] {
			continue
		}
		member := roster[j]
		results[i].MatchedMember = &member
		results[i].Confidence = AliasConfidence
		results[i].IsFromAlias = true
		claimed[j] = true
		settled[i] = true
	}
}

func buildMatrix(scorer Scorer, extracted []ExtractedName, roster []Member, rows, cols []int, parallelism int) [][]float64 {
	members := make([]preparedMember, len(cols))
	for c, j := range cols {
		members[c] = scorer.prepareMember(roster[j])
	}

	matrix := make([][]float64, len(rows))
	fillRow := func(r int) {
		e := extracted[rows[r]]
		name := scorer.prepareName(e.Name, e.Position)
		row := make([]float64, len(cols))
		for c := range members {
			row[c] = scorer.explain(name, members[c]).Total
		}
		matrix[r] = row
	}

	if parallelism <= 1 || len(rows)*len(cols) < parallelCells {
		for r := range rows {
			fillRow(r)
		}
		return matrix
	}

	var g errgroup.Group
	g.SetLimit(parallelism)
	for r := range rows {
		r := r
		g.Go(func() error {
			fillRow(r)
			return nil
		})
	}
	_ = g.Wait()
	return matrix
}

// assignDegenerate handles a single row or a single column directly, the
// best cell is the optimal assignment.
func assignDegenerate(matrix [][]float64) []int {
	assignment := make([]int, len(matrix))
	for i := range assignment {
		assignment[i] = Unassigned
	}

	bestRow, bestCol := -1, -1
	best := -1.0
	for r, row := range matrix {
		for c, v := range row {
			if v > best {
				best = v
				bestRow, bestCol = r, c
			}
		}
	}
	if bestRow >= 0 {
		assignment[bestRow] = bestCol
	}
	return assignment
}

func alternatives(row []float64, cols []int, roster []Member, chosen int) []ScoredCandidate {
	order := make([]int, 0, len(row))
	for c, v := range row {
		if c == chosen || v < AlternativeThreshold {
			continue
		}
		order = append(order, c)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]] > row[order[b]]
	})
	if len(order) > MaxAlternatives {
		order = order[:MaxAlternatives]
	}

	out := make([]ScoredCandidate, len(order))
	for i, c := range order {
		out[i] = ScoredCandidate{
			Member: roster[cols[c]],
			Score:  row[c],
		}
	}
	return out
}

// Search ranks the roster against a single name, best first. It does not
// enforce uniqueness and is meant for ad-hoc lookups such as search as you
// type. limit <= 0 returns every member.
func Search(name string, roster []Member, opts Options, limit int) []ScoredCandidate {
	scorer := NewScorer(opts.Culture, opts.Positions)
	prepared := scorer.prepareName(name, 0)
	folded := prepared.text

	type ranked struct {
		ScoredCandidate
		tiebreak float64
	}
	all := make([]ranked, len(roster))
	for j, m := range roster {
		pm := scorer.prepareMember(m)
		tiebreak := 0.0
		if len(pm.renderings) > 0 && folded != "" {
			tiebreak = matchr.JaroWinkler(folded, pm.renderings[0], false)
		}
		all[j] = ranked{
			ScoredCandidate: ScoredCandidate{Member: m, Score: scorer.explain(prepared, pm).Total},
			tiebreak:        tiebreak,
		}
	}
	sort.SliceStable(all, func(a, b int) bool {
		if all[a].Score != all[b].Score {
			return all[a].Score > all[b].Score
		}
		return all[a].tiebreak > all[b].tiebreak
	})

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]ScoredCandidate, len(all))
	for i, r := range all {
		out[i] = r.ScoredCandidate
	}
	return out
}

// FindBestMatch greedily picks the single best member for name. ok is false
// when the roster is empty or the best score is below the accept threshold.
func FindBestMatch(name string, roster []Member, opts Options) (ScoredCandidate, bool) {
	ranked := Search(name, roster, opts, 1)
	if len(ranked) == 0 {
		return ScoredCandidate{}, false
	}
	return ranked[0], ranked[0].Score >= opts.acceptThreshold()
}
