package reconcile

import "math"

// Unassigned marks a row the solver left without a column.
const Unassigned = -1

// SolveAssignment finds the one-to-one row to column assignment that
// maximizes the summed score. The matrix may be rectangular, missing cells
// are treated as zero-score options. The result has one entry per row,
// either a column index or Unassigned.
//
// This is the O(n^3) shortest augmenting path form of the Hungarian
// algorithm, run on costs (maxScore - score) over the padded square matrix.
func SolveAssignment(scores [][]float64) []int {
	rows := len(scores)
	if rows == 0 {
		return []int{}
	}
	cols := 0
	for _, row := range scores {
		cols = max(cols, len(row))
	}
	result := make([]int, rows)
	for i := range result {
		result[i] = Unassigned
	}
	if cols == 0 {
		return result
	}

	n := max(rows, cols)
	maxScore := 0.0
	for _, row := range scores {
		for _, v := range row {
			maxScore = max(maxScore, v)
		}
	}
	cost := func(i, j int) float64 {
		if i >= rows || j >= len(scores[i]) {
			return maxScore
		}
		return maxScore - scores[i][j]
	}

	// 1-indexed potentials, p[j] is the row matched to column j, 0 = free.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	for j := 1; j <= n; j++ {
		i := p[j] - 1
		col := j - 1
		if i < 0 || i >= rows || col >= len(scores[i]) {
			continue
		}
		result[i] = col
	}
	return result
}
