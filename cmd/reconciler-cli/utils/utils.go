package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"churchledger-backend/lib/configutil"
	"churchledger-backend/services/reconcile"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

// ReadNames reads extracted names either from a json5 list of
// {name, position} or from a text file with one name per line, in which
// case the line number is the position.
func ReadNames(path string) ([]reconcile.ExtractedName, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		return configutil.ReadFile[[]reconcile.ExtractedName](path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []reconcile.ExtractedName
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		names = append(names, reconcile.ExtractedName{Name: name, Position: line})
	}
	return names, scanner.Err()
}

func ReadRoster(path string) ([]reconcile.Member, error) {
	return configutil.ReadFile[[]reconcile.Member](path)
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

func formatAlternatives(alts []reconcile.ScoredCandidate) string {
	parts := make([]string, len(alts))
	for i, a := range alts {
		parts[i] = fmt.Sprintf("%s (%s)", a.Member.DisplayName(), formatScore(a.Score))
	}
	return strings.Join(parts, "\n")
}

// PrintResults renders a reconciliation run, rows that need review are
// highlighted.
func PrintResults(results []reconcile.MatchResult, gate reconcile.Gate) {
	t := NewTable()
	t.AppendHeader(table.Row{"#", "Extracted", "Member", "Id", "Confidence", "Source", "Alternatives"})
	for _, r := range results {
		member, id, source := "", "", ""
		if r.MatchedMember != nil {
			member = r.MatchedMember.DisplayName()
			id = r.MatchedMember.ID
			source = "fuzzy"
			if r.IsFromAlias {
				source = "alias"
			}
		}
		confidence := formatScore(r.Confidence)
		if gate.NeedsReview(r) {
			confidence = text.FgYellow.Sprint(confidence)
		}
		t.AppendRow(table.Row{
			r.Position,
			r.ExtractedName,
			member,
			id,
			confidence,
			source,
			formatAlternatives(r.Alternatives),
		})
	}

	summary := gate.Summarize(results)
	t.AppendFooter(table.Row{
		"", fmt.Sprintf("%d names", summary.Total),
		fmt.Sprintf("%d matched", summary.Matched),
		"", fmt.Sprintf("%d to review", summary.NeedsReview),
		fmt.Sprintf("%d alias", summary.FromAlias),
		"",
	})
	t.Render()
}

func PrintCandidates(candidates []reconcile.ScoredCandidate) {
	t := NewTable()
	t.AppendHeader(table.Row{"Id", "Member", "Score"})
	for _, c := range candidates {
		t.AppendRow(table.Row{c.Member.ID, c.Member.DisplayName(), formatScore(c.Score)})
	}
	t.Render()
}
