// Package report renders stage results as console tables.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/stattler/dataloom/internal/impute"
	"github.com/stattler/dataloom/internal/pca"
	"github.com/stattler/dataloom/internal/stats"
)

// Summary prints one column's descriptive statistics.
func Summary(w io.Writer, s stats.Summary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Stat", s.Column})
	table.Append([]string{"count", strconv.Itoa(s.Count)})
	table.Append([]string{"missing", strconv.Itoa(s.Missing)})
	table.Append([]string{"mean", fmtFloat(s.Mean)})
	table.Append([]string{"std", fmtFloat(s.Std)})
	table.Append([]string{"min", fmtFloat(s.Min)})
	table.Append([]string{"25%", fmtFloat(s.Q25)})
	table.Append([]string{"50%", fmtFloat(s.Median)})
	table.Append([]string{"75%", fmtFloat(s.Q75)})
	table.Append([]string{"max", fmtFloat(s.Max)})
	table.Render()
}

// Predictors prints the ranked correlations against the target.
func Predictors(w io.Writer, target string, preds []stats.Predictor) {
	if len(preds) == 0 {
		fmt.Fprintln(w, "(no predictors above threshold)")
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Predictor", "r vs " + target})
	for _, p := range preds {
		table.Append([]string{p.Name, fmt.Sprintf("%.3f", p.R)})
	}
	table.Render()
}

// Contributions prints the PCA variable ranking.
func Contributions(w io.Writer, ranked []pca.RankedVar) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Variable", "PC1", "PC2", "Combined"})
	for _, v := range ranked {
		table.Append([]string{
			v.Name,
			fmt.Sprintf("%.1f%%", v.PC1*100),
			fmt.Sprintf("%.1f%%", v.PC2*100),
			fmt.Sprintf("%.1f%%", v.Score*100),
		})
	}
	table.Render()
}

// ImputeResult prints per-column fill counts.
func ImputeResult(w io.Writer, res impute.Result) {
	cols := make([]string, 0, len(res.Filled))
	for c := range res.Filled {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Filled", "Group Fallbacks"})
	for _, c := range cols {
		table.Append([]string{
			c,
			strconv.Itoa(res.Filled[c]),
			strconv.Itoa(res.GroupFallbacks[c]),
		})
	}
	table.Render()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
