// Package pca ranks numeric predictors by their contribution to the leading
// principal components. The ranking is exploratory output: it informs feature
// choice, it does not drive it.
package pca

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/stattler/dataloom/internal/dataset"
)

// Result is the outcome of one PCA over standardized numeric features.
type Result struct {
	// Columns are the analyzed variables, in input order.
	Columns []string
	// Variances holds the variance of each principal component, descending.
	Variances []float64
	// Contributions[v][k] is the fraction of component k's direction
	// attributable to variable v; each component's contributions sum to 1.
	Contributions [][]float64
	// Rows is the number of complete-case rows used.
	Rows int
	// Dropped is the number of rows excluded for missing values.
	Dropped int
}

// Analyze standardizes the given columns over complete-case rows and runs a
// principal component analysis.
func Analyze(t *dataset.Table, cols []string) (*Result, error) {
	if len(cols) < 2 {
		return nil, fmt.Errorf("pca needs at least two columns, got %d", len(cols))
	}
	data := make([][]float64, len(cols))
	for i, c := range cols {
		vals, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		data[i] = vals
	}

	// Complete cases only: a row with any missing value is excluded.
	var rows []int
	for r := 0; r < t.NumRows(); r++ {
		ok := true
		for _, col := range data {
			if math.IsNaN(col[r]) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, r)
		}
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("pca needs at least two complete rows, got %d", len(rows))
	}

	m := mat.NewDense(len(rows), len(cols), nil)
	for j, col := range data {
		var clean []float64
		for _, r := range rows {
			clean = append(clean, col[r])
		}
		mean := stat.Mean(clean, nil)
		std := stat.StdDev(clean, nil)
		if std == 0 {
			return nil, fmt.Errorf("column %q has zero variance", cols[j])
		}
		for i, v := range clean {
			m.Set(i, j, (v-mean)/std)
		}
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(m, nil); !ok {
		return nil, fmt.Errorf("principal components failed to converge")
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	vars := pc.VarsTo(nil)

	_, k := vecs.Dims()
	contrib := make([][]float64, len(cols))
	for v := range cols {
		contrib[v] = make([]float64, k)
	}
	for c := 0; c < k; c++ {
		total := 0.0
		for v := range cols {
			l := vecs.At(v, c)
			total += l * l
		}
		for v := range cols {
			l := vecs.At(v, c)
			if total > 0 {
				contrib[v][c] = l * l / total
			}
		}
	}

	return &Result{
		Columns:       cols,
		Variances:     vars,
		Contributions: contrib,
		Rows:          len(rows),
		Dropped:       t.NumRows() - len(rows),
	}, nil
}

// RankedVar is one variable with its combined PC1+PC2 contribution score.
type RankedVar struct {
	Name  string
	PC1   float64
	PC2   float64
	Score float64
}

// Rank orders variables by their variance-weighted combined contribution to
// the first two components.
func (r *Result) Rank() []RankedVar {
	out := make([]RankedVar, 0, len(r.Columns))
	for v, name := range r.Columns {
		rv := RankedVar{Name: name, PC1: r.Contributions[v][0]}
		if len(r.Variances) > 1 {
			rv.PC2 = r.Contributions[v][1]
			rv.Score = (r.Variances[0]*rv.PC1 + r.Variances[1]*rv.PC2) /
				(r.Variances[0] + r.Variances[1])
		} else {
			rv.Score = rv.PC1
		}
		out = append(out, rv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score == out[j].Score {
			return out[i].Name < out[j].Name
		}
		return out[i].Score > out[j].Score
	})
	return out
}

// TopColumns returns the names of the n best-ranked variables.
func TopColumns(ranked []RankedVar, n int) []string {
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[i].Name
	}
	return out
}
