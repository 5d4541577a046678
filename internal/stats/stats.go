// Package stats implements the descriptive-analysis stage: per-column summary
// statistics, a pairwise-complete Pearson correlation matrix over numeric
// columns, and ranking of predictors by absolute correlation with the target.
package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/stattler/dataloom/internal/dataset"
)

// Summary captures descriptive statistics of one numeric column.
type Summary struct {
	Column  string
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	Q25     float64
	Median  float64
	Q75     float64
	Max     float64
}

// Summarize computes a Summary over the non-missing values of col.
func Summarize(t *dataset.Table, col string) (Summary, error) {
	vals, err := t.Floats(col)
	if err != nil {
		return Summary{}, err
	}
	var clean []float64
	missing := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			missing++
			continue
		}
		clean = append(clean, v)
	}
	s := Summary{Column: col, Count: len(clean), Missing: missing}
	if len(clean) == 0 {
		return s, fmt.Errorf("column %q has no numeric values", col)
	}
	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)
	s.Mean = stat.Mean(clean, nil)
	if len(clean) > 1 {
		s.Std = stat.StdDev(clean, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q75 = quantile(sorted, 0.75)
	return s, nil
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric
// columns. Entries for pairs without at least two complete observations, or
// with a zero-variance side, are NaN.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// At returns the correlation between named columns a and b.
func (m *CorrMatrix) At(a, b string) (float64, error) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return 0, fmt.Errorf("columns %q/%q not in matrix", a, b)
	}
	return m.Values[ia][ib], nil
}

// Correlations computes the pairwise-complete correlation matrix over cols.
// For each pair only rows where both values are non-missing contribute; rows
// are never dropped globally.
func Correlations(t *dataset.Table, cols []string) (*CorrMatrix, error) {
	if len(cols) == 0 {
		cols = t.NumericColumns()
	}
	data := make([][]float64, len(cols))
	for i, c := range cols {
		vals, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		data[i] = vals
	}

	n := len(cols)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		if varianceComplete(data[i]) > 0 {
			values[i][i] = 1.0
		} else {
			values[i][i] = math.NaN()
		}
		for j := i + 1; j < n; j++ {
			r := pairwiseCorrelation(data[i], data[j])
			values[i][j] = r
			values[j][i] = r
		}
	}
	return &CorrMatrix{Columns: cols, Values: values}, nil
}

// Predictor is one ranked correlation against the target column.
type Predictor struct {
	Name string
	R    float64
}

// RankByTarget lists predictors whose |r| against target exceeds threshold,
// sorted by |r| descending. The target itself is excluded.
func RankByTarget(m *CorrMatrix, target string, threshold float64) ([]Predictor, error) {
	ti := -1
	for i, c := range m.Columns {
		if c == target {
			ti = i
		}
	}
	if ti < 0 {
		return nil, fmt.Errorf("target %q not in correlation matrix", target)
	}
	var out []Predictor
	for i, c := range m.Columns {
		if i == ti {
			continue
		}
		r := m.Values[ti][i]
		if math.IsNaN(r) || math.Abs(r) <= threshold {
			continue
		}
		out = append(out, Predictor{Name: c, R: r})
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := math.Abs(out[i].R), math.Abs(out[j].R)
		if ai == aj {
			return out[i].Name < out[j].Name
		}
		return ai > aj
	})
	return out, nil
}

func pairwiseCorrelation(a, b []float64) float64 {
	var x, y []float64
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) {
			continue
		}
		x = append(x, a[i])
		y = append(y, b[i])
	}
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

func varianceComplete(vals []float64) float64 {
	var clean []float64
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) < 2 {
		return 0
	}
	return stat.Variance(clean, nil)
}

// quantile interpolates linearly between order statistics; sorted must be
// ascending and non-empty.
func quantile(sorted []float64, q float64) float64 {
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Median returns the interpolated median of vals, ignoring NaN entries.
// It is shared with the imputation stage.
func Median(vals []float64) (float64, bool) {
	var clean []float64
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0, false
	}
	sort.Float64s(clean)
	return quantile(clean, 0.5), true
}
