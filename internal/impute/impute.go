// Package impute fills missing values according to an explicit per-column
// policy mapping. Policies are deliberately enumerated in configuration
// rather than inferred: the columns and strategies are a modelling decision,
// not something the tool guesses.
package impute

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/series"

	"github.com/stattler/dataloom/internal/dataset"
	"github.com/stattler/dataloom/internal/stats"
)

// SentinelValue is the literal category substituted for missing categorical
// entries.
const SentinelValue = "None"

// Strategy names a fill policy for one column.
type Strategy string

const (
	// Sentinel replaces missing entries with SentinelValue.
	Sentinel Strategy = "sentinel"
	// GroupedMedian replaces missing entries with the rounded median of
	// non-missing values sharing the row's GroupBy key. Groups with no
	// non-missing values fall back to the column's global median.
	GroupedMedian Strategy = "grouped-median"
	// GlobalMedian replaces missing entries with the rounded global median.
	GlobalMedian Strategy = "global-median"
)

// Policy binds a column to its fill strategy.
type Policy struct {
	Column   string
	Strategy Strategy
	GroupBy  string // group key column, required for GroupedMedian
}

// Result reports what Apply changed.
type Result struct {
	// Filled counts substituted entries per column.
	Filled map[string]int
	// GroupFallbacks counts rows whose group had no observed value and fell
	// back to the global median, per column.
	GroupFallbacks map[string]int
}

// Apply runs every policy in order and returns the resulting table. The input
// table is not modified.
func Apply(t *dataset.Table, policies []Policy) (*dataset.Table, Result, error) {
	res := Result{Filled: map[string]int{}, GroupFallbacks: map[string]int{}}
	cur := t
	for _, p := range policies {
		var err error
		switch p.Strategy {
		case Sentinel:
			cur, err = applySentinel(cur, p, &res)
		case GroupedMedian:
			cur, err = applyGroupedMedian(cur, p, &res)
		case GlobalMedian:
			cur, err = applyGlobalMedian(cur, p, &res)
		default:
			err = fmt.Errorf("unknown strategy %q for column %q", p.Strategy, p.Column)
		}
		if err != nil {
			return nil, Result{}, err
		}
	}
	return cur, res, nil
}

func applySentinel(t *dataset.Table, p Policy, res *Result) (*dataset.Table, error) {
	vals, err := t.Strings(p.Column)
	if err != nil {
		return nil, err
	}
	miss, err := t.Missing(p.Column)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	filled := 0
	for i, v := range vals {
		if miss[i] {
			out[i] = SentinelValue
			filled++
			continue
		}
		out[i] = v
	}
	res.Filled[p.Column] += filled
	return t.WithColumn(series.New(out, series.String, p.Column))
}

func applyGroupedMedian(t *dataset.Table, p Policy, res *Result) (*dataset.Table, error) {
	if p.GroupBy == "" {
		return nil, fmt.Errorf("grouped-median for %q requires a group key", p.Column)
	}
	vals, err := t.Floats(p.Column)
	if err != nil {
		return nil, err
	}
	miss, err := t.Missing(p.Column)
	if err != nil {
		return nil, err
	}
	keys, err := t.Strings(p.GroupBy)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]float64)
	for i, v := range vals {
		if miss[i] {
			continue
		}
		groups[keys[i]] = append(groups[keys[i]], v)
	}
	global, ok := stats.Median(vals)
	if !ok {
		return nil, fmt.Errorf("column %q has no observed values to impute from", p.Column)
	}

	out := make([]float64, len(vals))
	filled, fallbacks := 0, 0
	for i, v := range vals {
		if !miss[i] {
			out[i] = v
			continue
		}
		med, ok := stats.Median(groups[keys[i]])
		if !ok {
			med = global
			fallbacks++
		}
		out[i] = math.Round(med)
		filled++
	}
	res.Filled[p.Column] += filled
	res.GroupFallbacks[p.Column] += fallbacks
	return t.WithColumn(series.New(out, series.Float, p.Column))
}

func applyGlobalMedian(t *dataset.Table, p Policy, res *Result) (*dataset.Table, error) {
	vals, err := t.Floats(p.Column)
	if err != nil {
		return nil, err
	}
	miss, err := t.Missing(p.Column)
	if err != nil {
		return nil, err
	}
	med, ok := stats.Median(vals)
	if !ok {
		return nil, fmt.Errorf("column %q has no observed values to impute from", p.Column)
	}
	out := make([]float64, len(vals))
	filled := 0
	for i, v := range vals {
		if miss[i] {
			out[i] = math.Round(med)
			filled++
			continue
		}
		out[i] = v
	}
	res.Filled[p.Column] += filled
	return t.WithColumn(series.New(out, series.Float, p.Column))
}
