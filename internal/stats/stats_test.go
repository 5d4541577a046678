package stats

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/stattler/dataloom/internal/dataset"
)

func makeTable(t *testing.T, cols ...series.Series) *dataset.Table {
	t.Helper()
	tbl, err := dataset.FromDataFrame(dataframe.New(cols...), "test")
	if err != nil {
		t.Fatalf("FromDataFrame: %v", err)
	}
	return tbl
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestSummarize(t *testing.T) {
	tbl := makeTable(t,
		series.New([]float64{4, 1, 2, 3, math.NaN()}, series.Float, "v"),
	)
	s, err := Summarize(tbl, "v")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Column != "v" || s.Count != 4 || s.Missing != 1 {
		t.Fatalf("counts = %+v", s)
	}
	if !almostEqual(s.Mean, 2.5, 1e-12) {
		t.Fatalf("mean = %f", s.Mean)
	}
	if !almostEqual(s.Std, math.Sqrt(5.0/3.0), 1e-12) {
		t.Fatalf("std = %f", s.Std)
	}
	if s.Min != 1 || s.Max != 4 {
		t.Fatalf("min/max = %f/%f", s.Min, s.Max)
	}
	if !almostEqual(s.Q25, 1.75, 1e-12) || !almostEqual(s.Median, 2.5, 1e-12) || !almostEqual(s.Q75, 3.25, 1e-12) {
		t.Fatalf("quartiles = %f %f %f", s.Q25, s.Median, s.Q75)
	}
}

func TestSummarizeAllMissing(t *testing.T) {
	tbl := makeTable(t,
		series.New([]float64{math.NaN(), math.NaN()}, series.Float, "v"),
	)
	if _, err := Summarize(tbl, "v"); err == nil {
		t.Fatalf("expected error for all-missing column")
	}
}

func TestCorrelationsPairwiseComplete(t *testing.T) {
	tbl := makeTable(t,
		series.New([]float64{1, 2, 3, 4, math.NaN()}, series.Float, "x"),
		series.New([]float64{2, 4, 6, 8, 10}, series.Float, "y"),
		series.New([]float64{5, 4, 3, 2, 1}, series.Float, "z"),
		series.New([]float64{7, 7, 7, 7, 7}, series.Float, "flat"),
	)
	m, err := Correlations(tbl, nil)
	if err != nil {
		t.Fatalf("Correlations: %v", err)
	}

	// Rows where x is missing are excluded pair-by-pair, never globally.
	rxy, err := m.At("x", "y")
	if err != nil {
		t.Fatalf("At: %v", err)
	}
	if !almostEqual(rxy, 1, 1e-9) {
		t.Fatalf("corr(x,y) = %f, want 1", rxy)
	}
	rxz, _ := m.At("x", "z")
	if !almostEqual(rxz, -1, 1e-9) {
		t.Fatalf("corr(x,z) = %f, want -1", rxz)
	}
	ryz, _ := m.At("y", "z")
	if !almostEqual(ryz, -1, 1e-9) {
		t.Fatalf("corr(y,z) = %f, want -1", ryz)
	}

	// Symmetry and diagonal.
	ryx, _ := m.At("y", "x")
	if rxy != ryx {
		t.Fatalf("matrix not symmetric: %f vs %f", rxy, ryx)
	}
	dxx, _ := m.At("x", "x")
	if dxx != 1 {
		t.Fatalf("diag(x) = %f", dxx)
	}

	// Zero-variance column correlates with nothing.
	dflat, _ := m.At("flat", "flat")
	if !math.IsNaN(dflat) {
		t.Fatalf("diag(flat) = %f, want NaN", dflat)
	}
	rfy, _ := m.At("flat", "y")
	if !math.IsNaN(rfy) {
		t.Fatalf("corr(flat,y) = %f, want NaN", rfy)
	}

	if _, err := m.At("x", "nope"); err == nil {
		t.Fatalf("expected error for unknown column")
	}
}

func TestRankByTarget(t *testing.T) {
	tbl := makeTable(t,
		series.New([]float64{100, 200, 300, 400, 500}, series.Float, "SalePrice"),
		series.New([]float64{2, 4, 6, 8, 10}, series.Float, "Area"),
		series.New([]float64{1, 5, 2, 4, 3}, series.Float, "Basement"),
		series.New([]float64{-1, -2, -3, -4, 10}, series.Float, "Offset"),
	)
	m, err := Correlations(tbl, nil)
	if err != nil {
		t.Fatalf("Correlations: %v", err)
	}
	preds, err := RankByTarget(m, "SalePrice", 0.5)
	if err != nil {
		t.Fatalf("RankByTarget: %v", err)
	}
	if len(preds) != 2 {
		t.Fatalf("predictors = %+v, want 2", preds)
	}
	if preds[0].Name != "Area" || !almostEqual(preds[0].R, 1, 1e-9) {
		t.Fatalf("top predictor = %+v", preds[0])
	}
	if preds[1].Name != "Offset" || preds[1].R < 0.5 || preds[1].R > 0.6 {
		t.Fatalf("second predictor = %+v", preds[1])
	}

	if _, err := RankByTarget(m, "Nope", 0.5); err == nil {
		t.Fatalf("expected error for missing target")
	}
}

func TestMedianIgnoresMissing(t *testing.T) {
	med, ok := Median([]float64{math.NaN(), 3, 1})
	if !ok || med != 2 {
		t.Fatalf("median = %f ok=%v, want 2", med, ok)
	}
	if _, ok := Median([]float64{math.NaN()}); ok {
		t.Fatalf("expected no median for all-missing input")
	}
}
