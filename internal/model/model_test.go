package model

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/stattler/dataloom/internal/dataset"
	"github.com/stattler/dataloom/internal/forest"
)

func fixtureTable(t *testing.T, n int) *dataset.Table {
	t.Helper()
	ids := make([]float64, n)
	qual := make([]float64, n)
	area := make([]float64, n)
	price := make([]float64, n)
	for i := 0; i < n; i++ {
		ids[i] = float64(i + 1)
		qual[i] = float64(i%10 + 1)
		area[i] = 500 + 30*float64(i)
		price[i] = 50000 + 3000*float64(i)
	}
	tbl, err := dataset.FromDataFrame(dataframe.New(
		series.New(ids, series.Float, "Id"),
		series.New(qual, series.Float, "OverallQual"),
		series.New(area, series.Float, "GrLivArea"),
		series.New(price, series.Float, "SalePrice"),
	), "fixture")
	if err != nil {
		t.Fatalf("FromDataFrame: %v", err)
	}
	return tbl
}

func baseOptions() Options {
	return Options{
		Features:     []string{"OverallQual", "GrLivArea"},
		Target:       "SalePrice",
		IDColumn:     "Id",
		TestFraction: 0.2,
		StratifyBins: 5,
		Seed:         3,
		Forest:       forest.Config{Trees: 20, MaxDepth: 8, MinSamplesSplit: 2},
	}
}

func TestTrainEvaluate(t *testing.T) {
	tbl := fixtureTable(t, 50)
	eval, err := TrainEvaluate(tbl, baseOptions())
	if err != nil {
		t.Fatalf("TrainEvaluate: %v", err)
	}
	if len(eval.Part.Test) != 10 || len(eval.Part.Train) != 40 {
		t.Fatalf("partition = %d train / %d test", len(eval.Part.Train), len(eval.Part.Test))
	}
	if len(eval.Predictions) != len(eval.Part.Test) {
		t.Fatalf("predictions = %d, want %d", len(eval.Predictions), len(eval.Part.Test))
	}
	if math.IsNaN(eval.RMSELog) || eval.RMSELog < 0 {
		t.Fatalf("rmse = %f", eval.RMSELog)
	}
	for i, p := range eval.Predictions {
		row := eval.Part.Test[i]
		if p.ID != float64(row+1) {
			t.Fatalf("prediction %d id = %f, want %d", i, p.ID, row+1)
		}
		if p.Actual != 50000+3000*float64(row) {
			t.Fatalf("prediction %d actual = %f", i, p.Actual)
		}
		if p.Predicted <= 0 {
			t.Fatalf("prediction %d not on the price scale: %f", i, p.Predicted)
		}
	}
	if got := eval.Model.Features; len(got) != 2 || got[0] != "OverallQual" {
		t.Fatalf("model features = %v", got)
	}
}

func TestTrainEvaluateDeterministicForSeed(t *testing.T) {
	tbl := fixtureTable(t, 50)
	a, err := TrainEvaluate(tbl, baseOptions())
	if err != nil {
		t.Fatalf("TrainEvaluate: %v", err)
	}
	b, err := TrainEvaluate(tbl, baseOptions())
	if err != nil {
		t.Fatalf("TrainEvaluate: %v", err)
	}
	if a.RMSELog != b.RMSELog {
		t.Fatalf("same seed gave rmse %f then %f", a.RMSELog, b.RMSELog)
	}
}

func TestTrainEvaluateRejectsMissingFeature(t *testing.T) {
	tbl := fixtureTable(t, 50)
	holed, err := tbl.WithColumn(series.New(append([]float64{math.NaN()},
		make([]float64, 49)...), series.Float, "OverallQual"))
	if err != nil {
		t.Fatalf("WithColumn: %v", err)
	}
	_, err = TrainEvaluate(holed, baseOptions())
	if err == nil || !strings.Contains(err.Error(), "impute") {
		t.Fatalf("err = %v, want impute hint", err)
	}
}

func TestTrainEvaluateRejectsBadTarget(t *testing.T) {
	tbl := fixtureTable(t, 50)
	zeroed := make([]float64, 50)
	bad, err := tbl.WithColumn(series.New(zeroed, series.Float, "SalePrice"))
	if err != nil {
		t.Fatalf("WithColumn: %v", err)
	}
	if _, err := TrainEvaluate(bad, baseOptions()); err == nil {
		t.Fatalf("expected error for non-positive target")
	}

	opt := baseOptions()
	opt.Features = nil
	if _, err := TrainEvaluate(tbl, opt); err == nil {
		t.Fatalf("expected error for no features")
	}

	opt = baseOptions()
	opt.Target = "Nope"
	if _, err := TrainEvaluate(tbl, opt); err == nil {
		t.Fatalf("expected error for missing target column")
	}
}

func TestPredictionTable(t *testing.T) {
	tbl := fixtureTable(t, 50)
	eval, err := TrainEvaluate(tbl, baseOptions())
	if err != nil {
		t.Fatalf("TrainEvaluate: %v", err)
	}
	out, err := eval.PredictionTable("Id")
	if err != nil {
		t.Fatalf("PredictionTable: %v", err)
	}
	names := out.Names()
	if len(names) != 3 || names[0] != "Id" || names[1] != "Predicted" || names[2] != "Actual" {
		t.Fatalf("names = %v", names)
	}
	if out.NumRows() != len(eval.Predictions) {
		t.Fatalf("rows = %d, want %d", out.NumRows(), len(eval.Predictions))
	}

	anon, err := eval.PredictionTable("")
	if err != nil {
		t.Fatalf("PredictionTable: %v", err)
	}
	if anon.Names()[0] != "Row" {
		t.Fatalf("default id column = %v", anon.Names())
	}
}
