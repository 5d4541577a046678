// Package model wires the partitioning and forest stages together: it builds
// feature matrices from a table, fits the forest against the log-transformed
// target, and evaluates RMSE on the held-out rows.
package model

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/stattler/dataloom/internal/dataset"
	"github.com/stattler/dataloom/internal/forest"
	"github.com/stattler/dataloom/internal/split"
)

// Options selects the columns and split/forest parameters for one fit.
type Options struct {
	Features     []string
	Target       string
	IDColumn     string // optional; row position used when absent
	TestFraction float64
	StratifyBins int
	Seed         int64
	Forest       forest.Config
}

// Prediction pairs a held-out row with its predicted and actual price.
type Prediction struct {
	ID        float64
	Predicted float64 // back on the price scale
	Actual    float64
}

// Evaluation is the outcome of one train/evaluate run.
type Evaluation struct {
	Model       *forest.Forest
	Part        split.Partition
	RMSELog     float64
	Predictions []Prediction
}

// TrainEvaluate partitions the table, fits a forest on the training rows
// against log(target), and reports log-scale RMSE on the test rows. Feature
// and target columns must be fully observed; impute first.
func TrainEvaluate(t *dataset.Table, opt Options) (*Evaluation, error) {
	if len(opt.Features) == 0 {
		return nil, fmt.Errorf("no feature columns configured")
	}
	x := make([][]float64, t.NumRows())
	for i := range x {
		x[i] = make([]float64, len(opt.Features))
	}
	for j, c := range opt.Features {
		vals, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			if math.IsNaN(v) {
				return nil, fmt.Errorf("feature %q is missing at row %d; run impute first", c, i)
			}
			x[i][j] = v
		}
	}
	y, err := t.Floats(opt.Target)
	if err != nil {
		return nil, err
	}
	logy := make([]float64, len(y))
	for i, v := range y {
		if math.IsNaN(v) || v <= 0 {
			return nil, fmt.Errorf("target %q is missing or non-positive at row %d", opt.Target, i)
		}
		logy[i] = math.Log(v)
	}

	ids := make([]float64, len(y))
	if opt.IDColumn != "" && t.Has(opt.IDColumn) {
		ids, err = t.Floats(opt.IDColumn)
		if err != nil {
			return nil, err
		}
	} else {
		for i := range ids {
			ids[i] = float64(i)
		}
	}

	part, err := split.Stratified(y, opt.TestFraction, opt.StratifyBins, opt.Seed)
	if err != nil {
		return nil, err
	}

	xtr, ytr := gather(x, logy, part.Train)
	fcfg := opt.Forest
	fcfg.Seed = opt.Seed
	fitted, err := forest.Fit(xtr, ytr, opt.Features, fcfg)
	if err != nil {
		return nil, err
	}

	xte, yte := gather(x, logy, part.Test)
	logPred := fitted.Predict(xte)

	eval := &Evaluation{
		Model:   fitted,
		Part:    part,
		RMSELog: forest.RMSE(yte, logPred),
	}
	for i, row := range part.Test {
		eval.Predictions = append(eval.Predictions, Prediction{
			ID:        ids[row],
			Predicted: math.Exp(logPred[i]),
			Actual:    y[row],
		})
	}
	return eval, nil
}

// PredictionTable renders the held-out predictions as a table for snapshot
// persistence.
func (e *Evaluation) PredictionTable(idCol string) (*dataset.Table, error) {
	if idCol == "" {
		idCol = "Row"
	}
	n := len(e.Predictions)
	ids := make([]float64, n)
	pred := make([]float64, n)
	actual := make([]float64, n)
	for i, p := range e.Predictions {
		ids[i] = p.ID
		pred[i] = p.Predicted
		actual[i] = p.Actual
	}
	df := dataframe.New(
		series.New(ids, series.Float, idCol),
		series.New(pred, series.Float, "Predicted"),
		series.New(actual, series.Float, "Actual"),
	)
	return dataset.FromDataFrame(df, "predictions")
}

func gather(x [][]float64, y []float64, rows []int) ([][]float64, []float64) {
	xs := make([][]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = x[r]
		ys[i] = y[r]
	}
	return xs, ys
}
