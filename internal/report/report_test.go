package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stattler/dataloom/internal/impute"
	"github.com/stattler/dataloom/internal/stats"
)

func TestSummaryRendersAllStats(t *testing.T) {
	var buf bytes.Buffer
	Summary(&buf, stats.Summary{Column: "SalePrice", Count: 10, Missing: 2, Mean: 180921.5})
	out := buf.String()
	for _, want := range []string{"count", "missing", "mean", "180921.5", "50%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestPredictorsEmpty(t *testing.T) {
	var buf bytes.Buffer
	Predictors(&buf, "SalePrice", nil)
	if !strings.Contains(buf.String(), "no predictors above threshold") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestPredictorsRendersRanking(t *testing.T) {
	var buf bytes.Buffer
	Predictors(&buf, "SalePrice", []stats.Predictor{
		{Name: "OverallQual", R: 0.791},
		{Name: "GrLivArea", R: 0.709},
	})
	out := buf.String()
	if !strings.Contains(out, "OverallQual") || !strings.Contains(out, "0.791") {
		t.Fatalf("output = %q", out)
	}
}

func TestImputeResultSortsColumns(t *testing.T) {
	var buf bytes.Buffer
	ImputeResult(&buf, impute.Result{
		Filled:         map[string]int{"PoolQC": 3, "Alley": 5},
		GroupFallbacks: map[string]int{},
	})
	out := buf.String()
	if strings.Index(out, "Alley") > strings.Index(out, "PoolQC") {
		t.Fatalf("columns not sorted:\n%s", out)
	}
}
