package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stattler/dataloom/internal/report"
	"github.com/stattler/dataloom/internal/stats"
)

var (
	descTarget      string
	descThreshold   float64
	descSummaryOnly bool
	descOutput      string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize the target and rank predictors by correlation",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no config loaded")
		}
		t, err := openTable(cfg.DataPath)
		if err != nil {
			return err
		}
		target := descTarget
		if target == "" {
			target = cfg.TargetColumn
		}
		threshold := descThreshold
		if !cmd.Flags().Changed("threshold") {
			threshold = cfg.CorrThreshold
		}

		var buf bytes.Buffer
		fmt.Fprintf(&buf, "Dataset: %s (%d rows, %d columns)\n\n", t.Name(), t.NumRows(), t.NumCols())

		summary, err := stats.Summarize(t, target)
		if err != nil {
			return err
		}
		report.Summary(&buf, summary)

		if !descSummaryOnly {
			m, err := stats.Correlations(t, nil)
			if err != nil {
				return err
			}
			preds, err := stats.RankByTarget(m, target, threshold)
			if err != nil {
				return err
			}
			fmt.Fprintf(&buf, "\nPredictors with |r| > %.2f:\n", threshold)
			report.Predictors(&buf, target, preds)
		}

		if descOutput != "" {
			if err := os.WriteFile(descOutput, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", descOutput)
			return nil
		}
		fmt.Print(buf.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().StringVar(&descTarget, "target", "", "target column (default from config)")
	describeCmd.Flags().Float64Var(&descThreshold, "threshold", 0.5, "minimum |r| for predictor ranking")
	describeCmd.Flags().BoolVar(&descSummaryOnly, "summary-only", false, "skip the correlation matrix")
	describeCmd.Flags().StringVarP(&descOutput, "output", "o", "", "optional path to write the report")
}
