package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stattler/dataloom/internal/dataset"
	"github.com/stattler/dataloom/internal/impute"
	"github.com/stattler/dataloom/internal/report"
	"github.com/stattler/dataloom/internal/stats"
	"github.com/stattler/dataloom/internal/utils"
)

var runNoSave bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline: describe, impute, pca, train, evaluate",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no config loaded")
		}
		t, err := openTable(cfg.DataPath)
		if err != nil {
			return err
		}
		fmt.Printf("→ Loaded %s (%d rows, %d columns)\n\n", t.Name(), t.NumRows(), t.NumCols())

		// Stage: describe
		summary, err := stats.Summarize(t, cfg.TargetColumn)
		if err != nil {
			return err
		}
		report.Summary(os.Stdout, summary)
		m, err := stats.Correlations(t, nil)
		if err != nil {
			return err
		}
		preds, err := stats.RankByTarget(m, cfg.TargetColumn, cfg.CorrThreshold)
		if err != nil {
			return err
		}
		fmt.Printf("\nPredictors with |r| > %.2f:\n", cfg.CorrThreshold)
		report.Predictors(os.Stdout, cfg.TargetColumn, preds)

		// Stage: impute
		fmt.Println("\n→ Imputing missing values")
		imputed := t
		if policies := buildPolicies(cmd, t); len(policies) > 0 {
			var res impute.Result
			imputed, res, err = impute.Apply(t, policies)
			if err != nil {
				return err
			}
			report.ImputeResult(os.Stdout, res)
		} else {
			fmt.Println("(no policies apply, skipping)")
		}
		if !runNoSave {
			path, err := saveSnapshot(imputed, "imputed", "impute")
			if err != nil {
				return err
			}
			fmt.Printf("✓ Wrote imputed snapshot to %s\n", path)
		}

		// Stage: pca
		fmt.Println("\n→ Ranking features by principal components")
		result, reduced, err := runPCA(imputed, cfg.PCATopFeatures)
		if err != nil {
			return err
		}
		fmt.Printf("PCA over %d complete rows (%d dropped)\n", result.Rows, result.Dropped)
		report.Contributions(os.Stdout, result.Rank())
		if !runNoSave {
			path, err := saveSnapshot(reduced, "pca_reduced", "pca")
			if err != nil {
				return err
			}
			fmt.Printf("✓ Wrote reduced snapshot to %s\n", path)
		}

		// Stage: train + evaluate
		fmt.Println("\n→ Training random forest")
		eval, err := trainEvaluate(nil, imputed)
		if err != nil {
			return err
		}
		fmt.Printf("Train: %d rows, Test: %d rows\n", len(eval.Part.Train), len(eval.Part.Test))
		if !runNoSave {
			if err := utils.EnsureDir(filepath.Dir(cfg.ModelPath)); err != nil {
				return fmt.Errorf("mkdir model dir: %w", err)
			}
			if err := eval.Model.Save(cfg.ModelPath); err != nil {
				return err
			}
			predTable, err := eval.PredictionTable(cfg.IDColumn)
			if err != nil {
				return err
			}
			predPath := filepath.Join(cfg.ArtifactsDir, "predictions.csv")
			if err := dataset.SaveCSV(predTable, predPath, "train"); err != nil {
				return err
			}
			fmt.Printf("✓ Saved model to %s, predictions to %s\n", cfg.ModelPath, predPath)
		}
		fmt.Printf("\n✓ RMSE (log scale): %.5f\n", eval.RMSELog)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&runNoSave, "no-save", false, "skip writing snapshots and model artifacts")
}
