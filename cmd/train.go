package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stattler/dataloom/internal/dataset"
	"github.com/stattler/dataloom/internal/forest"
	"github.com/stattler/dataloom/internal/model"
	"github.com/stattler/dataloom/internal/utils"
)

var (
	trainFeatures []string
	trainNoSave   bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Fit a random forest on log(target) and report held-out RMSE",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no config loaded")
		}
		t, err := openTable(cfg.DataPath)
		if err != nil {
			return err
		}
		eval, err := trainEvaluate(cmd, t)
		if err != nil {
			return err
		}
		fmt.Printf("Train: %d rows, Test: %d rows\n", len(eval.Part.Train), len(eval.Part.Test))
		fmt.Printf("✓ RMSE (log scale): %.5f\n", eval.RMSELog)

		if trainNoSave {
			return nil
		}
		if err := utils.EnsureDir(filepath.Dir(cfg.ModelPath)); err != nil {
			return fmt.Errorf("mkdir model dir: %w", err)
		}
		if err := eval.Model.Save(cfg.ModelPath); err != nil {
			return err
		}
		fmt.Printf("✓ Saved model to %s\n", cfg.ModelPath)

		predTable, err := eval.PredictionTable(cfg.IDColumn)
		if err != nil {
			return err
		}
		predPath := filepath.Join(cfg.ArtifactsDir, "predictions.csv")
		if err := dataset.SaveCSV(predTable, predPath, "train"); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote predictions to %s\n", predPath)
		return nil
	},
}

func trainEvaluate(cmd *cobra.Command, t *dataset.Table) (*model.Evaluation, error) {
	features := cfg.FeatureColumns
	if cmd != nil && cmd.Flags().Changed("features") {
		features = trainFeatures
	}
	return model.TrainEvaluate(t, model.Options{
		Features:     features,
		Target:       cfg.TargetColumn,
		IDColumn:     cfg.IDColumn,
		TestFraction: cfg.TestFraction,
		StratifyBins: cfg.StratifyBins,
		Seed:         cfg.Seed,
		Forest: forest.Config{
			Trees:           cfg.Trees,
			MaxDepth:        cfg.MaxDepth,
			MinSamplesSplit: cfg.MinSamplesSplit,
			SplitFeatures:   cfg.SplitFeatures,
		},
	})
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().StringSliceVar(&trainFeatures, "features", nil, "feature columns (default from config)")
	trainCmd.Flags().BoolVar(&trainNoSave, "no-save", false, "skip writing the model and prediction artifacts")
}
