package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stattler/dataloom/internal/dataset"
	"github.com/stattler/dataloom/internal/pca"
	"github.com/stattler/dataloom/internal/report"
)

var (
	pcaTop      int
	pcaSnapshot string
)

var pcaCmd = &cobra.Command{
	Use:   "pca",
	Short: "Rank numeric predictors by principal-component contribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no config loaded")
		}
		t, err := openTable(cfg.DataPath)
		if err != nil {
			return err
		}

		top := pcaTop
		if !cmd.Flags().Changed("top") {
			top = cfg.PCATopFeatures
		}
		result, reduced, err := runPCA(t, top)
		if err != nil {
			return err
		}
		fmt.Printf("PCA over %d complete rows (%d dropped), %d variables\n\n",
			result.Rows, result.Dropped, len(result.Columns))
		report.Contributions(os.Stdout, result.Rank())

		base := pcaSnapshot
		if base == "" {
			base = "pca_reduced"
		}
		path, err := saveSnapshot(reduced, base, "pca")
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote reduced snapshot to %s\n", path)
		return nil
	},
}

// pcaFeatureColumns is the numeric subset minus identifier and target.
func pcaFeatureColumns(t *dataset.Table) []string {
	var cols []string
	for _, c := range t.NumericColumns() {
		if c == cfg.IDColumn || c == cfg.TargetColumn {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

func runPCA(t *dataset.Table, top int) (*pca.Result, *dataset.Table, error) {
	cols := pcaFeatureColumns(t)
	result, err := pca.Analyze(t, cols)
	if err != nil {
		return nil, nil, err
	}
	keep := pca.TopColumns(result.Rank(), top)
	if t.Has(cfg.IDColumn) {
		keep = append([]string{cfg.IDColumn}, keep...)
	}
	if t.Has(cfg.TargetColumn) {
		keep = append(keep, cfg.TargetColumn)
	}
	reduced, err := t.SelectColumns(keep)
	if err != nil {
		return nil, nil, err
	}
	return result, reduced, nil
}

func init() {
	rootCmd.AddCommand(pcaCmd)
	pcaCmd.Flags().IntVar(&pcaTop, "top", 10, "number of ranked variables to keep in the reduced snapshot")
	pcaCmd.Flags().StringVar(&pcaSnapshot, "snapshot", "", "snapshot base name (default \"pca_reduced\")")
}
