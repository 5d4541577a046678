package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stattler/dataloom/internal/dataset"
	"github.com/stattler/dataloom/internal/impute"
	"github.com/stattler/dataloom/internal/report"
)

var (
	impSentinels []string
	impGroupCol  string
	impGroupKey  string
	impSnapshot  string
)

var imputeCmd = &cobra.Command{
	Use:   "impute",
	Short: "Fill missing values per the configured column policies",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no config loaded")
		}
		t, err := openTable(cfg.DataPath)
		if err != nil {
			return err
		}

		policies := buildPolicies(cmd, t)
		if len(policies) == 0 {
			return fmt.Errorf("no imputation policies apply to %s", t.Name())
		}

		out, res, err := impute.Apply(t, policies)
		if err != nil {
			return err
		}
		report.ImputeResult(os.Stdout, res)

		base := impSnapshot
		if base == "" {
			base = "imputed"
		}
		path, err := saveSnapshot(out, base, "impute")
		if err != nil {
			return err
		}
		fmt.Printf("✓ Wrote imputed snapshot to %s\n", path)
		return nil
	},
}

// buildPolicies resolves the configured policies against the columns actually
// present, warning about the rest.
func buildPolicies(cmd *cobra.Command, t *dataset.Table) []impute.Policy {
	sentinels := cfg.SentinelColumns
	if cmd.Flags().Changed("sentinel") {
		sentinels = impSentinels
	}
	groupCol := cfg.GroupMedianColumn
	if cmd.Flags().Changed("group-column") {
		groupCol = impGroupCol
	}
	groupKey := cfg.GroupMedianKey
	if cmd.Flags().Changed("group-key") {
		groupKey = impGroupKey
	}

	var policies []impute.Policy
	for _, c := range sentinels {
		if !t.Has(c) {
			fmt.Fprintf(os.Stderr, "⚠ Warning: sentinel column %q not in dataset, skipping\n", c)
			continue
		}
		policies = append(policies, impute.Policy{Column: c, Strategy: impute.Sentinel})
	}
	if groupCol != "" {
		switch {
		case !t.Has(groupCol):
			fmt.Fprintf(os.Stderr, "⚠ Warning: grouped-median column %q not in dataset, skipping\n", groupCol)
		case !t.Has(groupKey):
			fmt.Fprintf(os.Stderr, "⚠ Warning: group key %q not in dataset, skipping %q\n", groupKey, groupCol)
		default:
			policies = append(policies, impute.Policy{
				Column:   groupCol,
				Strategy: impute.GroupedMedian,
				GroupBy:  groupKey,
			})
		}
	}
	return policies
}

func init() {
	rootCmd.AddCommand(imputeCmd)
	imputeCmd.Flags().StringSliceVar(&impSentinels, "sentinel", nil, "columns to fill with the \"None\" sentinel (default from config)")
	imputeCmd.Flags().StringVar(&impGroupCol, "group-column", "", "numeric column for grouped-median fill (default from config)")
	imputeCmd.Flags().StringVar(&impGroupKey, "group-key", "", "categorical group key for grouped-median fill (default from config)")
	imputeCmd.Flags().StringVar(&impSnapshot, "snapshot", "", "snapshot base name (default \"imputed\")")
}
