package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/stattler/dataloom/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set DataLoom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("data_path: %s\n", cfg.DataPath)
		fmt.Printf("artifacts_dir: %s\n", cfg.ArtifactsDir)
		fmt.Printf("target_column: %s\n", cfg.TargetColumn)
		fmt.Printf("id_column: %s\n", cfg.IDColumn)
		fmt.Printf("corr_threshold: %.3f\n", cfg.CorrThreshold)
		fmt.Printf("sentinel_columns: %s\n", strings.Join(cfg.SentinelColumns, ","))
		fmt.Printf("group_median_column: %s\n", cfg.GroupMedianColumn)
		fmt.Printf("group_median_key: %s\n", cfg.GroupMedianKey)
		fmt.Printf("pca_top_features: %d\n", cfg.PCATopFeatures)
		fmt.Printf("test_fraction: %.3f\n", cfg.TestFraction)
		fmt.Printf("stratify_bins: %d\n", cfg.StratifyBins)
		fmt.Printf("seed: %d\n", cfg.Seed)
		fmt.Printf("feature_columns: %s\n", strings.Join(cfg.FeatureColumns, ","))
		fmt.Printf("trees: %d\n", cfg.Trees)
		fmt.Printf("max_depth: %d\n", cfg.MaxDepth)
		fmt.Printf("min_samples_split: %d\n", cfg.MinSamplesSplit)
		fmt.Printf("split_features: %d\n", cfg.SplitFeatures)
		fmt.Printf("model_path: %s\n", cfg.ModelPath)
		fmt.Printf("snapshot_format: %s\n", cfg.SnapshotFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_path":
			cfg.DataPath = val
		case "artifacts_dir":
			cfg.ArtifactsDir = val
		case "target_column":
			cfg.TargetColumn = val
		case "id_column":
			cfg.IDColumn = val
		case "corr_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid corr_threshold: %v (want a float in [0,1])", val)
			}
			cfg.CorrThreshold = f
		case "sentinel_columns":
			cfg.SentinelColumns = splitList(val)
		case "group_median_column":
			cfg.GroupMedianColumn = val
		case "group_median_key":
			cfg.GroupMedianKey = val
		case "pca_top_features":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for pca_top_features: %v", val)
			}
			cfg.PCATopFeatures = i
		case "test_fraction":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f >= 1 {
				return fmt.Errorf("invalid test_fraction: %v (want a float in (0,1))", val)
			}
			cfg.TestFraction = f
		case "stratify_bins":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for stratify_bins: %v", val)
			}
			cfg.StratifyBins = i
		case "seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for seed: %w", err)
			}
			cfg.Seed = i
		case "feature_columns":
			cfg.FeatureColumns = splitList(val)
		case "trees":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for trees: %v", val)
			}
			cfg.Trees = i
		case "max_depth":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for max_depth: %v", val)
			}
			cfg.MaxDepth = i
		case "min_samples_split":
			i, err := strconv.Atoi(val)
			if err != nil || i < 2 {
				return fmt.Errorf("invalid int for min_samples_split: %v (want >= 2)", val)
			}
			cfg.MinSamplesSplit = i
		case "split_features":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for split_features: %v", val)
			}
			cfg.SplitFeatures = i
		case "model_path":
			cfg.ModelPath = val
		case "snapshot_format":
			switch val {
			case "csv", "sqlite":
				cfg.SnapshotFormat = val
			default:
				return fmt.Errorf("invalid snapshot_format: %s (use csv or sqlite)", val)
			}
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func splitList(val string) []string {
	var out []string
	for _, s := range strings.Split(val, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
