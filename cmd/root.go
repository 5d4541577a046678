package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/stattler/dataloom/internal/config"
	"github.com/stattler/dataloom/internal/dataset"
)

var (
	// Global flags (wired to config in loadConfig)
	cfgFile string
	debug   bool
	// Pipeline flags (override config if set)
	flagDataPath     string
	flagArtifactsDir string
	flagSeed         int64

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "dataloom",
	Short: "DataLoom CLI: explore, impute, and model tabular datasets",
	Long: `DataLoom is a CLI tool that runs an exploratory-data-analysis pipeline over
a delimited dataset: descriptive statistics and correlations, per-column
imputation, PCA feature ranking, and a random-forest fit with a held-out RMSE.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.dataloom/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&flagDataPath, "data", "", "dataset path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagArtifactsDir, "artifacts", "", "artifacts directory (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "random seed (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("data") && flagDataPath != "" {
		cfg.DataPath = flagDataPath
	}
	if f.Changed("artifacts") && flagArtifactsDir != "" {
		cfg.ArtifactsDir = flagArtifactsDir
		cfg.ModelPath = filepath.Join(cfg.ArtifactsDir, "forest.gob")
	}
	if f.Changed("seed") {
		cfg.Seed = flagSeed
	}
}

const snapshotTable = "snapshot"

// openTable loads a dataset by extension: SQLite snapshots for .sqlite/.db,
// delimited text otherwise.
func openTable(path string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sqlite", ".db":
		return dataset.LoadSQLite(path, snapshotTable)
	default:
		return dataset.Load(path, dataset.LoadOptions{})
	}
}

// saveSnapshot persists a stage output in the configured snapshot format and
// returns the written path.
func saveSnapshot(t *dataset.Table, base, stage string) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("no config loaded")
	}
	switch cfg.SnapshotFormat {
	case "sqlite":
		path := filepath.Join(cfg.ArtifactsDir, base+".sqlite")
		if err := dataset.SaveSQLite(t, path, snapshotTable, stage); err != nil {
			return "", err
		}
		return path, nil
	case "", "csv":
		path := filepath.Join(cfg.ArtifactsDir, base+".csv")
		if err := dataset.SaveCSV(t, path, stage); err != nil {
			return "", err
		}
		return path, nil
	default:
		return "", fmt.Errorf("unsupported snapshot_format: %s (use csv or sqlite)", cfg.SnapshotFormat)
	}
}
