package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure. It describes one pipeline profile: where
// the data lives, which column is the target, and the knobs of every stage.
type Global struct {
	DataPath     string `mapstructure:"data_path" yaml:"data_path"`
	ArtifactsDir string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`

	TargetColumn string `mapstructure:"target_column" yaml:"target_column"`
	IDColumn     string `mapstructure:"id_column" yaml:"id_column"`

	// Descriptive analysis
	CorrThreshold float64 `mapstructure:"corr_threshold" yaml:"corr_threshold"`

	// Imputation policy: columns filled with the "None" sentinel, plus one
	// grouped-median column keyed by a categorical column.
	SentinelColumns   []string `mapstructure:"sentinel_columns" yaml:"sentinel_columns"`
	GroupMedianColumn string   `mapstructure:"group_median_column" yaml:"group_median_column"`
	GroupMedianKey    string   `mapstructure:"group_median_key" yaml:"group_median_key"`

	// PCA
	PCATopFeatures int `mapstructure:"pca_top_features" yaml:"pca_top_features"`

	// Partitioning
	TestFraction float64 `mapstructure:"test_fraction" yaml:"test_fraction"`
	StratifyBins int     `mapstructure:"stratify_bins" yaml:"stratify_bins"`
	Seed         int64   `mapstructure:"seed" yaml:"seed"`

	// Model
	FeatureColumns  []string `mapstructure:"feature_columns" yaml:"feature_columns"`
	Trees           int      `mapstructure:"trees" yaml:"trees"`
	MaxDepth        int      `mapstructure:"max_depth" yaml:"max_depth"`
	MinSamplesSplit int      `mapstructure:"min_samples_split" yaml:"min_samples_split"`
	SplitFeatures   int      `mapstructure:"split_features" yaml:"split_features"`
	ModelPath       string   `mapstructure:"model_path" yaml:"model_path"`

	// Snapshot persistence between stages: "csv" or "sqlite".
	SnapshotFormat string `mapstructure:"snapshot_format" yaml:"snapshot_format"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataloom")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATALOOM")
	v.AutomaticEnv()

	// Defaults mirror the House Prices profile the tool ships with.
	v.SetDefault("data_path", "train.csv")
	v.SetDefault("artifacts_dir", "")
	v.SetDefault("target_column", "SalePrice")
	v.SetDefault("id_column", "Id")
	v.SetDefault("corr_threshold", 0.5)
	v.SetDefault("sentinel_columns", []string{
		"PoolQC", "MiscFeature", "Alley", "Fence", "FireplaceQu",
		"GarageType", "GarageFinish", "GarageQual", "GarageCond",
		"BsmtQual", "BsmtCond", "BsmtExposure", "BsmtFinType1", "BsmtFinType2",
		"MasVnrType",
	})
	v.SetDefault("group_median_column", "LotFrontage")
	v.SetDefault("group_median_key", "Neighborhood")
	v.SetDefault("pca_top_features", 10)
	v.SetDefault("test_fraction", 0.2)
	v.SetDefault("stratify_bins", 10)
	v.SetDefault("seed", 42)
	v.SetDefault("feature_columns", []string{
		"OverallQual", "GrLivArea", "GarageCars", "TotalBsmtSF",
	})
	v.SetDefault("trees", 200)
	v.SetDefault("max_depth", 12)
	v.SetDefault("min_samples_split", 5)
	v.SetDefault("split_features", 0) // 0 = p/3, the regression default
	v.SetDefault("model_path", "")
	v.SetDefault("snapshot_format", "csv")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataloom")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve artifacts_dir default: ~/.dataloom/artifacts
	if c.ArtifactsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.ArtifactsDir = filepath.Join(home, ".dataloom", "artifacts")
	}
	if c.ModelPath == "" {
		c.ModelPath = filepath.Join(c.ArtifactsDir, "forest.gob")
	}
	return &c, nil
}
