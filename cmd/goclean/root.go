package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"goclean/internal/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Global flags
	settingsFile string
	flagWorkers  int

	// Loaded engine settings
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "goclean",
	Short: "Profile and clean tabular datasets",
	Long: `goclean profiles CSV and Excel files, resolves mixed-type columns,
imputes missing values, handles outliers and applies validation rules.

Engine thresholds are read from GOCLEAN_* environment variables or a
settings file; processing configs are YAML or JSON files.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "engine settings file (default ./goclean.yaml when present)")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "per-column workers (overrides GOCLEAN_PIPELINE_WORKERS)")
}

func loadConfig() {
	c, err := loadSettings(settingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
		c = config.Default()
	}
	if rootCmd.PersistentFlags().Changed("workers") && flagWorkers > 0 {
		c.Pipeline.Workers = flagWorkers
	}
	appConfig = c
}

// loadSettings resolves engine settings. Precedence: env > settings file > defaults.
func loadSettings(path string) (*config.Config, error) {
	def := config.Default()
	v := viper.New()
	v.SetEnvPrefix("GOCLEAN")
	v.AutomaticEnv()

	v.SetDefault("upload_dir", filepath.Join(os.TempDir(), "goclean"))
	v.SetDefault("max_upload_mb", def.Storage.MaxUploadMB)
	v.SetDefault("profile_sample_size", def.Profiling.SampleSize)
	v.SetDefault("type_majority_threshold", def.Profiling.MajorityThreshold)
	v.SetDefault("categorical_ratio", def.Profiling.CategoricalRatio)
	v.SetDefault("mixed_fraction", def.Profiling.MixedFraction)
	v.SetDefault("pipeline_workers", def.Pipeline.Workers)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("goclean")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read settings: %w", err)
			}
		}
	}

	c := config.Default()
	c.Server.GinMode = "release"
	c.Storage.UploadDir = v.GetString("upload_dir")
	c.Storage.MaxUploadMB = v.GetInt("max_upload_mb")
	c.Profiling.SampleSize = v.GetInt("profile_sample_size")
	c.Profiling.MajorityThreshold = v.GetFloat64("type_majority_threshold")
	c.Profiling.CategoricalRatio = v.GetFloat64("categorical_ratio")
	c.Profiling.MixedFraction = v.GetFloat64("mixed_fraction")
	c.Pipeline.Workers = v.GetInt("pipeline_workers")

	if err := config.Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}
