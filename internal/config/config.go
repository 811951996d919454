package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"goclean/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Profiling ProfilingConfig
	Pipeline  PipelineConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port          string
	GinMode       string
	PublicBaseURL string // prefix for download/report links; empty means relative URLs
}

// StorageConfig holds upload storage settings
type StorageConfig struct {
	UploadDir   string
	MaxUploadMB int
}

// MaxUploadBytes is the upload limit in bytes
func (s StorageConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) * 1024 * 1024
}

// ProfilingConfig holds type inference thresholds
type ProfilingConfig struct {
	SampleSize        int
	MajorityThreshold float64
	CategoricalRatio  float64
	MixedFraction     float64
}

// PipelineConfig holds pipeline execution settings
type PipelineConfig struct {
	Workers int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Storage:   *loadStorageConfig(),
		Profiling: *loadProfilingConfig(),
		Pipeline:  *loadPipelineConfig(),
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Port: "8080", GinMode: "debug"},
		Storage:   StorageConfig{UploadDir: "uploads", MaxUploadMB: 50},
		Profiling: ProfilingConfig{SampleSize: 10000, MajorityThreshold: 0.9, CategoricalRatio: 0.5, MixedFraction: 0.1},
		Pipeline:  PipelineConfig{Workers: runtime.NumCPU()},
	}
}

func loadServerConfig() *ServerConfig {
	def := Default().Server
	return &ServerConfig{
		Port:          getEnvOrDefault("PORT", def.Port),
		GinMode:       getEnvOrDefault("GIN_MODE", def.GinMode),
		PublicBaseURL: strings.TrimRight(getEnvOrDefault("PUBLIC_BASE_URL", ""), "/"),
	}
}

func loadStorageConfig() *StorageConfig {
	def := Default().Storage
	return &StorageConfig{
		UploadDir:   getEnvOrDefault("UPLOAD_DIR", def.UploadDir),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", def.MaxUploadMB),
	}
}

func loadProfilingConfig() *ProfilingConfig {
	def := Default().Profiling
	return &ProfilingConfig{
		SampleSize:        getEnvIntOrDefault("PROFILE_SAMPLE_SIZE", def.SampleSize),
		MajorityThreshold: getEnvFloatOrDefault("TYPE_MAJORITY_THRESHOLD", def.MajorityThreshold),
		CategoricalRatio:  getEnvFloatOrDefault("CATEGORICAL_RATIO", def.CategoricalRatio),
		MixedFraction:     getEnvFloatOrDefault("MIXED_FRACTION", def.MixedFraction),
	}
}

func loadPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		Workers: getEnvIntOrDefault("PIPELINE_WORKERS", Default().Pipeline.Workers),
	}
}

// Validate checks ranges once so the rest of the program can trust the values
func Validate(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode))
	}
	if config.Storage.UploadDir == "" {
		return errors.ConfigInvalid("UPLOAD_DIR is required")
	}
	if config.Storage.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Profiling.SampleSize <= 0 {
		return errors.ConfigInvalid("PROFILE_SAMPLE_SIZE must be positive")
	}
	if t := config.Profiling.MajorityThreshold; t <= 0.5 || t > 1 {
		return errors.ConfigInvalid(fmt.Sprintf("TYPE_MAJORITY_THRESHOLD must be in (0.5, 1], got %g", t))
	}
	if r := config.Profiling.CategoricalRatio; r <= 0 || r > 1 {
		return errors.ConfigInvalid(fmt.Sprintf("CATEGORICAL_RATIO must be in (0, 1], got %g", r))
	}
	if f := config.Profiling.MixedFraction; f <= 0 || f >= 0.5 {
		return errors.ConfigInvalid(fmt.Sprintf("MIXED_FRACTION must be in (0, 0.5), got %g", f))
	}
	if config.Pipeline.Workers <= 0 {
		return errors.ConfigInvalid("PIPELINE_WORKERS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
