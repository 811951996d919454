package config

import (
	"testing"

	"goclean/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "UPLOAD_DIR", "MAX_UPLOAD_MB", "PROFILE_SAMPLE_SIZE",
		"TYPE_MAJORITY_THRESHOLD", "CATEGORICAL_RATIO", "MIXED_FRACTION", "PIPELINE_WORKERS", "PUBLIC_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
	assert.Equal(t, int64(50*1024*1024), cfg.Storage.MaxUploadBytes())
	assert.Equal(t, 10000, cfg.Profiling.SampleSize)
	assert.Equal(t, 0.9, cfg.Profiling.MajorityThreshold)
	assert.Positive(t, cfg.Pipeline.Workers)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("MAX_UPLOAD_MB", "10")
	t.Setenv("TYPE_MAJORITY_THRESHOLD", "0.8")
	t.Setenv("PIPELINE_WORKERS", "3")
	t.Setenv("PUBLIC_BASE_URL", "https://clean.example.com/")
	t.Setenv("PROFILE_SAMPLE_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 10, cfg.Storage.MaxUploadMB)
	assert.Equal(t, 0.8, cfg.Profiling.MajorityThreshold)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
	assert.Equal(t, "https://clean.example.com", cfg.Server.PublicBaseURL)
	assert.Equal(t, 10000, cfg.Profiling.SampleSize, "unparseable values keep the default")
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"gin mode", func(c *Config) { c.Server.GinMode = "verbose" }},
		{"upload limit", func(c *Config) { c.Storage.MaxUploadMB = 0 }},
		{"majority", func(c *Config) { c.Profiling.MajorityThreshold = 0.4 }},
		{"categorical", func(c *Config) { c.Profiling.CategoricalRatio = 0 }},
		{"mixed", func(c *Config) { c.Profiling.MixedFraction = 0.6 }},
		{"workers", func(c *Config) { c.Pipeline.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
	assert.NoError(t, Validate(Default()))
}
