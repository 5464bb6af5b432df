package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultGlobalConfig_Validates(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	require.NotNil(t, cfg)

	assert.NoError(t, ValidateConfig(cfg))
	assert.Equal(t, DefaultStorageMaxScreenshots, cfg.StorageConfig.MaxScreenshots)
	assert.Equal(t, DefaultStorageMaxDiffs, cfg.StorageConfig.MaxDiffs)
	assert.Equal(t, DefaultRetryMaxRetries, cfg.CaptureConfig.RetryConfig.MaxRetries)
	assert.Greater(t, cfg.CaptureConfig.RetryConfig.RetryDelayMs, 0, "default retry delay must be non-zero")
}

func TestValidateConfig_RejectsBadValues(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	cfg.CaptureConfig.RetryConfig.MaxRetries = 99
	assert.Error(t, ValidateConfig(cfg))

	cfg = NewDefaultGlobalConfig()
	cfg.DifferConfig.DefaultThreshold = 1.5
	assert.Error(t, ValidateConfig(cfg))

	cfg = NewDefaultGlobalConfig()
	cfg.LogConfig.LogLevel = "shout"
	assert.Error(t, ValidateConfig(cfg))

	cfg = NewDefaultGlobalConfig()
	cfg.LogConfig.LogFormat = "xml"
	assert.Error(t, ValidateConfig(cfg))
}

func TestLoadGlobalConfig_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadGlobalConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, NewDefaultGlobalConfig(), cfg)
}

func TestLoadGlobalConfig_YAMLOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("differ_config:\n  default_threshold: 0.2\nstorage_config:\n  max_screenshots: 10\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg, err := LoadGlobalConfig(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, cfg.DifferConfig.DefaultThreshold, 1e-9)
	assert.Equal(t, 10, cfg.StorageConfig.MaxScreenshots)
	// Untouched sections keep defaults
	assert.Equal(t, DefaultStorageMaxDiffs, cfg.StorageConfig.MaxDiffs)
}

func TestLoadGlobalConfig_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("capture_config:\n  retry_config:\n    max_retries: 50\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	_, err := LoadGlobalConfig(path)
	assert.Error(t, err)
}
