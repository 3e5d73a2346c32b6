package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, Validate(cfg, ""))
	assert.Equal(t, "full", cfg.Defaults.Mode)
	assert.Equal(t, "squash", cfg.Defaults.MergeStrategy)
	assert.Equal(t, 20, cfg.Defaults.MaxIterations)
	assert.True(t, cfg.Defaults.AutoMerge)
	assert.Equal(t, "github.com", cfg.GitHub.Host)
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.Equal(t, "config.yaml", filepath.Base(path))
	assert.Equal(t, AppName, filepath.Base(filepath.Dir(path)))
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
defaults:
  merge_strategy: rebase
  max_iterations: 35
  auto_merge: false
github:
  host: git.example.com
`)
	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "rebase", cfg.Defaults.MergeStrategy)
	assert.Equal(t, 35, cfg.Defaults.MaxIterations)
	assert.False(t, cfg.Defaults.AutoMerge)
	assert.Equal(t, "git.example.com", cfg.GitHub.Host)
	// Unset keys keep their defaults.
	assert.Equal(t, "full", cfg.Defaults.Mode)
	assert.Equal(t, "*/30 * * * *", cfg.Defaults.Schedule)
	assert.True(t, cfg.Output.Color)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := NewLoader().Load(missing)
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ConfigNotFound, cfgErr.Type)

	cfg, err := NewLoader().LoadOrDefault(missing)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeFile(t, "defaults: [unclosed\n")
	_, err := NewLoader().Load(path)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ConfigInvalid, cfgErr.Type)
	assert.Equal(t, path, cfgErr.File)
}

func TestLoadValidationFailure(t *testing.T) {
	path := writeFile(t, "defaults:\n  max_iterations: 99\n")
	_, err := NewLoader().LoadOrDefault(path)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ConfigValidationFailed, cfgErr.Type)
	assert.Equal(t, "defaults.max_iterations", cfgErr.Field)
	assert.Contains(t, err.Error(), path)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("AUTOPILOT_DEFAULTS_MAX_ITERATIONS", "7")
	t.Setenv("AUTOPILOT_DEFAULTS_MERGE_STRATEGY", "merge")
	t.Setenv("AUTOPILOT_GITHUB_TIMEOUT", "30")

	cfg, err := NewLoader().LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Defaults.MaxIterations)
	assert.Equal(t, "merge", cfg.Defaults.MergeStrategy)
	assert.Equal(t, 30, cfg.GitHub.Timeout)
	assert.Equal(t, "30s", cfg.Timeout().String())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeFile(t, "defaults:\n  max_iterations: 10\n")
	t.Setenv("AUTOPILOT_DEFAULTS_MAX_ITERATIONS", "12")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Defaults.MaxIterations)
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "autopilot", "config.yaml")
	cfg := DefaultConfig()
	cfg.Defaults.MaxIterations = 42
	cfg.Defaults.Schedule = "0 * * * *"

	require.NoError(t, Write(path, cfg))

	loaded, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
