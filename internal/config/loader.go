package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tacogips/autopilot/internal/debug"
)

// EnvPrefix prefixes environment overrides, e.g. AUTOPILOT_DEFAULTS_MAX_ITERATIONS.
const EnvPrefix = "AUTOPILOT"

// Loader defines the interface for loading configuration files.
type Loader interface {
	// Load loads configuration from path. A missing file is an error.
	Load(path string) (*Config, error)
	// LoadOrDefault loads configuration or falls back to defaults and
	// environment overrides when the file doesn't exist.
	LoadOrDefault(path string) (*Config, error)
	// Validate validates the configuration.
	Validate(config *Config) error
}

// ViperLoader implements Loader on top of viper.
type ViperLoader struct{}

// NewLoader creates a new ViperLoader instance.
func NewLoader() Loader {
	return &ViperLoader{}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	d := DefaultConfig()
	v.SetDefault("defaults.mode", d.Defaults.Mode)
	v.SetDefault("defaults.merge_strategy", d.Defaults.MergeStrategy)
	v.SetDefault("defaults.max_iterations", d.Defaults.MaxIterations)
	v.SetDefault("defaults.auto_merge", d.Defaults.AutoMerge)
	v.SetDefault("defaults.schedule", d.Defaults.Schedule)
	v.SetDefault("defaults.agent_login", d.Defaults.AgentLogin)
	v.SetDefault("defaults.secret_name", d.Defaults.SecretName)
	v.SetDefault("defaults.initial_version", d.Defaults.InitialVersion)
	v.SetDefault("github.host", d.GitHub.Host)
	v.SetDefault("github.timeout", d.GitHub.Timeout)
	v.SetDefault("output.color", d.Output.Color)
	v.SetDefault("output.quiet", d.Output.Quiet)
	return v
}

// Load loads configuration from the specified file path.
func (l *ViperLoader) Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
		}
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to read configuration file", err)
	}

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "invalid YAML syntax", err)
	}

	debug.Debug("[config] Loaded %s", path)
	return unmarshal(v, path)
}

// LoadOrDefault loads configuration or returns defaults if the file doesn't exist.
func (l *ViperLoader) LoadOrDefault(path string) (*Config, error) {
	cfg, err := l.Load(path)
	if err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) && cfgErr.Type == ConfigNotFound {
			debug.Debug("[config] No configuration at %s, using defaults", path)
			return unmarshal(newViper(), "")
		}
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (l *ViperLoader) Validate(config *Config) error {
	return Validate(config, "")
}

func unmarshal(v *viper.Viper, path string) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to decode configuration", err)
	}
	if err := Validate(&cfg, path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewConfigErrorWithCause(ConfigInvalid, path, "failed to create configuration directory", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return NewConfigErrorWithCause(ConfigInvalid, path, "failed to encode configuration", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewConfigErrorWithCause(ConfigInvalid, path, "failed to write configuration file", err)
	}
	return nil
}

// Timeout converts github.timeout to a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.GitHub.Timeout) * time.Second
}
