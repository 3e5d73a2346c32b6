package config

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/tacogips/autopilot/internal/remote"
	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/model"
)

// AppName names the configuration directory.
const AppName = "autopilot"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Mode:           string(generator.ModeFull),
			MergeStrategy:  string(model.MergeSquash),
			MaxIterations:  model.DefaultIterations,
			AutoMerge:      true,
			Schedule:       model.DefaultSchedule,
			AgentLogin:     model.DefaultAgentLogin,
			SecretName:     model.DefaultSecretName,
			InitialVersion: model.DefaultInitialVersion,
		},
		GitHub: GitHubConfig{
			Host:    remote.DefaultHost,
			Timeout: 0,
		},
		Output: OutputConfig{
			Color: true,
			Quiet: false,
		},
	}
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/autopilot/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}
