package config

// Config represents the global autopilot configuration.
type Config struct {
	// Defaults are the wizard answers used when a flag is not given.
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	// GitHub configures the hosting provider.
	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`
	// Output configures display.
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// DefaultsConfig holds default wizard answers.
type DefaultsConfig struct {
	// Mode is the file selection mode: full, minimal or custom.
	Mode string `mapstructure:"mode" yaml:"mode"`
	// MergeStrategy is squash, merge or rebase.
	MergeStrategy string `mapstructure:"merge_strategy" yaml:"merge_strategy"`
	// MaxIterations is the agent request budget (1-50).
	MaxIterations int `mapstructure:"max_iterations" yaml:"max_iterations"`
	// AutoMerge enables auto-merge of agent pull requests.
	AutoMerge bool `mapstructure:"auto_merge" yaml:"auto_merge"`
	// Schedule is the orchestrator cron expression.
	Schedule string `mapstructure:"schedule" yaml:"schedule"`
	// AgentLogin is the bot account issues are assigned to.
	AgentLogin string `mapstructure:"agent_login" yaml:"agent_login"`
	// SecretName is the Actions secret holding the assignment token.
	SecretName string `mapstructure:"secret_name" yaml:"secret_name"`
	// InitialVersion is the first release version, e.g. v0.1.0.
	InitialVersion string `mapstructure:"initial_version" yaml:"initial_version"`
}

// GitHubConfig represents GitHub-specific settings.
type GitHubConfig struct {
	// Host is the provider host matched against the origin remote.
	Host string `mapstructure:"host" yaml:"host"`
	// Timeout bounds each gh/git subprocess in seconds (0 = no timeout).
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// Color enables colored terminal output.
	Color bool `mapstructure:"color" yaml:"color"`
	// Quiet suppresses non-error output.
	Quiet bool `mapstructure:"quiet" yaml:"quiet"`
}
