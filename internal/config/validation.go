package config

import (
	"fmt"
	"strings"

	"github.com/adhocore/gronx"
	"golang.org/x/mod/semver"

	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/model"
)

// Validate checks every field of cfg. file is only used in error messages.
func Validate(cfg *Config, file string) error {
	d := cfg.Defaults

	if _, err := generator.ParseMode(d.Mode); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "defaults.mode", err.Error())
	}
	if _, err := model.ParseMergeStrategy(d.MergeStrategy); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "defaults.merge_strategy", err.Error())
	}
	if d.MaxIterations < model.MinIterations || d.MaxIterations > model.MaxIterations {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "defaults.max_iterations",
			fmt.Sprintf("must be between %d and %d, got %d", model.MinIterations, model.MaxIterations, d.MaxIterations))
	}
	if err := ValidateSchedule(d.Schedule); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "defaults.schedule", err.Error())
	}
	if strings.TrimSpace(d.AgentLogin) == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "defaults.agent_login", "must not be empty")
	}
	if err := validateSecretName(d.SecretName); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "defaults.secret_name", err.Error())
	}
	if err := ValidateVersion(d.InitialVersion); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "defaults.initial_version", err.Error())
	}

	if err := validateHost(cfg.GitHub.Host); err != nil {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "github.host", err.Error())
	}
	if cfg.GitHub.Timeout < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, file, "github.timeout", "timeout cannot be negative")
	}

	return nil
}

// ValidateSchedule checks a five-field cron expression.
func ValidateSchedule(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return fmt.Errorf("cron expression is empty")
	}
	// GitHub Actions only accepts the five standard fields.
	if len(strings.Fields(expr)) != 5 {
		return fmt.Errorf("%q must have five fields", expr)
	}
	if !gronx.New().IsValid(expr) {
		return fmt.Errorf("%q is not a valid cron expression", expr)
	}
	return nil
}

// ValidateVersion checks a semantic version with a leading "v".
func ValidateVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("%q is not a semantic version like v0.1.0", v)
	}
	if semver.Canonical(v) != v {
		return fmt.Errorf("%q must be written in full, e.g. %s", v, semver.Canonical(v))
	}
	return nil
}

func validateSecretName(name string) error {
	if name == "" {
		return fmt.Errorf("must not be empty")
	}
	if strings.HasPrefix(strings.ToUpper(name), "GITHUB_") {
		return fmt.Errorf("names starting with GITHUB_ are reserved")
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return fmt.Errorf("%q may only contain letters, digits and underscores and must not start with a digit", name)
		}
	}
	return nil
}

func validateHost(host string) error {
	host = strings.TrimSpace(host)
	if host == "" {
		return fmt.Errorf("must not be empty")
	}
	if strings.Contains(host, "://") {
		return fmt.Errorf("%q must be a bare host name without scheme", host)
	}
	if strings.ContainsAny(host, "/@ ") {
		return fmt.Errorf("%q must be a bare host name", host)
	}
	return nil
}
