// Package model defines the scaffold data types shared by the registry,
// planner and executor.
package model

import (
	"fmt"
	"strings"
)

// Category classifies a scaffold file.
type Category string

const (
	// CategoryConfiguration covers editor and tool settings.
	CategoryConfiguration Category = "configuration"
	// CategoryAgent covers instruction files read by the coding agent.
	CategoryAgent Category = "agent"
	// CategoryWorkflow covers GitHub Actions workflows driving the agent.
	CategoryWorkflow Category = "workflow"
	// CategoryTemplate covers issue and pull request templates.
	CategoryTemplate Category = "template"
	// CategorySecurity covers ownership and dependency security files.
	CategorySecurity Category = "security"
	// CategoryCopilot covers files consumed by the Copilot coding agent itself.
	CategoryCopilot Category = "copilot"
	// CategoryVersioning covers changelog and release automation.
	CategoryVersioning Category = "versioning"
)

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{
		CategoryConfiguration,
		CategoryAgent,
		CategoryWorkflow,
		CategoryTemplate,
		CategorySecurity,
		CategoryCopilot,
		CategoryVersioning,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// MergeStrategy is the pull request merge method used by auto-merge.
type MergeStrategy string

const (
	MergeSquash MergeStrategy = "squash"
	MergeCommit MergeStrategy = "merge"
	MergeRebase MergeStrategy = "rebase"
)

// MergeStrategies returns all supported merge strategies.
func MergeStrategies() []string {
	return []string{string(MergeSquash), string(MergeCommit), string(MergeRebase)}
}

// ParseMergeStrategy converts a string to a MergeStrategy.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case MergeSquash:
		return MergeSquash, nil
	case MergeCommit:
		return MergeCommit, nil
	case MergeRebase:
		return MergeRebase, nil
	default:
		return "", fmt.Errorf("unknown merge strategy %q (expected one of %s)", s, strings.Join(MergeStrategies(), ", "))
	}
}

// Iteration limit bounds for the agent request budget.
const (
	MinIterations     = 1
	MaxIterations     = 50
	DefaultIterations = 20
)

// RepositoryIdentity identifies a repository on the hosting provider.
type RepositoryIdentity struct {
	// Host is the provider host the identity was resolved against (e.g. "github.com").
	Host string `json:"host"`
	// Owner is the user or organization.
	Owner string `json:"owner"`
	// Repo is the repository name without ".git".
	Repo string `json:"repo"`
}

// FullName returns "owner/repo".
func (id RepositoryIdentity) FullName() string {
	return id.Owner + "/" + id.Repo
}

// String implements fmt.Stringer.
func (id RepositoryIdentity) String() string {
	if id.Host == "" {
		return id.FullName()
	}
	return id.Host + "/" + id.FullName()
}

// TemplateDescriptor is the metadata of one scaffold file.
type TemplateDescriptor struct {
	// Path is the slash-separated path relative to the repository root.
	// It is the unique key in the registry.
	Path string `json:"path"`
	// DisplayName is a human label.
	DisplayName string `json:"display_name"`
	// Category groups related files.
	Category Category `json:"category"`
	// Critical files are always part of minimal scaffolding.
	Critical bool `json:"critical"`
}

// RenderOptions parametrizes content generation.
type RenderOptions struct {
	Owner       string
	Repo        string
	ProjectName string

	// MaxIterations is the agent request budget written to editor settings.
	MaxIterations int
	// AutoMerge enables the auto-merge workflow job.
	AutoMerge bool
	// MergeStrategy is passed to `gh pr merge`.
	MergeStrategy MergeStrategy
	// Schedule is the cron expression of the orchestrator workflow.
	Schedule string
	// AgentLogin is the bot account issues are assigned to.
	AgentLogin string
	// SecretName holds the token the orchestrator uses for assignment.
	SecretName string
	// BaseBranch is the branch pull requests target.
	BaseBranch string
	// InitialVersion is the first release version (semver with "v" prefix).
	InitialVersion string
}

// Default render values applied by WithDefaults.
const (
	DefaultSchedule       = "*/30 * * * *"
	DefaultAgentLogin     = "copilot-swe-agent"
	DefaultSecretName     = "COPILOT_ASSIGN_TOKEN"
	DefaultBaseBranch     = "main"
	DefaultInitialVersion = "v0.1.0"
)

// WithDefaults returns a copy of o with zero fields replaced by defaults.
// AutoMerge is left untouched since false is meaningful.
func (o RenderOptions) WithDefaults() RenderOptions {
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultIterations
	}
	if o.MergeStrategy == "" {
		o.MergeStrategy = MergeSquash
	}
	if o.Schedule == "" {
		o.Schedule = DefaultSchedule
	}
	if o.AgentLogin == "" {
		o.AgentLogin = DefaultAgentLogin
	}
	if o.SecretName == "" {
		o.SecretName = DefaultSecretName
	}
	if o.BaseBranch == "" {
		o.BaseBranch = DefaultBaseBranch
	}
	if o.InitialVersion == "" {
		o.InitialVersion = DefaultInitialVersion
	}
	return o
}

// Name returns ProjectName, falling back to the repository name.
func (o RenderOptions) Name() string {
	if o.ProjectName != "" {
		return o.ProjectName
	}
	return o.Repo
}

// ContentGenerator produces file content from options.
// Implementations must be deterministic and free of side effects.
type ContentGenerator func(opts RenderOptions) (string, error)

// Template pairs a descriptor with its generator.
type Template struct {
	TemplateDescriptor
	Generate ContentGenerator
}
