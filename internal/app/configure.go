package app

import (
	"context"
	"fmt"

	"github.com/tacogips/autopilot/internal/debug"
	"github.com/tacogips/autopilot/internal/github"
	"github.com/tacogips/autopilot/internal/template/model"
)

// StepStatus is the outcome of one repository configuration step.
type StepStatus string

const (
	// StepUnchanged means the setting was already in place.
	StepUnchanged StepStatus = "ok"
	// StepApplied means the setting was changed.
	StepApplied StepStatus = "applied"
	// StepSkipped means the step did not apply to the chosen options.
	StepSkipped StepStatus = "skipped"
	// StepWarning means the step failed and needs manual action.
	StepWarning StepStatus = "warning"
)

// StepResult reports one configuration step.
type StepResult struct {
	Name   string
	Status StepStatus
	Detail string
	// Hint is the manual remediation for warnings.
	Hint string
}

// ConfigureOptions contains options for repository configuration.
type ConfigureOptions struct {
	MergeStrategy model.MergeStrategy
	AutoMerge     bool
	// Branch is the branch to protect. Empty means the default branch.
	Branch     string
	SecretName string
	AgentLogin string
	// SecretValue is asked for the secret when it is missing. Nil, or an
	// empty answer, leaves the secret unset.
	SecretValue func() (string, error)
}

// ConfigureReport lists the configuration steps in execution order.
type ConfigureReport struct {
	Steps []StepResult
}

// Warnings returns the number of steps that need manual action.
func (r *ConfigureReport) Warnings() int {
	n := 0
	for _, s := range r.Steps {
		if s.Status == StepWarning {
			n++
		}
	}
	return n
}

func (r *ConfigureReport) add(s StepResult) {
	debug.Debug("[app] configure %s: %s %s", s.Name, s.Status, s.Detail)
	r.Steps = append(r.Steps, s)
}

func warning[T any](name string, out github.Outcome[T], manual string) StepResult {
	hint := out.Reason.Hint()
	switch {
	case manual != "" && hint != "":
		hint = manual + "; " + hint
	case manual != "":
		hint = manual
	}
	return StepResult{Name: name, Status: StepWarning, Detail: out.Err().Error(), Hint: hint}
}

// Configure applies the repository settings the generated workflows rely
// on. Every step runs even when an earlier one fails.
func Configure(ctx context.Context, gh Hosting, id model.RepositoryIdentity, opts ConfigureOptions) *ConfigureReport {
	report := &ConfigureReport{}
	opts.MergeStrategy = model.RenderOptions{MergeStrategy: opts.MergeStrategy}.WithDefaults().MergeStrategy
	if opts.SecretName == "" {
		opts.SecretName = model.DefaultSecretName
	}
	if opts.AgentLogin == "" {
		opts.AgentLogin = model.DefaultAgentLogin
	}

	branch := opts.Branch
	settings := gh.RepoSettings(ctx, id)
	if branch == "" {
		branch = model.DefaultBaseBranch
		if settings.OK() && settings.Value.DefaultBranch != "" {
			branch = settings.Value.DefaultBranch
		}
	}

	report.add(configureMerge(ctx, gh, id, opts, settings))
	report.add(configureWorkflowPermissions(ctx, gh, id))
	report.add(configureProtection(ctx, gh, id, branch, opts.AutoMerge))
	report.add(configureSecret(ctx, gh, id, opts))
	report.add(checkAgent(ctx, gh, id, opts.AgentLogin))

	return report
}

func configureMerge(ctx context.Context, gh Hosting, id model.RepositoryIdentity, opts ConfigureOptions, current github.Outcome[github.RepoSettings]) StepResult {
	const name = "merge settings"
	if !opts.AutoMerge {
		return StepResult{Name: name, Status: StepSkipped, Detail: "auto-merge disabled"}
	}
	if current.OK() && current.Value.AllowAutoMerge && current.Value.Allows(opts.MergeStrategy) && current.Value.DeleteBranchOnMerge {
		return StepResult{Name: name, Status: StepUnchanged, Detail: fmt.Sprintf("auto-merge and %s merge already enabled", opts.MergeStrategy)}
	}

	out := gh.UpdateRepoSettings(ctx, id, opts.MergeStrategy)
	if !out.OK() {
		return warning(name, out, "enable 'Allow auto-merge' in Settings > General")
	}
	return StepResult{Name: name, Status: StepApplied, Detail: fmt.Sprintf("enabled auto-merge with %s merge", opts.MergeStrategy)}
}

func configureWorkflowPermissions(ctx context.Context, gh Hosting, id model.RepositoryIdentity) StepResult {
	const name = "workflow permissions"
	current := gh.WorkflowPermissions(ctx, id)
	if current.OK() && current.Value.Writable() {
		return StepResult{Name: name, Status: StepUnchanged, Detail: "workflows can write"}
	}

	out := gh.EnableWorkflowWrite(ctx, id)
	if !out.OK() {
		return warning(name, out, "select 'Read and write permissions' in Settings > Actions > General")
	}
	return StepResult{Name: name, Status: StepApplied, Detail: "granted workflows write permissions"}
}

func configureProtection(ctx context.Context, gh Hosting, id model.RepositoryIdentity, branch string, autoMerge bool) StepResult {
	const name = "branch protection"
	if !autoMerge {
		return StepResult{Name: name, Status: StepSkipped, Detail: "auto-merge disabled"}
	}

	current := gh.BranchProtection(ctx, id, branch)
	if current.OK() && current.Value {
		return StepResult{Name: name, Status: StepUnchanged, Detail: branch + " is protected"}
	}
	if !current.OK() && current.Reason != github.ReasonNotFound {
		return warning(name, current, "add a branch protection rule for "+branch)
	}

	out := gh.ProtectBranch(ctx, id, branch)
	if !out.OK() {
		return warning(name, out, "add a branch protection rule for "+branch)
	}
	return StepResult{Name: name, Status: StepApplied, Detail: "protected " + branch}
}

func configureSecret(ctx context.Context, gh Hosting, id model.RepositoryIdentity, opts ConfigureOptions) StepResult {
	name := "secret " + opts.SecretName
	manual := fmt.Sprintf("run 'gh secret set %s' with a token that can assign issues", opts.SecretName)

	has := gh.HasSecret(ctx, id, opts.SecretName)
	if !has.OK() {
		return warning(name, has, manual)
	}
	if has.Value {
		return StepResult{Name: name, Status: StepUnchanged, Detail: "present"}
	}
	if opts.SecretValue == nil {
		return StepResult{Name: name, Status: StepWarning, Detail: "missing", Hint: manual}
	}

	value, err := opts.SecretValue()
	if err != nil || value == "" {
		return StepResult{Name: name, Status: StepWarning, Detail: "missing, no value given", Hint: manual}
	}
	out := gh.SetSecret(ctx, id, opts.SecretName, value)
	if !out.OK() {
		return warning(name, out, manual)
	}
	return StepResult{Name: name, Status: StepApplied, Detail: "stored"}
}

func checkAgent(ctx context.Context, gh Hosting, id model.RepositoryIdentity, login string) StepResult {
	name := "agent " + login
	out := gh.AgentAssignable(ctx, id, login)
	if !out.OK() {
		return warning(name, out, "")
	}
	if !out.Value {
		return StepResult{Name: name, Status: StepWarning, Detail: "not assignable",
			Hint: "enable the Copilot coding agent for this repository in the GitHub settings"}
	}
	return StepResult{Name: name, Status: StepUnchanged, Detail: "assignable"}
}
