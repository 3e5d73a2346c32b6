package app

import (
	"context"
	"path/filepath"

	"github.com/tacogips/autopilot/internal/github"
	"github.com/tacogips/autopilot/internal/template/model"
)

// CheckGroup separates local file checks from remote probes.
type CheckGroup string

const (
	GroupFiles  CheckGroup = "files"
	GroupRemote CheckGroup = "remote"
)

// CheckStatus is the result of one verify check.
type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckFail CheckStatus = "fail"
	// CheckWarn marks a failed optional check or an informational finding.
	CheckWarn CheckStatus = "warn"
	// CheckSkip marks a check that could not run.
	CheckSkip CheckStatus = "skip"
)

// Check is one scorecard line.
type Check struct {
	Group    CheckGroup
	Name     string
	Required bool
	Status   CheckStatus
	Detail   string
	Hint     string
}

// Scorecard is the result of Verify.
type Scorecard struct {
	Checks []Check
}

// Passed counts passing checks.
func (s *Scorecard) Passed() int {
	return s.count(CheckPass)
}

// RequiredFailures counts required checks that did not pass, including
// required checks that could not run.
func (s *Scorecard) RequiredFailures() int {
	n := 0
	for _, c := range s.Checks {
		if c.Required && c.Status != CheckPass {
			n++
		}
	}
	return n
}

func (s *Scorecard) count(status CheckStatus) int {
	n := 0
	for _, c := range s.Checks {
		if c.Status == status {
			n++
		}
	}
	return n
}

// VerifyOptions contains options for Verify.
type VerifyOptions struct {
	// Render is used to detect files that differ from the generated content.
	Render model.RenderOptions
	// Branch is the branch expected to be protected. Empty means the default branch.
	Branch     string
	SecretName string
	AgentLogin string
	// Local skips the remote probes.
	Local bool
}

// Verify builds a read-only scorecard of the scaffold files and the
// repository settings. Nothing is modified.
func Verify(ctx context.Context, ws *Workspace, repo *Repository, opts VerifyOptions) *Scorecard {
	card := &Scorecard{}
	card.Checks = append(card.Checks, verifyFiles(ws, repo, RenderFor(repo, opts.Render))...)

	if opts.Local || ws.GitHub == nil {
		return card
	}
	card.Checks = append(card.Checks, verifyRemote(ctx, ws.GitHub, repo.Identity, opts)...)
	return card
}

func verifyFiles(ws *Workspace, repo *Repository, render model.RenderOptions) []Check {
	var checks []Check
	for _, d := range ws.Catalog.ListAll() {
		c := Check{Group: GroupFiles, Name: d.Path, Required: d.Critical}
		target := filepath.Join(repo.Root, filepath.FromSlash(d.Path))

		if !ws.Writer.Exists(target) {
			c.Status = CheckWarn
			if d.Critical {
				c.Status = CheckFail
			}
			c.Detail = "missing"
			c.Hint = "run 'autopilot setup'"
			checks = append(checks, c)
			continue
		}

		c.Status = CheckPass
		c.Detail = "present"
		if !matchesGenerated(ws, target, d.Path, render) {
			c.Detail = "present, differs from generated content"
		}
		checks = append(checks, c)
	}
	return checks
}

func verifyRemote(ctx context.Context, gh Hosting, id model.RepositoryIdentity, opts VerifyOptions) []Check {
	secret := opts.SecretName
	if secret == "" {
		secret = model.DefaultSecretName
	}
	agent := opts.AgentLogin
	if agent == "" {
		agent = model.DefaultAgentLogin
	}

	var checks []Check
	settings := gh.RepoSettings(ctx, id)

	autoMerge := Check{Group: GroupRemote, Name: "auto-merge enabled", Required: true}
	switch {
	case !settings.OK():
		autoMerge.skip(settings.Err(), settings.Reason.Hint())
	case settings.Value.AllowAutoMerge:
		autoMerge.Status = CheckPass
	default:
		autoMerge.Status = CheckFail
		autoMerge.Hint = "run 'autopilot configure'"
	}
	checks = append(checks, autoMerge)

	perms := gh.WorkflowPermissions(ctx, id)
	write := Check{Group: GroupRemote, Name: "workflow write permissions", Required: true}
	switch {
	case !perms.OK():
		write.skip(perms.Err(), perms.Reason.Hint())
	case perms.Value.Writable():
		write.Status = CheckPass
	default:
		write.Status = CheckFail
		write.Detail = perms.Value.DefaultWorkflowPermissions
		write.Hint = "run 'autopilot configure'"
	}
	checks = append(checks, write)

	branch := opts.Branch
	if branch == "" {
		branch = model.DefaultBaseBranch
		if settings.OK() && settings.Value.DefaultBranch != "" {
			branch = settings.Value.DefaultBranch
		}
	}
	protected := gh.BranchProtection(ctx, id, branch)
	protection := Check{Group: GroupRemote, Name: "branch protection (" + branch + ")"}
	switch {
	case protected.OK() && protected.Value:
		protection.Status = CheckPass
	case protected.OK() || protected.Reason == github.ReasonNotFound:
		protection.Status = CheckWarn
		protection.Detail = "not protected"
		protection.Hint = "run 'autopilot configure'"
	default:
		protection.skip(protected.Err(), protected.Reason.Hint())
	}
	checks = append(checks, protection)

	has := gh.HasSecret(ctx, id, secret)
	secretCheck := Check{Group: GroupRemote, Name: "secret " + secret, Required: true}
	switch {
	case !has.OK():
		secretCheck.skip(has.Err(), has.Reason.Hint())
	case has.Value:
		secretCheck.Status = CheckPass
	default:
		secretCheck.Status = CheckFail
		secretCheck.Detail = "missing"
		secretCheck.Hint = "run 'gh secret set " + secret + "'"
	}
	checks = append(checks, secretCheck)

	assignable := gh.AgentAssignable(ctx, id, agent)
	agentCheck := Check{Group: GroupRemote, Name: "agent " + agent + " assignable", Required: true}
	switch {
	case !assignable.OK():
		agentCheck.skip(assignable.Err(), assignable.Reason.Hint())
	case assignable.Value:
		agentCheck.Status = CheckPass
	default:
		agentCheck.Status = CheckFail
		agentCheck.Hint = "enable the Copilot coding agent for this repository"
	}
	checks = append(checks, agentCheck)

	return checks
}

func (c *Check) skip(err error, hint string) {
	c.Status = CheckSkip
	if err != nil {
		c.Detail = err.Error()
	}
	c.Hint = hint
}
