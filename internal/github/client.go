// Package github drives the GitHub CLI to inspect and configure a repository.
//
// Every call returns an Outcome instead of an error so callers can degrade
// to warnings with a remediation hint.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tacogips/autopilot/internal/debug"
	"github.com/tacogips/autopilot/internal/exec"
	"github.com/tacogips/autopilot/internal/remote"
	"github.com/tacogips/autopilot/internal/template/model"
)

const ghBinary = "gh"

// Client runs gh commands through a CommandRunner.
type Client struct {
	runner exec.CommandRunner
	host   string
}

// NewClient creates a Client. An empty host means github.com.
func NewClient(runner exec.CommandRunner, host string) *Client {
	if host == "" {
		host = remote.DefaultHost
	}
	return &Client{runner: runner, host: strings.ToLower(host)}
}

// Host returns the provider host.
func (c *Client) Host() string {
	return c.host
}

func (c *Client) enterprise() bool {
	return c.host != remote.DefaultHost
}

// repoArg is the --repo value understood by gh.
func (c *Client) repoArg(id model.RepositoryIdentity) string {
	if c.enterprise() {
		return c.host + "/" + id.FullName()
	}
	return id.FullName()
}

// api builds "gh api" arguments for the configured host.
func (c *Client) api(args ...string) []string {
	out := []string{"api"}
	if c.enterprise() {
		out = append(out, "--hostname", c.host)
	}
	return append(out, args...)
}

// run executes gh and classifies failures.
func (c *Client) run(ctx context.Context, args []string, stdin string) Outcome[string] {
	res, err := c.runner.Run(ctx, ghBinary, args, exec.RunOpts{Stdin: stdin})
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fail[string](ReasonNotInstalled, "gh not found on PATH")
		}
		return fail[string](ReasonCommandFailed, err.Error())
	}
	if !res.Success() {
		detail := strings.TrimSpace(res.Stderr)
		if detail == "" {
			detail = strings.TrimSpace(res.Stdout)
		}
		reason := classify(detail)
		debug.Debug("[github] gh %s failed (%s): %s", strings.Join(args, " "), reason, detail)
		return fail[string](reason, detail)
	}
	return ok(res.Stdout)
}

// classify maps gh error output to a Reason.
func classify(stderr string) Reason {
	s := strings.ToLower(stderr)
	switch {
	case strings.Contains(s, "http 401"),
		strings.Contains(s, "gh auth login"),
		strings.Contains(s, "not logged in"),
		strings.Contains(s, "authentication required"):
		return ReasonNotAuthenticated
	case strings.Contains(s, "http 404"),
		strings.Contains(s, "not found"),
		strings.Contains(s, "could not resolve to a repository"):
		return ReasonNotFound
	case strings.Contains(s, "http 403"),
		strings.Contains(s, "resource not accessible"),
		strings.Contains(s, "must have admin rights"),
		strings.Contains(s, "upgrade to github pro"):
		return ReasonForbidden
	default:
		return ReasonCommandFailed
	}
}

func decode[T any](out Outcome[string]) Outcome[T] {
	if !out.OK() {
		return recast[T](out)
	}
	var v T
	if err := json.Unmarshal([]byte(out.Value), &v); err != nil {
		return fail[T](ReasonInvalidResponse, err.Error())
	}
	return ok(v)
}

// Installed reports the gh version line.
func (c *Client) Installed(ctx context.Context) Outcome[string] {
	if _, err := c.runner.LookPath(ghBinary); err != nil {
		return fail[string](ReasonNotInstalled, "gh not found on PATH")
	}
	out := c.run(ctx, []string{"--version"}, "")
	if !out.OK() {
		return out
	}
	line, _, _ := strings.Cut(strings.TrimSpace(out.Value), "\n")
	return ok(line)
}

// AuthStatus returns the authenticated login for the host.
func (c *Client) AuthStatus(ctx context.Context) Outcome[string] {
	status := c.run(ctx, []string{"auth", "status", "--hostname", c.host}, "")
	if !status.OK() {
		if status.Reason == ReasonCommandFailed || status.Reason == ReasonNotFound {
			status.Reason = ReasonNotAuthenticated
		}
		return status
	}
	login := c.run(ctx, c.api("user", "--jq", ".login"), "")
	if !login.OK() {
		return login
	}
	return ok(strings.TrimSpace(login.Value))
}

// RepoSettings are the merge-related repository flags.
type RepoSettings struct {
	DefaultBranch       string `json:"default_branch"`
	AllowAutoMerge      bool   `json:"allow_auto_merge"`
	AllowSquashMerge    bool   `json:"allow_squash_merge"`
	AllowMergeCommit    bool   `json:"allow_merge_commit"`
	AllowRebaseMerge    bool   `json:"allow_rebase_merge"`
	DeleteBranchOnMerge bool   `json:"delete_branch_on_merge"`
}

// Allows reports whether strategy is enabled.
func (s RepoSettings) Allows(strategy model.MergeStrategy) bool {
	switch strategy {
	case model.MergeSquash:
		return s.AllowSquashMerge
	case model.MergeCommit:
		return s.AllowMergeCommit
	case model.MergeRebase:
		return s.AllowRebaseMerge
	default:
		return false
	}
}

// RepoSettings reads the repository merge settings.
func (c *Client) RepoSettings(ctx context.Context, id model.RepositoryIdentity) Outcome[RepoSettings] {
	return decode[RepoSettings](c.run(ctx, c.api("repos/"+id.FullName()), ""))
}

// UpdateRepoSettings enables auto-merge, the chosen merge method and
// branch deletion on merge.
func (c *Client) UpdateRepoSettings(ctx context.Context, id model.RepositoryIdentity, strategy model.MergeStrategy) Outcome[RepoSettings] {
	field := map[model.MergeStrategy]string{
		model.MergeSquash: "allow_squash_merge",
		model.MergeCommit: "allow_merge_commit",
		model.MergeRebase: "allow_rebase_merge",
	}[strategy]
	if field == "" {
		return fail[RepoSettings](ReasonCommandFailed, fmt.Sprintf("unknown merge strategy %q", strategy))
	}

	args := c.api("--method", "PATCH", "repos/"+id.FullName(),
		"-F", "allow_auto_merge=true",
		"-F", field+"=true",
		"-F", "delete_branch_on_merge=true",
	)
	return decode[RepoSettings](c.run(ctx, args, ""))
}

// WorkflowPermissions are the default GITHUB_TOKEN permissions for Actions.
type WorkflowPermissions struct {
	DefaultWorkflowPermissions   string `json:"default_workflow_permissions"`
	CanApprovePullRequestReviews bool   `json:"can_approve_pull_request_reviews"`
}

// Writable reports whether workflows get a write token.
func (p WorkflowPermissions) Writable() bool {
	return p.DefaultWorkflowPermissions == "write"
}

// WorkflowPermissions reads the Actions token permissions.
func (c *Client) WorkflowPermissions(ctx context.Context, id model.RepositoryIdentity) Outcome[WorkflowPermissions] {
	return decode[WorkflowPermissions](c.run(ctx, c.api("repos/"+id.FullName()+"/actions/permissions/workflow"), ""))
}

// EnableWorkflowWrite grants workflows a write token and lets them approve
// pull requests.
func (c *Client) EnableWorkflowWrite(ctx context.Context, id model.RepositoryIdentity) Outcome[bool] {
	args := c.api("--method", "PUT", "repos/"+id.FullName()+"/actions/permissions/workflow",
		"-f", "default_workflow_permissions=write",
		"-F", "can_approve_pull_request_reviews=true",
	)
	out := c.run(ctx, args, "")
	if !out.OK() {
		return recast[bool](out)
	}
	return ok(true)
}

// BranchProtection reports whether branch has protection rules.
// An unprotected branch yields ReasonNotFound.
func (c *Client) BranchProtection(ctx context.Context, id model.RepositoryIdentity, branch string) Outcome[bool] {
	out := c.run(ctx, c.api("repos/"+id.FullName()+"/branches/"+branch+"/protection"), "")
	if !out.OK() {
		return recast[bool](out)
	}
	return ok(true)
}

type protectionRequest struct {
	RequiredStatusChecks       *struct{}          `json:"required_status_checks"`
	EnforceAdmins              bool               `json:"enforce_admins"`
	RequiredPullRequestReviews *reviewRequirement `json:"required_pull_request_reviews"`
	Restrictions               *struct{}          `json:"restrictions"`
	AllowForcePushes           bool               `json:"allow_force_pushes"`
	AllowDeletions             bool               `json:"allow_deletions"`
}

type reviewRequirement struct {
	RequiredApprovingReviewCount int  `json:"required_approving_review_count"`
	DismissStaleReviews          bool `json:"dismiss_stale_reviews"`
}

// ProtectBranch requires pull requests for branch and blocks force pushes.
// No approving review is required so the agent's pull requests can auto-merge.
func (c *Client) ProtectBranch(ctx context.Context, id model.RepositoryIdentity, branch string) Outcome[bool] {
	body, err := json.Marshal(protectionRequest{
		RequiredPullRequestReviews: &reviewRequirement{RequiredApprovingReviewCount: 0},
	})
	if err != nil {
		return fail[bool](ReasonCommandFailed, err.Error())
	}

	args := c.api("--method", "PUT", "repos/"+id.FullName()+"/branches/"+branch+"/protection", "--input", "-")
	out := c.run(ctx, args, string(body))
	if !out.OK() {
		return recast[bool](out)
	}
	return ok(true)
}

type secretEntry struct {
	Name string `json:"name"`
}

// ListSecrets returns the names of the repository Actions secrets.
func (c *Client) ListSecrets(ctx context.Context, id model.RepositoryIdentity) Outcome[[]string] {
	entries := decode[[]secretEntry](c.run(ctx,
		[]string{"secret", "list", "--repo", c.repoArg(id), "--json", "name"}, ""))
	if !entries.OK() {
		return recast[[]string](entries)
	}
	names := make([]string, len(entries.Value))
	for i, e := range entries.Value {
		names[i] = e.Name
	}
	return ok(names)
}

// HasSecret reports whether the named secret exists.
func (c *Client) HasSecret(ctx context.Context, id model.RepositoryIdentity, name string) Outcome[bool] {
	names := c.ListSecrets(ctx, id)
	if !names.OK() {
		return recast[bool](names)
	}
	for _, n := range names.Value {
		if strings.EqualFold(n, name) {
			return ok(true)
		}
	}
	return ok(false)
}

// SetSecret stores value as the named Actions secret. The value is passed
// on standard input and never appears in the argument list.
func (c *Client) SetSecret(ctx context.Context, id model.RepositoryIdentity, name, value string) Outcome[bool] {
	if value == "" {
		return fail[bool](ReasonCommandFailed, "secret value is empty")
	}
	out := c.run(ctx, []string{"secret", "set", name, "--repo", c.repoArg(id)}, value)
	if !out.OK() {
		return recast[bool](out)
	}
	return ok(true)
}

const assignableActorsQuery = `query($owner: String!, $name: String!) {
  repository(owner: $owner, name: $name) {
    suggestedActors(capabilities: [CAN_BE_ASSIGNED], first: 100) {
      nodes { login }
    }
  }
}`

type actorsResponse struct {
	Data struct {
		Repository *struct {
			SuggestedActors struct {
				Nodes []struct {
					Login string `json:"login"`
				} `json:"nodes"`
			} `json:"suggestedActors"`
		} `json:"repository"`
	} `json:"data"`
}

// AssignableActors lists logins that can be assigned to issues, including bots.
func (c *Client) AssignableActors(ctx context.Context, id model.RepositoryIdentity) Outcome[[]string] {
	args := c.api("graphql",
		"-f", "query="+assignableActorsQuery,
		"-f", "owner="+id.Owner,
		"-f", "name="+id.Repo,
	)
	resp := decode[actorsResponse](c.run(ctx, args, ""))
	if !resp.OK() {
		return recast[[]string](resp)
	}
	if resp.Value.Data.Repository == nil {
		return fail[[]string](ReasonNotFound, "repository not found")
	}
	nodes := resp.Value.Data.Repository.SuggestedActors.Nodes
	logins := make([]string, 0, len(nodes))
	for _, n := range nodes {
		logins = append(logins, n.Login)
	}
	return ok(logins)
}

// AgentAssignable reports whether login is among the assignable actors.
func (c *Client) AgentAssignable(ctx context.Context, id model.RepositoryIdentity, login string) Outcome[bool] {
	actors := c.AssignableActors(ctx, id)
	if !actors.OK() {
		return recast[bool](actors)
	}
	for _, a := range actors.Value {
		if strings.EqualFold(a, login) {
			return ok(true)
		}
	}
	return ok(false)
}
