// Package app implements the autopilot use cases on top of the scaffold
// engine and the git and GitHub collaborators.
package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/tacogips/autopilot/internal/debug"
	"github.com/tacogips/autopilot/internal/git"
	"github.com/tacogips/autopilot/internal/github"
	"github.com/tacogips/autopilot/internal/remote"
	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/model"
	"github.com/tacogips/autopilot/internal/template/registry"
)

// Hosting is the subset of the GitHub collaborator the use cases need.
type Hosting interface {
	Host() string
	Installed(ctx context.Context) github.Outcome[string]
	AuthStatus(ctx context.Context) github.Outcome[string]
	RepoSettings(ctx context.Context, id model.RepositoryIdentity) github.Outcome[github.RepoSettings]
	UpdateRepoSettings(ctx context.Context, id model.RepositoryIdentity, strategy model.MergeStrategy) github.Outcome[github.RepoSettings]
	WorkflowPermissions(ctx context.Context, id model.RepositoryIdentity) github.Outcome[github.WorkflowPermissions]
	EnableWorkflowWrite(ctx context.Context, id model.RepositoryIdentity) github.Outcome[bool]
	BranchProtection(ctx context.Context, id model.RepositoryIdentity, branch string) github.Outcome[bool]
	ProtectBranch(ctx context.Context, id model.RepositoryIdentity, branch string) github.Outcome[bool]
	HasSecret(ctx context.Context, id model.RepositoryIdentity, name string) github.Outcome[bool]
	SetSecret(ctx context.Context, id model.RepositoryIdentity, name, value string) github.Outcome[bool]
	AgentAssignable(ctx context.Context, id model.RepositoryIdentity, login string) github.Outcome[bool]
}

// Workspace bundles the collaborators of one invocation.
type Workspace struct {
	Git     git.Client
	GitHub  Hosting
	Writer  generator.Writer
	Catalog *registry.Registry
}

// Repository describes the target repository.
type Repository struct {
	// Root is the absolute work tree root.
	Root string
	// OriginURL is the raw origin remote URL.
	OriginURL string
	// Identity is resolved from OriginURL.
	Identity model.RepositoryIdentity
	// Branch is the checked out branch, empty when detached.
	Branch string
}

// Inspect runs the repository preconditions: a work tree, an origin remote,
// and an origin URL on host.
func Inspect(ctx context.Context, g git.Client, host string) (*Repository, error) {
	if !g.IsRepository(ctx) {
		return nil, NewAppError(NotGitRepository, "not a git repository",
			"run autopilot from inside a git repository, or 'git init' first", nil)
	}

	root, err := g.RepoRoot(ctx)
	if err != nil {
		return nil, NewAppError(NotGitRepository, "failed to locate repository root", "", err)
	}

	url, ok := g.OriginURL(ctx)
	if !ok {
		return nil, NewAppError(NoRemote, "no origin remote configured",
			"add one with 'git remote add origin https://github.com/<owner>/<repo>.git'", nil)
	}

	resolver := remote.NewResolver(host)
	id, ok := resolver.Resolve(url)
	if !ok {
		return nil, NewAppError(UnsupportedRemote,
			fmt.Sprintf("origin %q is not a %s repository", url, resolver.Host()),
			"set github.host in the config file for GitHub Enterprise hosts", nil)
	}

	branch, _ := g.CurrentBranch(ctx)
	debug.Debug("[app] Repository %s at %s (branch %q)", id, root, branch)

	return &Repository{
		Root:      root,
		OriginURL: url,
		Identity:  id,
		Branch:    branch,
	}, nil
}

// RequireGitHub checks that gh is installed and authenticated and returns
// the authenticated login.
func RequireGitHub(ctx context.Context, gh Hosting) (string, error) {
	if out := gh.Installed(ctx); !out.OK() {
		return "", NewAppError(GitHubCLIUnavailable, "GitHub CLI is not available", out.Reason.Hint(), out.Err())
	}
	login := gh.AuthStatus(ctx)
	if !login.OK() {
		hint := login.Reason.Hint()
		if login.Reason == github.ReasonNotAuthenticated && gh.Host() != remote.DefaultHost {
			hint = "run 'gh auth login --hostname " + gh.Host() + "'"
		}
		return "", NewAppError(GitHubCLIUnavailable, "GitHub CLI is not authenticated", hint, login.Err())
	}
	return strings.TrimSpace(login.Value), nil
}
