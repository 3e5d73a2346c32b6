// Package git reads and updates the target repository.
//
// Reads and local writes go through go-git. Push shells out to the git
// binary so credential helpers and SSH agents keep working.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/tacogips/autopilot/internal/debug"
	"github.com/tacogips/autopilot/internal/exec"
)

// OriginRemote is the remote the identity is resolved from.
const OriginRemote = "origin"

// ErrNotRepository is returned when the directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// fallbackSignature is used when neither the repository nor the global
// git config provides an author.
var fallbackSignature = object.Signature{
	Name:  "autopilot",
	Email: "autopilot@users.noreply.github.com",
}

// Client is the version-control collaborator.
type Client interface {
	// IsRepository reports whether the directory is inside a work tree.
	IsRepository(ctx context.Context) bool
	// RepoRoot returns the absolute work tree root.
	RepoRoot(ctx context.Context) (string, error)
	// OriginURL returns the first URL of the origin remote.
	OriginURL(ctx context.Context) (string, bool)
	// CurrentBranch returns the checked out branch name.
	CurrentBranch(ctx context.Context) (string, bool)
	// Add stages slash-separated paths relative to the root.
	Add(ctx context.Context, paths []string) error
	// Commit records staged changes and returns the commit hash.
	Commit(ctx context.Context, message string) (string, error)
	// Push publishes the current branch to origin.
	Push(ctx context.Context) error
}

// Repo implements Client for a directory on disk.
type Repo struct {
	dir    string
	runner exec.CommandRunner
	now    func() time.Time
}

// NewRepo creates a client for the repository containing dir.
func NewRepo(dir string, runner exec.CommandRunner) *Repo {
	return &Repo{dir: dir, runner: runner, now: time.Now}
}

func (r *Repo) open() (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(r.dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	return repo, nil
}

func (r *Repo) worktree() (*gogit.Worktree, error) {
	repo, err := r.open()
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, gogit.ErrIsBareRepository) {
			return nil, ErrNotRepository
		}
		return nil, err
	}
	return wt, nil
}

// IsRepository implements Client.
func (r *Repo) IsRepository(ctx context.Context) bool {
	_, err := r.worktree()
	return err == nil
}

// RepoRoot implements Client.
func (r *Repo) RepoRoot(ctx context.Context) (string, error) {
	wt, err := r.worktree()
	if err != nil {
		return "", err
	}
	return filepath.Abs(wt.Filesystem.Root())
}

// OriginURL implements Client.
func (r *Repo) OriginURL(ctx context.Context) (string, bool) {
	repo, err := r.open()
	if err != nil {
		return "", false
	}
	remote, err := repo.Remote(OriginRemote)
	if err != nil {
		debug.Debug("[git] no %s remote: %v", OriginRemote, err)
		return "", false
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || strings.TrimSpace(urls[0]) == "" {
		return "", false
	}
	return strings.TrimSpace(urls[0]), true
}

// CurrentBranch implements Client. An unborn branch is still reported.
func (r *Repo) CurrentBranch(ctx context.Context) (string, bool) {
	repo, err := r.open()
	if err != nil {
		return "", false
	}
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", false
	}
	if head.Type() == plumbing.SymbolicReference && head.Target().IsBranch() {
		return head.Target().Short(), true
	}
	// Detached HEAD.
	return "", false
}

// Add implements Client.
func (r *Repo) Add(ctx context.Context, paths []string) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := wt.Add(filepath.ToSlash(p)); err != nil {
			return fmt.Errorf("staging %s: %w", p, err)
		}
	}
	return nil
}

// Commit implements Client.
func (r *Repo) Commit(ctx context.Context, message string) (string, error) {
	wt, err := r.worktree()
	if err != nil {
		return "", err
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{})
	if errors.Is(err, gogit.ErrMissingAuthor) {
		sig := fallbackSignature
		sig.When = r.now()
		debug.Debug("[git] no configured author, committing as %s", sig.Name)
		hash, err = wt.Commit(message, &gogit.CommitOptions{Author: &sig})
	}
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}
	return hash.String(), nil
}

// Push implements Client.
func (r *Repo) Push(ctx context.Context) error {
	root, err := r.RepoRoot(ctx)
	if err != nil {
		return err
	}
	res, err := r.runner.Run(ctx, "git", []string{"push", "--set-upstream", OriginRemote, "HEAD"}, exec.RunOpts{Dir: root})
	if err != nil {
		return fmt.Errorf("running git push: %w", err)
	}
	if !res.Success() {
		return fmt.Errorf("git push exited %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return nil
}
