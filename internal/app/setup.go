package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/tacogips/autopilot/internal/debug"
	"github.com/tacogips/autopilot/internal/git"
	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/model"
	"github.com/tacogips/autopilot/internal/template/registry"
)

// DefaultCommitMessage is used by Persist when no message is given.
const DefaultCommitMessage = "chore: add autopilot agent configuration"

// SetupOptions contains options for scaffolding.
type SetupOptions struct {
	// Mode selects full, minimal or custom scaffolding.
	Mode generator.Mode
	// Files are the custom selection, as paths or unique base names.
	Files []string
	// Render parametrizes the generated content. Owner and Repo are
	// filled from the repository identity when empty.
	Render model.RenderOptions
}

// RenderFor completes opts with the repository identity and defaults.
func RenderFor(repo *Repository, opts model.RenderOptions) model.RenderOptions {
	if opts.Owner == "" {
		opts.Owner = repo.Identity.Owner
	}
	if opts.Repo == "" {
		opts.Repo = repo.Identity.Repo
	}
	return opts.WithDefaults()
}

// PlanSetup resolves the selection and renders the write plan. Nothing is
// written.
func PlanSetup(ws *Workspace, repo *Repository, opts SetupOptions) (*generator.WritePlan, error) {
	if opts.Render.MaxIterations != 0 &&
		(opts.Render.MaxIterations < model.MinIterations || opts.Render.MaxIterations > model.MaxIterations) {
		return nil, NewValidationError(fmt.Sprintf("max iterations must be between %d and %d, got %d",
			model.MinIterations, model.MaxIterations, opts.Render.MaxIterations), nil)
	}
	if opts.Render.MergeStrategy != "" {
		if _, err := model.ParseMergeStrategy(string(opts.Render.MergeStrategy)); err != nil {
			return nil, NewValidationError("invalid merge strategy", err)
		}
	}

	selected, err := generator.ResolveSelection(opts.Mode, ws.Catalog, opts.Files)
	if err != nil {
		return nil, NewValidationError("invalid file selection", err)
	}

	planner := generator.NewPlanner(ws.Catalog, generator.ExistsIn(ws.Writer, repo.Root))
	plan, err := planner.Plan(selected, RenderFor(repo, opts.Render))
	if err != nil {
		if errors.Is(err, registry.ErrUnknownTemplate) {
			return nil, NewInternalError("selection references an unregistered template", err)
		}
		return nil, NewInternalError("failed to render scaffold files", err)
	}

	debug.Debug("[app] Planned %d files (%d existing), %d new directories",
		len(plan.Entries), plan.ExistingCount(), len(plan.Directories))
	return plan, nil
}

// ApplySetup writes plan into the repository. The report is always
// returned; the error is a ScaffoldFailed AppError when any file failed.
func ApplySetup(ctx context.Context, ws *Workspace, repo *Repository, plan *generator.WritePlan) (*generator.SyncReport, error) {
	report := generator.NewExecutor(ws.Writer).Execute(ctx, repo.Root, plan)
	if !report.OK() {
		return report, NewAppError(ScaffoldFailed,
			fmt.Sprintf("%d of %d files could not be written", len(report.Failed), len(plan.Entries)),
			"fix the reported problems and rerun setup; written files are kept and will be overwritten",
			report.Failed[0].Err)
	}
	return report, nil
}

// PersistResult describes a commit made by Persist.
type PersistResult struct {
	// Commit is the new commit hash.
	Commit string
	// Pushed is true when the commit was pushed to origin.
	Pushed bool
	// PushErr is set when the push failed. The commit is kept.
	PushErr error
}

// Persist stages paths, commits them and optionally pushes.
func Persist(ctx context.Context, g git.Client, paths []string, message string, push bool) (*PersistResult, error) {
	if len(paths) == 0 {
		return nil, NewValidationError("nothing to commit", nil)
	}
	if message == "" {
		message = DefaultCommitMessage
	}

	if err := g.Add(ctx, paths); err != nil {
		return nil, NewAppError(ScaffoldFailed, "failed to stage scaffold files", "", err)
	}
	hash, err := g.Commit(ctx, message)
	if err != nil {
		return nil, NewAppError(ScaffoldFailed, "failed to commit scaffold files",
			"commit the files manually with 'git commit'", err)
	}

	result := &PersistResult{Commit: hash}
	if push {
		if err := g.Push(ctx); err != nil {
			debug.Debug("[app] Push failed: %v", err)
			result.PushErr = err
		} else {
			result.Pushed = true
		}
	}
	return result, nil
}
