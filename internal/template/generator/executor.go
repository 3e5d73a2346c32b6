package generator

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tacogips/autopilot/internal/debug"
)

// FileFailure records a file that could not be written or removed.
type FileFailure struct {
	Path string
	Err  error
}

// SyncReport summarizes a plan execution.
type SyncReport struct {
	// Created counts every file written, including overwrites.
	Created int
	// Overwritten counts written files that existed at planning time.
	Overwritten int
	// Written lists written paths in plan order.
	Written []string
	// Failed lists per-file failures in plan order.
	Failed []FileFailure
}

// OK reports whether every entry was written.
func (r *SyncReport) OK() bool {
	return len(r.Failed) == 0
}

// RemoveReport summarizes a scaffold removal.
type RemoveReport struct {
	// Removed lists deleted files.
	Removed []string
	// Missing lists requested files that did not exist.
	Missing []string
	// Pruned lists directories deleted because they became empty.
	Pruned []string
	// Failed lists per-file failures.
	Failed []FileFailure
}

// Executor applies plans through a Writer.
type Executor struct {
	writer Writer
}

// NewExecutor creates an Executor.
func NewExecutor(w Writer) *Executor {
	return &Executor{writer: w}
}

// Execute writes every plan entry under root in order. A failing entry is
// recorded and the batch continues; nothing is retried or rolled back.
// When ctx ends, the remaining entries are recorded as canceled.
func (e *Executor) Execute(ctx context.Context, root string, plan *WritePlan) *SyncReport {
	report := &SyncReport{
		Written: []string{},
		Failed:  []FileFailure{},
	}

	for i, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			debug.Debug("[generator] Execution canceled before %s", entry.Path)
			for _, rest := range plan.Entries[i:] {
				report.Failed = append(report.Failed, FileFailure{
					Path: rest.Path,
					Err:  newGeneratorError(GeneratorCanceled, "not written", rest.Path, err),
				})
			}
			break
		}

		if err := e.writeEntry(root, entry); err != nil {
			debug.Debug("[generator] Failed %s: %v", entry.Path, err)
			report.Failed = append(report.Failed, FileFailure{Path: entry.Path, Err: err})
			continue
		}

		report.Created++
		if entry.AlreadyExists {
			report.Overwritten++
		}
		report.Written = append(report.Written, entry.Path)
	}

	debug.Debug("[generator] Execution complete: created=%d, overwritten=%d, failed=%d",
		report.Created, report.Overwritten, len(report.Failed))
	return report
}

func (e *Executor) writeEntry(root string, entry WritePlanEntry) error {
	target := filepath.Join(root, filepath.FromSlash(entry.Path))
	if err := e.writer.CreateDir(filepath.Dir(target)); err != nil {
		return err
	}
	return e.writer.WriteFile(target, []byte(entry.Content))
}

// Remove deletes the given scaffold paths under root, then prunes parent
// directories left empty. Directories are never removed above root.
func (e *Executor) Remove(ctx context.Context, root string, paths []string) *RemoveReport {
	report := &RemoveReport{
		Removed: []string{},
		Missing: []string{},
		Pruned:  []string{},
		Failed:  []FileFailure{},
	}
	candidates := make(map[string]bool)

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, FileFailure{
				Path: p,
				Err:  newGeneratorError(GeneratorCanceled, "not removed", p, err),
			})
			continue
		}
		if err := ValidatePath(p); err != nil {
			report.Failed = append(report.Failed, FileFailure{Path: p, Err: err})
			continue
		}

		target := filepath.Join(root, filepath.FromSlash(p))
		if !e.writer.Exists(target) {
			report.Missing = append(report.Missing, p)
			continue
		}
		if err := e.writer.Remove(target); err != nil {
			report.Failed = append(report.Failed, FileFailure{Path: p, Err: err})
			continue
		}
		report.Removed = append(report.Removed, p)
		for _, dir := range parentDirs(p) {
			candidates[dir] = true
		}
	}

	// Deepest first so a parent is only checked after its children.
	dirs := make([]string, 0, len(candidates))
	for d := range candidates {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool {
		di, dj := strings.Count(dirs[i], "/"), strings.Count(dirs[j], "/")
		if di != dj {
			return di > dj
		}
		return dirs[i] < dirs[j]
	})

	for _, dir := range dirs {
		target := filepath.Join(root, filepath.FromSlash(dir))
		if !e.writer.IsEmptyDir(target) {
			continue
		}
		if err := e.writer.Remove(target); err != nil {
			debug.Debug("[generator] Could not prune %s: %v", dir, err)
			continue
		}
		report.Pruned = append(report.Pruned, dir)
	}

	return report
}
