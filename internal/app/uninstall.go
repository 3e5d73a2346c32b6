package app

import (
	"context"
	"path/filepath"

	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/model"
)

// InstalledFiles returns the scaffold paths that exist under root, in catalog
// order, split by whether their content is what render generates. Modified
// files may belong to the user and are not removed unless asked for.
func InstalledFiles(ws *Workspace, root string, render model.RenderOptions) (generated, modified []string) {
	for _, f := range ScaffoldFiles(ws, root) {
		if !f.Exists {
			continue
		}
		target := filepath.Join(root, filepath.FromSlash(f.Path))
		if matchesGenerated(ws, target, f.Path, render) {
			generated = append(generated, f.Path)
		} else {
			modified = append(modified, f.Path)
		}
	}
	return generated, modified
}

// matchesGenerated reports whether the file at target holds exactly the
// content generated for path. Unreadable files do not match.
func matchesGenerated(ws *Workspace, target, path string, render model.RenderOptions) bool {
	want, err := ws.Catalog.Generate(path, render)
	if err != nil {
		return false
	}
	got, err := ws.Writer.ReadFile(target)
	if err != nil {
		return false
	}
	return string(got) == want
}

// Uninstall deletes the given scaffold files under root and prunes the
// directories left empty. Paths outside the catalog are rejected.
func Uninstall(ctx context.Context, ws *Workspace, root string, paths []string) (*generator.RemoveReport, error) {
	for _, p := range paths {
		if _, ok := ws.Catalog.Lookup(p); !ok {
			return nil, NewValidationError("refusing to remove "+p+": not a scaffold file", nil)
		}
	}
	report := generator.NewExecutor(ws.Writer).Remove(ctx, root, paths)
	if len(report.Failed) > 0 {
		return report, NewAppError(ScaffoldFailed, "some files could not be removed",
			"remove them manually", report.Failed[0].Err)
	}
	return report, nil
}
