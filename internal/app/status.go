package app

import (
	"context"
	"path/filepath"

	"github.com/tacogips/autopilot/internal/template/model"
)

// FileState is the presence of one scaffold file.
type FileState struct {
	Path        string `json:"path"`
	DisplayName string `json:"display_name"`
	Category    string `json:"category"`
	Critical    bool   `json:"critical"`
	Exists      bool   `json:"exists"`
}

// StatusReport is a read-only summary of the repository.
type StatusReport struct {
	Root      string `json:"root"`
	OriginURL string `json:"origin_url,omitempty"`
	// Identity is nil when origin is missing or not on the configured host.
	Identity *model.RepositoryIdentity `json:"repository,omitempty"`
	Branch   string                    `json:"branch,omitempty"`
	Files    []FileState               `json:"files"`
}

// Present counts existing scaffold files.
func (r *StatusReport) Present() int {
	n := 0
	for _, f := range r.Files {
		if f.Exists {
			n++
		}
	}
	return n
}

// Status summarizes the repository. Only a missing work tree is an error;
// a missing or foreign remote leaves Identity empty.
func Status(ctx context.Context, ws *Workspace, host string) (*StatusReport, error) {
	repo, err := Inspect(ctx, ws.Git, host)
	report := &StatusReport{}

	switch {
	case err == nil:
		report.Root = repo.Root
		report.OriginURL = repo.OriginURL
		id := repo.Identity
		report.Identity = &id
		report.Branch = repo.Branch
	case IsType(err, NoRemote), IsType(err, UnsupportedRemote):
		root, rootErr := ws.Git.RepoRoot(ctx)
		if rootErr != nil {
			return nil, NewAppError(NotGitRepository, "failed to locate repository root", "", rootErr)
		}
		report.Root = root
		report.OriginURL, _ = ws.Git.OriginURL(ctx)
		report.Branch, _ = ws.Git.CurrentBranch(ctx)
	default:
		return nil, err
	}

	report.Files = ScaffoldFiles(ws, report.Root)
	return report, nil
}

// ScaffoldFiles returns the catalog in order with the presence of each file under root.
func ScaffoldFiles(ws *Workspace, root string) []FileState {
	all := ws.Catalog.ListAll()
	files := make([]FileState, 0, len(all))
	for _, d := range all {
		files = append(files, FileState{
			Path:        d.Path,
			DisplayName: d.DisplayName,
			Category:    string(d.Category),
			Critical:    d.Critical,
			Exists:      ws.Writer.Exists(filepath.Join(root, filepath.FromSlash(d.Path))),
		})
	}
	return files
}
