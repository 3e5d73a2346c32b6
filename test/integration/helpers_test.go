package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/tacogips/autopilot/internal/app"
	"github.com/tacogips/autopilot/internal/exec"
	"github.com/tacogips/autopilot/internal/git"
	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/registry"
)

// copyFixtureToTemp copies a fixture repository directory into destDir.
func copyFixtureToTemp(t *testing.T, fixtureName, destDir string) {
	t.Helper()

	fixtureDir, err := filepath.Abs(filepath.Join("../fixtures/repos", fixtureName))
	if err != nil {
		t.Fatalf("failed to get fixture path: %v", err)
	}

	err = filepath.Walk(fixtureDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fixtureDir, path)
		if err != nil {
			return err
		}

		destPath := filepath.Join(destDir, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, 0755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		return os.WriteFile(destPath, data, 0644)
	})

	if err != nil {
		t.Fatalf("failed to copy fixture: %v", err)
	}
}

// newRepository initializes a git repository on main with an origin remote
// and the fixture contents, and returns its directory.
func newRepository(t *testing.T, origin, fixtureName string) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	if origin != "" {
		if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: git.OriginRemote, URLs: []string{origin}}); err != nil {
			t.Fatalf("failed to add origin: %v", err)
		}
	}
	if fixtureName != "" {
		copyFixtureToTemp(t, fixtureName, dir)
	}
	return dir
}

// newWorkspace wires a workspace on the real filesystem. git push and gh
// calls go to the returned fake runner.
func newWorkspace(dir string) (*app.Workspace, *exec.FakeRunner) {
	runner := exec.NewFakeRunner()
	return &app.Workspace{
		Git:     git.NewRepo(dir, runner),
		Writer:  generator.NewOSWriter(),
		Catalog: registry.Default(),
	}, runner
}

func inspect(t *testing.T, ws *app.Workspace) *app.Repository {
	t.Helper()
	repo, err := app.Inspect(context.Background(), ws.Git, "")
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	return repo
}
