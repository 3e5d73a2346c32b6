package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"

	"github.com/tacogips/autopilot/internal/app"
	"github.com/tacogips/autopilot/internal/config"
	"github.com/tacogips/autopilot/internal/template/content"
	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/model"
)

// TestE2E_CompleteWorkflow runs setup -> commit -> verify -> status -> uninstall
// on a repository that already has some of its own files.
func TestE2E_CompleteWorkflow(t *testing.T) {
	ctx := context.Background()
	dir := newRepository(t, "git@github.com:octo/hello.git", "existing-project")
	ws, runner := newWorkspace(dir)

	// Step 1: Inspect
	t.Log("Step 1: Inspecting repository")
	repo := inspect(t, ws)
	if got := repo.Identity.FullName(); got != "octo/hello" {
		t.Errorf("identity = %q, want octo/hello", got)
	}
	if repo.Branch != "main" {
		t.Errorf("branch = %q, want main", repo.Branch)
	}

	// Step 2: Plan
	t.Log("Step 2: Planning full setup")
	plan, err := app.PlanSetup(ws, repo, app.SetupOptions{Mode: generator.ModeFull})
	if err != nil {
		t.Fatalf("PlanSetup failed: %v", err)
	}
	if len(plan.Entries) != len(ws.Catalog.Paths()) {
		t.Errorf("plan has %d entries, want %d", len(plan.Entries), len(ws.Catalog.Paths()))
	}
	if plan.ExistingCount() != 2 {
		t.Errorf("existing = %d, want 2 (CODEOWNERS and settings.json)", plan.ExistingCount())
	}

	// Step 3: Apply
	t.Log("Step 3: Writing files")
	report, err := app.ApplySetup(ctx, ws, repo, plan)
	if err != nil {
		t.Fatalf("ApplySetup failed: %v", err)
	}
	if report.Overwritten != 2 {
		t.Errorf("overwritten = %d, want 2", report.Overwritten)
	}

	codeowners, err := os.ReadFile(filepath.Join(dir, ".github", "CODEOWNERS"))
	if err != nil {
		t.Fatalf("failed to read CODEOWNERS: %v", err)
	}
	if strings.Contains(string(codeowners), "Maintained by hand") {
		t.Errorf("CODEOWNERS was not overwritten:\n%s", codeowners)
	}

	// Step 4: Commit
	t.Log("Step 4: Committing")
	result, err := app.Persist(ctx, ws.Git, report.Written, "", false)
	if err != nil {
		t.Fatalf("Persist failed: %v", err)
	}
	if result.Pushed || runner.Called("git push") {
		t.Error("push ran without being requested")
	}

	gitRepo, err := gogit.PlainOpen(dir)
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	head, err := gitRepo.Head()
	if err != nil {
		t.Fatalf("failed to resolve HEAD: %v", err)
	}
	commit, err := gitRepo.CommitObject(head.Hash())
	if err != nil {
		t.Fatalf("failed to read HEAD commit: %v", err)
	}
	if commit.Message != app.DefaultCommitMessage {
		t.Errorf("commit message = %q", commit.Message)
	}
	if commit.Hash.String() != result.Commit {
		t.Errorf("HEAD = %s, Persist reported %s", commit.Hash, result.Commit)
	}
	if _, err := commit.File("README.md"); err == nil {
		t.Error("README.md was committed but was not written by setup")
	}

	// Step 5: Verify
	t.Log("Step 5: Verifying")
	card := app.Verify(ctx, ws, repo, app.VerifyOptions{Local: true})
	if n := card.RequiredFailures(); n != 0 {
		t.Errorf("required failures = %d, want 0", n)
	}
	for _, c := range card.Checks {
		if c.Group != app.GroupFiles {
			t.Errorf("local verify ran remote check %q", c.Name)
		}
	}

	// Step 6: Status
	t.Log("Step 6: Status")
	status, err := app.Status(ctx, ws, "")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Present() != len(status.Files) {
		t.Errorf("present = %d, want %d", status.Present(), len(status.Files))
	}
	if _, err := json.Marshal(status); err != nil {
		t.Errorf("status is not serializable: %v", err)
	}

	// Step 7: Uninstall
	t.Log("Step 7: Uninstalling")
	installed, modified := app.InstalledFiles(ws, repo.Root, app.RenderFor(repo, model.RenderOptions{}))
	if len(modified) != 0 {
		t.Errorf("files written by setup reported as modified: %v", modified)
	}
	removed, err := app.Uninstall(ctx, ws, repo.Root, installed)
	if err != nil {
		t.Fatalf("Uninstall failed: %v", err)
	}
	if len(removed.Removed) != len(installed) {
		t.Errorf("removed %d files, want %d", len(removed.Removed), len(installed))
	}

	for _, keep := range []string{"README.md", ".github/FUNDING.yml"} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(keep))); err != nil {
			t.Errorf("%s should survive uninstall: %v", keep, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, ".github", "workflows")); !os.IsNotExist(err) {
		t.Errorf(".github/workflows should be pruned, stat err = %v", err)
	}
}

// TestE2E_MinimalThenFull checks that a minimal setup is a strict subset of a
// full one and that rerunning overwrites in place.
func TestE2E_MinimalThenFull(t *testing.T) {
	ctx := context.Background()
	dir := newRepository(t, "https://github.com/octo/hello.git", "")
	ws, _ := newWorkspace(dir)
	repo := inspect(t, ws)

	minimal, err := app.PlanSetup(ws, repo, app.SetupOptions{Mode: generator.ModeMinimal})
	if err != nil {
		t.Fatalf("PlanSetup(minimal) failed: %v", err)
	}
	if _, err := app.ApplySetup(ctx, ws, repo, minimal); err != nil {
		t.Fatalf("ApplySetup(minimal) failed: %v", err)
	}

	card := app.Verify(ctx, ws, repo, app.VerifyOptions{Local: true})
	if n := card.RequiredFailures(); n != 0 {
		t.Errorf("minimal setup leaves %d required failures", n)
	}

	full, err := app.PlanSetup(ws, repo, app.SetupOptions{Mode: generator.ModeFull})
	if err != nil {
		t.Fatalf("PlanSetup(full) failed: %v", err)
	}
	if full.ExistingCount() != len(minimal.Entries) {
		t.Errorf("full plan sees %d existing files, want %d", full.ExistingCount(), len(minimal.Entries))
	}
	report, err := app.ApplySetup(ctx, ws, repo, full)
	if err != nil {
		t.Fatalf("ApplySetup(full) failed: %v", err)
	}
	if report.Created != len(full.Entries) || report.Overwritten != len(minimal.Entries) {
		t.Errorf("created=%d overwritten=%d", report.Created, report.Overwritten)
	}
}

// TestE2E_ConfigDrivesRendering loads a config file with an environment
// override and renders with its defaults.
func TestE2E_ConfigDrivesRendering(t *testing.T) {
	ctx := context.Background()
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.DefaultConfig()
	cfg.Defaults.MergeStrategy = string(model.MergeRebase)
	cfg.Defaults.MaxIterations = 25
	if err := config.Write(configPath, cfg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	t.Setenv("AUTOPILOT_DEFAULTS_MAX_ITERATIONS", "40")

	loaded, err := config.NewLoader().Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Defaults.MaxIterations != 40 {
		t.Fatalf("max iterations = %d, want the env override 40", loaded.Defaults.MaxIterations)
	}

	dir := newRepository(t, "git@github.com:octo/hello.git", "")
	ws, _ := newWorkspace(dir)
	repo := inspect(t, ws)

	plan, err := app.PlanSetup(ws, repo, app.SetupOptions{
		Mode:  generator.ModeCustom,
		Files: []string{"settings.json", content.PathAutoMerge},
		Render: model.RenderOptions{
			MaxIterations: loaded.Defaults.MaxIterations,
			AutoMerge:     loaded.Defaults.AutoMerge,
			MergeStrategy: model.MergeStrategy(loaded.Defaults.MergeStrategy),
		},
	})
	if err != nil {
		t.Fatalf("PlanSetup failed: %v", err)
	}
	if _, err := app.ApplySetup(ctx, ws, repo, plan); err != nil {
		t.Fatalf("ApplySetup failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(content.PathVSCodeSettings)))
	if err != nil {
		t.Fatalf("failed to read settings: %v", err)
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatalf("settings.json is not valid JSON: %v", err)
	}
	if settings[content.SettingsMaxRequestsKey] != float64(40) {
		t.Errorf("%s = %v, want 40", content.SettingsMaxRequestsKey, settings[content.SettingsMaxRequestsKey])
	}

	workflow, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(content.PathAutoMerge)))
	if err != nil {
		t.Fatalf("failed to read workflow: %v", err)
	}
	if !strings.Contains(string(workflow), "MERGE_STRATEGY: rebase") {
		t.Errorf("auto-merge workflow does not use the configured strategy:\n%s", workflow)
	}
}

// TestE2E_Preconditions covers the repositories setup refuses to touch.
func TestE2E_Preconditions(t *testing.T) {
	tests := []struct {
		name   string
		dir    func(t *testing.T) string
		errTyp app.AppErrorType
	}{
		{"not a repository", func(t *testing.T) string { return t.TempDir() }, app.NotGitRepository},
		{"no origin", func(t *testing.T) string { return newRepository(t, "", "") }, app.NoRemote},
		{"foreign host", func(t *testing.T) string { return newRepository(t, "https://gitlab.com/octo/hello.git", "") }, app.UnsupportedRemote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, _ := newWorkspace(tt.dir(t))
			_, err := app.Inspect(context.Background(), ws.Git, "")
			if !app.IsType(err, tt.errTyp) {
				t.Errorf("Inspect() error = %v, want %s", err, tt.errTyp)
			}
		})
	}
}
