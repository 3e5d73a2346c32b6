package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/autopilot/internal/app"
	"github.com/tacogips/autopilot/internal/config"
	"github.com/tacogips/autopilot/internal/exec"
	"github.com/tacogips/autopilot/internal/git"
	"github.com/tacogips/autopilot/internal/github"
	"github.com/tacogips/autopilot/internal/template/content"
	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/registry"
	"github.com/tacogips/autopilot/internal/version"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// testEnv is a temporary repository with scripted gh and git push.
type testEnv struct {
	dir        string
	configPath string
	runner     *exec.FakeRunner
	// interactive makes prompts available. See usePrompter.
	interactive bool
}

func newTestEnv(t *testing.T, origin string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err)
	if origin != "" {
		_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: git.OriginRemote, URLs: []string{origin}})
		require.NoError(t, err)
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.Write(configPath, config.DefaultConfig()))

	return &testEnv{dir: dir, configPath: configPath, runner: exec.NewFakeRunner()}
}

func (e *testEnv) path(rel string) string {
	return filepath.Join(e.dir, filepath.FromSlash(rel))
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI against env and captures its output.
func (e *testEnv) execute(t *testing.T, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer

	origStdout, origStderr := stdout, stderr
	origWorkspace, origInteractive := newWorkspace, isInteractive
	t.Cleanup(func() {
		stdout, stderr = origStdout, origStderr
		newWorkspace, isInteractive = origWorkspace, origInteractive
	})

	stdout, stderr = &out, &errOut
	isInteractive = func() bool { return e.interactive }
	newWorkspace = func(string, *config.Config) *app.Workspace {
		return &app.Workspace{
			Git:     git.NewRepo(e.dir, e.runner),
			GitHub:  github.NewClient(e.runner, ""),
			Writer:  generator.NewOSWriter(),
			Catalog: registry.Default(),
		}
	}

	resetFlags(rootCmd)
	code := run(append([]string{"--config", e.configPath}, args...))
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// authenticated scripts a logged-in gh with a fully configured repository.
func (e *testEnv) authenticated() *testEnv {
	e.runner.
		OnStdout("gh --version", "gh version 2.60.0\n").
		OnStdout("gh auth status", "").
		OnStdout("gh api user", "octocat\n").
		OnStdout("gh api repos/octo/hello", `{"default_branch":"main","allow_auto_merge":true,"allow_squash_merge":true,"delete_branch_on_merge":true}`).
		OnStdout("gh api repos/octo/hello/actions/permissions/workflow", `{"default_workflow_permissions":"write"}`).
		OnStdout("gh api repos/octo/hello/branches/main/protection", `{}`).
		OnStdout("gh secret list", `[{"name":"COPILOT_ASSIGN_TOKEN"}]`).
		OnStdout("gh api graphql", `{"data":{"repository":{"suggestedActors":{"nodes":[{"login":"copilot-swe-agent"}]}}}}`)
	return e
}

// setBuildInfo stands in for the ldflags a release build sets.
func setBuildInfo(t *testing.T, v, commit string) {
	origVersion, origCommit := version.Version, version.GitCommit
	version.Version, version.GitCommit = v, commit
	t.Cleanup(func() { version.Version, version.GitCommit = origVersion, origCommit })
}

func TestVersionFlag(t *testing.T) {
	setBuildInfo(t, "v9.9.9", "unknown")
	env := newTestEnv(t, "")

	for _, flag := range []string{"--version", "-v"} {
		res := env.execute(t, flag)
		assert.Equal(t, 0, res.code)
		assert.Equal(t, "v9.9.9\n", res.stdout)
	}
}

func TestVersionCommand(t *testing.T) {
	setBuildInfo(t, "1.0.0-test", "abc123")
	env := newTestEnv(t, "")

	res := env.execute(t, "version", "--json")
	require.Equal(t, 0, res.code)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.Equal(t, "1.0.0-test", info.Version)
	assert.Equal(t, "abc123", info.Commit)

	res = env.execute(t, "version", "--short")
	assert.Equal(t, "1.0.0-test\n", res.stdout)
}

func TestUnknownCommand(t *testing.T) {
	res := newTestEnv(t, "").execute(t, "frobnicate")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, `unknown command "frobnicate"`)
	assert.Contains(t, res.stderr, "Usage:")
}

func TestSetupOutsideRepository(t *testing.T) {
	env := newTestEnv(t, "")
	env.dir = t.TempDir()

	res := env.execute(t, "setup", "--yes", "--skip-configure")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "not a git repository")
	assert.Contains(t, res.stderr, "git init")
}

func TestSetupForeignRemote(t *testing.T) {
	res := newTestEnv(t, "https://gitlab.com/octo/hello.git").execute(t, "setup", "--yes", "--skip-configure")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "is not a github.com repository")
}

func TestSetupWritesAllFiles(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")

	res := env.execute(t, "setup", "--yes", "--skip-configure")
	require.Equal(t, 0, res.code, res.stderr)
	for _, p := range registry.Default().Paths() {
		assert.FileExists(t, env.path(p))
	}
	assert.Contains(t, res.stdout, "14 written (0 overwritten)")
	assert.Empty(t, env.runner.Calls())

	// Second run overwrites in place.
	res = env.execute(t, "setup", "--yes", "--skip-configure")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "14 written (14 overwritten)")
}

func TestSetupCustomFiles(t *testing.T) {
	env := newTestEnv(t, "https://github.com/octo/hello")

	res := env.execute(t, "setup", "--yes", "--skip-configure",
		"--files", "settings.json,copilot-instructions.md", "--max-iterations", "12")
	require.Equal(t, 0, res.code, res.stderr)

	data, err := os.ReadFile(env.path(content.PathVSCodeSettings))
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal(data, &settings))
	assert.Equal(t, float64(12), settings[content.SettingsMaxRequestsKey])
	assert.FileExists(t, env.path(content.PathCopilotInstructions))
	assert.NoFileExists(t, env.path(content.PathAgents))
}

func TestSetupRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"iterations", []string{"--max-iterations", "0"}, "--max-iterations"},
		{"strategy", []string{"--merge-strategy", "octopus"}, "--merge-strategy"},
		{"mode", []string{"--mode", "everything"}, "--mode"},
		{"custom without files", []string{"--mode", "custom"}, "--files"},
		{"unknown file", []string{"--files", "nope.md"}, "nope.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "git@github.com:octo/hello.git")
			res := env.execute(t, append([]string{"setup", "--yes", "--skip-configure"}, tt.args...)...)
			assert.Equal(t, 1, res.code)
			assert.Contains(t, res.stderr, tt.want)
			assert.NoDirExists(t, env.path(".github"))
		})
	}
}

func TestSetupDryRun(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")

	res := env.execute(t, "setup", "--yes", "--dry-run", "--mode", "minimal")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Dry run")
	assert.Contains(t, res.stdout, content.PathVSCodeSettings)
	assert.Contains(t, res.stdout, ".vscode/")
	assert.Contains(t, res.stdout, "Nothing was changed")
	assert.NoFileExists(t, env.path(content.PathVSCodeSettings))
	// Dry runs never contact GitHub.
	assert.Empty(t, env.runner.Calls())
}

func TestSetupCommit(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")

	res := env.execute(t, "setup", "--yes", "--skip-configure", "--mode", "minimal", "--commit", "-m", "add agent config")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Committed")

	repo, err := gogit.PlainOpen(env.dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	commit, err := repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "add agent config", commit.Message)

	_, err = commit.File(content.PathVSCodeSettings)
	assert.NoError(t, err)
}

func TestSetupPushFailureKeepsCommit(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")
	env.runner.On("git push", exec.CmdResult{ExitCode: 1, Stderr: "remote rejected"})

	res := env.execute(t, "setup", "--yes", "--skip-configure", "--mode", "minimal", "--push")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Committed")
	assert.Contains(t, res.stdout, "Push failed")
	assert.True(t, env.runner.Called("git push --set-upstream origin HEAD"))
}

func TestSetupConfiguresRepository(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git").authenticated()

	res := env.execute(t, "setup", "--yes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Authenticated to github.com as octocat")
	assert.Contains(t, res.stdout, "Repository configuration")
	assert.NotContains(t, res.stdout, "need manual attention")
	assert.True(t, env.runner.Called("gh api graphql"))
}

func TestSetupRequiresGitHubCLI(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")
	env.runner.Missing("gh")

	res := env.execute(t, "setup", "--yes")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "GitHub CLI is not available")
	assert.Contains(t, res.stderr, "cli.github.com")
	assert.NoFileExists(t, env.path(content.PathVSCodeSettings))
}

func TestConfigureReportsWarnings(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git").authenticated()
	env.runner.OnStdout("gh secret list", `[]`)

	res := env.execute(t, "configure", "--yes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "secret COPILOT_ASSIGN_TOKEN: missing")
	assert.Contains(t, res.stdout, "gh secret set COPILOT_ASSIGN_TOKEN")
	assert.Contains(t, res.stdout, "1 setting(s) need manual attention")
}

func TestVerify(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")

	res := env.execute(t, "verify", "--local", "--strict")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "required check(s) failed")

	require.Equal(t, 0, env.execute(t, "setup", "--yes", "--skip-configure", "--mode", "minimal").code)

	res = env.execute(t, "verify", "--local", "--strict")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, content.PathVSCodeSettings)
	assert.Contains(t, res.stdout, "0 required check(s) failing")
}

func TestVerifyRemote(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git").authenticated()
	require.Equal(t, 0, env.execute(t, "setup", "--yes", "--skip-configure").code)

	res := env.execute(t, "verify", "--strict")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "auto-merge enabled")
	assert.Contains(t, res.stdout, "agent copilot-swe-agent assignable")
}

func TestStatusJSON(t *testing.T) {
	env := newTestEnv(t, "https://github.com/octo/hello.git")
	require.Equal(t, 0, env.execute(t, "setup", "--yes", "--skip-configure", "--mode", "minimal").code)

	res := env.execute(t, "status", "--json")
	require.Equal(t, 0, res.code, res.stderr)

	var report app.StatusReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	require.NotNil(t, report.Identity)
	assert.Equal(t, "octo", report.Identity.Owner)
	assert.Equal(t, "main", report.Branch)
	assert.Equal(t, len(registry.Default().FilterCritical()), report.Present())
}

func TestStatusText(t *testing.T) {
	env := newTestEnv(t, "")
	res := env.execute(t, "status")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "(none)")
	assert.Contains(t, res.stdout, "0/14 files present")
}

func TestUninstall(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")
	require.Equal(t, 0, env.execute(t, "setup", "--yes", "--skip-configure").code)
	require.NoError(t, os.WriteFile(env.path(".github/FUNDING.yml"), []byte("github: octo\n"), 0644))

	res := env.execute(t, "uninstall")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--yes")
	assert.FileExists(t, env.path(content.PathAgents))

	res = env.execute(t, "uninstall", "--yes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "14 removed, 0 failed")
	assert.NoFileExists(t, env.path(content.PathAgents))
	assert.NoDirExists(t, env.path(".github/workflows"))
	assert.NoDirExists(t, env.path(".vscode"))
	assert.FileExists(t, env.path(".github/FUNDING.yml"))

	res = env.execute(t, "uninstall", "--yes")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "No scaffold files found")
}

func TestUninstallKeepsModifiedFiles(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")
	require.Equal(t, 0, env.execute(t, "setup", "--yes", "--skip-configure", "--mode", "minimal").code)
	require.NoError(t, os.WriteFile(env.path(content.PathCodeowners), []byte("* @octo/team\n"), 0644))

	res := env.execute(t, "uninstall", "--yes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Kept (content differs from generated)")
	assert.Contains(t, res.stdout, "--include-modified")
	assert.FileExists(t, env.path(content.PathCodeowners))
	assert.NoFileExists(t, env.path(content.PathVSCodeSettings))

	res = env.execute(t, "uninstall", "--yes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "No unmodified scaffold files to remove")

	res = env.execute(t, "uninstall", "--yes", "--include-modified")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "1 removed, 0 failed")
	assert.NoFileExists(t, env.path(content.PathCodeowners))
	assert.NoDirExists(t, env.path(".github"))
}

func TestExamples(t *testing.T) {
	res := newTestEnv(t, "").execute(t, "examples")
	require.Equal(t, 0, res.code)
	assert.Contains(t, res.stdout, "# autopilot examples")
	assert.Contains(t, res.stdout, "autopilot setup --dry-run")
}

func TestConfigInit(t *testing.T) {
	env := newTestEnv(t, "")
	env.configPath = filepath.Join(t.TempDir(), "autopilot", "config.yaml")

	res := env.execute(t, "config", "init")
	require.Equal(t, 0, res.code, res.stderr)
	assert.FileExists(t, env.configPath)

	res = env.execute(t, "config", "init")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "already exists")

	res = env.execute(t, "config", "init", "--force")
	assert.Equal(t, 0, res.code)

	res = env.execute(t, "config", "path")
	assert.Equal(t, env.configPath+"\n", res.stdout)
}

func TestInvalidConfigFile(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")
	require.NoError(t, os.WriteFile(env.configPath, []byte("defaults:\n  merge_strategy: octopus\n"), 0644))

	res := env.execute(t, "status")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "defaults.merge_strategy")

	// Version never reads the config file.
	assert.Equal(t, 0, env.execute(t, "version", "--short").code)
}

func TestQuiet(t *testing.T) {
	env := newTestEnv(t, "git@github.com:octo/hello.git")
	res := env.execute(t, "-q", "setup", "--yes", "--skip-configure")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Empty(t, res.stdout)
}
