package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/autopilot/internal/app"
	"github.com/tacogips/autopilot/internal/config"
	"github.com/tacogips/autopilot/internal/template/content"
	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/model"
)

// setupCmd represents the setup command
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Scaffold agent configuration into the current repository",
	Long: `Write the Copilot agent configuration files into the repository and
configure the GitHub repository settings they depend on.

Without flags the wizard asks for the file selection, auto-merge, merge
strategy and the agent request limit. Flags answer the matching question.

Examples:
  autopilot setup
  autopilot setup --yes --mode minimal
  autopilot setup --mode custom --files settings.json,copilot-instructions.md
  autopilot setup --merge-strategy rebase --max-iterations 30 --commit --push
  autopilot setup --dry-run`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

// Setup command flags
var (
	setupMode          string
	setupFiles         []string
	setupMergeStrategy string
	setupMaxIterations int
	setupNoAutoMerge   bool
	setupBaseBranch    string
	setupYes           bool
	setupDryRun        bool
	setupSkipConfigure bool
	setupCommit        bool
	setupPush          bool
	setupMessage       string
	setupDir           string
)

func init() {
	setupCmd.Flags().StringVar(&setupMode, FlagMode, "", DescMode)
	setupCmd.Flags().StringSliceVar(&setupFiles, FlagFiles, nil, DescFiles)
	setupCmd.Flags().StringVar(&setupMergeStrategy, FlagMergeStrategy, "", DescMergeStrategy)
	setupCmd.Flags().IntVar(&setupMaxIterations, FlagMaxIterations, 0, DescMaxIterations)
	setupCmd.Flags().BoolVar(&setupNoAutoMerge, FlagNoAutoMerge, false, DescNoAutoMerge)
	setupCmd.Flags().StringVar(&setupBaseBranch, FlagBaseBranch, "", DescBaseBranch)
	setupCmd.Flags().BoolVarP(&setupYes, FlagYes, "y", false, DescYes)
	setupCmd.Flags().BoolVar(&setupDryRun, FlagDryRun, false, DescDryRun)
	setupCmd.Flags().BoolVar(&setupSkipConfigure, FlagSkipConfigure, false, DescSkipConfigure)
	setupCmd.Flags().BoolVar(&setupCommit, FlagCommit, false, DescCommit)
	setupCmd.Flags().BoolVar(&setupPush, FlagPush, false, DescPush)
	setupCmd.Flags().StringVarP(&setupMessage, FlagMessage, "m", app.DefaultCommitMessage, DescMessage)
	setupCmd.Flags().StringVar(&setupDir, FlagDir, ".", DescDir)
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadedConfig
	ws := newWorkspace(setupDir, cfg)
	ask := !setupYes && isInteractive()

	repo, err := app.Inspect(ctx, ws.Git, cfg.GitHub.Host)
	if err != nil {
		return err
	}
	printInfo(fmt.Sprintf("Repository: %s (%s)", noun(repo.Identity.FullName()), repo.Root))

	configure := !setupSkipConfigure && !setupDryRun
	if configure {
		var login string
		var ghErr error
		if err := withSpinner(ctx, "Checking GitHub CLI...", func() {
			login, ghErr = app.RequireGitHub(ctx, ws.GitHub)
		}); err != nil {
			return err
		}
		if ghErr != nil {
			return ghErr
		}
		printSuccess("Authenticated to " + ws.GitHub.Host() + " as " + noun(login))
	}

	answers, err := resolveSetupAnswers(cmd, cfg, ws, ask)
	if err != nil {
		return err
	}
	answers.Render.BaseBranch = baseBranch(ctx, ws, repo, setupBaseBranch, configure)

	plan, err := app.PlanSetup(ws, repo, *answers)
	if err != nil {
		return err
	}

	if setupDryRun {
		printPlan(plan)
		return nil
	}

	if existing := plan.ExistingCount(); existing > 0 && ask {
		ok, err := prompter.Confirm(fmt.Sprintf("%d file(s) already exist and will be overwritten. Continue?", existing), true)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Setup cancelled.")
			return nil
		}
	}

	report, err := app.ApplySetup(ctx, ws, repo, plan)
	printSyncReport(plan, report)
	if err != nil {
		return err
	}

	if configure {
		printHeader("Repository configuration")
		result := app.Configure(ctx, ws.GitHub, repo.Identity, app.ConfigureOptions{
			MergeStrategy: answers.Render.MergeStrategy,
			AutoMerge:     answers.Render.AutoMerge,
			Branch:        answers.Render.BaseBranch,
			SecretName:    cfg.Defaults.SecretName,
			AgentLogin:    cfg.Defaults.AgentLogin,
			SecretValue:   secretPrompt(ask, cfg.Defaults.SecretName),
		})
		printConfigureReport(result)
	}

	if err := persist(ctx, ws, report.Written, ask); err != nil {
		return err
	}

	printNextSteps(repo)
	return nil
}

// resolveSetupAnswers takes each answer from its flag, then a prompt, then
// the config defaults.
func resolveSetupAnswers(cmd *cobra.Command, cfg *config.Config, ws *app.Workspace, ask bool) (*app.SetupOptions, error) {
	flags := cmd.Flags()
	d := cfg.Defaults
	opts := &app.SetupOptions{
		Render: model.RenderOptions{
			Schedule:       d.Schedule,
			AgentLogin:     d.AgentLogin,
			SecretName:     d.SecretName,
			InitialVersion: d.InitialVersion,
		},
	}

	modeStr := d.Mode
	switch {
	case flags.Changed(FlagMode):
		modeStr = setupMode
	case flags.Changed(FlagFiles):
		modeStr = string(generator.ModeCustom)
	case ask:
		answer, err := prompter.Select("Which files should be written?", generator.Modes(), d.Mode)
		if err != nil {
			return nil, err
		}
		modeStr = answer
	}
	mode, err := generator.ParseMode(modeStr)
	if err != nil {
		return nil, app.NewValidationError("invalid --mode", err)
	}
	opts.Mode = mode

	if mode == generator.ModeCustom {
		switch {
		case len(setupFiles) > 0:
			opts.Files = setupFiles
		case ask:
			var defaults []string
			for _, desc := range ws.Catalog.FilterCritical() {
				defaults = append(defaults, desc.Path)
			}
			files, err := prompter.MultiSelect("Select files:", ws.Catalog.Paths(), defaults)
			if err != nil {
				return nil, err
			}
			opts.Files = files
		default:
			return nil, app.NewAppError(app.ValidationFailed, "custom mode needs a file list",
				"pass --files, e.g. --files settings.json,AGENTS.md", nil)
		}
	}

	autoMerge := d.AutoMerge
	switch {
	case flags.Changed(FlagNoAutoMerge):
		autoMerge = !setupNoAutoMerge
	case ask:
		if autoMerge, err = prompter.Confirm("Auto-merge agent pull requests when checks pass?", d.AutoMerge); err != nil {
			return nil, err
		}
	}
	opts.Render.AutoMerge = autoMerge

	strategy := d.MergeStrategy
	switch {
	case flags.Changed(FlagMergeStrategy):
		strategy = setupMergeStrategy
	case ask && autoMerge:
		if strategy, err = prompter.Select("Merge strategy:", model.MergeStrategies(), d.MergeStrategy); err != nil {
			return nil, err
		}
	}
	parsed, err := model.ParseMergeStrategy(strategy)
	if err != nil {
		return nil, app.NewValidationError("invalid --merge-strategy", err)
	}
	opts.Render.MergeStrategy = parsed

	iterations := d.MaxIterations
	switch {
	case flags.Changed(FlagMaxIterations):
		iterations = setupMaxIterations
	case ask:
		if iterations, err = prompter.Int("Agent request limit per session", d.MaxIterations, model.MinIterations, model.MaxIterations); err != nil {
			return nil, err
		}
	}
	if iterations < model.MinIterations || iterations > model.MaxIterations {
		return nil, app.NewValidationError(fmt.Sprintf("--max-iterations must be between %d and %d, got %d",
			model.MinIterations, model.MaxIterations, iterations), nil)
	}
	opts.Render.MaxIterations = iterations

	return opts, nil
}

// baseBranch picks the branch agent pull requests target.
func baseBranch(ctx context.Context, ws *app.Workspace, repo *app.Repository, flag string, probe bool) string {
	if flag != "" {
		return flag
	}
	if probe {
		if settings := ws.GitHub.RepoSettings(ctx, repo.Identity); settings.OK() && settings.Value.DefaultBranch != "" {
			return settings.Value.DefaultBranch
		}
	}
	return model.DefaultBaseBranch
}

func secretPrompt(ask bool, name string) func() (string, error) {
	if !ask {
		return nil
	}
	return func() (string, error) {
		set, err := prompter.Confirm(fmt.Sprintf("Secret %s is missing. Set it now?", name), true)
		if err != nil || !set {
			return "", err
		}
		return prompter.Password(fmt.Sprintf("Value for %s (a token that can assign issues):", name))
	}
}

func persist(ctx context.Context, ws *app.Workspace, written []string, ask bool) error {
	commit := setupCommit || setupPush
	push := setupPush
	if !commit && ask {
		var err error
		if commit, err = prompter.Confirm("Commit the written files?", false); err != nil {
			return err
		}
		if commit {
			if push, err = prompter.Confirm("Push the commit to origin?", false); err != nil {
				return err
			}
		}
	}
	if !commit {
		return nil
	}

	result, err := app.Persist(ctx, ws.Git, written, setupMessage, push)
	if err != nil {
		return err
	}
	printSuccess("Committed " + noun(shortHash(result.Commit)))
	switch {
	case result.Pushed:
		printSuccess("Pushed to origin")
	case result.PushErr != nil:
		printWarning("Push failed: " + result.PushErr.Error())
		printHint(stdout, "run 'git push' once the problem is fixed")
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

func printPlan(plan *generator.WritePlan) {
	printHeader("Dry run")
	if len(plan.Directories) > 0 {
		printInfo("Directories to create:")
		for _, d := range plan.Directories {
			printInfo("  " + d + "/")
		}
	}

	if globalQuiet {
		return
	}
	tbl := newTable("File", "Action", "Size")
	for _, e := range plan.Entries {
		action := "create"
		if e.AlreadyExists {
			action = "overwrite"
		}
		tbl.AddRow(e.Path, action, fmt.Sprintf("%d B", len(e.Content)))
	}
	tbl.Print()
	printInfo(fmt.Sprintf("\n%d file(s) would be written, %d overwritten. Nothing was changed.",
		len(plan.Entries), plan.ExistingCount()))
}

func printSyncReport(plan *generator.WritePlan, report *generator.SyncReport) {
	printHeader("Files")
	failed := make(map[string]error, len(report.Failed))
	for _, f := range report.Failed {
		failed[f.Path] = f.Err
	}

	for _, e := range plan.Entries {
		if err, ok := failed[e.Path]; ok {
			printErrorMsg(e.Path + ": " + err.Error())
			continue
		}
		verb := "created"
		if e.AlreadyExists {
			verb = "overwritten"
		}
		printSuccess(fmt.Sprintf("%s %s", e.Path, paint(styleDim, "("+verb+")")))
	}

	summary := fmt.Sprintf("%d written (%d overwritten)", report.Created, report.Overwritten)
	if len(report.Failed) > 0 {
		summary += fmt.Sprintf(", %d failed", len(report.Failed))
	}
	printInfo("\n" + summary)
}

func printConfigureReport(report *app.ConfigureReport) {
	for _, s := range report.Steps {
		line := fmt.Sprintf("%s: %s", s.Name, s.Detail)
		switch s.Status {
		case app.StepWarning:
			printWarning(line)
			if !globalQuiet {
				printHint(stdout, s.Hint)
			}
		case app.StepSkipped:
			printInfo(paint(styleDim, "- "+line))
		default:
			printSuccess(line)
		}
	}
	if n := report.Warnings(); n > 0 {
		printWarning(fmt.Sprintf("%d setting(s) need manual attention", n))
	}
}

func printNextSteps(repo *app.Repository) {
	printHeader("Next steps")
	steps := []string{
		"Review and commit the generated files if you have not already",
		fmt.Sprintf("Open an issue in %s with the %q label using the Copilot task template", repo.Identity.FullName(), content.TaskLabel),
		"Run 'autopilot verify' to check the configuration",
	}
	for i, s := range steps {
		printInfo(fmt.Sprintf("  %d. %s", i+1, s))
	}
}
