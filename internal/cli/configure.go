package cli

import (
	"github.com/spf13/cobra"

	"github.com/tacogips/autopilot/internal/app"
	"github.com/tacogips/autopilot/internal/template/model"
)

// configureCmd represents the configure command
var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Apply the GitHub repository settings without writing files",
	Long: `Enable auto-merge and the merge strategy, grant workflows write
permissions, protect the base branch and check the assignment token secret
and the agent account. Steps that fail print a manual fix and the rest
still run.

Examples:
  autopilot configure
  autopilot configure --merge-strategy rebase --base-branch develop`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

// Configure command flags
var (
	configureMergeStrategy string
	configureNoAutoMerge   bool
	configureBaseBranch    string
	configureYes           bool
	configureDir           string
)

func init() {
	configureCmd.Flags().StringVar(&configureMergeStrategy, FlagMergeStrategy, "", DescMergeStrategy)
	configureCmd.Flags().BoolVar(&configureNoAutoMerge, FlagNoAutoMerge, false, DescNoAutoMerge)
	configureCmd.Flags().StringVar(&configureBaseBranch, FlagBaseBranch, "", DescBaseBranch)
	configureCmd.Flags().BoolVarP(&configureYes, FlagYes, "y", false, DescYes)
	configureCmd.Flags().StringVar(&configureDir, FlagDir, ".", DescDir)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadedConfig
	ws := newWorkspace(configureDir, cfg)

	repo, err := app.Inspect(ctx, ws.Git, cfg.GitHub.Host)
	if err != nil {
		return err
	}
	if _, err := app.RequireGitHub(ctx, ws.GitHub); err != nil {
		return err
	}

	strategy := cfg.Defaults.MergeStrategy
	if cmd.Flags().Changed(FlagMergeStrategy) {
		strategy = configureMergeStrategy
	}
	parsed, err := model.ParseMergeStrategy(strategy)
	if err != nil {
		return app.NewValidationError("invalid --merge-strategy", err)
	}
	autoMerge := cfg.Defaults.AutoMerge
	if cmd.Flags().Changed(FlagNoAutoMerge) {
		autoMerge = !configureNoAutoMerge
	}

	printHeader("Configuring " + repo.Identity.FullName())
	report := app.Configure(ctx, ws.GitHub, repo.Identity, app.ConfigureOptions{
		MergeStrategy: parsed,
		AutoMerge:     autoMerge,
		Branch:        configureBaseBranch,
		SecretName:    cfg.Defaults.SecretName,
		AgentLogin:    cfg.Defaults.AgentLogin,
		SecretValue:   secretPrompt(!configureYes && isInteractive(), cfg.Defaults.SecretName),
	})
	printConfigureReport(report)
	return nil
}
