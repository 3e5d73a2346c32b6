package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/autopilot/internal/app"
	"github.com/tacogips/autopilot/internal/config"
	"github.com/tacogips/autopilot/internal/template/model"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the scaffold files and repository settings",
	Long: `Print a scorecard of the agent configuration. Nothing is changed.

Files: every critical file must exist; optional files are reported.
Remote: auto-merge, workflow write permissions, branch protection, the
assignment token secret and whether the agent account can be assigned.

Examples:
  autopilot verify
  autopilot verify --strict
  autopilot verify --local`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

// Verify command flags
var (
	verifyStrict     bool
	verifyLocal      bool
	verifyBaseBranch string
	verifyDir        string
)

func init() {
	verifyCmd.Flags().BoolVar(&verifyStrict, FlagStrict, false, DescStrict)
	verifyCmd.Flags().BoolVar(&verifyLocal, FlagLocal, false, DescLocal)
	verifyCmd.Flags().StringVar(&verifyBaseBranch, FlagBaseBranch, "", DescBaseBranch)
	verifyCmd.Flags().StringVar(&verifyDir, FlagDir, ".", DescDir)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadedConfig
	ws := newWorkspace(verifyDir, cfg)

	repo, err := app.Inspect(ctx, ws.Git, cfg.GitHub.Host)
	if err != nil {
		return err
	}

	d := cfg.Defaults
	opts := app.VerifyOptions{
		Render:     configRender(cfg, verifyBaseBranch),
		Branch:     verifyBaseBranch,
		SecretName: d.SecretName,
		AgentLogin: d.AgentLogin,
		Local:      verifyLocal,
	}

	var card *app.Scorecard
	if err := withSpinner(ctx, "Checking repository...", func() {
		card = app.Verify(ctx, ws, repo, opts)
	}); err != nil {
		return err
	}

	printScorecard(repo, card)

	if verifyStrict && card.RequiredFailures() > 0 {
		return app.NewAppError(app.ValidationFailed,
			fmt.Sprintf("%d required check(s) failed", card.RequiredFailures()),
			"run 'autopilot setup' or 'autopilot configure'", nil)
	}
	return nil
}

// configRender is the content the config defaults produce, used to tell
// generated files from modified ones.
func configRender(cfg *config.Config, baseBranch string) model.RenderOptions {
	d := cfg.Defaults
	return model.RenderOptions{
		MaxIterations:  d.MaxIterations,
		AutoMerge:      d.AutoMerge,
		MergeStrategy:  model.MergeStrategy(d.MergeStrategy),
		Schedule:       d.Schedule,
		AgentLogin:     d.AgentLogin,
		SecretName:     d.SecretName,
		InitialVersion: d.InitialVersion,
		BaseBranch:     baseBranch,
	}
}

func printScorecard(repo *app.Repository, card *app.Scorecard) {
	if globalQuiet {
		return
	}
	printHeader("Verify " + repo.Identity.FullName())

	tbl := newTable("Check", "Group", "Required", "Status", "Detail")
	for _, c := range card.Checks {
		required := ""
		if c.Required {
			required = "yes"
		}
		tbl.AddRow(c.Name, string(c.Group), required, statusCell(string(c.Status)), c.Detail)
	}
	tbl.Print()

	var hints []app.Check
	for _, c := range card.Checks {
		if c.Status != app.CheckPass && c.Hint != "" {
			hints = append(hints, c)
		}
	}
	if len(hints) > 0 {
		printInfo("")
		for _, c := range hints {
			printWarning(c.Name)
			printHint(stdout, c.Hint)
		}
	}

	printInfo(fmt.Sprintf("\n%d/%d checks passed, %d required check(s) failing",
		card.Passed(), len(card.Checks), card.RequiredFailures()))
}
