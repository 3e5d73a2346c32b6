package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/autopilot/internal/app"
)

// uninstallCmd represents the uninstall command
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the scaffold files from the repository",
	Long: `Delete the files written by setup and remove directories left empty.
Files whose content differs from what setup generates with the config
defaults are kept unless --include-modified is given, since they may be
the user's own. Other files are never touched. Repository settings on
GitHub are kept.

Examples:
  autopilot uninstall
  autopilot uninstall --yes
  autopilot uninstall --yes --include-modified`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

// Uninstall command flags
var (
	uninstallYes             bool
	uninstallIncludeModified bool
	uninstallDir             string
)

func init() {
	uninstallCmd.Flags().BoolVarP(&uninstallYes, FlagYes, "y", false, "Remove without asking for confirmation")
	uninstallCmd.Flags().BoolVar(&uninstallIncludeModified, FlagIncludeMod, false, DescIncludeMod)
	uninstallCmd.Flags().StringVar(&uninstallDir, FlagDir, ".", DescDir)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadedConfig
	ws := newWorkspace(uninstallDir, cfg)

	status, err := app.Status(ctx, ws, cfg.GitHub.Host)
	if err != nil {
		return err
	}
	root := status.Root

	render := configRender(cfg, "")
	if status.Identity != nil {
		render.Owner, render.Repo = status.Identity.Owner, status.Identity.Repo
	}
	paths, modified := app.InstalledFiles(ws, root, render.WithDefaults())
	if uninstallIncludeModified {
		paths = append(paths, modified...)
		modified = nil
	}

	if len(modified) > 0 {
		printHeader("Kept (content differs from generated)")
		for _, p := range modified {
			printInfo("  " + p)
		}
		if !globalQuiet {
			printHint(stdout, "rerun with --include-modified to remove them too")
		}
	}
	if len(paths) == 0 {
		if len(modified) == 0 {
			printInfo("No scaffold files found.")
		} else {
			printInfo("No unmodified scaffold files to remove.")
		}
		return nil
	}

	printHeader("Files to remove")
	for _, p := range paths {
		printInfo("  " + p)
	}

	if !uninstallYes {
		if !isInteractive() {
			return app.NewAppError(app.ValidationFailed, "confirmation required",
				"rerun with --yes to remove the files without a prompt", nil)
		}
		ok, err := prompter.Confirm(fmt.Sprintf("Remove %d file(s)?", len(paths)), false)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Nothing removed.")
			return nil
		}
	}

	report, err := app.Uninstall(ctx, ws, root, paths)
	if report != nil {
		for _, p := range report.Removed {
			printSuccess(p + " " + paint(styleDim, "(removed)"))
		}
		for _, f := range report.Failed {
			printErrorMsg(f.Path + ": " + f.Err.Error())
		}
		for _, d := range report.Pruned {
			printInfo(paint(styleDim, "  removed empty directory "+d+"/"))
		}
		printInfo(fmt.Sprintf("\n%d removed, %d failed", len(report.Removed), len(report.Failed)))
	}
	return err
}
