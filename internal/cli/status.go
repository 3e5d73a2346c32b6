package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacogips/autopilot/internal/app"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the repository remote, branch and scaffold files",
	Long: `Show the origin remote, the resolved repository, the current branch and
which scaffold files exist. Nothing is changed and GitHub is not contacted.

Examples:
  autopilot status
  autopilot status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

// Status command flags
var (
	statusJSON bool
	statusDir  string
)

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, FlagJSON, false, DescJSON)
	statusCmd.Flags().StringVar(&statusDir, FlagDir, ".", DescDir)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := loadedConfig
	ws := newWorkspace(statusDir, cfg)

	report, err := app.Status(cmd.Context(), ws, cfg.GitHub.Host)
	if err != nil {
		return err
	}

	if statusJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	if globalQuiet {
		return nil
	}

	printHeader("Repository")
	printInfo("Root:       " + report.Root)
	origin := report.OriginURL
	if origin == "" {
		origin = paint(styleWarning, "(none)")
	}
	printInfo("Origin:     " + origin)
	if report.Identity != nil {
		printInfo("Repository: " + noun(report.Identity.FullName()))
	} else {
		printInfo("Repository: " + paint(styleWarning, "(not a "+cfg.GitHub.Host+" remote)"))
	}
	branch := report.Branch
	if branch == "" {
		branch = "(detached)"
	}
	printInfo("Branch:     " + branch)

	printHeader("Scaffold files")
	tbl := newTable("File", "Category", "Critical", "Status")
	for _, f := range report.Files {
		critical := ""
		if f.Critical {
			critical = "yes"
		}
		state := "missing"
		if f.Exists {
			state = "present"
		}
		tbl.AddRow(f.Path, f.Category, critical, statusCell(state))
	}
	tbl.Print()
	printInfo(fmt.Sprintf("\n%d/%d files present", report.Present(), len(report.Files)))
	return nil
}
