package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tacogips/autopilot/internal/app"
	"github.com/tacogips/autopilot/internal/config"
	"github.com/tacogips/autopilot/internal/debug"
	"github.com/tacogips/autopilot/internal/exec"
	"github.com/tacogips/autopilot/internal/git"
	"github.com/tacogips/autopilot/internal/github"
	"github.com/tacogips/autopilot/internal/template/generator"
	"github.com/tacogips/autopilot/internal/template/registry"
	"github.com/tacogips/autopilot/internal/version"
)

// Global flags
var (
	globalNoColor    bool
	globalQuiet      bool
	globalDebug      bool
	globalConfigPath string
)

// loadedConfig is set before every command runs.
var loadedConfig = config.DefaultConfig()

// skipConfigAnnotation marks commands that run without reading the config file.
const skipConfigAnnotation = "autopilot/skip-config"

// isInteractive reports whether prompts can be shown.
var isInteractive = func() bool {
	return isTerminal(os.Stdin) && isTerminal(stdout)
}

// newWorkspace wires the collaborators for a repository directory.
var newWorkspace = func(dir string, cfg *config.Config) *app.Workspace {
	runner := exec.NewRealRunner(cfg.Timeout())
	return &app.Workspace{
		Git:     git.NewRepo(dir, runner),
		GitHub:  github.NewClient(runner, cfg.GitHub.Host),
		Writer:  generator.NewOSWriter(),
		Catalog: registry.Default(),
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autopilot",
	Short: "Set up a repository for autonomous Copilot coding agent work",
	Long: `autopilot writes the configuration a repository needs so the GitHub
Copilot coding agent is assigned to issues automatically and its pull
requests are merged once checks pass.

Run "autopilot setup" inside a git repository with a GitHub origin to:
  1. Write editor settings, agent instructions, workflows and templates
  2. Enable auto-merge, workflow write permissions and branch protection
  3. Check the assignment token secret and the agent account

Use "autopilot verify" afterwards to see what is still missing.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initGlobals,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd.Version = version.Version
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printError(err)
		if isUsageError(err) {
			fmt.Fprintln(stderr)
			fmt.Fprint(stderr, rootCmd.UsageString())
		}
		return 1
	}
	return 0
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)
	rootCmd.PersistentFlags().BoolVar(&globalDebug, FlagDebug, false, DescDebug)
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, FlagConfig, "", DescConfig)

	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func initGlobals(cmd *cobra.Command, _ []string) error {
	debug.SetDebug(globalDebug)
	debug.SetNoColor(globalNoColor)

	cfg := config.DefaultConfig()
	if cmd.Annotations[skipConfigAnnotation] == "" {
		var err error
		if cfg, err = loadConfig(); err != nil {
			return err
		}
	}
	loadedConfig = cfg

	if cfg.Output.Quiet {
		globalQuiet = true
	}
	colorEnabled = !globalNoColor && cfg.Output.Color && isTerminal(stdout)
	debug.DebugJSON("config", cfg)
	return nil
}

func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()
	if globalConfigPath != "" {
		return loader.Load(globalConfigPath)
	}
	return loader.LoadOrDefault(config.DefaultConfigPath())
}

// printError prints an error and its hint to stderr
func printError(err error) {
	var appErr *app.AppError
	if errors.As(err, &appErr) {
		printErrorMsg(appErr.Error())
		printHint(stderr, appErr.Hint)
		return
	}
	printErrorMsg(err.Error())
}

func isUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}
