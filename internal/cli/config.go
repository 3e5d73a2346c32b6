package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tacogips/autopilot/internal/config"
)

// configCmd groups config file commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the autopilot config file",
	Long: `The config file holds the default wizard answers and the GitHub host.
It lives at $XDG_CONFIG_HOME/autopilot/config.yaml unless --config is
given. Keys can be overridden with AUTOPILOT_* environment variables, e.g.
AUTOPILOT_DEFAULTS_MERGE_STRATEGY=rebase.`,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a config file with the default values",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(stdout, configPath())
		return nil
	},
}

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, FlagForce, "f", false, DescForce)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func configPath() string {
	if globalConfigPath != "" {
		return globalConfigPath
	}
	return config.DefaultConfigPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return err
	}
	printSuccess("Wrote " + noun(path))
	return nil
}
