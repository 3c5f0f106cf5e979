package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ebb-dev/ebb/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "ebb",
		Short:   "Household ledger reconciliation and balance forecasting",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "ebb.yaml", "path to the configuration file")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newSyncCommand(&configPath))
	rootCmd.AddCommand(newForecastCommand(&configPath))
	rootCmd.AddCommand(newLateCommand(&configPath))
	rootCmd.AddCommand(newHealthCommand(&configPath))
	rootCmd.AddCommand(newAddCommand(&configPath))

	return rootCmd
}
