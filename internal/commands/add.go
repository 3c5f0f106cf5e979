package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a scheduled transaction from free text",
		Long: `Add a scheduled transaction from free text, e.g.

  ebb add Rent $1200 on friday
  ebb add Plumber #104 $85.50

The text is sent to the schedule store as-is; the item appears locally
on the next sync.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			ref, err := e.engine.QuickAdd(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Printf("Added %s\n", ref)
			return nil
		},
	}
}
