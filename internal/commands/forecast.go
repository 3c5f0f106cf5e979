package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newForecastCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "forecast [account]",
		Short: "Project an account's day-by-day balance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			account := e.cfg.DefaultAccount
			if len(args) > 0 {
				account = args[0]
			}

			days, err := e.engine.Forecast(cmd.Context(), account)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tBALANCE")
			for _, d := range days {
				fmt.Fprintf(w, "%s\t%s\n", formatDate(d.Date), formatCents(d.Balance))
			}
			return w.Flush()
		},
	}
}
