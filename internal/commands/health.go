package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newHealthCommand(configPath *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show recent feed health events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			events, err := e.store.HealthEvents(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No health events recorded yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tFEED\tSEVERITY\tDESCRIPTION")
			for _, ev := range events {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Feed, ev.Severity, ev.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of events to show")

	return cmd
}
