package commands

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newLateCommand(configPath *string) *cobra.Command {
	lateCmd := &cobra.Command{
		Use:   "late",
		Short: "Review scheduled transactions that never cleared",
	}
	lateCmd.AddCommand(newLateListCommand(configPath))
	lateCmd.AddCommand(newLateRescheduleCommand(configPath))
	lateCmd.AddCommand(newLateForgetCommand(configPath))
	return lateCmd
}

func newLateListCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List late scheduled transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			late, err := lateItems(cmd.Context(), e.store)
			if err != nil {
				return err
			}
			if len(late) == 0 {
				fmt.Println("No late items.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "REF\tTITLE\tAMOUNT\tEXPECTED")
			for _, s := range late {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					s.Ref, s.Title, formatCents(s.Amount), formatDate(s.OriginalDate))
			}
			return w.Flush()
		},
	}
}

func newLateRescheduleCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reschedule <ref> <date>",
		Short: "Move a late item to a new date and clear its late flag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newDate, err := time.Parse("2006-01-02", args[1])
			if err != nil {
				return fmt.Errorf("parsing date %q (want YYYY-MM-DD): %w", args[1], err)
			}

			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.engine.Reschedule(cmd.Context(), args[0], newDate); err != nil {
				return err
			}
			fmt.Printf("Rescheduled %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newLateForgetCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "forget <ref>",
		Short: "Remove a late item from the calendar and the ledger store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.engine.Forget(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Forgot %s\n", args[0])
			return nil
		},
	}
}
