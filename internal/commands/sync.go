package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run one synchronization cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(*configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			report, err := e.engine.RunCycle(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("cycle %s\n", report.CycleID)
			fmt.Printf("  ledger feed:   %s\n", feedStatus(report.LedgerOK))
			fmt.Printf("  schedule feed: %s\n", feedStatus(report.ScheduleOK))
			for _, v := range report.IntegrityErrors {
				fmt.Printf("  integrity: %s: %s\n", v.Ref, v.Reason)
			}
			for _, f := range report.PushFailures {
				fmt.Printf("  push failed: %s: %v\n", f.Ref, f.Err)
			}

			late, err := lateItems(cmd.Context(), e.store)
			if err != nil {
				return err
			}
			for _, s := range late {
				fmt.Printf("  late: %s %s %s (%s)\n",
					s.Ref, s.Title, formatCents(s.Amount), formatDate(s.OriginalDate))
			}
			return nil
		},
	}
}

func feedStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAILED (see ebb health)"
}
