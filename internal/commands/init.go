package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ebb-dev/ebb/internal/config"
)

func newInitCommand() *cobra.Command {
	var account string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ebb project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, account)
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "default bank account id (required)")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runInit(dir, account string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	path := filepath.Join(dir, "ebb.yaml")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := config.Default(account)
	cfg.Database = filepath.Join(dir, "ebb.db")
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Initialized ebb project at %s\n", dir)
	fmt.Println("Edit ebb.yaml to point bank_feed and schedule_store at your services.")
	return nil
}
