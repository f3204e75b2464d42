package cmd

import (
	"fmt"
	"os"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/config"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/ledger"
	"github.com/spf13/cobra"
)

// logCmd shows the undo ledger for the current project scope.
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the undo ledger for this project",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine project root: %w", err)
		}
		cfg, err := config.Load(root)
		if err != nil {
			return err
		}
		led, err := ledger.Open(root, cfg.RetentionLimit)
		if err != nil {
			return err
		}

		history, err := ledger.FormatHistory(led, limit)
		if err != nil {
			return err
		}
		fmt.Print(history)
		return nil
	},
}

func init() {
	logCmd.Flags().Int("limit", 10, "Maximum number of entries to show (0 for all)")
}
