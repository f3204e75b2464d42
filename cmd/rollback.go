package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/config"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/ledger"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/ui"
	"github.com/spf13/cobra"
)

// rollbackCmd restores the most recent ledger entry.
var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the most recent change",
	Long: `Rollback restores the target of the most recent ledger entry to its
prior content and consumes the entry.

Examples:
  flux rollback          # Confirm, then undo the latest change
  flux rollback --yes    # Undo without confirmation`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		latest, err := led.PeekLatest()
		if err != nil {
			return err
		}
		if latest == nil {
			fmt.Println("ℹ️ No changes recorded; nothing to restore")
			return ledger.ErrNoHistory
		}

		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			fmt.Printf("🔄 About to restore %s (entry %d: %s)\n", latest.Target, latest.ID, latest.Description)
			if !ui.PromptForConfirmation("Are you sure? (y/N):") {
				fmt.Println("❌ Rollback cancelled")
				return nil
			}
		}

		restored, err := led.RestoreLatest()
		if err != nil {
			if errors.Is(err, ledger.ErrNoHistory) {
				fmt.Println("ℹ️ No changes recorded; nothing to restore")
			}
			return err
		}

		fmt.Printf("✅ Restored %s to its prior content (entry %d consumed)\n", restored.Target, restored.EntryID)
		return nil
	},
}

func init() {
	rollbackCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
