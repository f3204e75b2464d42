package cmd

import (
	"fmt"
	"os"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/config"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/ledger"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/workspace"
	"github.com/spf13/cobra"
)

// statusCmd summarizes the project scope and pipeline configuration.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show project scope and pipeline configuration",
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
		depth, err := led.Len()
		if err != nil {
			return err
		}
		files, err := workspace.ListProjectFiles(root)
		if err != nil {
			return err
		}

		fmt.Printf("Project root:    %s\n", root)
		fmt.Printf("Scope id:        %s\n", workspace.ScopeID(root))
		fmt.Printf("Tracked files:   %d\n", len(files))
		fmt.Printf("Ledger entries:  %d (retention %d)\n", depth, cfg.RetentionLimit)
		fmt.Printf("Approval mode:   %s\n", cfg.ApprovalMode)
		fmt.Printf("Retry ceilings:  %d syntax / %d io\n", cfg.MaxSyntaxAttempts, cfg.MaxIOAttempts)
		return nil
	},
}
