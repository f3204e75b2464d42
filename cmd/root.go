package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flux",
	Short: "Mutation safety pipeline for AI coding agents",
	Long: `Flux sits between an agent that wants to change files and the
filesystem itself. No file is modified unless the agent has gathered
context about it, the proposed content parses, the change is reversible,
and a reviewer (or an auto-approval policy) has signed off.

Available commands:
  apply    - Run a proposed change through the safety pipeline
  log      - Show the undo ledger for this project
  rollback - Restore the most recent change
  status   - Show project scope and pipeline configuration`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(rollbackCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
