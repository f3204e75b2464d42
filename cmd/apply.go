package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/approval"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/config"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/coordinator"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/filesystem"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/ledger"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/retry"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/types"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/ui"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/validation"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/workflow"
	"github.com/spf13/cobra"
)

// applyCmd runs one proposed change through the full gate chain.
var applyCmd = &cobra.Command{
	Use:   "apply <target>",
	Short: "Run a proposed change through the safety pipeline",
	Long: `Apply reads the proposed content (from --content or stdin) and runs it
through the pipeline: workflow check, syntax validation, undo snapshot,
approval, commit.

Examples:
  flux apply main.go --content new_main.go --kind replace --lang go
  cat fix.py | flux apply scripts/fix.py --kind create --lang python --auto`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		contentPath, _ := cmd.Flags().GetString("content")
		kindName, _ := cmd.Flags().GetString("kind")
		lang, _ := cmd.Flags().GetString("lang")
		description, _ := cmd.Flags().GetString("description")
		auto, _ := cmd.Flags().GetBool("auto")

		kind, err := types.ParseOperationKind(kindName)
		if err != nil {
			return err
		}

		proposed, err := readProposedContent(contentPath)
		if err != nil {
			return err
		}

		root, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to determine project root: %w", err)
		}
		cfg, err := config.Load(root)
		if err != nil {
			return err
		}
		if auto {
			cfg.ApprovalMode = config.ApprovalAuto
		}

		co, err := buildPipeline(root, cfg)
		if err != nil {
			return err
		}

		if kind == types.OpCreate && filesystem.FileExists(target) {
			return fmt.Errorf("%s already exists; use --kind replace to overwrite it", target)
		}

		// Applying an edit from the CLI starts with reading the current
		// file; that read is the inspection the workflow gate wants.
		if kind != types.OpCreate {
			if _, err := filesystem.ReadFile(target); err != nil {
				return fmt.Errorf("cannot %s %s: %w", kind, target, err)
			}
			co.Workflow().RecordInspection(target)
		}

		outcome := co.RequestMutation(cmd.Context(), coordinator.Request{
			Target:          target,
			Kind:            kind,
			ProposedContent: proposed,
			LanguageTag:     lang,
			Description:     description,
		})
		printOutcome(outcome)
		if outcome.Kind != coordinator.OutcomeCommitted {
			return fmt.Errorf("change not applied")
		}
		return nil
	},
}

func buildPipeline(root string, cfg *config.Config) (*coordinator.Coordinator, error) {
	led, err := ledger.Open(root, cfg.RetentionLimit)
	if err != nil {
		return nil, err
	}

	mode, err := approval.ParseMode(cfg.ApprovalMode)
	if err != nil {
		return nil, err
	}
	var surface approval.Surface
	if mode == approval.ModeInteractive {
		if ts, terr := approval.NewTerminalSurface(); terr == nil {
			surface = ts
		}
		// A missing terminal leaves surface nil; the gate fails closed.
	}

	return coordinator.New(
		root,
		workflow.NewState(),
		validation.NewGate(),
		led,
		approval.NewGate(mode, surface),
		retry.NewPolicy(cfg.MaxSyntaxAttempts, cfg.MaxIOAttempts),
	), nil
}

func readProposedContent(contentPath string) (string, error) {
	if contentPath == "" || contentPath == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read content from stdin: %w", err)
		}
		return string(data), nil
	}
	return filesystem.ReadFile(contentPath)
}

func printOutcome(outcome coordinator.Outcome) {
	switch outcome.Kind {
	case coordinator.OutcomeCommitted:
		fmt.Printf("✅ Change committed (ledger entry %d)\n", outcome.EntryID)
	case coordinator.OutcomeRejected:
		fmt.Printf("❌ Rejected at %s gate: %s\n", outcome.Stage, outcome.Reason)
		if len(outcome.Suggestions) > 0 {
			fmt.Printf("💡 Suggestions:\n")
			ui.DisplayNumberedList(outcome.Suggestions)
		}
	case coordinator.OutcomeRetryable:
		fmt.Printf("⚠️  %s\n", outcome.Reason)
		fmt.Printf("   Attempt %d: %s\n", outcome.Attempts, strings.ToUpper(outcome.Action.String()))
		if outcome.Action == retry.ActionAbort {
			fmt.Printf("   Automatic recovery exhausted; escalate to a human.\n")
		}
	}
}

func init() {
	applyCmd.Flags().String("content", "", "File holding the proposed content ('-' or empty reads stdin)")
	applyCmd.Flags().String("kind", "replace", "Operation kind: create, replace, or patch")
	applyCmd.Flags().String("lang", "", "Language tag for syntax validation (unknown tags skip validation)")
	applyCmd.Flags().String("description", "", "Short description recorded with the ledger entry")
	applyCmd.Flags().Bool("auto", false, "Approve automatically instead of prompting")
}
