package coordinator

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/approval"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/filesystem"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/ledger"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/retry"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/utils"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/validation"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/workflow"
)

// Coordinator sequences the gate chain around every mutation request:
// workflow check, syntax validation, undo snapshot, approval, commit.
// Safe to invoke from multiple concurrent tasks; mutations to the same
// target are serialized.
type Coordinator struct {
	projectRoot string
	workflow    *workflow.State
	gate        *validation.Gate
	ledger      *ledger.Ledger
	approval    *approval.Gate
	policy      *retry.Policy
	locks       *targetLocks
	logger      *utils.Logger
}

// New wires the gates together for one task.
func New(projectRoot string, wf *workflow.State, gate *validation.Gate, led *ledger.Ledger, app *approval.Gate, pol *retry.Policy) *Coordinator {
	return &Coordinator{
		projectRoot: projectRoot,
		workflow:    wf,
		gate:        gate,
		ledger:      led,
		approval:    app,
		policy:      pol,
		locks:       newTargetLocks(),
		logger:      utils.GetLogger(),
	}
}

// Workflow exposes the task's workflow state so callers can report
// context-gathering actions.
func (c *Coordinator) Workflow() *workflow.State { return c.workflow }

// Ledger exposes the undo ledger for the project scope.
func (c *Coordinator) Ledger() *ledger.Ledger { return c.ledger }

// RequestMutation runs one proposed change through the gate chain,
// short-circuiting on the first failure.
func (c *Coordinator) RequestMutation(ctx context.Context, req Request) Outcome {
	// 1. Workflow precondition. Not a flaky error: the retry policy is
	// never consulted here, the caller must gather context instead.
	if dec := c.workflow.CheckMutationAllowed(req.Target, req.Kind); !dec.Allowed {
		return rejected(StageWorkflow, dec.Reason, dec.Suggestions)
	}

	resolved, err := filesystem.SafeResolvePath(c.projectRoot, req.Target)
	if err != nil {
		return rejected(StageWorkflow, fmt.Sprintf("target path rejected: %v", err), []string{
			"use a path inside the project root",
		})
	}

	// Steps 2-5 run under the per-target lock so two concurrent requests
	// cannot interleave snapshot and write for the same file.
	lock := c.locks.lockFor(resolved)
	lock.Lock()
	defer lock.Unlock()

	// The prior content captured here, under the lock, is the single
	// source of truth for undo; it is never re-derived from disk later.
	prior, err := filesystem.ReadFileIfExists(resolved)
	if err != nil {
		dec := c.policy.OnFailure(req.Target, req.Kind, ioSignature(err))
		return retryable(fmt.Sprintf("failed to snapshot %s: %v", req.Target, err), dec)
	}

	// 2. Syntax validation. Purely functional, so it runs before anything
	// touches persistent storage.
	if result := c.gate.Validate(req.Target, prior, req.ProposedContent, req.LanguageTag); !result.Valid {
		sig := validation.Signature(result.Err)
		dec := c.policy.OnFailure(req.Target, req.Kind, sig)
		c.logger.LogGateDecision("validation", req.Target, false, result.Err.Error())
		return retryable(fmt.Sprintf("parse error: %s", result.Err.Error()), dec)
	}

	// 3. Snapshot before the write, so a crash between snapshot and write
	// never loses recoverability. Worst case is a spurious entry for a
	// write that didn't happen, which self-corrects on the next
	// read-before-write.
	entryID, err := c.ledger.Record(req.Target, req.Kind, prior, req.ProposedContent, req.Description)
	if err != nil {
		dec := c.policy.OnFailure(req.Target, req.Kind, ioSignature(err))
		return retryable(fmt.Sprintf("failed to record undo entry: %v", err), dec)
	}

	// 4. Approval. An explicit "no" (or a cancelled prompt) is final for
	// this request, so the snapshot taken above is discarded again: a
	// rejected confirm must not leave a ledger entry behind.
	diff := ledger.GetDiff(req.Target, prior, req.ProposedContent)
	if !c.approval.Confirm(ctx, req.Target, diff, req.Description) {
		if derr := c.ledger.Discard(entryID); derr != nil {
			c.logger.LogError("discarding snapshot after rejection", derr)
		}
		return rejected(StageApproval, "change rejected by reviewer", nil)
	}

	// 5. Commit.
	c.workflow.SetStage(workflow.StageExecuting)
	if err := filesystem.SaveFile(resolved, req.ProposedContent); err != nil {
		// I/O failures use a distinct signature namespace so they are
		// never confused with syntax errors for pivot purposes.
		dec := c.policy.OnFailure(req.Target, req.Kind, ioSignature(err))
		return retryable(fmt.Sprintf("failed to write %s: %v", req.Target, err), dec)
	}

	c.policy.OnSuccess(req.Target, req.Kind)
	c.workflow.SetStage(workflow.StageVerified)
	reqHash := utils.GenerateRequestHash(req.Target + ":" + req.ProposedContent)
	c.logger.Logf("Committed %s to %s (entry %d, request %s)", req.Kind, req.Target, entryID, reqHash[:12])
	return committed(entryID)
}

// ioSignature fingerprints a persistence failure coarsely: the retry policy
// only needs to recognize the same class of failure repeating.
func ioSignature(err error) string {
	switch {
	case errors.Is(err, os.ErrPermission):
		return "io:permission"
	case errors.Is(err, os.ErrNotExist):
		return "io:notexist"
	default:
		return "io:write"
	}
}
