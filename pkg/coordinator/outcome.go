package coordinator

import (
	"github.com/WeSpitfire/flux-cli-sub002/pkg/retry"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/types"
)

// Request is one proposed change, constructed by the content generator and
// consumed exactly once.
type Request struct {
	Target          string
	Kind            types.OperationKind
	ProposedContent string
	LanguageTag     string // empty or unknown tags skip syntax validation
	Description     string
}

// OutcomeKind discriminates the three request outcomes.
type OutcomeKind int

const (
	// OutcomeCommitted means the change landed and a ledger entry exists.
	OutcomeCommitted OutcomeKind = iota
	// OutcomeRejected means a gate said no; retrying the same request is pointless.
	OutcomeRejected
	// OutcomeRetryable means the failure may clear with adjusted content,
	// subject to the retry policy's verdict.
	OutcomeRetryable
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCommitted:
		return "committed"
	case OutcomeRejected:
		return "rejected"
	default:
		return "retryable"
	}
}

// RejectionStage names the gate that rejected a request.
type RejectionStage string

const (
	StageWorkflow   RejectionStage = "workflow"
	StageValidation RejectionStage = "validation"
	StageApproval   RejectionStage = "approval"
)

// Outcome is the result of one mutation request. Kind selects which fields
// are meaningful: EntryID for committed, Stage/Reason/Suggestions for
// rejected, Reason/Action/Attempts for retryable.
type Outcome struct {
	Kind        OutcomeKind
	EntryID     int64
	Stage       RejectionStage
	Reason      string
	Suggestions []string
	Action      retry.Action
	Attempts    int
}

func committed(entryID int64) Outcome {
	return Outcome{Kind: OutcomeCommitted, EntryID: entryID}
}

func rejected(stage RejectionStage, reason string, suggestions []string) Outcome {
	return Outcome{Kind: OutcomeRejected, Stage: stage, Reason: reason, Suggestions: suggestions}
}

func retryable(reason string, dec retry.Decision) Outcome {
	return Outcome{Kind: OutcomeRetryable, Reason: reason, Action: dec.Action, Attempts: dec.Attempts}
}
