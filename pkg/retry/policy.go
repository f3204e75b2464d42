package retry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/types"
)

// Action is the policy verdict after a failure.
type Action int

const (
	// ActionRetry lets the agent try again with adjusted content.
	ActionRetry Action = iota
	// ActionPivot signals the current strategy is stuck; change approach.
	ActionPivot
	// ActionAbort means automatic recovery is exhausted; escalate.
	ActionAbort
)

func (a Action) String() string {
	switch a {
	case ActionRetry:
		return "retry"
	case ActionPivot:
		return "pivot"
	case ActionAbort:
		return "abort"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// Decision carries the verdict plus the accumulated attempt count so a
// caller can decide to escalate to a human on PIVOT/ABORT.
type Decision struct {
	Action   Action
	Attempts int
}

// Record tracks failures for one (target, operationKind) pair within a task.
type Record struct {
	Attempts      int
	LastSignature string
}

type recordKey struct {
	target string
	kind   types.OperationKind
}

// Policy bounds how many times a failing strategy may be retried before it
// must change approach or give up. Scoped to a single task.
type Policy struct {
	mu            sync.Mutex
	records       map[recordKey]*Record
	syntaxCeiling int
	ioCeiling     int
}

// NewPolicy creates a policy with the given ceilings. Non-positive values
// fall back to the defaults: 3 for validation failures, 2 for I/O failures
// (I/O errors are less likely to be fixed by changing content).
func NewPolicy(syntaxCeiling, ioCeiling int) *Policy {
	if syntaxCeiling <= 0 {
		syntaxCeiling = 3
	}
	if ioCeiling <= 0 {
		ioCeiling = 2
	}
	return &Policy{
		records:       make(map[recordKey]*Record),
		syntaxCeiling: syntaxCeiling,
		ioCeiling:     ioCeiling,
	}
}

// OnFailure records a failure and decides retry vs. pivot vs. abort.
// A repeated identical signature forces PIVOT immediately, regardless of
// attempt count: the same failure twice signals a stuck strategy, and more
// attempts would not help. Otherwise the attempt ceiling forces ABORT.
func (p *Policy) OnFailure(target string, kind types.OperationKind, signature string) Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := recordKey{target: target, kind: kind}
	rec, ok := p.records[key]
	if !ok {
		rec = &Record{}
		p.records[key] = rec
	}

	rec.Attempts++
	repeated := rec.Attempts > 1 && signature != "" && signature == rec.LastSignature
	rec.LastSignature = signature

	switch {
	case repeated:
		return Decision{Action: ActionPivot, Attempts: rec.Attempts}
	case rec.Attempts >= p.ceilingFor(signature):
		return Decision{Action: ActionAbort, Attempts: rec.Attempts}
	default:
		return Decision{Action: ActionRetry, Attempts: rec.Attempts}
	}
}

// OnSuccess clears the failure record for a target/kind pair.
func (p *Policy) OnSuccess(target string, kind types.OperationKind) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.records, recordKey{target: target, kind: kind})
}

// Attempts returns the accumulated attempt count for a target/kind pair.
func (p *Policy) Attempts(target string, kind types.OperationKind) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if rec, ok := p.records[recordKey{target: target, kind: kind}]; ok {
		return rec.Attempts
	}
	return 0
}

// Reset discards all failure records; called at task end.
func (p *Policy) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = make(map[recordKey]*Record)
}

func (p *Policy) ceilingFor(signature string) int {
	if strings.HasPrefix(signature, "io:") {
		return p.ioCeiling
	}
	return p.syntaxCeiling
}
