package workflow

import (
	"fmt"
	"sync"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/types"
	"github.com/WeSpitfire/flux-cli-sub002/pkg/utils"
	"github.com/google/uuid"
)

// Stage describes how far a task has progressed toward a safe mutation.
type Stage int

const (
	// StageGathering is the initial stage: the agent is still reading context.
	StageGathering Stage = iota
	// StagePlanned means the agent has declared what it intends to change.
	StagePlanned
	// StageValidated means the agent has checked its plan for conflicts.
	StageValidated
	// StageExecuting means a mutation is in flight.
	StageExecuting
	// StageVerified means a post-mutation check was requested.
	StageVerified
)

func (s Stage) String() string {
	switch s {
	case StageGathering:
		return "gathering"
	case StagePlanned:
		return "planned"
	case StageValidated:
		return "validated"
	case StageExecuting:
		return "executing"
	case StageVerified:
		return "verified"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Decision is the result of a mutation-allowed check. A blocked check is not
// an error; it means the caller must gather more context first.
type Decision struct {
	Allowed     bool
	Reason      string
	Suggestions []string
}

// State tracks one task's context-gathering progress. Only the
// inspect-before-mutate rule is hard-enforced; the stage is an advisory
// hint available to stricter policies.
type State struct {
	mu        sync.Mutex
	taskID    string
	stage     Stage
	inspected map[string]struct{}
	searches  int
	logger    *utils.Logger
}

// NewState creates the workflow state for a fresh task.
func NewState() *State {
	return &State{
		taskID:    uuid.NewString(),
		stage:     StageGathering,
		inspected: make(map[string]struct{}),
		logger:    utils.GetLogger(),
	}
}

// TaskID returns the task identifier this state is scoped to.
func (s *State) TaskID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskID
}

// Stage returns the current advisory stage.
func (s *State) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

// RecordInspection notes that the agent explicitly read or listed a target.
func (s *State) RecordInspection(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inspected[target] = struct{}{}
}

// RecordSearch notes a lookup/search action taken by the agent.
func (s *State) RecordSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches++
	s.logger.Logf("Task %s: search %d recorded (%q)", s.taskID, s.searches, query)
}

// RecordPlan notes a declared intent and advances the advisory stage.
func (s *State) RecordPlan(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage < StagePlanned {
		s.stage = StagePlanned
	}
	s.logger.Logf("Task %s: plan recorded (%s)", s.taskID, description)
}

// SetStage moves the advisory stage marker. The coordinator uses this to
// flag executing/verified phases.
func (s *State) SetStage(stage Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stage = stage
}

// InspectedCount returns how many distinct targets have been inspected.
func (s *State) InspectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inspected)
}

// SearchCount returns how many search actions have been recorded.
func (s *State) SearchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searches
}

// CheckMutationAllowed enforces the read-before-write rule: REPLACE and
// PATCH are blocked until the target has been inspected in this task.
// CREATE is exempt since there is nothing to read.
func (s *State) CheckMutationAllowed(target string, kind types.OperationKind) Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail := fmt.Sprintf("stage=%s inspected=%d searches=%d kind=%s", s.stage, len(s.inspected), s.searches, kind)

	if kind == types.OpCreate {
		s.logger.LogGateDecision("workflow", target, true, detail)
		return Decision{Allowed: true}
	}

	if _, ok := s.inspected[target]; !ok {
		s.logger.LogGateDecision("workflow", target, false, detail+" target not inspected")
		return Decision{
			Allowed: false,
			Reason:  "must inspect before mutating",
			Suggestions: []string{
				fmt.Sprintf("read %s before modifying it", target),
				"list the containing directory to confirm the path",
			},
		}
	}

	s.logger.LogGateDecision("workflow", target, true, detail)
	return Decision{Allowed: true}
}

// Reset returns the state to GATHERING for the start of a new task.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskID = uuid.NewString()
	s.stage = StageGathering
	s.inspected = make(map[string]struct{})
	s.searches = 0
}
