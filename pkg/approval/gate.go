package approval

import (
	"context"
	"fmt"
	"sync"

	"github.com/WeSpitfire/flux-cli-sub002/pkg/utils"
)

// Mode controls how the gate decides.
type Mode int

const (
	// ModeInteractive delegates every decision to the interaction surface.
	ModeInteractive Mode = iota
	// ModeAuto approves immediately; used for batch/trusted execution.
	ModeAuto
)

func (m Mode) String() string {
	if m == ModeAuto {
		return "auto"
	}
	return "interactive"
}

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto":
		return ModeAuto, nil
	case "interactive", "":
		return ModeInteractive, nil
	default:
		return ModeInteractive, fmt.Errorf("unknown approval mode %q", s)
	}
}

// Surface presents a diff and collects a yes/no decision from a human.
type Surface interface {
	Confirm(ctx context.Context, target, diffSummary, note string) (bool, error)
}

// Gate formats a change for review and returns a decision. The mode is set
// once per run, not per call. When the surface is unavailable in
// INTERACTIVE mode the gate fails closed.
type Gate struct {
	mode    Mode
	surface Surface

	mu       sync.Mutex
	approved int
	rejected int

	logger *utils.Logger
}

// NewGate builds a gate for the given mode. surface may be nil, in which
// case interactive confirmation always rejects.
func NewGate(mode Mode, surface Surface) *Gate {
	return &Gate{
		mode:    mode,
		surface: surface,
		logger:  utils.GetLogger(),
	}
}

// Mode returns the run-scoped approval mode.
func (g *Gate) Mode() Mode { return g.mode }

// Confirm asks for sign-off on a change. A cancelled context counts as an
// explicit rejection: the write step is strictly after confirmation, so no
// partial write can have happened.
func (g *Gate) Confirm(ctx context.Context, target, diffSummary, note string) bool {
	if g.mode == ModeAuto {
		g.tally(true)
		g.logger.LogGateDecision("approval", target, true, "auto mode")
		return true
	}

	if g.surface == nil {
		g.tally(false)
		g.logger.LogGateDecision("approval", target, false, "no interaction surface attached")
		return false
	}

	approved, err := g.surface.Confirm(ctx, target, diffSummary, note)
	if err != nil {
		// Fail closed: an unavailable or interrupted surface is a "no".
		g.tally(false)
		g.logger.LogGateDecision("approval", target, false, fmt.Sprintf("surface error: %v", err))
		return false
	}

	g.tally(approved)
	g.logger.LogGateDecision("approval", target, approved, "human decision")
	return approved
}

// Stats returns the running decision tally. Observability only.
func (g *Gate) Stats() (approved, rejected int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.approved, g.rejected
}

func (g *Gate) tally(approved bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if approved {
		g.approved++
	} else {
		g.rejected++
	}
}
