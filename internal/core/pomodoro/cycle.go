package pomodoro

import (
	"errors"
	"time"
)

// Phase is one of the mutually exclusive pomodoro states.
type Phase string

const (
	PhaseNone       Phase = "none"
	PhaseWorking    Phase = "working"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

// IsBreak reports whether p is one of the break phases.
func (p Phase) IsBreak() bool {
	return p == PhaseShortBreak || p == PhaseLongBreak
}

// Label returns a human readable name for the phase.
func (p Phase) Label() string {
	switch p {
	case PhaseWorking:
		return "work"
	case PhaseShortBreak:
		return "short break"
	case PhaseLongBreak:
		return "long break"
	default:
		return "idle"
	}
}

// CyclesPerRotation is the length of the cycle ordinal rotation.
const CyclesPerRotation = 4

// ErrNotWorking is returned when a break is requested outside a work phase.
var ErrNotWorking = errors.New("a break can only follow a work phase")

// CycleTracker records the current phase, the rotating cycle ordinal and the
// instant the phase began.
type CycleTracker struct {
	phase     Phase
	ordinal   int // 0 means unset
	startedAt time.Time

	// longBreakAt is the ordinal that earns a long break.
	longBreakAt int
}

// NewCycleTracker returns an idle tracker. longBreakAt selects which cycle
// ordinal is followed by a long break; values outside 1..4 fall back to 4.
func NewCycleTracker(longBreakAt int) *CycleTracker {
	if longBreakAt < 1 || longBreakAt > CyclesPerRotation {
		longBreakAt = CyclesPerRotation
	}
	return &CycleTracker{phase: PhaseNone, longBreakAt: longBreakAt}
}

// Phase returns the current phase.
func (t *CycleTracker) Phase() Phase {
	if t.phase == "" {
		return PhaseNone
	}
	return t.phase
}

// Ordinal returns the cycle ordinal and whether it has been set.
func (t *CycleTracker) Ordinal() (int, bool) {
	return t.ordinal, t.ordinal != 0
}

// StartedAt returns the instant the current phase began. The zero time is
// returned while idle.
func (t *CycleTracker) StartedAt() time.Time {
	return t.startedAt
}

// AdvanceOrdinal rotates the ordinal 1→2→3→4→1. An unset ordinal becomes 1.
func (t *CycleTracker) AdvanceOrdinal() {
	if t.ordinal > 0 && t.ordinal < CyclesPerRotation {
		t.ordinal++
		return
	}
	t.ordinal = 1
}

// EnterWorking begins a work phase at now and advances the ordinal.
func (t *CycleTracker) EnterWorking(now time.Time) {
	t.startedAt = now
	t.phase = PhaseWorking
	t.AdvanceOrdinal()
}

// EnterBreak begins the break that follows the current work phase. The
// ordinal is not advanced; the next EnterWorking does that.
func (t *CycleTracker) EnterBreak(now time.Time) (Phase, error) {
	if t.phase != PhaseWorking {
		return t.Phase(), ErrNotWorking
	}

	t.phase = PhaseShortBreak
	if t.ordinal == t.longBreakAt {
		t.phase = PhaseLongBreak
	}
	t.startedAt = now
	return t.phase, nil
}

// Reset returns the tracker to idle while keeping the ordinal so the next
// work phase continues the rotation.
func (t *CycleTracker) Reset() {
	t.phase = PhaseNone
	t.startedAt = time.Time{}
}
