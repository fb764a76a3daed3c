package pomodoro

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrIdle is returned when a countdown is started on a session with no
// active phase.
var ErrIdle = errors.New("pomodoro session is idle")

// Durations configures how long each phase lasts.
type Durations struct {
	Work       time.Duration
	ShortBreak time.Duration
	LongBreak  time.Duration
	// LongBreakAt is the cycle ordinal followed by a long break.
	LongBreakAt int
}

// DefaultDurations returns the classic 25/5/15 pomodoro.
func DefaultDurations() Durations {
	return Durations{
		Work:        25 * time.Minute,
		ShortBreak:  5 * time.Minute,
		LongBreak:   15 * time.Minute,
		LongBreakAt: CyclesPerRotation,
	}
}

func (d Durations) forPhase(p Phase) time.Duration {
	switch p {
	case PhaseWorking:
		return d.Work
	case PhaseShortBreak:
		return d.ShortBreak
	case PhaseLongBreak:
		return d.LongBreak
	default:
		return 0
	}
}

// Progress is emitted once per tick while a countdown runs.
type Progress struct {
	SessionID string
	Key       Key
	Phase     Phase
	Cycle     int
	Remaining time.Duration
	Display   string
}

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	SessionID string
	Key       Key
	Phase     Phase
	Cycle     int
	Remaining time.Duration
	Display   string
	Planned   time.Duration
	StartedAt time.Time
}

// Session composes a Clock and a CycleTracker and drives the countdown for
// a single owner.
type Session struct {
	id        string
	key       Key
	durations Durations

	mu      sync.Mutex
	clock   Clock
	tracker *CycleTracker
	planned time.Duration
}

// NewSession returns an idle session.
func NewSession(id string, key Key, d Durations) *Session {
	return &Session{
		id:        id,
		key:       key,
		durations: d,
		tracker:   NewCycleTracker(d.LongBreakAt),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Key returns the owner key of the session.
func (s *Session) Key() Key { return s.key }

// StartWork enters a work phase at now and loads the work duration.
func (s *Session) StartWork(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.EnterWorking(now)
	s.loadLocked(s.durations.Work)
}

// StartBreak enters the break that follows the current work phase.
func (s *Session) StartBreak(now time.Time) (Phase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase, err := s.tracker.EnterBreak(now)
	if err != nil {
		return phase, err
	}
	s.loadLocked(s.durations.forPhase(phase))
	return phase, nil
}

// Reset returns the session to idle, keeping the cycle ordinal.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tracker.Reset()
	s.clock.SetMillis(0)
	s.planned = 0
}

func (s *Session) loadLocked(d time.Duration) {
	s.clock.SetDuration(d)
	// planned is what the clock can actually hold after truncation.
	s.planned = s.clock.Remaining()
}

// Snapshot returns a copy of the current state. Safe to call while Run is
// in progress.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle, _ := s.tracker.Ordinal()
	return Snapshot{
		SessionID: s.id,
		Key:       s.key,
		Phase:     s.tracker.Phase(),
		Cycle:     cycle,
		Remaining: s.clock.Remaining(),
		Display:   s.clock.String(),
		Planned:   s.planned,
		StartedAt: s.tracker.StartedAt(),
	}
}

// Run counts the current phase down to zero, calling emit after every tick.
//
// Each iteration measures the real time elapsed since the phase began and
// compares it with the time the clock has accounted for. The next sleep is
// one tick minus that drift, so per-tick overhead does not accumulate.
//
// Run returns nil when the clock reaches zero, ctx.Err() when cancelled, and
// ErrIdle if no phase is active.
func (s *Session) Run(ctx context.Context, timer Timer, emit func(Progress)) error {
	for {
		s.mu.Lock()
		if s.tracker.Phase() == PhaseNone {
			s.mu.Unlock()
			return ErrIdle
		}
		if s.clock.IsZero() {
			s.mu.Unlock()
			return nil
		}
		trueElapsed := timer.Now().Sub(s.tracker.StartedAt())
		clockElapsed := s.planned - s.clock.Remaining()
		s.mu.Unlock()

		if err := timer.Sleep(ctx, NextSleep(trueElapsed, clockElapsed)); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.mu.Lock()
		if err := s.clock.Tick(); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("tick: %w", err)
		}
		cycle, _ := s.tracker.Ordinal()
		p := Progress{
			SessionID: s.id,
			Key:       s.key,
			Phase:     s.tracker.Phase(),
			Cycle:     cycle,
			Remaining: s.clock.Remaining(),
			Display:   s.clock.String(),
		}
		s.mu.Unlock()

		if emit != nil {
			emit(p)
		}
	}
}
