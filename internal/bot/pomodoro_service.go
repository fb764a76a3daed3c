package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/core/eventbus"
	"github.com/colonyops/pomobot/internal/core/logging"
	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/pkg/randid"
)

const recordTimeout = 5 * time.Second

// PomodoroService runs one background countdown per owner key and records
// every finished phase in the history store.
type PomodoroService struct {
	registry  *pomodoro.Registry
	history   pomodoro.HistoryStore
	bus       *eventbus.EventBus
	timer     pomodoro.Timer
	autoBreak bool
	log       zerolog.Logger
}

// NewPomodoroService creates a new PomodoroService.
func NewPomodoroService(history pomodoro.HistoryStore, bus *eventbus.EventBus, cfg config.PomodoroConfig, log zerolog.Logger) *PomodoroService {
	durations := cfg.Durations()
	return &PomodoroService{
		registry: pomodoro.NewRegistry(func(key pomodoro.Key) *pomodoro.Session {
			return pomodoro.NewSession(randid.Generate(randid.SessionLength), key, durations)
		}),
		history:   history,
		bus:       bus,
		timer:     pomodoro.RealTimer{},
		autoBreak: cfg.AutoBreak,
		log:       logging.For(log, "pomodoro-service"),
	}
}

// Start begins a work phase for key in the background.
// Returns pomodoro.ErrSessionActive if a countdown is already running.
func (s *PomodoroService) Start(key pomodoro.Key) (pomodoro.Snapshot, error) {
	var snap pomodoro.Snapshot
	_, err := s.registry.Launch(key, func(sess *pomodoro.Session) error {
		sess.StartWork(s.timer.Now())
		snap = sess.Snapshot()
		return nil
	}, s.runner(false))
	if err != nil {
		return pomodoro.Snapshot{}, err
	}
	return snap, nil
}

// Break begins the short or long break that follows a finished work phase.
// Returns pomodoro.ErrNotWorking if the last phase was not work.
func (s *PomodoroService) Break(key pomodoro.Key) (pomodoro.Snapshot, error) {
	var snap pomodoro.Snapshot
	_, err := s.registry.Launch(key, func(sess *pomodoro.Session) error {
		if _, err := sess.StartBreak(s.timer.Now()); err != nil {
			return err
		}
		snap = sess.Snapshot()
		return nil
	}, s.runner(false))
	if err != nil {
		return pomodoro.Snapshot{}, err
	}
	return snap, nil
}

// Check returns the state of key's session and whether a countdown is running.
// Returns pomodoro.ErrNoSession if the key has no active or finished phase.
func (s *PomodoroService) Check(key pomodoro.Key) (pomodoro.Snapshot, bool, error) {
	sess, ok := s.registry.Session(key)
	if !ok {
		return pomodoro.Snapshot{}, false, pomodoro.ErrNoSession
	}
	snap := sess.Snapshot()
	if snap.Phase == pomodoro.PhaseNone {
		return pomodoro.Snapshot{}, false, pomodoro.ErrNoSession
	}
	return snap, s.registry.Running(key), nil
}

// Stop cancels key's countdown and returns its state at the moment of
// cancellation.
func (s *PomodoroService) Stop(key pomodoro.Key) (pomodoro.Snapshot, error) {
	sess, ok := s.registry.Session(key)
	if !ok {
		return pomodoro.Snapshot{}, pomodoro.ErrNoSession
	}
	snap := sess.Snapshot()
	if err := s.registry.Stop(key); err != nil {
		return pomodoro.Snapshot{}, err
	}
	return snap, nil
}

// Stats summarises the owner's recorded phases.
func (s *PomodoroService) Stats(ctx context.Context, owner string) (pomodoro.Stats, error) {
	stats, err := s.history.Stats(ctx, owner)
	if err != nil {
		return pomodoro.Stats{}, fmt.Errorf("pomodoro stats: %w", err)
	}
	return stats, nil
}

// PruneIdle forgets sessions whose last countdown ended before cutoff.
func (s *PomodoroService) PruneIdle(cutoff time.Time) int {
	return s.registry.PruneIdle(cutoff)
}

// Active returns the number of sessions held in memory.
func (s *PomodoroService) Active() int {
	return s.registry.Len()
}

// Close cancels every running countdown and waits for them to finish.
func (s *PomodoroService) Close() {
	s.registry.Close()
}

// runner returns the RunFunc for a prepared session. When auto breaks are
// enabled a completed work phase rolls straight into its break.
func (s *PomodoroService) runner(auto bool) pomodoro.RunFunc {
	return func(ctx context.Context, sess *pomodoro.Session) error {
		for {
			start := sess.Snapshot()
			s.bus.PublishPomodoroStarted(eventbus.PomodoroStartedPayload{Snapshot: start, Auto: auto})

			err := sess.Run(ctx, s.timer, func(p pomodoro.Progress) {
				s.bus.PublishPomodoroTick(eventbus.PomodoroTickPayload{Progress: p, Planned: start.Planned})
			})

			end := sess.Snapshot()
			s.record(end, err == nil)

			if err != nil {
				sess.Reset()
				if errors.Is(err, context.Canceled) {
					s.log.Debug().Str("key", end.Key.String()).Str("phase", string(end.Phase)).Msg("countdown stopped")
					s.bus.PublishPomodoroStopped(eventbus.PomodoroStoppedPayload{Snapshot: end})
					return err
				}
				s.log.Error().Err(err).Str("key", end.Key.String()).Msg("countdown failed")
				return err
			}

			s.bus.PublishPomodoroCompleted(eventbus.PomodoroCompletedPayload{Snapshot: end})

			if !s.autoBreak || end.Phase != pomodoro.PhaseWorking {
				return nil
			}
			if err := s.beginAutoBreak(sess, end.Key); err != nil {
				return err
			}
			auto = true
		}
	}
}

// beginAutoBreak moves a completed work phase straight into its break.
func (s *PomodoroService) beginAutoBreak(sess *pomodoro.Session, key pomodoro.Key) error {
	phase, err := sess.StartBreak(s.timer.Now())
	if err != nil {
		s.log.Error().Err(err).Str("key", key.String()).Msg("auto break failed")
		return err
	}
	s.log.Debug().Str("key", key.String()).Str("phase", string(phase)).Msg("auto break started")
	return nil
}

func (s *PomodoroService) record(snap pomodoro.Snapshot, completed bool) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	err := s.history.Record(ctx, pomodoro.Record{
		Owner:     snap.Key.User,
		Channel:   snap.Key.Channel,
		Phase:     snap.Phase,
		Cycle:     snap.Cycle,
		Planned:   snap.Planned,
		StartedAt: snap.StartedAt,
		EndedAt:   s.timer.Now(),
		Completed: completed,
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", snap.Key.String()).Msg("failed to record pomodoro history")
	}
}
