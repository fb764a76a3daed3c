// Package sweep periodically trims pomodoro history and forgets idle
// sessions.
package sweep

import (
	"context"
	"time"

	"github.com/colonyops/pomobot/internal/core/logging"
	"github.com/colonyops/pomobot/internal/core/pomodoro"
)

// IdleSessionTTL is how long a session without a running countdown is kept
// in memory. Its cycle ordinal is lost once it is pruned.
const IdleSessionTTL = 12 * time.Hour

// IdlePruner forgets sessions whose last countdown ended before cutoff.
type IdlePruner interface {
	PruneIdle(cutoff time.Time) int
}

// Start launches a loop that sweeps history older than retention and prunes
// idle sessions every interval. It blocks until the context is cancelled.
func Start(ctx context.Context, history pomodoro.HistoryStore, sessions IdlePruner, retention, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			Once(ctx, history, sessions, retention, time.Now())
		}
	}
}

// Once runs a single sweep relative to now.
func Once(ctx context.Context, history pomodoro.HistoryStore, sessions IdlePruner, retention time.Duration, now time.Time) {
	log := logging.Component("sweep")

	n, err := history.SweepBefore(ctx, now.Add(-retention))
	if err != nil {
		log.Warn().Err(err).Msg("history sweep failed")
	} else if n > 0 {
		log.Debug().Int64("records", n).Msg("history swept")
	}

	if sessions != nil {
		if pruned := sessions.PruneIdle(now.Add(-IdleSessionTTL)); pruned > 0 {
			log.Debug().Int("sessions", pruned).Msg("idle sessions pruned")
		}
	}
}
