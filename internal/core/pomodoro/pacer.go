package pomodoro

import (
	"context"
	"time"
)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// Timer supplies the monotonic clock and the sleep used by the countdown.
type Timer interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// RealTimer is a Timer backed by the runtime clock.
type RealTimer struct{}

// Now returns the current time including its monotonic reading.
func (RealTimer) Now() time.Time { return time.Now() }

// Sleep blocks for d or until ctx is done, whichever comes first.
func (RealTimer) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NextSleep returns the wait before the next tick. trueElapsed is the real
// time since the phase began and clockElapsed is what the countdown has
// accounted for so far. Their difference is the drift accumulated by
// per-tick overhead, which is subtracted from one tick. The result is never
// negative.
func NextSleep(trueElapsed, clockElapsed time.Duration) time.Duration {
	drift := trueElapsed - clockElapsed
	wait := TickInterval - drift
	if wait < 0 {
		return 0
	}
	return wait
}
