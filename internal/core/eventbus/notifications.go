package eventbus

import (
	"fmt"
	"time"

	"github.com/colonyops/pomobot/internal/core/pomodoro"
)

// NotificationRouter maps asynchronous pomodoro events to user-facing chat
// notifications. Ticks are forwarded only on progressEvery boundaries.
// Command-initiated starts and stops are answered by the command reply and
// are not forwarded.
type NotificationRouter struct {
	bus           *EventBus
	progressEvery time.Duration
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
// A non-positive progressEvery disables progress notifications.
func NewNotificationRouter(bus *EventBus, progressEvery time.Duration) *NotificationRouter {
	return &NotificationRouter{bus: bus, progressEvery: progressEvery}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribePomodoroStarted(func(p PomodoroStartedPayload) {
		if !p.Auto {
			return
		}
		s := p.Snapshot
		r.notifyf(s.Key, "%s started: %s.", capitalize(s.Phase.Label()), s.Display)
	})

	r.bus.SubscribePomodoroTick(func(p PomodoroTickPayload) {
		if !r.onBoundary(p.Planned, p.Progress.Remaining) {
			return
		}
		r.notifyf(p.Progress.Key, "%s of %s remaining.", p.Progress.Display, p.Progress.Phase.Label())
	})

	r.bus.SubscribePomodoroCompleted(func(p PomodoroCompletedPayload) {
		s := p.Snapshot
		if s.Phase.IsBreak() {
			r.notifyf(s.Key, "%s is over. Ready for the next pomodoro.", capitalize(s.Phase.Label()))
			return
		}
		r.notifyf(s.Key, "Work phase complete (cycle %d). Time for a break.", s.Cycle)
	})
}

func (r *NotificationRouter) onBoundary(planned, remaining time.Duration) bool {
	if r.progressEvery <= 0 || remaining <= 0 {
		return false
	}
	elapsed := planned - remaining
	return elapsed > 0 && elapsed%r.progressEvery == 0
}

func (r *NotificationRouter) notifyf(key pomodoro.Key, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		ChannelID: key.Channel,
		UserID:    key.User,
		Message:   fmt.Sprintf(format, args...),
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
