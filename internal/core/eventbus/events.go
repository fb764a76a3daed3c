// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within pomobot.
package eventbus

import (
	"time"

	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/internal/core/task"
)

//go:generate gobusgen generate -p .Events

// Events defines all event types and their payload structs for code generation.
var Events = map[string]any{
	// Keep list sorted A-Z
	"notification.published": NotificationPublishedPayload{},
	"pomodoro.completed":     PomodoroCompletedPayload{},
	"pomodoro.started":       PomodoroStartedPayload{},
	"pomodoro.stopped":       PomodoroStoppedPayload{},
	"pomodoro.tick":          PomodoroTickPayload{},
	"task.added":             TaskAddedPayload{},
	"task.removed":           TaskRemovedPayload{},
}

// NotificationPublishedPayload is a user-facing message bound for a chat
// channel.
type NotificationPublishedPayload struct {
	ChannelID string
	UserID    string
	Message   string
}

// PomodoroStartedPayload is emitted when a countdown starts. Auto is set when
// the phase followed the previous one without a command.
type PomodoroStartedPayload struct {
	Snapshot pomodoro.Snapshot
	Auto     bool
}

// PomodoroTickPayload is emitted once per second while a countdown runs.
type PomodoroTickPayload struct {
	Progress pomodoro.Progress
	Planned  time.Duration
}

// PomodoroCompletedPayload is emitted when a countdown reaches zero.
type PomodoroCompletedPayload struct {
	Snapshot pomodoro.Snapshot
}

// PomodoroStoppedPayload is emitted when a countdown is cancelled before
// reaching zero, by a stop command or by shutdown.
type PomodoroStoppedPayload struct {
	Snapshot pomodoro.Snapshot
}

// TaskAddedPayload is emitted when a task is added.
type TaskAddedPayload struct {
	Task task.Task
}

// TaskRemovedPayload is emitted when a task is removed.
type TaskRemovedPayload struct {
	Task task.Task
}
