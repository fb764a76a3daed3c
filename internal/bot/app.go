// Package bot wires the chat command router to the task and pomodoro
// services.
package bot

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/colonyops/pomobot/internal/core/chat"
	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/core/eventbus"
	"github.com/colonyops/pomobot/internal/core/logging"
	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/internal/core/task"
)

// App is the central entry point for all bot operations.
// Commands consume App instead of cherry-picking raw dependencies.
type App struct {
	Tasks    *TaskService
	Pomodoro *PomodoroService
	Router   *Router
	History  pomodoro.HistoryStore
	Bus      *eventbus.EventBus
	Config   *config.Config

	log zerolog.Logger
}

// NewApp constructs an App from explicit dependencies. The caller owns the
// bus and must start it.
func NewApp(cfg *config.Config, tasks task.Store, history pomodoro.HistoryStore, bus *eventbus.EventBus, log zerolog.Logger) *App {
	taskSvc := NewTaskService(tasks, bus, log)
	pomoSvc := NewPomodoroService(history, bus, cfg.Pomodoro, log)

	return &App{
		Tasks:    taskSvc,
		Pomodoro: pomoSvc,
		Router:   NewRouter(cfg, taskSvc, pomoSvc, log),
		History:  history,
		Bus:      bus,
		Config:   cfg,
		log:      logging.For(log, "app"),
	}
}

// Serve answers commands from transport until ctx is cancelled or the
// transport fails. Pomodoro notifications are delivered through the same
// transport by a Notifier. Running countdowns are cancelled before Serve
// returns.
func (a *App) Serve(ctx context.Context, transport chat.Transport) error {
	defer a.Pomodoro.Close()

	notifier := NewNotifier(transport, defaultNotifyWorkers, replyTimeout, a.log)
	eventbus.NewNotificationRouter(a.Bus, a.Config.Pomodoro.ProgressEvery).Register()
	a.Bus.SubscribeNotificationPublished(notifier.Enqueue)

	var wg sync.WaitGroup
	defer wg.Wait()

	notifyCtx, stop := context.WithCancel(ctx)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		notifier.Run(notifyCtx)
	}()

	a.log.Info().Str("transport", transport.Name()).Msg("serving")
	return transport.Listen(ctx, a.Router.Handler(transport))
}
