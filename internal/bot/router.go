package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/pomobot/internal/core/chat"
	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/core/logging"
	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/internal/core/task"
	"github.com/colonyops/pomobot/pkg/tmpl"
)

const (
	replyGenericFailure = "Sorry, something went wrong. Please try again later."
	replyTimeout        = 10 * time.Second
)

// handlerFunc executes one command. args is the text after the command,
// trimmed. An empty reply means nothing is sent.
type handlerFunc func(ctx context.Context, msg chat.Message, args string) (string, error)

type route struct {
	key     string
	command string
	args    string // argument placeholder shown in help
	help    string
	handle  handlerFunc
}

// Router maps chat messages to commands. Matching is prefix-exact: the
// message equals the command or starts with the command and a space. When
// several commands match, the longest one wins.
type Router struct {
	routes   []route
	cmds     config.Commands
	messages config.Messages
	tasks    *TaskService
	pomodoro *PomodoroService
	log      zerolog.Logger
}

// NewRouter builds the command table from the configured command strings.
func NewRouter(cfg *config.Config, tasks *TaskService, pomo *PomodoroService, log zerolog.Logger) *Router {
	r := &Router{
		cmds:     cfg.Commands,
		messages: cfg.Messages,
		tasks:    tasks,
		pomodoro: pomo,
		log:      logging.For(log, "router"),
	}

	c := cfg.Commands
	r.routes = []route{
		{key: "help", command: c.Help, help: "show this message", handle: r.help},
		{key: "task_add", command: c.TaskAdd, args: "<description>", help: "add a task to your list", handle: r.taskAdd},
		{key: "task_remove", command: c.TaskRemove, args: "<n>", help: "remove task number n", handle: r.taskRemove},
		{key: "task_list", command: c.TaskList, help: "list your tasks", handle: r.taskList},
		{key: "pomodoro_start", command: c.PomodoroStart, help: "start a work phase", handle: r.pomodoroStart},
		{key: "pomodoro_check", command: c.PomodoroCheck, help: "show the time remaining", handle: r.pomodoroCheck},
		{key: "pomodoro_stop", command: c.PomodoroStop, help: "stop the running countdown", handle: r.pomodoroStop},
		{key: "pomodoro_break", command: c.PomodoroBreak, help: "take a break after a work phase", handle: r.pomodoroBreak},
		{key: "pomodoro_stats", command: c.PomodoroStats, help: "show your pomodoro history", handle: r.pomodoroStats},
	}

	return r
}

// match finds the longest command that text starts with.
func (r *Router) match(text string) (route, string, bool) {
	text = strings.TrimSpace(text)

	var (
		best     route
		bestArgs string
		found    bool
	)
	for _, rt := range r.routes {
		if rt.command == "" || len(rt.command) <= len(best.command) {
			continue
		}
		switch {
		case text == rt.command:
			best, bestArgs, found = rt, "", true
		case strings.HasPrefix(text, rt.command+" "):
			best, bestArgs, found = rt, strings.TrimSpace(text[len(rt.command):]), true
		}
	}
	return best, bestArgs, found
}

// Handle routes msg and returns the reply to send. ok is false when the
// message is not a command.
func (r *Router) Handle(ctx context.Context, msg chat.Message) (reply string, ok bool) {
	rt, args, ok := r.match(msg.Text)
	if !ok {
		return "", false
	}

	ctx = logging.WithMessage(ctx, msg.UserID, msg.ChannelID)
	r.log.Debug().Ctx(ctx).Str("command", rt.key).Msg("command received")

	reply, err := rt.handle(ctx, msg, args)
	if err != nil {
		if userReply, isUserErr := r.userError(err, args); isUserErr {
			return userReply, true
		}
		r.log.Error().Ctx(ctx).Err(err).Str("command", rt.key).Msg("command failed")
		return replyGenericFailure, true
	}

	return reply, true
}

// Handler returns a chat.Handler that answers commands through sender.
func (r *Router) Handler(sender chat.Sender) chat.Handler {
	return func(ctx context.Context, msg chat.Message) {
		reply, ok := r.Handle(ctx, msg)
		if !ok || reply == "" {
			return
		}

		sendCtx, cancel := context.WithTimeout(ctx, replyTimeout)
		defer cancel()

		if err := sender.Send(sendCtx, msg.ChannelID, reply); err != nil {
			r.log.Error().
				Ctx(logging.WithMessage(ctx, msg.UserID, msg.ChannelID)).
				Err(err).
				Msg("failed to send reply")
		}
	}
}

// userError maps input and state errors to a normal chat reply.
func (r *Router) userError(err error, args string) (string, bool) {
	c := r.cmds
	var numErr *strconv.NumError

	switch {
	case errors.Is(err, task.ErrEmptyDescription):
		return fmt.Sprintf("Please describe the task, e.g. %s Buy milk", c.TaskAdd), true
	case errors.As(err, &numErr), errors.Is(err, errMissingIndex):
		return fmt.Sprintf("Please give the number of the task to remove, e.g. %s 1", c.TaskRemove), true
	case errors.Is(err, task.ErrIndexOutOfRange):
		return fmt.Sprintf("There is no task number %s. Use %s to see your tasks.", args, c.TaskList), true
	case errors.Is(err, pomodoro.ErrSessionActive):
		return fmt.Sprintf("A pomodoro is already running. Use %s or %s.", c.PomodoroCheck, c.PomodoroStop), true
	case errors.Is(err, pomodoro.ErrNoSession):
		return fmt.Sprintf("No pomodoro is running. Start one with %s.", c.PomodoroStart), true
	case errors.Is(err, pomodoro.ErrNotWorking):
		return fmt.Sprintf("Finish a work phase before taking a break. Start one with %s.", c.PomodoroStart), true
	case errors.Is(err, pomodoro.ErrRegistryClosed):
		return "The bot is shutting down. Please try again in a moment.", true
	}

	return "", false
}

var errMissingIndex = errors.New("missing task index")

// HelpData builds the template data for the help reply.
func (r *Router) HelpData() config.HelpTemplateData {
	data := config.HelpTemplateData{}
	for _, rt := range r.routes {
		usage := rt.command
		if rt.args != "" {
			usage += " " + rt.args
		}
		if len(usage) > data.Width {
			data.Width = len(usage)
		}
		data.Commands = append(data.Commands, config.HelpCommand{Usage: usage, Description: rt.help})
	}
	return data
}

func (r *Router) help(context.Context, chat.Message, string) (string, error) {
	out, err := tmpl.Render(r.messages.Help, r.HelpData())
	if err != nil {
		return "", fmt.Errorf("render help: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (r *Router) taskAdd(ctx context.Context, msg chat.Message, args string) (string, error) {
	t, err := r.tasks.Add(ctx, msg.UserID, args)
	if err != nil {
		return "", err
	}
	return "Added task: " + t.Description, nil
}

func (r *Router) taskRemove(ctx context.Context, msg chat.Message, args string) (string, error) {
	if args == "" {
		return "", errMissingIndex
	}
	idx, err := strconv.Atoi(args)
	if err != nil {
		return "", fmt.Errorf("parse task index: %w", err)
	}

	t, err := r.tasks.Remove(ctx, msg.UserID, idx)
	if err != nil {
		return "", err
	}
	return "Removed task: " + t.Description, nil
}

func (r *Router) taskList(ctx context.Context, msg chat.Message, _ string) (string, error) {
	tasks, err := r.tasks.List(ctx, msg.UserID)
	if err != nil {
		return "", err
	}
	return FormatTaskList(tasks), nil
}

// FormatTaskList renders tasks as a numbered list.
func FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "0 pending tasks"
	}

	var b strings.Builder
	noun := "tasks"
	if len(tasks) == 1 {
		noun = "task"
	}
	fmt.Fprintf(&b, "%d pending %s:", len(tasks), noun)
	for i, t := range tasks {
		fmt.Fprintf(&b, "\n%d. %s", i+1, t.Description)
	}
	return b.String()
}

func keyFor(msg chat.Message) pomodoro.Key {
	return pomodoro.Key{Channel: msg.ChannelID, User: msg.UserID}
}

func (r *Router) pomodoroStart(_ context.Context, msg chat.Message, _ string) (string, error) {
	snap, err := r.pomodoro.Start(keyFor(msg))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Pomodoro started: %s of work (cycle %d). I'll let you know when it's done.", snap.Display, snap.Cycle), nil
}

func (r *Router) pomodoroBreak(_ context.Context, msg chat.Message, _ string) (string, error) {
	snap, err := r.pomodoro.Break(keyFor(msg))
	if err != nil {
		return "", err
	}
	label := snap.Phase.Label()
	return fmt.Sprintf("Enjoy your %s: %s.", label, snap.Display), nil
}

func (r *Router) pomodoroCheck(_ context.Context, msg chat.Message, _ string) (string, error) {
	snap, running, err := r.pomodoro.Check(keyFor(msg))
	if err != nil {
		return "", err
	}

	switch {
	case running && snap.Phase == pomodoro.PhaseWorking:
		return fmt.Sprintf("Work (cycle %d): %s remaining.", snap.Cycle, snap.Display), nil
	case running:
		return fmt.Sprintf("%s: %s remaining.", capitalize(snap.Phase.Label()), snap.Display), nil
	case snap.Phase == pomodoro.PhaseWorking:
		return fmt.Sprintf("Work phase complete (cycle %d). Use %s to take a break.", snap.Cycle, r.cmds.PomodoroBreak), nil
	default:
		return fmt.Sprintf("%s finished. Use %s for the next pomodoro.", capitalize(snap.Phase.Label()), r.cmds.PomodoroStart), nil
	}
}

func (r *Router) pomodoroStop(_ context.Context, msg chat.Message, _ string) (string, error) {
	snap, err := r.pomodoro.Stop(keyFor(msg))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Pomodoro stopped with %s of %s left.", snap.Display, snap.Phase.Label()), nil
}

func (r *Router) pomodoroStats(ctx context.Context, msg chat.Message, _ string) (string, error) {
	stats, err := r.pomodoro.Stats(ctx, msg.UserID)
	if err != nil {
		return "", err
	}

	out, err := tmpl.Render(r.messages.Stats, config.StatsTemplateData(stats))
	if err != nil {
		return "", fmt.Errorf("render stats: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
