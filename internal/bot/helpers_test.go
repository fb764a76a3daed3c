package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pomobot/internal/core/chat"
	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/core/eventbus/testbus"
	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/internal/data/db"
	"github.com/colonyops/pomobot/internal/data/stores"
)

// instantTimer advances a virtual clock on every Sleep so countdowns finish
// immediately.
type instantTimer struct {
	mu  sync.Mutex
	now time.Time
}

func newInstantTimer() *instantTimer {
	return &instantTimer{now: time.Unix(1_700_000_000, 0)}
}

func (t *instantTimer) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.now
}

func (t *instantTimer) Sleep(ctx context.Context, d time.Duration) error {
	t.mu.Lock()
	t.now = t.now.Add(d)
	t.mu.Unlock()
	return ctx.Err()
}

// blockingTimer never lets a tick happen; Sleep returns only on cancellation.
type blockingTimer struct{}

func (blockingTimer) Now() time.Time { return time.Unix(1_700_000_000, 0) }

func (blockingTimer) Sleep(ctx context.Context, _ time.Duration) error {
	<-ctx.Done()
	return ctx.Err()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Pomodoro.Work = 3 * time.Second
	cfg.Pomodoro.ShortBreak = 2 * time.Second
	cfg.Pomodoro.LongBreak = 4 * time.Second
	cfg.Pomodoro.ProgressEvery = time.Second
	return &cfg
}

type testEnv struct {
	app     *App
	bus     *testbus.Bus
	history *stores.HistoryStore
}

func newTestEnv(t *testing.T, cfg *config.Config, timer pomodoro.Timer) *testEnv {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	tb := testbus.New(t)
	history := stores.NewHistoryStore(database)
	app := NewApp(cfg, stores.NewTaskStore(database), history, tb.EventBus, zerolog.Nop())
	app.Pomodoro.timer = timer
	t.Cleanup(app.Pomodoro.Close)

	return &testEnv{app: app, bus: tb, history: history}
}

func (e *testEnv) say(t *testing.T, user, text string) string {
	t.Helper()
	reply, _ := e.app.Router.Handle(context.Background(), chat.Message{
		UserID:    user,
		ChannelID: "chan-1",
		Author:    "user " + user,
		Text:      text,
	})
	return reply
}

func waitIdle(t *testing.T, svc *PomodoroService, key pomodoro.Key) {
	t.Helper()
	require.Eventually(t, func() bool { return !svc.registry.Running(key) }, 2*time.Second, 5*time.Millisecond)
}

// recordingTransport is a chat.Transport that replays scripted messages and
// records everything sent.
type recordingTransport struct {
	mu       sync.Mutex
	sent     []sentMessage
	incoming []chat.Message
}

type sentMessage struct {
	ChannelID string
	Text      string
}

func (r *recordingTransport) Name() string { return "recording" }

func (r *recordingTransport) Send(_ context.Context, channelID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentMessage{ChannelID: channelID, Text: text})
	return nil
}

func (r *recordingTransport) Listen(ctx context.Context, h chat.Handler) error {
	for _, m := range r.incoming {
		h(ctx, m)
	}
	<-ctx.Done()
	return nil
}

func (r *recordingTransport) Sent() []sentMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sentMessage, len(r.sent))
	copy(out, r.sent)
	return out
}
