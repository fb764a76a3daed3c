package bot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pomobot/internal/core/eventbus"
	"github.com/colonyops/pomobot/internal/core/pomodoro"
)

// gatedSender blocks every Send until release is closed.
type gatedSender struct {
	release chan struct{}
	entered chan struct{}

	mu   sync.Mutex
	sent []sentMessage
}

func newGatedSender() *gatedSender {
	return &gatedSender{release: make(chan struct{}), entered: make(chan struct{}, 64)}
}

func (g *gatedSender) Send(ctx context.Context, channelID, text string) error {
	g.entered <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sent = append(g.sent, sentMessage{ChannelID: channelID, Text: text})
	return nil
}

func (g *gatedSender) messages() []sentMessage {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]sentMessage, len(g.sent))
	copy(out, g.sent)
	return out
}

func (g *gatedSender) texts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, 0, len(g.sent))
	for _, m := range g.sent {
		out = append(out, m.Text)
	}
	return out
}

func workCompleted(user string) eventbus.PomodoroCompletedPayload {
	return eventbus.PomodoroCompletedPayload{Snapshot: pomodoro.Snapshot{
		Key:   pomodoro.Key{Channel: "chan-" + user, User: user},
		Phase: pomodoro.PhaseWorking,
		Cycle: 1,
	}}
}

func TestNotifier_SlowSenderDoesNotLoseCompletions(t *testing.T) {
	bus := eventbus.New(16)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var mu sync.Mutex
	var dropped []eventbus.Event
	bus.OnDrop(func(e eventbus.Event, _ any) {
		mu.Lock()
		dropped = append(dropped, e)
		mu.Unlock()
	})

	sender := newGatedSender()
	notifier := NewNotifier(sender, 1, 5*time.Second, zerolog.Nop())
	eventbus.NewNotificationRouter(bus, 5*time.Minute).Register()
	bus.SubscribeNotificationPublished(notifier.Enqueue)

	go bus.Start(ctx)
	go notifier.Run(ctx)

	bus.PublishPomodoroCompleted(workCompleted("a"))

	select {
	case <-sender.entered:
	case <-time.After(time.Second):
		t.Fatal("first notification never reached the sender")
	}

	// 30 sessions x 10 seconds of ticks that are not on a progress boundary.
	for i := range 300 {
		bus.PublishPomodoroTick(eventbus.PomodoroTickPayload{
			Progress: pomodoro.Progress{
				Key:       pomodoro.Key{Channel: "chan-busy", User: "busy"},
				Phase:     pomodoro.PhaseWorking,
				Remaining: 25*time.Minute - time.Duration(i%10+1)*time.Second,
			},
			Planned: 25 * time.Minute,
		})
	}

	bus.PublishPomodoroCompleted(workCompleted("b"))
	require.Eventually(t, func() bool { return notifier.Pending() == 1 }, time.Second, 5*time.Millisecond,
		"second completion must be queued while the sender is still blocked")

	close(sender.release)

	require.Eventually(t, func() bool { return len(sender.texts()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []sentMessage{
		{ChannelID: "chan-a", Text: "Work phase complete (cycle 1). Time for a break."},
		{ChannelID: "chan-b", Text: "Work phase complete (cycle 1). Time for a break."},
	}, sender.messages())

	mu.Lock()
	defer mu.Unlock()
	assert.NotContains(t, dropped, eventbus.EventPomodoroCompleted)
	assert.NotContains(t, dropped, eventbus.EventNotificationPublished)
}

func TestNotifier_ParallelWorkers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sender := newGatedSender()
	notifier := NewNotifier(sender, 3, 5*time.Second, zerolog.Nop())
	go notifier.Run(ctx)

	for _, user := range []string{"a", "b", "c"} {
		notifier.Enqueue(eventbus.NotificationPublishedPayload{ChannelID: "chan-" + user, UserID: user, Message: "hi " + user})
	}

	for range 3 {
		select {
		case <-sender.entered:
		case <-time.After(time.Second):
			t.Fatal("workers did not pick up queued notifications in parallel")
		}
	}

	close(sender.release)
	require.Eventually(t, func() bool { return len(sender.texts()) == 3 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"hi a", "hi b", "hi c"}, sender.texts())
}

type failingSender struct{ calls chan string }

func (f failingSender) Send(_ context.Context, channelID, _ string) error {
	f.calls <- channelID
	return errors.New("chat api unavailable")
}

func TestNotifier_SendErrorKeepsWorking(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	sender := failingSender{calls: make(chan string, 2)}
	notifier := NewNotifier(sender, 1, time.Second, zerolog.Nop())
	go notifier.Run(ctx)

	notifier.Enqueue(eventbus.NotificationPublishedPayload{ChannelID: "one"})
	notifier.Enqueue(eventbus.NotificationPublishedPayload{ChannelID: "two"})

	for _, want := range []string{"one", "two"} {
		select {
		case got := <-sender.calls:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("notification for %s was not attempted", want)
		}
	}
}

func TestNotifier_RunReturnsOnCancel(t *testing.T) {
	notifier := NewNotifier(newGatedSender(), 2, time.Second, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		notifier.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
