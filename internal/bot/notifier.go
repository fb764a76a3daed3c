package bot

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/pomobot/internal/core/chat"
	"github.com/colonyops/pomobot/internal/core/eventbus"
	"github.com/colonyops/pomobot/internal/core/logging"
)

const defaultNotifyWorkers = 4

// Notifier delivers notifications through a chat.Sender on its own worker
// goroutines. Enqueue never blocks, so a slow chat API cannot stall bus
// dispatch.
type Notifier struct {
	sender  chat.Sender
	workers int
	timeout time.Duration
	log     zerolog.Logger

	mu    sync.Mutex
	queue []eventbus.NotificationPublishedPayload
	wake  chan struct{}
}

// NewNotifier creates a Notifier. A non-positive workers value uses the
// default pool size.
func NewNotifier(sender chat.Sender, workers int, timeout time.Duration, log zerolog.Logger) *Notifier {
	if workers <= 0 {
		workers = defaultNotifyWorkers
	}
	return &Notifier{
		sender:  sender,
		workers: workers,
		timeout: timeout,
		log:     logging.For(log, "notifier"),
		wake:    make(chan struct{}, 1),
	}
}

// Enqueue queues a notification for delivery. It is safe to use directly as
// a NotificationPublished subscriber.
func (n *Notifier) Enqueue(p eventbus.NotificationPublishedPayload) {
	n.mu.Lock()
	n.queue = append(n.queue, p)
	n.mu.Unlock()
	n.signal()
}

// Pending reports how many notifications are waiting for a worker.
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}

// Run delivers queued notifications until ctx is cancelled. It returns once
// every worker has exited.
func (n *Notifier) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for range n.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.work(ctx)
		}()
	}
	wg.Wait()
}

func (n *Notifier) work(ctx context.Context) {
	for {
		p, ok := n.next()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-n.wake:
				continue
			}
		}
		n.deliver(ctx, p)
	}
}

func (n *Notifier) next() (eventbus.NotificationPublishedPayload, bool) {
	n.mu.Lock()
	if len(n.queue) == 0 {
		n.mu.Unlock()
		return eventbus.NotificationPublishedPayload{}, false
	}
	p := n.queue[0]
	n.queue[0] = eventbus.NotificationPublishedPayload{}
	n.queue = n.queue[1:]
	more := len(n.queue) > 0
	n.mu.Unlock()

	// one wake-up may stand for several queued items
	if more {
		n.signal()
	}
	return p, true
}

func (n *Notifier) signal() {
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

func (n *Notifier) deliver(ctx context.Context, p eventbus.NotificationPublishedPayload) {
	sendCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.sender.Send(sendCtx, p.ChannelID, p.Message); err != nil {
		n.log.Error().
			Ctx(logging.WithMessage(ctx, p.UserID, p.ChannelID)).
			Err(err).
			Msg("failed to deliver notification")
	}
}
