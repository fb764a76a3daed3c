// Package console implements a chat transport over a line-oriented stream,
// used to talk to the bot from a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/colonyops/pomobot/internal/core/chat"
)

// ChannelID is the channel every console message is attributed to.
const ChannelID = "console"

// Transport reads one message per line from in and writes replies to out.
type Transport struct {
	in   io.Reader
	user string

	mu  sync.Mutex
	out io.Writer
}

// New creates a console transport. Messages are attributed to user.
func New(in io.Reader, out io.Writer, user string) *Transport {
	return &Transport{in: in, out: out, user: user}
}

// Name returns "console".
func (t *Transport) Name() string {
	return "console"
}

// Listen hands every non-empty line to h until the input ends or ctx is
// cancelled.
func (t *Transport) Listen(ctx context.Context, h chat.Handler) error {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					if err != nil {
						return fmt.Errorf("console: read input: %w", err)
					}
				default:
				}
				return nil
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			h(ctx, chat.Message{
				UserID:     t.user,
				ChannelID:  ChannelID,
				Author:     t.user,
				Text:       line,
				ReceivedAt: time.Now(),
			})
		}
	}
}

// Send writes text to the output stream. The channel is ignored.
func (t *Transport) Send(_ context.Context, _ string, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := fmt.Fprintf(t.out, "%s\n", text); err != nil {
		return fmt.Errorf("console: write reply: %w", err)
	}
	return nil
}
