package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pomobot/internal/core/chat"
)

func TestTransport_Listen(t *testing.T) {
	in := strings.NewReader("!help\n\n   \n!task add Buy milk\n")
	tr := New(in, io.Discard, "ada")

	var got []chat.Message
	err := tr.Listen(context.Background(), func(_ context.Context, m chat.Message) {
		got = append(got, m)
	})
	require.NoError(t, err)

	require.Len(t, got, 2, "blank lines are skipped")
	assert.Equal(t, "!help", got[0].Text)
	assert.Equal(t, "!task add Buy milk", got[1].Text)
	for _, m := range got {
		assert.Equal(t, "ada", m.UserID)
		assert.Equal(t, ChannelID, m.ChannelID)
		assert.False(t, m.ReceivedAt.IsZero())
	}
}

func TestTransport_ListenStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	tr := New(pr, io.Discard, "ada")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- tr.Listen(ctx, func(context.Context, chat.Message) {}) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after cancel")
	}
}

func TestTransport_Send(t *testing.T) {
	var out bytes.Buffer
	tr := New(strings.NewReader(""), &out, "ada")

	require.NoError(t, tr.Send(context.Background(), ChannelID, "Added task: Buy milk"))
	require.NoError(t, tr.Send(context.Background(), "ignored", "0 pending tasks"))

	assert.Equal(t, "Added task: Buy milk\n0 pending tasks\n", out.String())
	assert.Equal(t, "console", tr.Name())
}
