// Package chat defines the messages exchanged with the chat platform and the
// transport interfaces the bot is built on.
package chat

import (
	"context"
	"time"
)

// Message is an inbound text message.
type Message struct {
	UserID     string
	ChannelID  string
	Author     string
	Text       string
	ReceivedAt time.Time
}

// Sender delivers text to a channel.
type Sender interface {
	Send(ctx context.Context, channelID, text string) error
}

// Handler processes one inbound message.
type Handler func(ctx context.Context, msg Message)

// Transport connects the bot to a chat platform.
type Transport interface {
	Sender

	// Name identifies the transport in logs.
	Name() string

	// Listen delivers inbound messages to h until ctx is cancelled or the
	// connection fails.
	Listen(ctx context.Context, h Handler) error
}
