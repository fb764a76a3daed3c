// Package max implements the chat transport for the MAX messenger Bot API.
package max

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/max-messenger/max-bot-api-client-go/schemes"
	"github.com/rs/zerolog"

	"github.com/colonyops/pomobot/internal/core/chat"
	"github.com/colonyops/pomobot/internal/core/logging"
)

// ErrMissingToken is returned by New when the bot token is empty.
var ErrMissingToken = errors.New("max: bot token is empty")

// Transport implements chat.Transport over long polling.
type Transport struct {
	api *maxbot.Api
	log zerolog.Logger
}

// New creates a MAX transport authenticated with token.
func New(token string, log zerolog.Logger) (*Transport, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	api, err := maxbot.New(token)
	if err != nil {
		return nil, fmt.Errorf("max: create client: %w", err)
	}

	return &Transport{
		api: api,
		log: logging.For(log, "max"),
	}, nil
}

// Name returns "max".
func (t *Transport) Name() string {
	return "max"
}

// Listen polls for updates and hands every new text message to h. Updates
// are processed one at a time in arrival order.
func (t *Transport) Listen(ctx context.Context, h chat.Handler) error {
	info, err := t.api.Bots.GetBot(ctx)
	if err != nil {
		return fmt.Errorf("max: get bot info: %w", err)
	}
	t.log.Info().Str("bot", info.Name).Msg("connected")

	for update := range t.api.GetUpdates(ctx) {
		upd, ok := update.(*schemes.MessageCreatedUpdate)
		if !ok {
			continue
		}

		msg, ok := toMessage(upd, time.Now())
		if !ok {
			continue
		}
		h(ctx, msg)
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Send posts text to the chat identified by channelID.
func (t *Transport) Send(ctx context.Context, channelID, text string) error {
	chatID, err := parseChatID(channelID)
	if err != nil {
		return err
	}

	if _, err := t.api.Messages.Send(ctx, maxbot.NewMessage().SetChat(chatID).SetText(text)); err != nil {
		return fmt.Errorf("max: send to %d: %w", chatID, err)
	}
	return nil
}

// toMessage converts an update into a chat message. Updates without text are
// skipped.
func toMessage(upd *schemes.MessageCreatedUpdate, now time.Time) (chat.Message, bool) {
	text := upd.Message.Body.Text
	if strings.TrimSpace(text) == "" {
		return chat.Message{}, false
	}

	return chat.Message{
		UserID:     strconv.FormatInt(int64(upd.Message.Sender.UserId), 10),
		ChannelID:  strconv.FormatInt(int64(upd.Message.Recipient.ChatId), 10),
		Author:     upd.Message.Sender.FirstName,
		Text:       text,
		ReceivedAt: now,
	}, true
}

func parseChatID(channelID string) (int64, error) {
	id, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("max: invalid chat id %q: %w", channelID, err)
	}
	return id, nil
}
