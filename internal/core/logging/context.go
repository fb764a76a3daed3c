package logging

import "context"

type contextKey string

const (
	userIDKey contextKey = "user_id"
	channelIDKey   contextKey = "channel_id"
)

// WithUserID adds a user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithChannelID adds a channel ID to the context.
func WithChannelID(ctx context.Context, channelID string) context.Context {
	return context.WithValue(ctx, channelIDKey, channelID)
}

// GetUserID retrieves the user ID from the context.
// Returns empty string if not present.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// GetChannelID retrieves the channel ID from the context.
// Returns empty string if not present.
func GetChannelID(ctx context.Context) string {
	if id, ok := ctx.Value(channelIDKey).(string); ok {
		return id
	}
	return ""
}

// WithMessage adds both the author and the channel of a chat message to the
// context.
func WithMessage(ctx context.Context, userID, channelID string) context.Context {
	return WithChannelID(WithUserID(ctx, userID), channelID)
}
