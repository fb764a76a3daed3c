package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestComponent(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger := Component("sweep")
	logger.Info().Msg("swept")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "sweep", entry[ComponentKey])
	assert.Equal(t, "swept", entry["message"])
}

func TestFor(t *testing.T) {
	var buf bytes.Buffer
	parent := zerolog.New(&buf).With().Str("transport", "console").Logger()

	logger := For(parent, "router")
	logger.Warn().Msg("unknown command")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "router", entry[ComponentKey])
	assert.Equal(t, "console", entry["transport"], "parent fields are kept")
	assert.Equal(t, "warn", entry["level"])
}
