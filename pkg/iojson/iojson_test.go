package iojson

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Description string `json:"description"`
}

func TestWriteLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLines(&buf, []item{{"Buy milk"}, {"Walk dog"}}))

	assert.Equal(t, "{\"description\":\"Buy milk\"}\n{\"description\":\"Walk dog\"}\n", buf.String())
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, map[string]int{"breaks": 2}))

	assert.Equal(t, "{\n  \"breaks\": 2\n}\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer
	require.NoError(t, WriteWith(&out, &errOut, make(chan int)))

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "json_error")
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "not found", map[string]any{"index": 3}))

	var got Error
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "not found", got.Message)
	assert.InDelta(t, 3, got.Data["index"], 0)
}

func TestFileReader(t *testing.T) {
	t.Run("reads stdin override", func(t *testing.T) {
		fr := &FileReader[[]item]{Stdin: strings.NewReader(`[{"description":"Buy milk"}]`)}
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, []item{{"Buy milk"}}, got)
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"description":"Walk dog"}]`), 0o600))

		fr := &FileReader[[]item]{}
		fr.SetFile(path)
		got, err := fr.Read()
		require.NoError(t, err)
		assert.Equal(t, []item{{"Walk dog"}}, got)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		fr := &FileReader[[]item]{Stdin: strings.NewReader(`{`)}
		_, err := fr.Read()
		assert.ErrorContains(t, err, "decode JSON")
	})

	t.Run("missing file", func(t *testing.T) {
		fr := &FileReader[[]item]{}
		fr.SetFile(filepath.Join(t.TempDir(), "nope.json"))
		_, err := fr.Read()
		assert.ErrorContains(t, err, "open file")
	})
}
