package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/pomobot/internal/bot"
	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/core/eventbus/testbus"
	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/internal/data/db"
	"github.com/colonyops/pomobot/internal/data/stores"
	"github.com/colonyops/pomobot/internal/printer"
)

type harness struct {
	flags   *Flags
	app     *bot.App
	history *stores.HistoryStore
	out     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	database, err := db.Open(cfg.DataDir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	history := stores.NewHistoryStore(database)
	app := bot.NewApp(&cfg, stores.NewTaskStore(database), history, testbus.New(t).EventBus, zerolog.Nop())
	t.Cleanup(app.Pomodoro.Close)

	return &harness{
		flags:   &Flags{Config: &cfg, Database: database, DataDir: cfg.DataDir},
		app:     app,
		history: history,
		out:     &bytes.Buffer{},
	}
}

func (h *harness) run(t *testing.T, args ...string) error {
	t.Helper()

	root := &cli.Command{
		Name:      "pomobot",
		Writer:    h.out,
		ErrWriter: h.out,
		// keep cli.Exit from terminating the test binary
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
	root = NewTasksCmd(h.flags, h.app).Register(root)
	root = NewStatsCmd(h.flags, h.app).Register(root)
	root = NewPruneCmd(h.flags, h.app).Register(root)
	root = NewConfigValidateCmd(h.flags).Register(root)
	root = NewDoctorCmd(h.flags).Register(root)

	ctx := printer.NewContext(context.Background(), printer.New(h.out))
	return root.Run(ctx, append([]string{"pomobot"}, args...))
}

func TestTasksCmd(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.run(t, "tasks", "add", "--user", "42", "Buy", "milk"))
	assert.Contains(t, h.out.String(), "Added task: Buy milk")

	require.NoError(t, h.run(t, "tasks", "add", "--user", "42", "Walk dog"))

	h.out.Reset()
	require.NoError(t, h.run(t, "tasks", "list", "--user", "42"))

	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 2)
	var first struct {
		Owner       string `json:"owner"`
		Description string `json:"description"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "42", first.Owner)
	assert.Equal(t, "Buy milk", first.Description)

	h.out.Reset()
	require.NoError(t, h.run(t, "tasks", "remove", "--user", "42", "1"))
	assert.Contains(t, h.out.String(), "Removed task: Buy milk")

	count, err := h.app.Tasks.Count(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTasksCmd_Errors(t *testing.T) {
	h := newHarness(t)

	assert.Error(t, h.run(t, "tasks", "add", "--user", "42"), "empty description")
	assert.Error(t, h.run(t, "tasks", "remove", "--user", "42", "abc"))
	assert.Error(t, h.run(t, "tasks", "remove", "--user", "42", "0"))
	assert.Error(t, h.run(t, "tasks", "remove", "--user", "42", "3"))
	assert.Error(t, h.run(t, "tasks", "list", "--user", "  "))
}

func TestTasksCmd_Import(t *testing.T) {
	h := newHarness(t)

	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"description":"Buy milk"},{"description":"Walk dog"}]`), 0o600))

	require.NoError(t, h.run(t, "tasks", "import", "--user", "42", "-f", path))
	assert.Contains(t, h.out.String(), "Imported 2 task(s)")

	tasks, err := h.app.Tasks.List(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Walk dog", tasks[1].Description)
}

func TestStatsCmd(t *testing.T) {
	h := newHarness(t)
	now := time.Now()

	require.NoError(t, h.history.Record(context.Background(), pomodoro.Record{
		Owner:     "42",
		Channel:   "c",
		Phase:     pomodoro.PhaseWorking,
		Cycle:     1,
		Planned:   25 * time.Minute,
		StartedAt: now.Add(-25 * time.Minute),
		EndedAt:   now,
		Completed: true,
	}))

	require.NoError(t, h.run(t, "stats", "--user", "42"))
	assert.Contains(t, h.out.String(), "1 completed pomodoro (25 focus minutes)")

	h.out.Reset()
	require.NoError(t, h.run(t, "stats", "--user", "42", "--format", "json"))

	var got map[string]int64
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	assert.Equal(t, int64(1), got["completed_work"])
	assert.Equal(t, int64(1500), got["focus_seconds"])
}

func TestPruneCmd(t *testing.T) {
	h := newHarness(t)
	old := time.Now().Add(-90 * 24 * time.Hour)

	require.NoError(t, h.history.Record(context.Background(), pomodoro.Record{
		Owner:     "42",
		Phase:     pomodoro.PhaseWorking,
		Cycle:     1,
		Planned:   25 * time.Minute,
		StartedAt: old,
		EndedAt:   old.Add(25 * time.Minute),
	}))

	require.NoError(t, h.run(t, "prune"))
	assert.Contains(t, h.out.String(), "Pruned 1 record(s)")

	h.out.Reset()
	require.NoError(t, h.run(t, "prune", "--older-than", "1h"))
	assert.Contains(t, h.out.String(), "No history older than 1h0m0s")
}

func TestConfigValidateCmd(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h := newHarness(t)
		require.NoError(t, h.run(t, "config", "validate"))
		assert.Contains(t, h.out.String(), "Configuration is valid")
	})

	t.Run("json reports field errors", func(t *testing.T) {
		h := newHarness(t)
		h.flags.Config.Pomodoro.Work = 0

		err := h.run(t, "config", "validate", "--format", "json")
		require.Error(t, err)

		var got struct {
			Valid  bool `json:"valid"`
			Errors []struct {
				Field string `json:"field"`
			} `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
		assert.False(t, got.Valid)
		require.NotEmpty(t, got.Errors)
		assert.Equal(t, "pomodoro.work", got.Errors[0].Field)
	})
}

func TestDoctorCmd_JSON(t *testing.T) {
	t.Setenv("BOT_TOKEN", "secret")
	h := newHarness(t)

	require.NoError(t, h.run(t, "doctor", "--format", "json"))

	var got struct {
		Healthy bool `json:"healthy"`
		Checks  []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
	assert.True(t, got.Healthy)
	require.Len(t, got.Checks, 3)
	assert.Equal(t, "Database", got.Checks[2].Name)
}

func TestFieldErrors(t *testing.T) {
	assert.Nil(t, fieldErrors(nil))

	plain := fieldErrors(errors.New("boom"))
	require.Len(t, plain, 1)
	assert.Equal(t, "config", plain[0].Field)

	err := criterio.ValidateStruct(criterio.Run("pomodoro.work", 0, func(int) error { return errors.New("must be positive") }))
	fields := fieldErrors(err)
	require.Len(t, fields, 1)
	assert.Equal(t, "pomodoro.work", fields[0].Field)
	assert.Equal(t, "must be positive", fields[0].Message)
}
