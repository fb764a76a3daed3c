package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pomobot/internal/core/config"
	"github.com/colonyops/pomobot/internal/data/db"
)

type staticCheck struct {
	name  string
	items []CheckItem
}

func (s staticCheck) Name() string { return s.name }

func (s staticCheck) Run(context.Context) Result {
	return Result{Name: s.name, Items: s.items}
}

func TestRunAllAndSummary(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		staticCheck{name: "a", items: []CheckItem{{Label: "x", Status: StatusPass}, {Label: "y", Status: StatusWarn}}},
		staticCheck{name: "b", items: []CheckItem{{Label: "z", Status: StatusFail}}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, warned)
	assert.Equal(t, 1, failed)
}

func TestConfigCheck(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		t.Setenv("POMOBOT_TEST_TOKEN", "secret")
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Transport.TokenEnv = "POMOBOT_TEST_TOKEN"

		result := NewConfigCheck(&cfg, "").Run(context.Background())
		require.NotEmpty(t, result.Items)
		assert.Equal(t, StatusPass, result.Items[0].Status)
	})

	t.Run("invalid field fails", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.Pomodoro.Work = 0

		result := NewConfigCheck(&cfg, "").Run(context.Background())
		require.NotEmpty(t, result.Items)
		assert.Equal(t, StatusFail, result.Items[0].Status)
		assert.Equal(t, "pomodoro.work", result.Items[0].Label)
	})
}

func TestTokenCheck(t *testing.T) {
	transport := config.TransportConfig{TokenEnv: "POMOBOT_DOCTOR_TOKEN"}

	t.Setenv("POMOBOT_DOCTOR_TOKEN", "")
	result := NewTokenCheck(transport).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusWarn, result.Items[0].Status)

	t.Setenv("POMOBOT_DOCTOR_TOKEN", "abc")
	result = NewTokenCheck(transport).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
}

func TestDatabaseCheck(t *testing.T) {
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	result := NewDatabaseCheck(database.Conn()).Run(context.Background())
	require.Len(t, result.Items, 2)
	for _, item := range result.Items {
		assert.Equal(t, StatusPass, item.Status, item.Label)
	}

	result = NewDatabaseCheck(nil).Run(context.Background())
	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}
