package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/internal/data/db"
	"github.com/colonyops/pomobot/internal/data/stores"
)

type fakePruner struct {
	cutoffs []time.Time
}

func (f *fakePruner) PruneIdle(cutoff time.Time) int {
	f.cutoffs = append(f.cutoffs, cutoff)
	return 1
}

func newHistory(t *testing.T) *stores.HistoryStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewHistoryStore(database)
}

func record(t *testing.T, h *stores.HistoryStore, endedAt time.Time) {
	t.Helper()
	require.NoError(t, h.Record(context.Background(), pomodoro.Record{
		Owner:     "42",
		Channel:   "chan-1",
		Phase:     pomodoro.PhaseWorking,
		Cycle:     1,
		Planned:   25 * time.Minute,
		StartedAt: endedAt.Add(-25 * time.Minute),
		EndedAt:   endedAt,
		Completed: true,
	}))
}

func TestOnce(t *testing.T) {
	ctx := context.Background()
	h := newHistory(t)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	record(t, h, now.Add(-40*24*time.Hour))
	record(t, h, now.Add(-time.Hour))

	pruner := &fakePruner{}
	Once(ctx, h, pruner, 30*24*time.Hour, now)

	stats, err := h.Stats(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.CompletedWork, "only the old record is swept")

	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, now.Add(-IdleSessionTTL), pruner.cutoffs[0])
}

func TestOnce_NilPruner(t *testing.T) {
	h := newHistory(t)
	assert.NotPanics(t, func() {
		Once(context.Background(), h, nil, time.Hour, time.Now())
	})
}

func TestStart_StopsOnCancel(t *testing.T) {
	h := newHistory(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Start(ctx, h, &fakePruner{}, time.Hour, time.Hour)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep loop did not stop")
	}
}
