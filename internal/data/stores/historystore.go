package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/pomobot/internal/core/pomodoro"
	"github.com/colonyops/pomobot/internal/data/db"
)

// HistoryStore implements pomodoro.HistoryStore using SQLite.
type HistoryStore struct {
	db *db.DB
}

var _ pomodoro.HistoryStore = (*HistoryStore)(nil)

// NewHistoryStore creates a new SQLite-backed pomodoro history store.
func NewHistoryStore(db *db.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Record persists a finished countdown. Generates an ID if not set.
func (s *HistoryStore) Record(ctx context.Context, r pomodoro.Record) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.EndedAt.IsZero() {
		r.EndedAt = time.Now()
	}

	err := s.db.Queries().InsertPomodoroRecord(ctx, db.InsertPomodoroRecordParams{
		ID:        r.ID,
		UserID:    r.Owner,
		ChannelID: r.Channel,
		Phase:     string(r.Phase),
		Cycle:     int64(r.Cycle),
		PlannedMs: r.Planned.Milliseconds(),
		StartedAt: r.StartedAt.UnixNano(),
		EndedAt:   r.EndedAt.UnixNano(),
		Completed: boolToInt(r.Completed),
	})
	if err != nil {
		return fmt.Errorf("insert pomodoro record: %w", err)
	}

	return nil
}

// Stats summarises the owner's recorded countdowns.
func (s *HistoryStore) Stats(ctx context.Context, owner string) (pomodoro.Stats, error) {
	row, err := s.db.Queries().PomodoroStatsByUser(ctx, owner)
	if err != nil {
		return pomodoro.Stats{}, fmt.Errorf("pomodoro stats: %w", err)
	}

	return pomodoro.Stats{
		CompletedWork: row.CompletedWork,
		StoppedWork:   row.StoppedWork,
		FocusTime:     time.Duration(row.FocusMs) * time.Millisecond,
		Breaks:        row.Breaks,
	}, nil
}

// SweepBefore deletes records that ended before cutoff.
func (s *HistoryStore) SweepBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.db.Queries().DeletePomodoroRecordsBefore(ctx, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("delete pomodoro records: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
