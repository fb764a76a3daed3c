package pomodoro

import (
	"context"
	"time"
)

// Record is a finished countdown as kept in the history store.
type Record struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner"`
	Channel   string        `json:"channel"`
	Phase     Phase         `json:"phase"`
	Cycle     int           `json:"cycle"`
	Planned   time.Duration `json:"planned"`
	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Completed bool          `json:"completed"`
}

// Stats summarises an owner's history.
type Stats struct {
	CompletedWork int64
	StoppedWork   int64
	FocusTime     time.Duration
	Breaks        int64
}

// HistoryStore persists finished countdowns.
type HistoryStore interface {
	// Record persists a finished countdown. The store assigns an ID if empty.
	Record(ctx context.Context, r Record) error

	// Stats summarises the owner's history.
	Stats(ctx context.Context, owner string) (Stats, error)

	// SweepBefore deletes records that ended before cutoff and returns how
	// many were removed.
	SweepBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
