package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/pomobot/internal/core/task"
	"github.com/colonyops/pomobot/internal/data/db"
)

// TaskStore implements task.Store using SQLite.
type TaskStore struct {
	db  *db.DB
	now func() time.Time
}

var _ task.Store = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db, now: time.Now}
}

// Add persists a new task for owner.
func (s *TaskStore) Add(ctx context.Context, owner, description string) (task.Task, error) {
	desc, err := task.NormalizeDescription(description)
	if err != nil {
		return task.Task{}, err
	}

	row, err := s.db.Queries().CreateTask(ctx, db.CreateTaskParams{
		UserID:      owner,
		Description: desc,
		CreatedAt:   s.now().UnixNano(),
	})
	if err != nil {
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	return rowToTask(row), nil
}

// List returns the owner's tasks ordered by insertion.
func (s *TaskStore) List(ctx context.Context, owner string) ([]task.Task, error) {
	rows, err := s.db.Queries().ListTasksByUser(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]task.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, rowToTask(row))
	}

	return tasks, nil
}

// RemoveAt deletes the task at the 1-based position in the owner's list.
func (s *TaskStore) RemoveAt(ctx context.Context, owner string, index int) (task.Task, error) {
	if index < 1 {
		return task.Task{}, task.ErrIndexOutOfRange
	}

	var removed task.Task
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		row, err := q.GetTaskAtOffset(ctx, db.GetTaskAtOffsetParams{
			UserID: owner,
			Offset: int64(index - 1),
		})
		if err != nil {
			if IsNotFoundError(err) {
				return task.ErrIndexOutOfRange
			}
			return fmt.Errorf("get task at position %d: %w", index, err)
		}

		n, err := q.DeleteTask(ctx, db.DeleteTaskParams{ID: row.ID, UserID: owner})
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		if n == 0 {
			return task.ErrNotFound
		}

		removed = rowToTask(row)
		return nil
	})
	if err != nil {
		return task.Task{}, err
	}

	return removed, nil
}

// Count returns the number of tasks owned by owner.
func (s *TaskStore) Count(ctx context.Context, owner string) (int64, error) {
	count, err := s.db.Queries().CountTasksByUser(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}

func rowToTask(row db.Task) task.Task {
	return task.Task{
		ID:          row.ID,
		Owner:       row.UserID,
		Description: row.Description,
		CreatedAt:   time.Unix(0, row.CreatedAt),
	}
}
