package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/colonyops/pomobot/internal/core/eventbus"
	"github.com/colonyops/pomobot/internal/core/logging"
	"github.com/colonyops/pomobot/internal/core/task"
)

// TaskService wraps task.Store with event publishing.
type TaskService struct {
	store task.Store
	bus   *eventbus.EventBus
	log   zerolog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(store task.Store, bus *eventbus.EventBus, log zerolog.Logger) *TaskService {
	return &TaskService{
		store: store,
		bus:   bus,
		log:   logging.For(log, "task-service"),
	}
}

// Add appends a task to the owner's list.
func (s *TaskService) Add(ctx context.Context, owner, description string) (task.Task, error) {
	t, err := s.store.Add(ctx, owner, description)
	if err != nil {
		return task.Task{}, fmt.Errorf("add task: %w", err)
	}

	s.log.Debug().Ctx(ctx).Int64("task_id", t.ID).Msg("task added")
	s.bus.PublishTaskAdded(eventbus.TaskAddedPayload{Task: t})

	return t, nil
}

// List returns the owner's tasks in insertion order.
func (s *TaskService) List(ctx context.Context, owner string) ([]task.Task, error) {
	tasks, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Remove deletes the task at the 1-based position in the owner's list.
func (s *TaskService) Remove(ctx context.Context, owner string, index int) (task.Task, error) {
	t, err := s.store.RemoveAt(ctx, owner, index)
	if err != nil {
		return task.Task{}, fmt.Errorf("remove task %d: %w", index, err)
	}

	s.log.Debug().Ctx(ctx).Int64("task_id", t.ID).Msg("task removed")
	s.bus.PublishTaskRemoved(eventbus.TaskRemovedPayload{Task: t})

	return t, nil
}

// Count returns how many tasks the owner has.
func (s *TaskService) Count(ctx context.Context, owner string) (int64, error) {
	return s.store.Count(ctx, owner)
}
