package task

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("task not found")
	// ErrIndexOutOfRange is returned when a 1-based position does not match a task.
	ErrIndexOutOfRange = errors.New("task index out of range")
	// ErrEmptyDescription is returned when a task has no description.
	ErrEmptyDescription = errors.New("task description is empty")
)

// Store defines the interface for task persistence. Every method is scoped to
// one owner and never reads or writes another owner's tasks.
type Store interface {
	// Add persists a new task and returns it with ID and CreatedAt populated.
	// Returns ErrEmptyDescription if the description is blank.
	Add(ctx context.Context, owner, description string) (Task, error)

	// List returns the owner's tasks in insertion order.
	List(ctx context.Context, owner string) ([]Task, error)

	// RemoveAt deletes the task at the 1-based position in the owner's list
	// and returns it. Lookup and delete happen in one transaction.
	// Returns ErrIndexOutOfRange if no task sits at that position.
	RemoveAt(ctx context.Context, owner string, index int) (Task, error)

	// Count returns how many tasks the owner has.
	Count(ctx context.Context, owner string) (int64, error)
}

// NormalizeDescription trims surrounding whitespace and rejects blank input.
func NormalizeDescription(description string) (string, error) {
	d := strings.TrimSpace(description)
	if d == "" {
		return "", ErrEmptyDescription
	}
	return d, nil
}
