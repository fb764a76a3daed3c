// Package task defines the personal task list domain model.
package task

import "time"

// Task is a single item on a user's task list. Tasks are created and deleted
// but never edited.
type Task struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
