// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// UserID validates a user id is non-empty after trimming whitespace.
func UserID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("user id is required")
	}
	return nil
}

// UserIDField returns a criterio validator for user ids.
func UserIDField(field, id string) error {
	return criterio.Run(field, id, UserID)
}

// TaskIndex validates a 1-based task position.
func TaskIndex(n int) error {
	if n < 1 {
		return fmt.Errorf("task number must be 1 or greater, got %d", n)
	}
	return nil
}
