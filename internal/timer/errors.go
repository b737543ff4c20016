package timer

import (
	"fmt"

	"github.com/sadopc/taskday/internal/domain"
)

// Store operations reported in StoreError.Op.
const (
	OpList   = "list"
	OpGet    = "get"
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

// ValidationError reports a missing or invalid input. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StoreError wraps a failure of the entry store. Reads degrade to a zeroed
// aggregate carrying WarningFetchError; writes return it to the caller.
type StoreError struct {
	Op     string
	TaskID string
	Err    error
}

func (e *StoreError) Error() string {
	if e.TaskID != "" {
		return fmt.Sprintf("time entries %s (task %s): %v", e.Op, e.TaskID, e.Err)
	}
	return fmt.Sprintf("time entries %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NotFoundError is returned by Stop when the entry does not exist.
type NotFoundError struct {
	EntryID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("time entry %s: not found", e.EntryID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == domain.ErrNotFound
}
