package timer

import (
	"context"
	"time"

	"github.com/sadopc/taskday/internal/domain"
)

// EntryStore persists time entries. Implementations wrap domain.ErrNotFound
// when GetEntry or UpdateEntry address a missing row.
type EntryStore interface {
	// ListEntries returns the task's entries ordered by StartAt ascending.
	ListEntries(ctx context.Context, taskID string) ([]domain.TimeEntry, error)
	GetEntry(ctx context.Context, id string) (*domain.TimeEntry, error)
	InsertEntry(ctx context.Context, taskID string, startAt time.Time) (*domain.TimeEntry, error)
	// UpdateEntry writes EndAt and DurationSeconds in a single statement.
	UpdateEntry(ctx context.Context, id string, endAt time.Time, durationSeconds int64) (*domain.TimeEntry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// TargetStore keeps per-task countdown targets on the local device.
type TargetStore interface {
	Target(ctx context.Context, taskID string) (seconds int64, ok bool, err error)
	SetTarget(ctx context.Context, taskID string, seconds int64) error
	ClearTarget(ctx context.Context, taskID string) error
}
