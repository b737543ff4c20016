package timer

import (
	"context"

	"github.com/sadopc/taskday/internal/domain"
)

type EventKind string

const (
	EventStarted         EventKind = "started"
	EventResumed         EventKind = "resumed"
	EventAlreadyComplete EventKind = "already_complete"
	EventStopped         EventKind = "stopped"
	EventWarning         EventKind = "warning"
	EventStoreError      EventKind = "store_error"
)

// Event describes something the Aggregator did or noticed.
type Event struct {
	Kind          EventKind
	Owner         string
	TaskID        string
	Entry         *domain.TimeEntry
	BaseSeconds   int64
	TargetSeconds int64
	Warning       string
	Op            string
	Err           error
}

type ownerKey struct{}

// WithOwner tags ctx with the user the aggregator acts for. Events emitted
// under ctx carry that owner.
func WithOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

// OwnerFromContext returns the owner set by WithOwner, or "".
func OwnerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

// Observer receives aggregator events. Observe must not block for long;
// it runs on the caller's goroutine.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// Observers fans an event out to each observer in order.
type Observers []Observer

func (obs Observers) Observe(ctx context.Context, ev Event) {
	for _, o := range obs {
		o.Observe(ctx, ev)
	}
}
