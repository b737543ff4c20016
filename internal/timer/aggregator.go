package timer

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/sadopc/taskday/internal/domain"
)

// Aggregator derives timer state from the entry log and drives start/stop.
// It holds no per-task state; every call reads the store.
type Aggregator struct {
	store    EntryStore
	now      func() time.Time
	observer Observer
}

type Option func(*Aggregator)

// WithClock replaces time.Now for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithObserver appends an observer notified of starts, stops and warnings.
func WithObserver(o Observer) Option {
	return func(a *Aggregator) {
		if a.observer == nil {
			a.observer = o
			return
		}
		a.observer = Observers{a.observer, o}
	}
}

func NewAggregator(store EntryStore, opts ...Option) *Aggregator {
	a := &Aggregator{store: store, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// StartResult is returned by Start. Entry is nil when AlreadyComplete.
type StartResult struct {
	Entry           *domain.TimeEntry
	BaseSeconds     int64
	AlreadyComplete bool
	Created         bool
	Warnings        []string
}

// GetAggregate reads every entry of the task and summarizes it. A failed
// read yields a zeroed aggregate tagged WarningFetchError and a *StoreError.
func (a *Aggregator) GetAggregate(ctx context.Context, taskID string) (Aggregate, error) {
	if taskID == "" {
		return Aggregate{}, &ValidationError{Field: "task id", Reason: "required"}
	}

	entries, err := a.store.ListEntries(ctx, taskID)
	if err != nil {
		serr := a.storeErr(ctx, OpList, taskID, err)
		agg := Aggregate{TaskID: taskID, Warnings: []string{WarningFetchError}}
		a.emit(ctx, Event{Kind: EventWarning, TaskID: taskID, Warning: WarningFetchError})
		return agg, serr
	}

	agg := Summarize(taskID, entries)
	for _, w := range agg.Warnings {
		a.emit(ctx, Event{Kind: EventWarning, TaskID: taskID, Warning: w})
	}
	return agg, nil
}

// Start begins or resumes work on a task against targetSeconds. The base is
// always re-read first; if it already meets the target nothing is written.
// An open entry is reused instead of inserting a second one.
func (a *Aggregator) Start(ctx context.Context, taskID string, targetSeconds int64) (StartResult, error) {
	if taskID == "" {
		return StartResult{}, &ValidationError{Field: "task id", Reason: "required"}
	}
	if err := ValidateTarget(targetSeconds); err != nil {
		return StartResult{}, err
	}

	agg, err := a.GetAggregate(ctx, taskID)
	if err != nil {
		return StartResult{Warnings: agg.Warnings}, err
	}
	res := StartResult{BaseSeconds: agg.BaseSeconds}

	if targetSeconds-agg.BaseSeconds <= 0 {
		res.AlreadyComplete = true
		a.emit(ctx, Event{
			Kind:          EventAlreadyComplete,
			TaskID:        taskID,
			BaseSeconds:   agg.BaseSeconds,
			TargetSeconds: targetSeconds,
		})
		return res, nil
	}

	// Re-check right before inserting to narrow the window for a second
	// open entry.
	entries, err := a.store.ListEntries(ctx, taskID)
	if err != nil {
		return res, a.storeErr(ctx, OpList, taskID, err)
	}
	if open := openEntries(entries); len(open) > 0 {
		if len(open) > 1 {
			res.Warnings = append(res.Warnings, MultipleRunningWarning(len(open)))
		}
		res.Entry = authoritative(open)
		a.emit(ctx, Event{
			Kind:          EventResumed,
			TaskID:        taskID,
			Entry:         res.Entry,
			BaseSeconds:   res.BaseSeconds,
			TargetSeconds: targetSeconds,
		})
		return res, nil
	}

	entry, err := a.store.InsertEntry(ctx, taskID, a.now().UTC())
	if err != nil {
		return res, a.storeErr(ctx, OpInsert, taskID, err)
	}
	res.Entry = entry
	res.Created = true
	a.emit(ctx, Event{
		Kind:          EventStarted,
		TaskID:        taskID,
		Entry:         entry,
		BaseSeconds:   res.BaseSeconds,
		TargetSeconds: targetSeconds,
	})
	return res, nil
}

// Stop closes an entry at endAt, or now when endAt is nil. An entry that is
// already closed is returned unchanged unless an explicit endAt is given.
func (a *Aggregator) Stop(ctx context.Context, entryID string, endAt *time.Time) (*domain.TimeEntry, error) {
	if entryID == "" {
		return nil, &ValidationError{Field: "entry id", Reason: "required"}
	}

	entry, err := a.store.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{EntryID: entryID}
		}
		return nil, a.storeErr(ctx, OpGet, "", err)
	}

	var end time.Time
	switch {
	case endAt != nil:
		end = endAt.UTC()
	case entry.EndAt != nil && entry.DurationSeconds != nil:
		return entry, nil
	case entry.EndAt != nil:
		// Closed without a recorded duration: fill it in from the stored end.
		end = *entry.EndAt
	default:
		end = a.now().UTC()
	}

	updated, err := a.store.UpdateEntry(ctx, entryID, end, DurationSeconds(entry.StartAt, end))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &NotFoundError{EntryID: entryID}
		}
		return nil, a.storeErr(ctx, OpUpdate, entry.TaskID, err)
	}
	a.emit(ctx, Event{Kind: EventStopped, TaskID: updated.TaskID, Entry: updated})
	return updated, nil
}

// DurationSeconds is max(0, round(end - start)) in whole seconds.
func DurationSeconds(start, end time.Time) int64 {
	secs := math.Round(end.Sub(start).Seconds())
	if secs < 0 {
		return 0
	}
	return int64(secs)
}

func (a *Aggregator) storeErr(ctx context.Context, op, taskID string, err error) error {
	serr := &StoreError{Op: op, TaskID: taskID, Err: err}
	a.emit(ctx, Event{Kind: EventStoreError, TaskID: taskID, Op: op, Err: serr})
	return serr
}

func (a *Aggregator) emit(ctx context.Context, ev Event) {
	if ev.Owner == "" {
		ev.Owner = OwnerFromContext(ctx)
	}
	if a.observer != nil {
		a.observer.Observe(ctx, ev)
	}
}
