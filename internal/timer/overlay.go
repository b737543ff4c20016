package timer

import (
	"context"
	"sync"
	"time"

	"github.com/sadopc/taskday/internal/domain"
)

// Overlay is the timer view of a single task. It keeps the aggregate from
// the last authoritative reload and renders the display from that snapshot
// only, so ticks never hit the store.
type Overlay struct {
	agg      *Aggregator
	targets  TargetStore
	taskID   string
	estimate *int64

	mu     sync.Mutex
	snap   Aggregate
	target int64
	ticker *Handle
}

// NewOverlay binds an overlay to a task. estimate is the task's stored
// estimate, used when no local target exists.
func NewOverlay(agg *Aggregator, targets TargetStore, taskID string, estimate *int64) *Overlay {
	return &Overlay{
		agg:      agg,
		targets:  targets,
		taskID:   taskID,
		estimate: estimate,
		snap:     Aggregate{TaskID: taskID},
	}
}

func (o *Overlay) TaskID() string { return o.taskID }

// Reload re-reads the aggregate and target. A failed entry read still
// replaces the snapshot with the degraded aggregate.
func (o *Overlay) Reload(ctx context.Context) (Aggregate, error) {
	agg, aggErr := o.agg.GetAggregate(ctx, o.taskID)

	local, ok, err := o.targets.Target(ctx, o.taskID)
	if err != nil {
		ok = false
	}
	target, _ := ResolveTarget(local, ok, o.estimate)

	o.mu.Lock()
	o.snap = agg
	o.target = target
	o.mu.Unlock()

	if aggErr != nil {
		return agg, aggErr
	}
	return agg, err
}

// Snapshot returns the aggregate captured at the last reload.
func (o *Overlay) Snapshot() Aggregate {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snap
}

// Target returns the effective target in seconds.
func (o *Overlay) Target() (int64, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.target, o.target > 0
}

// SetTarget persists a local target for the task.
func (o *Overlay) SetTarget(ctx context.Context, seconds int64) error {
	if err := ValidateTarget(seconds); err != nil {
		return err
	}
	if err := o.targets.SetTarget(ctx, o.taskID, seconds); err != nil {
		return err
	}
	o.mu.Lock()
	o.target = seconds
	o.mu.Unlock()
	return nil
}

// ClearTarget removes the local target; the stored estimate applies again.
func (o *Overlay) ClearTarget(ctx context.Context) error {
	if err := o.targets.ClearTarget(ctx, o.taskID); err != nil {
		return err
	}
	target, _ := ResolveTarget(0, false, o.estimate)
	o.mu.Lock()
	o.target = target
	o.mu.Unlock()
	return nil
}

// Start runs Aggregator.Start with the effective target and reloads.
func (o *Overlay) Start(ctx context.Context) (StartResult, error) {
	target, ok := o.Target()
	if !ok {
		return StartResult{}, &ValidationError{Field: "target", Reason: "not set"}
	}
	res, err := o.agg.Start(ctx, o.taskID, target)
	if err != nil {
		return res, err
	}
	if _, err := o.Reload(ctx); err != nil {
		o.apply(res)
	}
	return res, nil
}

// Stop closes the running entry from the snapshot and reloads.
func (o *Overlay) Stop(ctx context.Context) (*domain.TimeEntry, error) {
	running := o.Snapshot().Running
	if running == nil {
		return nil, &ValidationError{Field: "entry", Reason: "no running entry"}
	}
	entry, err := o.agg.Stop(ctx, running.ID, nil)
	if err != nil {
		return nil, err
	}
	if _, err := o.Reload(ctx); err != nil {
		o.mu.Lock()
		o.snap.Running = nil
		if entry.DurationSeconds != nil {
			o.snap.BaseSeconds += *entry.DurationSeconds
		}
		o.mu.Unlock()
	}
	return entry, nil
}

func (o *Overlay) apply(res StartResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.snap.BaseSeconds = res.BaseSeconds
	if res.Entry != nil {
		o.snap.Running = res.Entry
	}
}

// Display computes the display at now from the captured snapshot.
func (o *Overlay) Display(now time.Time) Display {
	o.mu.Lock()
	defer o.mu.Unlock()
	return ComputeDisplay(o.snap.BaseSeconds, o.snap.Running, o.target, now)
}

// Watch replaces any previous ticker with one that reports the display
// every interval. The returned handle is also cancelled by Close.
func (o *Overlay) Watch(ctx context.Context, interval time.Duration, fn func(Display)) *Handle {
	h := Schedule(ctx, interval, func(now time.Time) {
		fn(o.Display(now))
	})

	o.mu.Lock()
	prev := o.ticker
	o.ticker = h
	o.mu.Unlock()

	if prev != nil {
		prev.Cancel()
	}
	return h
}

// Close cancels the display ticker. A running entry keeps running.
func (o *Overlay) Close() {
	o.mu.Lock()
	h := o.ticker
	o.ticker = nil
	o.mu.Unlock()

	if h != nil {
		h.Cancel()
	}
}
