package session

import (
	"context"
	"time"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/timer"
)

// Status is a point-in-time view of a task's timer.
type Status struct {
	Task      domain.Task
	Aggregate timer.Aggregate
	Target    int64
	HasTarget bool
	Display   timer.Display
}

// TimerStatus reads the task's aggregate and computes its display at now.
// A degraded aggregate is returned together with the store error.
func (s *Session) TimerStatus(ctx context.Context, taskID string) (Status, error) {
	task, err := s.Task(ctx, taskID)
	if err != nil {
		return Status{}, err
	}
	target, hasTarget, err := s.Target(ctx, task)
	if err != nil {
		s.logger.WarnContext(ctx, "read local target", "task_id", taskID, "error", err)
	}

	agg, aggErr := s.agg.GetAggregate(s.timerCtx(ctx), taskID)
	st := Status{
		Task:      *task,
		Aggregate: agg,
		Target:    target,
		HasTarget: hasTarget,
		Display:   timer.ComputeDisplay(agg.BaseSeconds, agg.Running, target, s.now()),
	}
	return st, aggErr
}

// OpenTimer returns an overlay bound to the task and loaded once. The
// caller owns the overlay and must Close it.
func (s *Session) OpenTimer(ctx context.Context, taskID string) (*timer.Overlay, error) {
	task, err := s.Task(ctx, taskID)
	if err != nil {
		return nil, err
	}
	o := timer.NewOverlay(s.agg, s.local, task.ID, task.Estimate)
	if _, err := o.Reload(ctx); err != nil {
		return o, err
	}
	return o, nil
}

// StartTimer starts or resumes the task's timer. targetSeconds overrides the
// stored target when positive. When the target is already met the task is
// marked completed and no entry is created.
func (s *Session) StartTimer(ctx context.Context, taskID string, targetSeconds int64) (timer.StartResult, error) {
	task, err := s.Task(ctx, taskID)
	if err != nil {
		return timer.StartResult{}, err
	}
	if targetSeconds <= 0 {
		var ok bool
		targetSeconds, ok, err = s.Target(ctx, task)
		if err != nil {
			return timer.StartResult{}, err
		}
		if !ok {
			return timer.StartResult{}, &timer.ValidationError{Field: "target", Reason: "not set"}
		}
	}

	res, err := s.agg.Start(s.timerCtx(ctx), taskID, targetSeconds)
	if err != nil {
		return res, err
	}
	if res.AlreadyComplete && !task.Completed {
		if err := s.backend.SetCompleted(ctx, taskID, true); err != nil {
			return res, err
		}
	}
	return res, nil
}

// StopEntry closes an entry owned by the session's user.
func (s *Session) StopEntry(ctx context.Context, entryID string, endAt *time.Time) (*domain.TimeEntry, error) {
	entry, err := s.backend.GetEntry(ctx, entryID)
	if err != nil {
		if isNotFound(err) {
			return nil, &timer.NotFoundError{EntryID: entryID}
		}
		return nil, &timer.StoreError{Op: timer.OpGet, Err: err}
	}
	if _, err := s.Task(ctx, entry.TaskID); err != nil {
		if isNotFound(err) {
			return nil, &timer.NotFoundError{EntryID: entryID}
		}
		return nil, err
	}
	return s.agg.Stop(s.timerCtx(ctx), entryID, endAt)
}

// StopTask closes the task's running entry. It returns nil, nil when
// nothing is running.
func (s *Session) StopTask(ctx context.Context, taskID string) (*domain.TimeEntry, error) {
	if _, err := s.Task(ctx, taskID); err != nil {
		return nil, err
	}
	agg, err := s.agg.GetAggregate(s.timerCtx(ctx), taskID)
	if err != nil {
		return nil, err
	}
	if agg.Running == nil {
		return nil, nil
	}
	return s.agg.Stop(s.timerCtx(ctx), agg.Running.ID, nil)
}

// timerCtx tags ctx with the session's owner so aggregator events are
// attributed to the user this view acts for.
func (s *Session) timerCtx(ctx context.Context) context.Context {
	return timer.WithOwner(ctx, s.owner)
}
