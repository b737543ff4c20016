package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/timer"
)

// NewTask is the input to CreateTask.
type NewTask struct {
	Day      string
	Title    string
	TeamID   *string
	Estimate *int64
}

// ValidDay reports whether day is a YYYY-MM-DD date.
func ValidDay(day string) bool {
	_, err := time.Parse(domain.DayLayout, day)
	return err == nil
}

func (s *Session) CreateTask(ctx context.Context, in NewTask) (*domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, &timer.ValidationError{Field: "title", Reason: "required"}
	}
	if in.Day == "" {
		in.Day = s.Today()
	}
	if !ValidDay(in.Day) {
		return nil, &timer.ValidationError{Field: "day", Reason: "must be YYYY-MM-DD"}
	}
	if in.Estimate != nil {
		if err := timer.ValidateTarget(*in.Estimate); err != nil {
			return nil, err
		}
	}
	if in.TeamID != nil {
		if _, err := s.backend.GetTeam(ctx, *in.TeamID); err != nil {
			return nil, err
		}
	}
	return s.backend.CreateTask(ctx, domain.Task{
		Owner:    s.owner,
		Day:      in.Day,
		Title:    in.Title,
		TeamID:   in.TeamID,
		Estimate: in.Estimate,
	})
}

// Task returns the task when it belongs to the session owner.
func (s *Session) Task(ctx context.Context, id string) (*domain.Task, error) {
	t, err := s.backend.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Owner != s.owner {
		return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

// Tasks lists the owner's tasks for day, optionally for one team.
func (s *Session) Tasks(ctx context.Context, day string, teamID *string, includeCompleted bool) ([]domain.Task, error) {
	return s.backend.ListTasks(ctx, domain.TaskFilter{
		Owner:            s.owner,
		Day:              day,
		TeamID:           teamID,
		IncludeCompleted: includeCompleted,
	})
}

func (s *Session) UpdateTask(ctx context.Context, id, title string, teamID *string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return &timer.ValidationError{Field: "title", Reason: "required"}
	}
	if _, err := s.Task(ctx, id); err != nil {
		return err
	}
	return s.backend.UpdateTask(ctx, id, title, teamID)
}

func (s *Session) CompleteTask(ctx context.Context, id string, done bool) error {
	if _, err := s.Task(ctx, id); err != nil {
		return err
	}
	return s.backend.SetCompleted(ctx, id, done)
}

// DeleteTask removes the task, its entries and its local target.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	if _, err := s.Task(ctx, id); err != nil {
		return err
	}
	if err := s.backend.DeleteTask(ctx, id); err != nil {
		return err
	}
	if err := s.local.ClearTarget(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "clear target of deleted task", "task_id", id, "error", err)
	}
	return nil
}

// SetTarget stores a local countdown target. With mirror set the target is
// also written to the task's estimate in the shared database.
func (s *Session) SetTarget(ctx context.Context, taskID string, seconds int64, mirror bool) error {
	if err := timer.ValidateTarget(seconds); err != nil {
		return err
	}
	if _, err := s.Task(ctx, taskID); err != nil {
		return err
	}
	if err := s.local.SetTarget(ctx, taskID, seconds); err != nil {
		return err
	}
	if mirror {
		if err := s.backend.SetEstimate(ctx, taskID, &seconds); err != nil {
			return fmt.Errorf("mirror target to estimate: %w", err)
		}
	}
	return nil
}

func (s *Session) ClearTarget(ctx context.Context, taskID string) error {
	if _, err := s.Task(ctx, taskID); err != nil {
		return err
	}
	return s.local.ClearTarget(ctx, taskID)
}

// Target resolves the effective target: local first, then the estimate.
func (s *Session) Target(ctx context.Context, task *domain.Task) (int64, bool, error) {
	local, ok, err := s.local.Target(ctx, task.ID)
	if err != nil {
		return 0, false, err
	}
	secs, ok := timer.ResolveTarget(local, ok, task.Estimate)
	return secs, ok, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
