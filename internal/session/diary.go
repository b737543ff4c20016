package session

import (
	"context"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/timer"
)

// DiaryView is the saved entry for a day plus any unsaved local draft.
type DiaryView struct {
	Day      string
	Saved    *domain.DiaryEntry
	Draft    string
	HasDraft bool
}

// Text is the draft when one exists, otherwise the saved body.
func (v DiaryView) Text() string {
	if v.HasDraft {
		return v.Draft
	}
	if v.Saved != nil {
		return v.Saved.Body
	}
	return ""
}

func (s *Session) Diary(ctx context.Context, day string) (DiaryView, error) {
	if !ValidDay(day) {
		return DiaryView{}, &timer.ValidationError{Field: "day", Reason: "must be YYYY-MM-DD"}
	}
	v := DiaryView{Day: day}
	saved, err := s.backend.GetDiary(ctx, s.owner, day)
	switch {
	case err == nil:
		v.Saved = saved
	case isNotFound(err):
	default:
		return v, err
	}

	draft, ok, err := s.local.Draft(ctx, day)
	if err != nil {
		s.logger.WarnContext(ctx, "read diary draft", "day", day, "error", err)
	}
	v.Draft, v.HasDraft = draft, ok
	return v, nil
}

// SaveDraft keeps unsaved diary text on this device only.
func (s *Session) SaveDraft(ctx context.Context, day, body string) error {
	if !ValidDay(day) {
		return &timer.ValidationError{Field: "day", Reason: "must be YYYY-MM-DD"}
	}
	return s.local.SaveDraft(ctx, day, body)
}

// SaveDiary writes the entry to the shared database and drops the draft.
func (s *Session) SaveDiary(ctx context.Context, day, body string) (*domain.DiaryEntry, error) {
	if !ValidDay(day) {
		return nil, &timer.ValidationError{Field: "day", Reason: "must be YYYY-MM-DD"}
	}
	d, err := s.backend.SaveDiary(ctx, s.owner, day, body)
	if err != nil {
		return nil, err
	}
	if err := s.local.ClearDraft(ctx, day); err != nil {
		s.logger.WarnContext(ctx, "clear diary draft", "day", day, "error", err)
	}
	return d, nil
}

func (s *Session) DiaryRange(ctx context.Context, fromDay, toDay string) ([]domain.DiaryEntry, error) {
	return s.backend.ListDiary(ctx, s.owner, fromDay, toDay)
}
