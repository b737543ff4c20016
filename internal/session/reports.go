package session

import (
	"context"
	"time"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/timer"
)

// DailySummary totals tracked time per day and team for days in
// [fromDay, toDay].
func (s *Session) DailySummary(ctx context.Context, fromDay, toDay string) ([]domain.DailySummary, error) {
	if !ValidDay(fromDay) || !ValidDay(toDay) {
		return nil, &timer.ValidationError{Field: "range", Reason: "days must be YYYY-MM-DD"}
	}
	return s.backend.DailySummary(ctx, s.owner, fromDay, toDay)
}

// LastDays returns the inclusive range of n days ending today.
func (s *Session) LastDays(n int) (from, to string) {
	today := s.now()
	return today.AddDate(0, 0, -(n - 1)).Format(domain.DayLayout), today.Format(domain.DayLayout)
}

func (s *Session) DayTotal(ctx context.Context, day string) (int64, error) {
	return s.backend.DayTotal(ctx, s.owner, day)
}

// Entries lists the owner's entries across tasks, newest first.
func (s *Session) Entries(ctx context.Context, from, to *time.Time, limit int) ([]domain.ExportRow, error) {
	return s.backend.QueryEntries(ctx, domain.EntryFilter{Owner: s.owner, From: from, To: to, Limit: limit})
}
