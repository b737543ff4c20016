package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/taskday/internal/domain"
)

const entryColumns = `id, task_id, start_at, end_at, duration_seconds, created_at`

func scanEntry(row scanner) (*domain.TimeEntry, error) {
	e := &domain.TimeEntry{}
	var startAt, createdAt string
	var endAt sql.NullString
	var duration sql.NullInt64
	if err := row.Scan(&e.ID, &e.TaskID, &startAt, &endAt, &duration, &createdAt); err != nil {
		return nil, err
	}
	e.StartAt = parseTime(startAt)
	e.EndAt = parseNullTime(endAt)
	if duration.Valid {
		e.DurationSeconds = &duration.Int64
	}
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// ListEntries returns the task's entries, oldest first.
func (s *Store) ListEntries(ctx context.Context, taskID string) ([]domain.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE task_id = ? ORDER BY start_at ASC, id ASC`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (s *Store) GetEntry(ctx context.Context, id string) (*domain.TimeEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get entry %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) InsertEntry(ctx context.Context, taskID string, startAt time.Time) (*domain.TimeEntry, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO time_entries (id, task_id, start_at, created_at) VALUES (?, ?, ?, ?)`,
		id, taskID, formatTime(startAt), s.timestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return s.GetEntry(ctx, id)
}

// UpdateEntry closes an entry, writing end_at and duration_seconds together.
func (s *Store) UpdateEntry(ctx context.Context, id string, endAt time.Time, durationSeconds int64) (*domain.TimeEntry, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE time_entries SET end_at = ?, duration_seconds = ? WHERE id = ?`,
		formatTime(endAt), durationSeconds, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("update entry %s: %w", id, domain.ErrNotFound)
	}
	return s.GetEntry(ctx, id)
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM time_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// QueryEntries lists entries across tasks joined with task and team names,
// newest first.
func (s *Store) QueryEntries(ctx context.Context, f domain.EntryFilter) ([]domain.ExportRow, error) {
	query := `SELECT e.id, e.task_id, e.start_at, e.end_at, e.duration_seconds, e.created_at,
	                 t.title, t.day, COALESCE(tm.name, '')
	          FROM time_entries e
	          JOIN tasks t ON t.id = e.task_id
	          LEFT JOIN teams tm ON tm.id = t.team_id
	          WHERE 1=1`
	var args []any

	if f.Owner != "" {
		query += ` AND t.owner = ?`
		args = append(args, f.Owner)
	}
	if f.TaskID != nil {
		query += ` AND e.task_id = ?`
		args = append(args, *f.TaskID)
	}
	if f.TeamID != nil {
		query += ` AND t.team_id = ?`
		args = append(args, *f.TeamID)
	}
	if f.From != nil {
		query += ` AND e.start_at >= ?`
		args = append(args, formatTime(*f.From))
	}
	if f.To != nil {
		query += ` AND e.start_at < ?`
		args = append(args, formatTime(*f.To))
	}
	query += ` ORDER BY e.start_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []domain.ExportRow
	for rows.Next() {
		var r domain.ExportRow
		var startAt, createdAt string
		var endAt sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&r.Entry.ID, &r.Entry.TaskID, &startAt, &endAt, &duration, &createdAt,
			&r.TaskTitle, &r.TaskDay, &r.TeamName); err != nil {
			return nil, err
		}
		r.Entry.StartAt = parseTime(startAt)
		r.Entry.EndAt = parseNullTime(endAt)
		if duration.Valid {
			r.Entry.DurationSeconds = &duration.Int64
		}
		r.Entry.CreatedAt = parseTime(createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// DailySummary totals closed entries per task day and team for days in
// [fromDay, toDay]. Tasks without a team are grouped under an empty TeamID.
func (s *Store) DailySummary(ctx context.Context, owner, fromDay, toDay string) ([]domain.DailySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.day, COALESCE(t.team_id, ''), COALESCE(tm.name, ''), COALESCE(tm.color, ''),
		       COALESCE(SUM(e.duration_seconds), 0), COUNT(*)
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		LEFT JOIN teams tm ON tm.id = t.team_id
		WHERE e.end_at IS NOT NULL AND e.duration_seconds IS NOT NULL
		  AND t.owner = ? AND t.day >= ? AND t.day <= ?
		GROUP BY t.day, COALESCE(t.team_id, '')
		ORDER BY t.day, COALESCE(tm.name, '')`,
		owner, fromDay, toDay,
	)
	if err != nil {
		return nil, fmt.Errorf("daily summary: %w", err)
	}
	defer rows.Close()

	var summaries []domain.DailySummary
	for rows.Next() {
		var ds domain.DailySummary
		if err := rows.Scan(&ds.Day, &ds.TeamID, &ds.TeamName, &ds.TeamColor, &ds.TotalSeconds, &ds.EntryCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, ds)
	}
	return summaries, rows.Err()
}

// DayTotal sums recorded durations of the owner's tasks on day.
func (s *Store) DayTotal(ctx context.Context, owner, day string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(e.duration_seconds), 0)
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		WHERE t.owner = ? AND t.day = ? AND e.end_at IS NOT NULL`, owner, day,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("day total: %w", err)
	}
	return total, nil
}
