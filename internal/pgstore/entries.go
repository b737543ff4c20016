package pgstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sadopc/taskday/internal/domain"
)

const entryColumns = `id, task_id, start_at, end_at, duration_seconds, created_at`

func scanEntry(row pgx.Row) (*domain.TimeEntry, error) {
	e := &domain.TimeEntry{}
	if err := row.Scan(&e.ID, &e.TaskID, &e.StartAt, &e.EndAt, &e.DurationSeconds, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.StartAt = e.StartAt.UTC()
	if e.EndAt != nil {
		end := e.EndAt.UTC()
		e.EndAt = &end
	}
	return e, nil
}

func (s *Store) ListEntries(ctx context.Context, taskID string) ([]domain.TimeEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+entryColumns+` FROM time_entries WHERE task_id = $1 ORDER BY start_at ASC, id ASC`,
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
	e, err := scanEntry(s.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM time_entries WHERE id = $1`, id))
	if notFound(err) {
		return nil, fmt.Errorf("get entry %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) InsertEntry(ctx context.Context, taskID string, startAt time.Time) (*domain.TimeEntry, error) {
	e, err := scanEntry(s.pool.QueryRow(ctx,
		`INSERT INTO time_entries (id, task_id, start_at, created_at) VALUES ($1, $2, $3, $4)
		 RETURNING `+entryColumns,
		uuid.NewString(), taskID, startAt.UTC(), s.timestamp(),
	))
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, id string, endAt time.Time, durationSeconds int64) (*domain.TimeEntry, error) {
	e, err := scanEntry(s.pool.QueryRow(ctx,
		`UPDATE time_entries SET end_at = $1, duration_seconds = $2 WHERE id = $3
		 RETURNING `+entryColumns,
		endAt.UTC(), durationSeconds, id,
	))
	if notFound(err) {
		return nil, fmt.Errorf("update entry %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update entry %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM time_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete entry %s: %w", id, err)
	}
	return affected(tag, "delete entry", id)
}

func (s *Store) QueryEntries(ctx context.Context, f domain.EntryFilter) ([]domain.ExportRow, error) {
	query := `SELECT e.id, e.task_id, e.start_at, e.end_at, e.duration_seconds, e.created_at,
	                 t.title, t.day, COALESCE(tm.name, '')
	          FROM time_entries e
	          JOIN tasks t ON t.id = e.task_id
	          LEFT JOIN teams tm ON tm.id = t.team_id
	          WHERE TRUE`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Owner != "" {
		query += ` AND t.owner = ` + arg(f.Owner)
	}
	if f.TaskID != nil {
		query += ` AND e.task_id = ` + arg(*f.TaskID)
	}
	if f.TeamID != nil {
		query += ` AND t.team_id = ` + arg(*f.TeamID)
	}
	if f.From != nil {
		query += ` AND e.start_at >= ` + arg(f.From.UTC())
	}
	if f.To != nil {
		query += ` AND e.start_at < ` + arg(f.To.UTC())
	}
	query += ` ORDER BY e.start_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + arg(f.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	var out []domain.ExportRow
	for rows.Next() {
		var r domain.ExportRow
		e := &r.Entry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.StartAt, &e.EndAt, &e.DurationSeconds, &e.CreatedAt,
			&r.TaskTitle, &r.TaskDay, &r.TeamName); err != nil {
			return nil, err
		}
		e.StartAt = e.StartAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) DailySummary(ctx context.Context, owner, fromDay, toDay string) ([]domain.DailySummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT t.day, COALESCE(t.team_id, ''), COALESCE(tm.name, ''), COALESCE(tm.color, ''),
		       COALESCE(SUM(e.duration_seconds), 0)::bigint, COUNT(*)
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		LEFT JOIN teams tm ON tm.id = t.team_id
		WHERE e.end_at IS NOT NULL AND e.duration_seconds IS NOT NULL
		  AND t.owner = $1 AND t.day >= $2 AND t.day <= $3
		GROUP BY t.day, t.team_id, tm.name, tm.color
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

func (s *Store) DayTotal(ctx context.Context, owner, day string) (int64, error) {
	var total int64
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(e.duration_seconds), 0)::bigint
		FROM time_entries e
		JOIN tasks t ON t.id = e.task_id
		WHERE t.owner = $1 AND t.day = $2 AND e.end_at IS NOT NULL`, owner, day,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("day total: %w", err)
	}
	return total, nil
}
