package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sadopc/taskday/internal/domain"
)

func (s *Store) GetDiary(ctx context.Context, owner, day string) (*domain.DiaryEntry, error) {
	d := &domain.DiaryEntry{}
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner, day, body, updated_at FROM diary_entries WHERE owner = ? AND day = ?`, owner, day,
	).Scan(&d.Owner, &d.Day, &d.Body, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get diary %s: %w", day, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get diary %s: %w", day, err)
	}
	d.UpdatedAt = parseTime(updatedAt)
	return d, nil
}

// SaveDiary upserts the owner's entry for day.
func (s *Store) SaveDiary(ctx context.Context, owner, day, body string) (*domain.DiaryEntry, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO diary_entries (owner, day, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(owner, day) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		owner, day, body, s.timestamp(),
	)
	if err != nil {
		return nil, fmt.Errorf("save diary %s: %w", day, err)
	}
	return s.GetDiary(ctx, owner, day)
}

// ListDiary returns entries with fromDay <= day <= toDay, oldest first.
func (s *Store) ListDiary(ctx context.Context, owner, fromDay, toDay string) ([]domain.DiaryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner, day, body, updated_at FROM diary_entries
		 WHERE owner = ? AND day >= ? AND day <= ? ORDER BY day`,
		owner, fromDay, toDay,
	)
	if err != nil {
		return nil, fmt.Errorf("list diary: %w", err)
	}
	defer rows.Close()

	var out []domain.DiaryEntry
	for rows.Next() {
		var d domain.DiaryEntry
		var updatedAt string
		if err := rows.Scan(&d.Owner, &d.Day, &d.Body, &updatedAt); err != nil {
			return nil, err
		}
		d.UpdatedAt = parseTime(updatedAt)
		out = append(out, d)
	}
	return out, rows.Err()
}
