package pgstore

import (
	"context"
	"fmt"

	"github.com/sadopc/taskday/internal/domain"
)

func (s *Store) GetDiary(ctx context.Context, owner, day string) (*domain.DiaryEntry, error) {
	d := &domain.DiaryEntry{}
	err := s.pool.QueryRow(ctx,
		`SELECT owner, day, body, updated_at FROM diary_entries WHERE owner = $1 AND day = $2`, owner, day,
	).Scan(&d.Owner, &d.Day, &d.Body, &d.UpdatedAt)
	if notFound(err) {
		return nil, fmt.Errorf("get diary %s: %w", day, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get diary %s: %w", day, err)
	}
	return d, nil
}

func (s *Store) SaveDiary(ctx context.Context, owner, day, body string) (*domain.DiaryEntry, error) {
	d := &domain.DiaryEntry{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO diary_entries (owner, day, body, updated_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (owner, day) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at
		 RETURNING owner, day, body, updated_at`,
		owner, day, body, s.timestamp(),
	).Scan(&d.Owner, &d.Day, &d.Body, &d.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("save diary %s: %w", day, err)
	}
	return d, nil
}

func (s *Store) ListDiary(ctx context.Context, owner, fromDay, toDay string) ([]domain.DiaryEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT owner, day, body, updated_at FROM diary_entries
		 WHERE owner = $1 AND day >= $2 AND day <= $3 ORDER BY day`,
		owner, fromDay, toDay,
	)
	if err != nil {
		return nil, fmt.Errorf("list diary: %w", err)
	}
	defer rows.Close()

	var out []domain.DiaryEntry
	for rows.Next() {
		var d domain.DiaryEntry
		if err := rows.Scan(&d.Owner, &d.Day, &d.Body, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
