package local

import (
	"context"
	"database/sql"
	"fmt"
)

// Draft returns the unsaved diary text for day.
func (s *Store) Draft(ctx context.Context, day string) (string, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM drafts WHERE day = ?`, day).Scan(&body)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get draft %s: %w", day, err)
	}
	return body, true, nil
}

func (s *Store) SaveDraft(ctx context.Context, day, body string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO drafts (day, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(day) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		day, body, now(),
	)
	if err != nil {
		return fmt.Errorf("save draft %s: %w", day, err)
	}
	return nil
}

func (s *Store) ClearDraft(ctx context.Context, day string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE day = ?`, day); err != nil {
		return fmt.Errorf("clear draft %s: %w", day, err)
	}
	return nil
}
