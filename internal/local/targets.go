package local

import (
	"context"
	"database/sql"
	"fmt"
)

// Target returns the stored countdown target for taskID, if any.
func (s *Store) Target(ctx context.Context, taskID string) (int64, bool, error) {
	var secs int64
	err := s.db.QueryRowContext(ctx, `SELECT seconds FROM targets WHERE task_id = ?`, taskID).Scan(&secs)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get target %s: %w", taskID, err)
	}
	return secs, true, nil
}

func (s *Store) SetTarget(ctx context.Context, taskID string, seconds int64) error {
	if seconds <= 0 {
		return fmt.Errorf("set target %s: seconds must be positive, got %d", taskID, seconds)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO targets (task_id, seconds, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(task_id) DO UPDATE SET seconds = excluded.seconds, updated_at = excluded.updated_at`,
		taskID, seconds, now(),
	)
	if err != nil {
		return fmt.Errorf("set target %s: %w", taskID, err)
	}
	return nil
}

func (s *Store) ClearTarget(ctx context.Context, taskID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM targets WHERE task_id = ?`, taskID); err != nil {
		return fmt.Errorf("clear target %s: %w", taskID, err)
	}
	return nil
}
