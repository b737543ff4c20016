package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/sadopc/taskday/internal/domain"
)

const taskColumns = `id, owner, day, title, team_id, estimated_duration_seconds, completed, completed_at, created_at, updated_at`

func scanTask(row scanner) (*domain.Task, error) {
	t := &domain.Task{}
	var teamID, completedAt sql.NullString
	var estimate sql.NullInt64
	var completed int
	var createdAt, updatedAt string
	if err := row.Scan(&t.ID, &t.Owner, &t.Day, &t.Title, &teamID, &estimate, &completed,
		&completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if teamID.Valid {
		t.TeamID = &teamID.String
	}
	if estimate.Valid {
		t.Estimate = &estimate.Int64
	}
	t.Completed = completed == 1
	t.CompletedAt = parseNullTime(completedAt)
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

// CreateTask inserts t with a fresh id. Day and Title are required.
func (s *Store) CreateTask(ctx context.Context, t domain.Task) (*domain.Task, error) {
	id := uuid.NewString()
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, owner, day, title, team_id, estimated_duration_seconds, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.Owner, t.Day, t.Title, t.TeamID, t.Estimate, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner = ?`
	args := []any{f.Owner}
	if f.Day != "" {
		query += ` AND day = ?`
		args = append(args, f.Day)
	}
	if f.TeamID != nil {
		query += ` AND team_id = ?`
		args = append(args, *f.TeamID)
	}
	if !f.IncludeCompleted {
		query += ` AND completed = 0`
	}
	query += ` ORDER BY day, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, id, title string, teamID *string) error {
	return s.execTask(ctx, "update task", id,
		`UPDATE tasks SET title = ?, team_id = ?, updated_at = ? WHERE id = ?`,
		title, teamID, s.timestamp(), id,
	)
}

// SetEstimate stores the task's estimated duration; nil clears it.
func (s *Store) SetEstimate(ctx context.Context, id string, seconds *int64) error {
	return s.execTask(ctx, "set estimate", id,
		`UPDATE tasks SET estimated_duration_seconds = ?, updated_at = ? WHERE id = ?`,
		seconds, s.timestamp(), id,
	)
}

func (s *Store) SetCompleted(ctx context.Context, id string, done bool) error {
	now := s.timestamp()
	var completedAt any
	if done {
		completedAt = now
	}
	return s.execTask(ctx, "set completed", id,
		`UPDATE tasks SET completed = ?, completed_at = ?, updated_at = ? WHERE id = ?`,
		boolInt(done), completedAt, now, id,
	)
}

// DeleteTask removes the task and all of its time entries.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete task: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM time_entries WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("delete task %s entries: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete task %s: %w", id, domain.ErrNotFound)
	}
	return tx.Commit()
}

func (s *Store) execTask(ctx context.Context, op, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", op, id, domain.ErrNotFound)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
