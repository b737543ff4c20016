package pgstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sadopc/taskday/internal/domain"
)

const taskColumns = `id, owner, day, title, team_id, estimated_duration_seconds, completed, completed_at, created_at, updated_at`

func scanTask(row pgx.Row) (*domain.Task, error) {
	t := &domain.Task{}
	if err := row.Scan(&t.ID, &t.Owner, &t.Day, &t.Title, &t.TeamID, &t.Estimate, &t.Completed,
		&t.CompletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) CreateTask(ctx context.Context, t domain.Task) (*domain.Task, error) {
	now := s.timestamp()
	task, err := scanTask(s.pool.QueryRow(ctx,
		`INSERT INTO tasks (id, owner, day, title, team_id, estimated_duration_seconds, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING `+taskColumns,
		uuid.NewString(), t.Owner, t.Day, t.Title, t.TeamID, t.Estimate, now,
	))
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return task, nil
}

func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if notFound(err) {
		return nil, fmt.Errorf("get task %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTasks(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	args := []any{f.Owner}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE owner = $1`
	if f.Day != "" {
		args = append(args, f.Day)
		query += ` AND day = $` + strconv.Itoa(len(args))
	}
	if f.TeamID != nil {
		args = append(args, *f.TeamID)
		query += ` AND team_id = $` + strconv.Itoa(len(args))
	}
	if !f.IncludeCompleted {
		query += ` AND NOT completed`
	}
	query += ` ORDER BY day, created_at, id`

	rows, err := s.pool.Query(ctx, query, args...)
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET title = $1, team_id = $2, updated_at = $3 WHERE id = $4`,
		title, teamID, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}
	return affected(tag, "update task", id)
}

func (s *Store) SetEstimate(ctx context.Context, id string, seconds *int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET estimated_duration_seconds = $1, updated_at = $2 WHERE id = $3`,
		seconds, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("set estimate %s: %w", id, err)
	}
	return affected(tag, "set estimate", id)
}

func (s *Store) SetCompleted(ctx context.Context, id string, done bool) error {
	now := s.timestamp()
	var completedAt any
	if done {
		completedAt = now
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE tasks SET completed = $1, completed_at = $2, updated_at = $3 WHERE id = $4`,
		done, completedAt, now, id,
	)
	if err != nil {
		return fmt.Errorf("set completed %s: %w", id, err)
	}
	return affected(tag, "set completed", id)
}

// DeleteTask removes the task and its time entries in one transaction.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin delete task: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM time_entries WHERE task_id = $1`, id); err != nil {
		return fmt.Errorf("delete task %s entries: %w", id, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if err := affected(tag, "delete task", id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
