package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sadopc/taskday/internal/domain"
)

const defaultTeamColor = "#6C63FF"

func scanTeam(row scanner) (*domain.Team, error) {
	t := &domain.Team{}
	var createdAt, updatedAt string
	var archived int
	if err := row.Scan(&t.ID, &t.Name, &t.Color, &archived, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Archived = archived == 1
	t.CreatedAt = parseTime(createdAt)
	t.UpdatedAt = parseTime(updatedAt)
	return t, nil
}

func (s *Store) CreateTeam(ctx context.Context, name, color string) (*domain.Team, error) {
	if color == "" {
		color = defaultTeamColor
	}
	id := uuid.NewString()
	now := s.timestamp()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, color, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, name, color, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return nil, fmt.Errorf("insert team %q: %w", name, domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert team: %w", err)
	}
	return s.GetTeam(ctx, id)
}

func (s *Store) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	t, err := scanTeam(s.db.QueryRowContext(ctx,
		`SELECT id, name, color, archived, created_at, updated_at FROM teams WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get team %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get team %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTeams(ctx context.Context, includeArchived bool) ([]domain.Team, error) {
	query := `SELECT id, name, color, archived, created_at, updated_at FROM teams`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

func (s *Store) UpdateTeam(ctx context.Context, id, name, color string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE teams SET name = ?, color = ?, updated_at = ? WHERE id = ?`,
		name, color, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("update team %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update team %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *Store) ArchiveTeam(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE teams SET archived = 1, updated_at = ? WHERE id = ?`, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("archive team %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("archive team %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
