package pgstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/sadopc/taskday/internal/domain"
)

const teamColumns = `id, name, color, archived, created_at, updated_at`

func scanTeam(row pgx.Row) (*domain.Team, error) {
	t := &domain.Team{}
	if err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Archived, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) CreateTeam(ctx context.Context, name, color string) (*domain.Team, error) {
	if color == "" {
		color = "#6C63FF"
	}
	now := s.timestamp()
	t, err := scanTeam(s.pool.QueryRow(ctx,
		`INSERT INTO teams (id, name, color, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)
		 RETURNING `+teamColumns,
		uuid.NewString(), name, color, now,
	))
	if uniqueViolation(err) {
		return nil, fmt.Errorf("insert team %q: %w", name, domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	return t, nil
}

func (s *Store) GetTeam(ctx context.Context, id string) (*domain.Team, error) {
	t, err := scanTeam(s.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
	if notFound(err) {
		return nil, fmt.Errorf("get team %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get team %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) ListTeams(ctx context.Context, includeArchived bool) ([]domain.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams`
	if !includeArchived {
		query += ` WHERE NOT archived`
	}
	query += ` ORDER BY name`

	rows, err := s.pool.Query(ctx, query)
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
	tag, err := s.pool.Exec(ctx,
		`UPDATE teams SET name = $1, color = $2, updated_at = $3 WHERE id = $4`,
		name, color, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("update team %s: %w", id, err)
	}
	return affected(tag, "update team", id)
}

func (s *Store) ArchiveTeam(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE teams SET archived = TRUE, updated_at = $1 WHERE id = $2`, s.timestamp(), id,
	)
	if err != nil {
		return fmt.Errorf("archive team %s: %w", id, err)
	}
	return affected(tag, "archive team", id)
}
