package session

import (
	"context"
	"strings"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/timer"
)

func (s *Session) Teams(ctx context.Context, includeArchived bool) ([]domain.Team, error) {
	return s.backend.ListTeams(ctx, includeArchived)
}

func (s *Session) Team(ctx context.Context, id string) (*domain.Team, error) {
	return s.backend.GetTeam(ctx, id)
}

func (s *Session) CreateTeam(ctx context.Context, name, color string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &timer.ValidationError{Field: "name", Reason: "required"}
	}
	return s.backend.CreateTeam(ctx, name, color)
}

func (s *Session) UpdateTeam(ctx context.Context, id, name, color string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &timer.ValidationError{Field: "name", Reason: "required"}
	}
	return s.backend.UpdateTeam(ctx, id, name, color)
}

func (s *Session) ArchiveTeam(ctx context.Context, id string) error {
	return s.backend.ArchiveTeam(ctx, id)
}
