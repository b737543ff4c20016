package session

import (
	"context"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/local"
	"github.com/sadopc/taskday/internal/timer"
)

// Backend is the shared database. Both store.Store (SQLite) and
// pgstore.Store (PostgreSQL) satisfy it.
type Backend interface {
	timer.EntryStore

	CreateTask(ctx context.Context, t domain.Task) (*domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id, title string, teamID *string) error
	SetEstimate(ctx context.Context, id string, seconds *int64) error
	SetCompleted(ctx context.Context, id string, done bool) error
	DeleteTask(ctx context.Context, id string) error

	CreateTeam(ctx context.Context, name, color string) (*domain.Team, error)
	GetTeam(ctx context.Context, id string) (*domain.Team, error)
	ListTeams(ctx context.Context, includeArchived bool) ([]domain.Team, error)
	UpdateTeam(ctx context.Context, id, name, color string) error
	ArchiveTeam(ctx context.Context, id string) error

	GetDiary(ctx context.Context, owner, day string) (*domain.DiaryEntry, error)
	SaveDiary(ctx context.Context, owner, day, body string) (*domain.DiaryEntry, error)
	ListDiary(ctx context.Context, owner, fromDay, toDay string) ([]domain.DiaryEntry, error)

	QueryEntries(ctx context.Context, f domain.EntryFilter) ([]domain.ExportRow, error)
	DailySummary(ctx context.Context, owner, fromDay, toDay string) ([]domain.DailySummary, error)
	DayTotal(ctx context.Context, owner, day string) (int64, error)

	Close() error
}

// LocalState is device-local storage: targets, diary drafts and
// preferences.
type LocalState interface {
	timer.TargetStore
	Draft(ctx context.Context, day string) (string, bool, error)
	SaveDraft(ctx context.Context, day, body string) error
	ClearDraft(ctx context.Context, day string) error

	GetSetting(ctx context.Context, key string) (string, error)
	GetAllSettings(ctx context.Context) ([]local.Setting, error)
	SetSetting(ctx context.Context, key, value string) error
	IntSetting(ctx context.Context, key string, def int) int
	Close() error
}
