package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

// tsLayout keeps fractional seconds at a fixed width so TEXT columns sort
// chronologically.
const tsLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is the SQLite backend for teams, tasks, time entries and diary.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(ctx); err != nil {
			return err
		}
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS teams (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		color       TEXT NOT NULL DEFAULT '#6C63FF',
		archived    INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id                          TEXT PRIMARY KEY,
		owner                       TEXT NOT NULL DEFAULT '',
		day                         TEXT NOT NULL,
		title                       TEXT NOT NULL,
		team_id                     TEXT REFERENCES teams(id) ON DELETE SET NULL,
		estimated_duration_seconds  INTEGER,
		completed                   INTEGER NOT NULL DEFAULT 0,
		completed_at                TEXT,
		created_at                  TEXT NOT NULL,
		updated_at                  TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_owner_day ON tasks(owner, day);

	CREATE TABLE IF NOT EXISTS time_entries (
		id                TEXT PRIMARY KEY,
		task_id           TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		start_at          TEXT NOT NULL,
		end_at            TEXT,
		duration_seconds  INTEGER,
		created_at        TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_task_start ON time_entries(task_id, start_at);

	CREATE TABLE IF NOT EXISTS diary_entries (
		owner       TEXT NOT NULL,
		day         TEXT NOT NULL,
		body        TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (owner, day)
	);
	`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *Store) timestamp() string {
	return formatTime(s.now())
}

func formatTime(t time.Time) string {
	return t.UTC().Format(tsLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(tsLayout, v)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, v)
	}
	return t
}

func parseNullTime(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	t := parseTime(v.String)
	return &t
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// DefaultDBPath returns ~/.config/taskday/taskday.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "taskday", "taskday.db"), nil
}
