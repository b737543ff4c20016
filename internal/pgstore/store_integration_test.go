//go:build integration

package pgstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/timer"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("taskday"),
		postgrescontainer.WithUsername("taskday"),
		postgrescontainer.WithPassword("taskday"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	s, err := Open(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

func TestStore_TimerLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx), "migrate is idempotent")

	team, err := s.CreateTeam(ctx, "Platform", "")
	require.NoError(t, err)
	_, err = s.CreateTeam(ctx, "Platform", "")
	assert.True(t, errors.Is(err, domain.ErrConflict))

	task, err := s.CreateTask(ctx, domain.Task{Owner: "ana", Day: "2026-03-02", Title: "Focus", TeamID: &team.ID})
	require.NoError(t, err)

	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	now := start
	agg := timer.NewAggregator(s, timer.WithClock(func() time.Time { return now }))

	res, err := agg.Start(ctx, task.ID, 3600)
	require.NoError(t, err)
	require.True(t, res.Created)

	again, err := agg.Start(ctx, task.ID, 3600)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.Entry.ID, again.Entry.ID)

	end := start.Add(1500 * time.Second)
	stopped, err := agg.Stop(ctx, res.Entry.ID, &end)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), *stopped.DurationSeconds)

	got, err := agg.GetAggregate(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.BaseSeconds)
	assert.Nil(t, got.Running)

	sums, err := s.DailySummary(ctx, "ana", "2026-03-01", "2026-03-07")
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, int64(1500), sums[0].TotalSeconds)
	assert.Equal(t, "Platform", sums[0].TeamName)

	rows, err := s.QueryEntries(ctx, domain.EntryFilter{Owner: "ana", Limit: 10})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Focus", rows[0].TaskTitle)

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	_, err = s.GetEntry(ctx, res.Entry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetTask(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdateEntry(ctx, "missing", time.Now(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.DeleteEntry(ctx, "missing"), domain.ErrNotFound)
	assert.ErrorIs(t, s.SetCompleted(ctx, "missing", true), domain.ErrNotFound)
	_, err = s.GetDiary(ctx, "ana", "2026-03-02")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_DiaryAndTasks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SaveDiary(ctx, "ana", "2026-03-02", "draft")
	require.NoError(t, err)
	d, err := s.SaveDiary(ctx, "ana", "2026-03-02", "final")
	require.NoError(t, err)
	assert.Equal(t, "final", d.Body)

	list, err := s.ListDiary(ctx, "ana", "2026-03-01", "2026-03-31")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	task, err := s.CreateTask(ctx, domain.Task{Owner: "ana", Day: "2026-03-02", Title: "Plan"})
	require.NoError(t, err)
	est := int64(1200)
	require.NoError(t, s.SetEstimate(ctx, task.ID, &est))
	require.NoError(t, s.SetCompleted(ctx, task.ID, true))

	open, err := s.ListTasks(ctx, domain.TaskFilter{Owner: "ana", Day: "2026-03-02"})
	require.NoError(t, err)
	assert.Empty(t, open)

	all, err := s.ListTasks(ctx, domain.TaskFilter{Owner: "ana", Day: "2026-03-02", IncludeCompleted: true})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(1200), *all[0].Estimate)
	assert.NotNil(t, all[0].CompletedAt)
}
