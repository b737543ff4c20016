package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/local"
	"github.com/sadopc/taskday/internal/store"
	"github.com/sadopc/taskday/internal/timer"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type recorder struct {
	mu     sync.Mutex
	events []timer.Event
}

func (r *recorder) Observe(_ context.Context, ev timer.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) kinds() []timer.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]timer.EventKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func newTestSession(t *testing.T) (*Session, *clock, *recorder) {
	t.Helper()
	backend, err := store.NewMemory()
	require.NoError(t, err)
	localState, err := local.NewMemory()
	require.NoError(t, err)

	clk := &clock{t: time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)}
	rec := &recorder{}
	s := New(backend, localState, Options{
		Owner:     "alice",
		Now:       clk.Now,
		Observers: []timer.Observer{rec},
	})
	s.closers = append(s.closers, localState, backend)
	t.Cleanup(func() { _ = s.Close() })
	return s, clk, rec
}

func mustTask(t *testing.T, s *Session, title string) *domain.Task {
	t.Helper()
	task, err := s.CreateTask(context.Background(), NewTask{Title: title})
	require.NoError(t, err)
	return task
}

func TestSession_CreateTaskDefaultsToToday(t *testing.T) {
	s, _, _ := newTestSession(t)
	task := mustTask(t, s, "  write report ")

	assert.Equal(t, "2026-03-09", task.Day)
	assert.Equal(t, "write report", task.Title)
	assert.Equal(t, "alice", task.Owner)
}

func TestSession_CreateTaskValidation(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()
	var verr *timer.ValidationError

	_, err := s.CreateTask(ctx, NewTask{Title: " "})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)

	_, err = s.CreateTask(ctx, NewTask{Title: "x", Day: "09/03/2026"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "day", verr.Field)

	zero := int64(0)
	_, err = s.CreateTask(ctx, NewTask{Title: "x", Estimate: &zero})
	require.ErrorAs(t, err, &verr)

	missing := "no-such-team"
	_, err = s.CreateTask(ctx, NewTask{Title: "x", TeamID: &missing})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSession_TaskOwnership(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()
	task := mustTask(t, s, "private")

	bob := s.As("bob")
	_, err := bob.Task(ctx, task.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, bob.DeleteTask(ctx, task.ID), domain.ErrNotFound)

	tasks, err := bob.Tasks(ctx, s.Today(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSession_StartTimerRequiresTarget(t *testing.T) {
	s, _, _ := newTestSession(t)
	task := mustTask(t, s, "no target")

	_, err := s.StartTimer(context.Background(), task.ID, 0)
	var verr *timer.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "target", verr.Field)
}

func TestSession_StartStopRoundTrip(t *testing.T) {
	s, clk, rec := newTestSession(t)
	ctx := context.Background()
	task := mustTask(t, s, "focus")
	require.NoError(t, s.SetTarget(ctx, task.ID, 600, false))

	res, err := s.StartTimer(ctx, task.ID, 0)
	require.NoError(t, err)
	require.True(t, res.Created)
	require.NotNil(t, res.Entry)

	clk.Advance(90 * time.Second)
	st, err := s.TimerStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, st.HasTarget)
	assert.Equal(t, int64(600), st.Target)
	assert.True(t, st.Display.Running)
	assert.Equal(t, int64(510), st.Display.Remaining)

	again, err := s.StartTimer(ctx, task.ID, 0)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.Entry.ID, again.Entry.ID)

	stopped, err := s.StopTask(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stopped)
	require.NotNil(t, stopped.DurationSeconds)
	assert.Equal(t, int64(90), *stopped.DurationSeconds)

	none, err := s.StopTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	total, err := s.DayTotal(ctx, s.Today())
	require.NoError(t, err)
	assert.Equal(t, int64(90), total)

	assert.Equal(t, []timer.EventKind{timer.EventStarted, timer.EventResumed, timer.EventStopped}, rec.kinds())
}

func TestSession_StartTimerAlreadyCompleteMarksTask(t *testing.T) {
	s, clk, _ := newTestSession(t)
	ctx := context.Background()
	task := mustTask(t, s, "short")

	res, err := s.StartTimer(ctx, task.ID, 60)
	require.NoError(t, err)
	clk.Advance(2 * time.Minute)
	_, err = s.StopEntry(ctx, res.Entry.ID, nil)
	require.NoError(t, err)

	done, err := s.StartTimer(ctx, task.ID, 60)
	require.NoError(t, err)
	assert.True(t, done.AlreadyComplete)
	assert.Nil(t, done.Entry)

	got, err := s.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestSession_LocalTargetOverridesEstimate(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()
	est := int64(1800)
	task, err := s.CreateTask(ctx, NewTask{Title: "estimated", Estimate: &est})
	require.NoError(t, err)

	secs, ok, err := s.Target(ctx, task)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, est, secs)

	require.NoError(t, s.SetTarget(ctx, task.ID, 300, false))
	secs, _, err = s.Target(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, int64(300), secs)

	require.NoError(t, s.ClearTarget(ctx, task.ID))
	secs, _, err = s.Target(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, est, secs)
}

func TestSession_SetTargetMirrorsEstimate(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()
	task := mustTask(t, s, "mirror")

	require.NoError(t, s.SetTarget(ctx, task.ID, 900, true))
	got, err := s.Task(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Estimate)
	assert.Equal(t, int64(900), *got.Estimate)
}

func TestSession_StopEntryNotFound(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.StopEntry(ctx, "missing", nil)
	var nf *timer.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.EntryID)

	task := mustTask(t, s, "mine")
	res, err := s.StartTimer(ctx, task.ID, 60)
	require.NoError(t, err)

	_, err = s.As("bob").StopEntry(ctx, res.Entry.ID, nil)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSession_OpenTimer(t *testing.T) {
	s, clk, _ := newTestSession(t)
	ctx := context.Background()
	task := mustTask(t, s, "overlay")
	require.NoError(t, s.SetTarget(ctx, task.ID, 120, false))

	o, err := s.OpenTimer(ctx, task.ID)
	require.NoError(t, err)
	defer o.Close()

	_, err = o.Start(ctx)
	require.NoError(t, err)
	clk.Advance(30 * time.Second)

	d := o.Display(clk.Now())
	assert.True(t, d.Running)
	assert.Equal(t, int64(90), d.Remaining)
}

func TestSession_DeleteTaskClearsTarget(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()
	task := mustTask(t, s, "gone")
	require.NoError(t, s.SetTarget(ctx, task.ID, 60, false))

	require.NoError(t, s.DeleteTask(ctx, task.ID))
	_, ok, err := s.local.Target(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSession_DiaryDraftThenSave(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()
	day := s.Today()

	v, err := s.Diary(ctx, day)
	require.NoError(t, err)
	assert.Nil(t, v.Saved)
	assert.Empty(t, v.Text())

	require.NoError(t, s.SaveDraft(ctx, day, "half a thought"))
	v, err = s.Diary(ctx, day)
	require.NoError(t, err)
	assert.True(t, v.HasDraft)
	assert.Equal(t, "half a thought", v.Text())

	_, err = s.SaveDiary(ctx, day, "a whole thought")
	require.NoError(t, err)
	v, err = s.Diary(ctx, day)
	require.NoError(t, err)
	assert.False(t, v.HasDraft)
	require.NotNil(t, v.Saved)
	assert.Equal(t, "a whole thought", v.Text())

	_, err = s.Diary(ctx, "yesterday")
	var verr *timer.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSession_TeamsAndSummary(t *testing.T) {
	s, clk, _ := newTestSession(t)
	ctx := context.Background()

	_, err := s.CreateTeam(ctx, "   ", "")
	var verr *timer.ValidationError
	require.ErrorAs(t, err, &verr)

	team, err := s.CreateTeam(ctx, "Platform", "")
	require.NoError(t, err)

	task, err := s.CreateTask(ctx, NewTask{Title: "deploy", TeamID: &team.ID})
	require.NoError(t, err)
	_, err = s.StartTimer(ctx, task.ID, 3600)
	require.NoError(t, err)
	clk.Advance(10 * time.Minute)
	_, err = s.StopTask(ctx, task.ID)
	require.NoError(t, err)

	from, to := s.LastDays(7)
	assert.Equal(t, "2026-03-03", from)
	assert.Equal(t, "2026-03-09", to)

	sums, err := s.DailySummary(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "Platform", sums[0].TeamName)
	assert.Equal(t, int64(600), sums[0].TotalSeconds)

	rows, err := s.Entries(ctx, nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "deploy", rows[0].TaskTitle)

	require.NoError(t, s.ArchiveTeam(ctx, team.ID))
	active, err := s.Teams(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSession_SetSettingValidation(t *testing.T) {
	s, _, _ := newTestSession(t)
	ctx := context.Background()

	var verr *timer.ValidationError
	require.ErrorAs(t, s.SetSetting(ctx, SettingDailyGoal, "-5"), &verr)
	require.ErrorAs(t, s.SetSetting(ctx, SettingWeekStart, "friday"), &verr)

	require.NoError(t, s.SetSetting(ctx, SettingDefaultTarget, "50"))
	assert.Equal(t, int64(3000), s.DefaultTarget(ctx))
	assert.Equal(t, int64(28800), s.DailyGoal(ctx))
}
