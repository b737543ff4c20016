package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/taskday/internal/auth"
	"github.com/sadopc/taskday/internal/config"
	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/local"
	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/store"
	"github.com/sadopc/taskday/internal/timer"
)

// testApp wires an App over in-memory stores. The session is not owned by
// the App, so commands never close it.
func testApp(t *testing.T) *App {
	t.Helper()
	backend, err := store.NewMemory()
	require.NoError(t, err)
	state, err := local.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = state.Close()
		_ = backend.Close()
	})

	return &App{
		LogOutput:     io.Discard,
		IsInteractive: func() bool { return false },
		cfg: &config.Config{
			Owner:        "alice",
			TickInterval: 10 * time.Millisecond,
			Auth:         config.AuthConfig{Secret: "test-secret", Issuer: "taskday"},
		},
		registry: prometheus.NewRegistry(),
		sess: session.New(backend, state, session.Options{
			Owner:        "alice",
			TickInterval: 10 * time.Millisecond,
		}),
	}
}

func seedTask(t *testing.T, app *App, title string, estimate int64) *domain.Task {
	t.Helper()
	in := session.NewTask{Title: title}
	if estimate > 0 {
		in.Estimate = &estimate
	}
	task, err := app.sess.CreateTask(context.Background(), in)
	require.NoError(t, err)
	return task
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	return executeCmdContext(t, context.Background(), app, nil, args...)
}

func executeCmdContext(t *testing.T, ctx context.Context, app *App, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return buf.String(), err
}

func TestRootCmd_NonInteractivePrintsToday(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks for")
	assert.Contains(t, out, "Tracked today: 00:00:00 of 08:00:00")
}

func TestTaskCmd_AddAndList(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "task", "add", "Write", "report", "--estimate", "45")
	require.NoError(t, err)
	assert.Contains(t, out, `Added "Write report"`)

	out, err = executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "45m0s")
}

func TestTaskCmd_AddRejectsBadEstimate(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "task", "add", "Thing", "--estimate", "soon")
	var verr *timer.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "target", verr.Field)
}

func TestTaskCmd_DoneAndRemove(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Review", 0)

	_, err := executeCmd(t, app, "task", "done", task.ID)
	require.NoError(t, err)
	got, err := app.sess.Task(context.Background(), task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	out, err := executeCmd(t, app, "task", "rm", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed task")

	_, err = app.sess.Task(context.Background(), task.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTimerCmd_StartRequiresTarget(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "No estimate", 0)

	_, err := executeCmd(t, app, "timer", "start", task.ID)
	var verr *timer.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "target", verr.Field)
}

func TestTimerCmd_StartStatusStop(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Deep work", 0)

	out, err := executeCmd(t, app, "timer", "start", task.ID, "--target", "10m")
	require.NoError(t, err)
	assert.Contains(t, out, "Started entry")

	out, err = executeCmd(t, app, "timer", "start", task.ID, "--target", "10m")
	require.NoError(t, err)
	assert.Contains(t, out, "Already running")

	out, err = executeCmd(t, app, "timer", "status", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "state:     running")
	assert.Contains(t, out, "target:    10m0s")

	out, err = executeCmd(t, app, "timer", "stop", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped entry")

	out, err = executeCmd(t, app, "timer", "stop", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing running")
}

func TestTimerCmd_StopEntryWithEndTime(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	task := seedTask(t, app, "Backfill", 600)

	res, err := app.sess.StartTimer(ctx, task.ID, 0)
	require.NoError(t, err)
	end := res.Entry.StartAt.Add(5 * time.Minute).Format(time.RFC3339)

	out, err := executeCmd(t, app, "timer", "stop", "--entry", res.Entry.ID, "--at", end)
	require.NoError(t, err)
	assert.Contains(t, out, "after 00:05:00")
}

func TestTimerCmd_StopUnknownEntry(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "timer", "stop", "--entry", "missing")
	var nf *timer.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.EntryID)
}

func TestTimerCmd_StopNeedsExactlyOneTarget(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "timer", "stop")
	require.Error(t, err)
	_, err = executeCmd(t, app, "timer", "stop", "task", "--entry", "entry")
	require.Error(t, err)
}

func TestTimerCmd_WatchPrintsCountdown(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Watched", 600)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	out, err := executeCmdContext(t, ctx, app, nil, "timer", "watch", task.ID, "--interval", "10ms")
	require.NoError(t, err)
	assert.Contains(t, out, "00:10:00  stopped")
}

func TestTargetCmd_SetShowClear(t *testing.T) {
	app := testApp(t)
	task := seedTask(t, app, "Estimate wins later", 1200)

	out, err := executeCmd(t, app, "target", "set", task.ID, "1h30m")
	require.NoError(t, err)
	assert.Contains(t, out, "1h30m0s")

	out, err = executeCmd(t, app, "target", "show", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "1h30m0s")

	_, err = executeCmd(t, app, "target", "clear", task.ID)
	require.NoError(t, err)

	out, err = executeCmd(t, app, "target", "show", task.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "20m0s")
}

func TestDiaryCmd_WriteFromStdinAndShow(t *testing.T) {
	app := testApp(t)

	_, err := executeCmdContext(t, context.Background(), app, strings.NewReader("shipped the timer\n"),
		"diary", "write", "--day", "2026-03-09")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "diary", "show", "2026-03-09")
	require.NoError(t, err)
	assert.Contains(t, out, "shipped the timer")
	assert.NotContains(t, out, "draft")
}

func TestDiaryCmd_Draft(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "diary", "write", "--day", "2026-03-09", "--draft", "not", "yet")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "diary", "show", "2026-03-09")
	require.NoError(t, err)
	assert.Contains(t, out, "(unsaved draft)")
	assert.Contains(t, out, "not yet")
}

func TestTeamCmd_AddListArchive(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "team", "add", "Platform")
	require.NoError(t, err)
	assert.Contains(t, out, `Created team "Platform"`)

	teams, err := app.sess.Teams(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, teams, 1)

	_, err = executeCmd(t, app, "team", "archive", teams[0].ID)
	require.NoError(t, err)

	out, err = executeCmd(t, app, "team", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No teams.")

	out, err = executeCmd(t, app, "team", "list", "--archived")
	require.NoError(t, err)
	assert.Contains(t, out, "archived")
}

func TestExportCmd_JSONToStdout(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	task := seedTask(t, app, "Exported", 600)
	_, err := app.sess.StartTimer(ctx, task.ID, 0)
	require.NoError(t, err)
	_, err = app.sess.StopTask(ctx, task.ID)
	require.NoError(t, err)

	out, err := executeCmd(t, app, "export", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Count   int `json:"count"`
		Entries []struct {
			Task string `json:"task"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 1, doc.Count)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "Exported", doc.Entries[0].Task)
}

func TestExportCmd_RejectsBadInput(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "export", "--format", "xml")
	require.Error(t, err)

	_, err = executeCmd(t, app, "export", "--from", "yesterday")
	var verr *timer.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "from", verr.Field)
}

func TestExportFormat(t *testing.T) {
	f, err := exportFormat("", "")
	require.NoError(t, err)
	assert.Equal(t, "csv", string(f))

	f, err = exportFormat("", "out.yml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", string(f))

	f, err = exportFormat("json", "out.csv")
	require.NoError(t, err)
	assert.Equal(t, "json", string(f))
}

func TestTokenCmd_IssuesParseableToken(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "token", "bob", "--scopes", "read")
	require.NoError(t, err)

	claims, err := auth.Parse(strings.TrimSpace(out), auth.Config{Secret: "test-secret", Issuer: "taskday"})
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.True(t, claims.HasScope(auth.ScopeRead))
	assert.False(t, claims.HasScope(auth.ScopeWrite))
}

func TestServeCmd_RequiresSecret(t *testing.T) {
	app := testApp(t)
	app.cfg.Auth.Secret = ""

	_, err := executeCmd(t, app, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret")
}
