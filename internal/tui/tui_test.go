package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/taskday/internal/local"
	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/store"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	backend, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	state, err := local.NewMemory()
	if err != nil {
		t.Fatalf("new local state: %v", err)
	}
	t.Cleanup(func() {
		state.Close()
		backend.Close()
	})
	return session.New(backend, state, session.Options{
		Owner:        "alice",
		TickInterval: 10 * time.Millisecond,
	})
}

func createTask(t *testing.T, s *session.Session, title string, estimate int64) string {
	t.Helper()
	in := session.NewTask{Title: title}
	if estimate > 0 {
		in.Estimate = &estimate
	}
	task, err := s.CreateTask(context.Background(), in)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task.ID
}

// loadedDashboard runs the dashboard's load command through update.
func loadedDashboard(t *testing.T, s *session.Session) dashboardModel {
	t.Helper()
	d := newDashboardModel(context.Background(), s)
	d.setSize(120, 40)
	d, _ = d.update(d.loadData()())
	return d
}

// ============================================================
// Helpers
// ============================================================

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{3661, "01:01:01"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.secs); got != tt.want {
			t.Fatalf("formatSeconds(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "0.0h"},
		{1800, "0.5h"},
		{5400, "1.5h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.secs); got != tt.want {
			t.Fatalf("formatHours(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	if viewNames[viewToday] != "Today" || viewNames[viewDiary] != "Diary" {
		t.Fatalf("unexpected view names %v", viewNames)
	}
}

func TestOptionalTarget(t *testing.T) {
	for _, ok := range []string{"", "  ", "25", "1h30m", "90s"} {
		if err := optionalTarget(ok); err != nil {
			t.Fatalf("optionalTarget(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"abc", "-5", "0", "NaN"} {
		if err := optionalTarget(bad); err == nil {
			t.Fatalf("optionalTarget(%q) should fail", bad)
		}
	}
}

// ============================================================
// Dashboard and timer panel
// ============================================================

func TestDashboardLoadsTasks(t *testing.T) {
	s := newTestSession(t)
	createTask(t, s, "Write report", 0)
	createTask(t, s, "Review PR", 600)

	d := loadedDashboard(t, s)
	if len(d.tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(d.tasks))
	}
	if d.dailyGoal != 28800 {
		t.Fatalf("expected default daily goal 28800, got %d", d.dailyGoal)
	}
	if d.isRunning() {
		t.Fatal("nothing should be running")
	}
	if out := d.view(); !strings.Contains(out, "Review PR") {
		t.Fatal("view should list the tasks")
	}
}

func TestDashboardIgnoresStaleDay(t *testing.T) {
	s := newTestSession(t)
	createTask(t, s, "Write report", 0)

	d := newDashboardModel(context.Background(), s)
	msg := d.loadData()().(dashboardDataMsg)
	msg.day = "1999-01-01"
	d, _ = d.update(msg)
	if len(d.tasks) != 0 {
		t.Fatal("data for another day should be dropped")
	}
}

func TestTimerPanelStartStop(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	id := createTask(t, s, "Review PR", 600)

	d := loadedDashboard(t, s)
	opened := openPanel(ctx, s, d.tasks[0])().(panelOpenedMsg)
	if opened.err != nil || opened.panel == nil {
		t.Fatalf("open panel: %v", opened.err)
	}
	if opened.panel.target != 600 {
		t.Fatalf("expected target 600 from estimate, got %d", opened.panel.target)
	}

	d, _ = d.update(opened)
	if d.panel == nil {
		t.Fatal("panel should be installed")
	}
	defer d.closePanel()

	started := d.panel.start(ctx, s)().(timerActionMsg)
	if started.err != nil {
		t.Fatalf("start: %v", started.err)
	}
	if started.start == nil || !started.start.Created {
		t.Fatal("start should create an entry")
	}
	d, _ = d.update(started)
	if !d.isRunning() {
		t.Fatal("panel should show a running timer")
	}

	stopped := d.panel.stop(ctx)().(timerActionMsg)
	if stopped.err != nil || stopped.stopped == nil {
		t.Fatalf("stop: %v", stopped.err)
	}
	d, _ = d.update(stopped)
	if d.isRunning() {
		t.Fatal("panel should be stopped")
	}

	st, err := s.TimerStatus(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if st.Aggregate.Running != nil || len(st.Aggregate.Entries) != 1 {
		t.Fatalf("expected one closed entry, got %+v", st.Aggregate)
	}
}

func TestTimerPanelStartWithoutTarget(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	createTask(t, s, "No estimate", 0)

	d := loadedDashboard(t, s)
	opened := openPanel(ctx, s, d.tasks[0])().(panelOpenedMsg)
	defer opened.panel.close()

	msg := opened.panel.start(ctx, s)().(timerActionMsg)
	if msg.err == nil {
		t.Fatal("start without a target should fail")
	}
}

func TestTimerPanelStopWhenIdle(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	createTask(t, s, "Idle", 600)

	d := loadedDashboard(t, s)
	opened := openPanel(ctx, s, d.tasks[0])().(panelOpenedMsg)
	defer opened.panel.close()

	msg := opened.panel.stop(ctx)().(timerActionMsg)
	if msg.err == nil {
		t.Fatal("stop with nothing running should report an error")
	}
}

func TestTimerPanelWatchDeliversTicks(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	id := createTask(t, s, "Tick", 600)

	d := loadedDashboard(t, s)
	opened := openPanel(ctx, s, d.tasks[0])().(panelOpenedMsg)
	p := opened.panel

	cmd := p.watch(ctx, s)
	if cmd == nil {
		t.Fatal("watch should return a wait command")
	}
	if p.next() != nil {
		t.Fatal("a second waiter should not be issued")
	}

	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()
	select {
	case msg := <-got:
		dm, ok := msg.(displayMsg)
		if !ok || dm.taskID != id {
			t.Fatalf("expected displayMsg for %s, got %#v", id, msg)
		}
		if dm.display.Remaining != 600 {
			t.Fatalf("expected remaining 600, got %d", dm.display.Remaining)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tick delivered")
	}

	p.waiting = false
	wait := p.next()
	h := p.handle
	p.close()
	h.Wait()
	select {
	case <-p.ticks:
	default:
	}
	if wait() != nil {
		t.Fatal("waiter should yield nothing once the ticker is cancelled")
	}
}

func TestDashboardStartRequestOpensAndStarts(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	createTask(t, s, "Review PR", 600)

	d := loadedDashboard(t, s)
	d, _ = d.update(openPanel(ctx, s, d.tasks[0])())
	defer d.closePanel()

	_, cmd := d.update(startRequestMsg{taskID: d.tasks[0].ID})
	if cmd == nil {
		t.Fatal("start request should issue a start")
	}
	msg, ok := cmd().(timerActionMsg)
	if !ok || msg.err != nil || msg.start == nil {
		t.Fatalf("unexpected start outcome %#v", msg)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSecsToHours(t *testing.T) {
	if got := secsToHours("28800"); got != "8.0" {
		t.Fatalf("secsToHours(28800) = %q", got)
	}
	if got := secsToHours("abc"); got != "abc" {
		t.Fatalf("secsToHours should pass through bad input, got %q", got)
	}
}

func TestHoursToSecs(t *testing.T) {
	if got := hoursToSecs("1.5"); got != "5400" {
		t.Fatalf("hoursToSecs(1.5) = %q", got)
	}
	if got := hoursToSecs("abc"); got != "abc" {
		t.Fatalf("hoursToSecs should pass through bad input, got %q", got)
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{session.SettingDefaultTarget, "25", "25 min"},
		{session.SettingTickInterval, "500", "500 ms"},
		{session.SettingDailyGoal, "28800", "8.0 hours"},
		{session.SettingWeekStart, "sunday", "sunday"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.value); got != tt.want {
			t.Fatalf("formatSettingValue(%s, %s) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestSettingsValidators(t *testing.T) {
	if positiveInt("10") != nil || positiveInt("0") == nil || positiveInt("x") == nil {
		t.Fatal("positiveInt misbehaves")
	}
	if positiveHours("7.5") != nil || positiveHours("25") == nil || positiveHours("-1") == nil {
		t.Fatal("positiveHours misbehaves")
	}
}

func TestSettingsRefresh(t *testing.T) {
	s := newTestSession(t)
	if err := s.SetSetting(context.Background(), session.SettingWeekStart, "sunday"); err != nil {
		t.Fatal(err)
	}

	m := newSettingsModel(context.Background(), s)
	m, _ = m.update(m.refresh()())
	if len(m.settings) != 1 || m.settings[0].Value != "sunday" {
		t.Fatalf("unexpected settings %+v", m.settings)
	}
}

// ============================================================
// Diary and reports
// ============================================================

func TestDiaryLoadsDraft(t *testing.T) {
	s := newTestSession(t)
	ctx := context.Background()
	if err := s.SaveDraft(ctx, s.Today(), "half a thought"); err != nil {
		t.Fatal(err)
	}

	m := newDiaryModel(ctx, s)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())
	if !m.entry.HasDraft {
		t.Fatal("draft should be loaded")
	}
	if !strings.Contains(m.view(), "half a thought") {
		t.Fatal("view should show the draft")
	}
}

func TestReportsDateRange(t *testing.T) {
	s := newTestSession(t)
	r := newReportsModel(context.Background(), s)

	from, to := r.dateRange()
	if days := int(to.Sub(from).Hours() / 24); days != 7 {
		t.Fatalf("daily range should span 7 days, got %d", days)
	}

	r.mode = reportWeekly
	r.weekStart = time.Monday
	from, _ = r.dateRange()
	if from.Weekday() != time.Monday {
		t.Fatalf("week should start on Monday, got %s", from.Weekday())
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := NewApp(context.Background(), newTestSession(t))

	if app.activeView != viewToday {
		t.Fatal("default view should be today")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("help and export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app := NewApp(context.Background(), newTestSession(t))
	app.width = 120
	app.height = 40

	for v := range viewNames {
		app.activeView = viewState(v)
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := NewApp(context.Background(), newTestSession(t))
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(context.Background(), newTestSession(t))
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := NewApp(context.Background(), newTestSession(t))
	app.width = 120
	app.height = 40

	model, _ := app.Update(statusMsg{text: "test status"})
	app = model.(App)
	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppRoutesTimerMessagesToDashboard(t *testing.T) {
	s := newTestSession(t)
	createTask(t, s, "Review PR", 600)

	app := NewApp(context.Background(), s)
	app.activeView = viewSettings

	model, _ := app.Update(app.dashboard.loadData()())
	app = model.(App)
	if len(app.dashboard.tasks) != 1 {
		t.Fatal("dashboard data should arrive while another view is active")
	}
}

func TestAppExportPicker(t *testing.T) {
	app := NewApp(context.Background(), newTestSession(t))
	app.width = 120
	app.height = 40

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("E")})
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("E should open the export picker")
	}
	if !strings.Contains(app.View(), "yaml") {
		t.Fatal("picker should offer yaml")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(App)
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
	for i, g := range keys.FullHelp() {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}
