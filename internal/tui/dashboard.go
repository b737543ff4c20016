package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/timer"
)

// dashboardModel is the day view: the day's tasks and the open timer.
type dashboardModel struct {
	sess   *session.Session
	ctx    context.Context
	width  int
	height int

	day       string
	tasks     []domain.Task
	teams     map[string]domain.Team
	dayTotal  int64
	dailyGoal int64
	cursor    int

	panel *timerPanel

	formActive bool
	form       *huh.Form
	formType   string // "task", "target"

	// Form field pointers (survive value copies)
	formTitle  *string
	formTeam   *string
	formTarget *string
}

func newDashboardModel(ctx context.Context, s *session.Session) dashboardModel {
	title, team, target := "", "", ""
	return dashboardModel{
		sess:       s,
		ctx:        ctx,
		day:        s.Today(),
		formTitle:  &title,
		formTeam:   &team,
		formTarget: &target,
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d dashboardModel) isRunning() bool {
	return d.panel != nil && d.panel.display.Running
}

func (d dashboardModel) display() timer.Display {
	if d.panel == nil {
		return timer.Display{}
	}
	return d.panel.display
}

type dashboardDataMsg struct {
	day       string
	tasks     []domain.Task
	teams     []domain.Team
	dayTotal  int64
	dailyGoal int64
	err       error
}

func (d dashboardModel) loadData() tea.Cmd {
	sess, ctx, day := d.sess, d.ctx, d.day
	return func() tea.Msg {
		tasks, err := sess.Tasks(ctx, day, nil, true)
		if err != nil {
			return dashboardDataMsg{day: day, err: err}
		}
		teams, _ := sess.Teams(ctx, true)
		total, _ := sess.DayTotal(ctx, day)
		return dashboardDataMsg{
			day:       day,
			tasks:     tasks,
			teams:     teams,
			dayTotal:  total,
			dailyGoal: sess.DailyGoal(ctx),
		}
	}
}

func (d dashboardModel) selected() (domain.Task, bool) {
	if d.cursor < 0 || d.cursor >= len(d.tasks) {
		return domain.Task{}, false
	}
	return d.tasks[d.cursor], true
}

// closePanel cancels the open timer's ticker. A running entry keeps running.
func (d *dashboardModel) closePanel() {
	if d.panel != nil {
		d.panel.close()
		d.panel = nil
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if d.formActive && d.form != nil {
		return d.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.day != d.day {
			return d, nil
		}
		if msg.err != nil {
			return d, errorCmd("Load tasks", msg.err)
		}
		d.tasks = msg.tasks
		d.dayTotal = msg.dayTotal
		d.dailyGoal = msg.dailyGoal
		d.teams = make(map[string]domain.Team, len(msg.teams))
		for _, t := range msg.teams {
			d.teams[t.ID] = t
		}
		if d.cursor >= len(d.tasks) {
			d.cursor = max(0, len(d.tasks)-1)
		}
		return d, nil

	case panelOpenedMsg:
		if msg.panel == nil {
			return d, errorCmd("Open timer", msg.err)
		}
		d.closePanel()
		d.panel = msg.panel
		cmd := d.panel.watch(d.ctx, d.sess)
		if msg.err != nil {
			return d, tea.Batch(cmd, errorCmd("Load entries", msg.err))
		}
		return d, cmd

	case displayMsg:
		if d.panel == nil || msg.taskID != d.panel.task.ID {
			return d, nil
		}
		d.panel.waiting = false
		d.panel.refresh(msg.display)
		if msg.display.Running && msg.display.Done() && d.panel.autoFinish {
			return d, d.panel.finish(d.ctx, d.sess)
		}
		return d, d.panel.next()

	case timerActionMsg:
		return d.handleAction(msg)

	case startRequestMsg:
		if d.panel != nil && d.panel.task.ID == msg.taskID {
			return d, d.panel.start(d.ctx, d.sess)
		}
		return d, nil

	case tea.KeyMsg:
		return d.updateKeys(msg)
	}
	return d, nil
}

func (d dashboardModel) updateKeys(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(msg, keys.Down):
		if d.cursor < len(d.tasks)-1 {
			d.cursor++
		}
	case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
		return d.shiftDay(msg)
	case key.Matches(msg, keys.Enter):
		if t, ok := d.selected(); ok {
			return d, openPanel(d.ctx, d.sess, t)
		}
	case key.Matches(msg, keys.Start):
		if d.panel == nil {
			if t, ok := d.selected(); ok {
				// Open first; the start follows once the overlay is loaded.
				return d, tea.Sequence(openPanel(d.ctx, d.sess, t), func() tea.Msg {
					return startRequestMsg{taskID: t.ID}
				})
			}
			return d, statusCmd("No tasks for this day. Press n to add one.")
		}
		return d, d.panel.start(d.ctx, d.sess)
	case key.Matches(msg, keys.Stop):
		if d.panel == nil {
			return d, nil
		}
		return d, d.panel.stop(d.ctx)
	case key.Matches(msg, keys.Back):
		d.closePanel()
	case key.Matches(msg, keys.New):
		return d.showTaskForm()
	case key.Matches(msg, keys.Target):
		if _, ok := d.selected(); ok {
			return d.showTargetForm()
		}
	case key.Matches(msg, keys.Complete):
		if t, ok := d.selected(); ok {
			sess, ctx := d.sess, d.ctx
			return d, tea.Sequence(func() tea.Msg {
				if err := sess.CompleteTask(ctx, t.ID, !t.Completed); err != nil {
					return statusMsg{text: fmt.Sprintf("Update task: %v", err), isError: true}
				}
				return nil
			}, d.loadData())
		}
	case key.Matches(msg, keys.Delete):
		if t, ok := d.selected(); ok {
			if d.panel != nil && d.panel.task.ID == t.ID {
				d.closePanel()
			}
			sess, ctx := d.sess, d.ctx
			return d, tea.Sequence(func() tea.Msg {
				if err := sess.DeleteTask(ctx, t.ID); err != nil {
					return statusMsg{text: fmt.Sprintf("Delete task: %v", err), isError: true}
				}
				return statusMsg{text: "Deleted " + t.Title}
			}, d.loadData())
		}
	}
	return d, nil
}

// startRequestMsg starts the task's timer once openPanel has installed its
// panel.
type startRequestMsg struct {
	taskID string
}

func (d dashboardModel) shiftDay(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	day, err := time.Parse(domain.DayLayout, d.day)
	if err != nil {
		return d, nil
	}
	if key.Matches(msg, keys.Left) {
		day = day.AddDate(0, 0, -1)
	} else {
		day = day.AddDate(0, 0, 1)
	}
	d.closePanel()
	d.day = day.Format(domain.DayLayout)
	d.cursor = 0
	d.tasks = nil
	return d, d.loadData()
}

func (d dashboardModel) handleAction(msg timerActionMsg) (dashboardModel, tea.Cmd) {
	if d.panel != nil && d.panel.task.ID == msg.taskID {
		d.panel.refresh(d.panel.overlay.Display(d.sess.Now()))
	}
	if msg.err != nil {
		if msg.auto && d.panel != nil {
			d.panel.autoFinish = false
		}
		return d, tea.Batch(errorCmd("Timer", msg.err), d.resumeTicks())
	}

	var status string
	switch {
	case msg.auto:
		status = "Target reached, task completed"
	case msg.stopped != nil:
		status = "Timer stopped"
	case msg.start != nil && msg.start.AlreadyComplete:
		status = "Target already reached"
	case msg.start != nil && !msg.start.Created:
		status = "Timer resumed"
	case msg.start != nil:
		status = "Timer started"
	}
	if msg.start != nil && len(msg.start.Warnings) > 0 {
		status += " (" + strings.Join(msg.start.Warnings, ", ") + ")"
	}
	return d, tea.Batch(statusCmd(status), d.loadData(), d.resumeTicks())
}

// resumeTicks restarts tick delivery when no wait is outstanding.
func (d dashboardModel) resumeTicks() tea.Cmd {
	if d.panel == nil {
		return nil
	}
	return d.panel.next()
}

func (d dashboardModel) showTaskForm() (dashboardModel, tea.Cmd) {
	*d.formTitle = ""
	*d.formTeam = ""
	*d.formTarget = ""
	d.formType = "task"

	teamOptions := []huh.Option[string]{huh.NewOption("No team", "")}
	for _, t := range d.sortedTeams() {
		if !t.Archived {
			teamOptions = append(teamOptions, huh.NewOption(t.Name, t.ID))
		}
	}

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(d.formTitle),
			huh.NewSelect[string]().Title("Team").Options(teamOptions...).Value(d.formTeam),
			huh.NewInput().Title("Estimate (minutes or 1h30m, optional)").Value(d.formTarget).
				Validate(optionalTarget),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func (d dashboardModel) showTargetForm() (dashboardModel, tea.Cmd) {
	t, _ := d.selected()
	*d.formTarget = ""
	if secs, ok, err := d.sess.Target(d.ctx, &t); err == nil && ok {
		*d.formTarget = time.Duration(secs * int64(time.Second)).String()
	}
	d.formType = "target"

	d.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Target for " + t.Title).
				Description("Minutes or a duration like 45m. Empty clears the local target.").
				Value(d.formTarget).
				Validate(optionalTarget),
		),
	).WithShowHelp(true).WithShowErrors(true)

	d.formActive = true
	return d, d.form.Init()
}

func optionalTarget(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := timer.ParseTarget(s)
	return err
}

func (d dashboardModel) updateForm(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			d.formActive = false
			d.form = nil
			return d, nil
		}
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State != huh.StateCompleted {
		return d, cmd
	}
	d.formActive = false

	switch d.formType {
	case "task":
		in := session.NewTask{Day: d.day, Title: *d.formTitle}
		if *d.formTeam != "" {
			team := *d.formTeam
			in.TeamID = &team
		}
		if strings.TrimSpace(*d.formTarget) != "" {
			secs, _ := timer.ParseTarget(*d.formTarget)
			in.Estimate = &secs
		}
		if _, err := d.sess.CreateTask(d.ctx, in); err != nil {
			return d, errorCmd("Create task", err)
		}
		return d, d.loadData()

	case "target":
		t, ok := d.selected()
		if !ok {
			return d, nil
		}
		var err error
		if strings.TrimSpace(*d.formTarget) == "" {
			err = d.sess.ClearTarget(d.ctx, t.ID)
		} else {
			secs, _ := timer.ParseTarget(*d.formTarget)
			err = d.sess.SetTarget(d.ctx, t.ID, secs, false)
		}
		if err != nil {
			return d, errorCmd("Set target", err)
		}
		if d.panel != nil && d.panel.task.ID == t.ID {
			return d, openPanel(d.ctx, d.sess, t)
		}
		return d, statusCmd("Target saved")
	}
	return d, nil
}

func (d dashboardModel) sortedTeams() []domain.Team {
	out := make([]domain.Team, 0, len(d.teams))
	for _, t := range d.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	if d.formActive && d.form != nil {
		title := titleStyle.Render("New Task")
		if d.formType == "target" {
			title = titleStyle.Render("Target")
		}
		return panelStyle.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", d.form.View()),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTimerPanel(contentWidth),
		d.renderTaskList(contentWidth),
	)
}

func (d dashboardModel) renderTimerPanel(w int) string {
	if d.panel == nil {
		content := lipgloss.JoinVertical(lipgloss.Center,
			timerStyle.Width(w-6).Render("--:--:--"),
			mutedStyle.Render("■  NO TIMER OPEN"),
			mutedStyle.Render("Select a task and press enter to open its timer"),
		)
		return panelStyle.Width(w).Render(content)
	}

	disp := d.panel.display
	clock := disp.String()
	var timeDisplay, indicator string
	switch {
	case disp.Done():
		timeDisplay = timerDoneStyle.Width(w - 6).Render(clock)
		indicator = successStyle.Render("✓  TARGET REACHED")
	case disp.Running:
		timeDisplay = timerRunningStyle.Width(w - 6).Render(clock)
		indicator = successStyle.Render("●  RUNNING")
	default:
		timeDisplay = timerStyle.Width(w - 6).Render(clock)
		indicator = mutedStyle.Render("■  STOPPED")
	}

	detail := mutedStyle.Render("elapsed " + formatSeconds(disp.Elapsed))
	if disp.HasTarget {
		detail += mutedStyle.Render("  target " + formatSeconds(d.panel.target))
	} else {
		detail += warningStyle.Render("  no target: press t to set one")
	}

	rows := []string{timeDisplay, indicator, highlightStyle.Render(d.panel.task.Title), detail}
	if warns := d.panel.overlay.Snapshot().Warnings; len(warns) > 0 {
		rows = append(rows, warningStyle.Render("⚠ "+strings.Join(warns, ", ")))
	}

	style := panelStyle
	if disp.Running {
		style = activePanelStyle
	}
	return style.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func (d dashboardModel) renderTaskList(w int) string {
	title := titleStyle.Render(d.dayLabel())
	totalStyle := highlightStyle
	if d.dailyGoal > 0 && d.dayTotal >= d.dailyGoal {
		totalStyle = successStyle
	}
	total := totalStyle.Render(formatSeconds(d.dayTotal))
	header := fmt.Sprintf("%s  %s", title, total)
	if d.dailyGoal > 0 {
		header += mutedStyle.Render(fmt.Sprintf(" / %s goal", formatHours(d.dailyGoal)))
	}

	if len(d.tasks) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render("No tasks for this day. Press n to add one."),
		))
	}

	rows := []string{header}
	for i, t := range d.tasks {
		style := normalItemStyle
		switch {
		case i == d.cursor:
			style = selectedItemStyle
		case t.Completed:
			style = completedItemStyle
		}
		check := "○"
		if t.Completed {
			check = successStyle.Render("✓")
		}
		team := ""
		if t.TeamID != nil {
			if tm, ok := d.teams[*t.TeamID]; ok {
				team = lipgloss.NewStyle().Foreground(lipgloss.Color(tm.Color)).Render("● " + tm.Name)
			}
		}
		estimate := ""
		if t.Estimate != nil {
			estimate = mutedStyle.Render(" ~" + formatSeconds(*t.Estimate))
		}
		running := ""
		if d.panel != nil && d.panel.task.ID == t.ID && d.panel.display.Running {
			running = successStyle.Render(" ●")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-28s", cursorPrefix(i == d.cursor), check, t.Title))+
			" "+team+estimate+running)
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: open  s: start  x: stop  t: target  c: done  n: new  d: delete  ←/→: day"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) dayLabel() string {
	if d.day == d.sess.Today() {
		return "Today"
	}
	if day, err := time.Parse(domain.DayLayout, d.day); err == nil {
		return day.Format("Mon Jan 02")
	}
	return d.day
}
