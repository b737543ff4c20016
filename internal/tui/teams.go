package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/session"
)

type teamsModel struct {
	sess   *session.Session
	ctx    context.Context
	width  int
	height int

	teams        []domain.Team
	tasks        []domain.Task
	cursor       int
	taskCursor   int
	showArchived bool
	viewingTasks bool // true = today's tasks of the selected team

	formActive bool
	form       *huh.Form
	formType   string // "team", "edit_team", "task"

	formName  *string
	formColor *string

	editingID string
}

func newTeamsModel(ctx context.Context, s *session.Session) teamsModel {
	name, color := "", teamColors[0]
	return teamsModel{
		sess:      s,
		ctx:       ctx,
		formName:  &name,
		formColor: &color,
	}
}

func (p *teamsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type teamsDataMsg struct {
	teams []domain.Team
	err   error
}

type teamTasksMsg struct {
	teamID string
	tasks  []domain.Task
}

func (p teamsModel) refresh() tea.Cmd {
	sess, ctx, archived := p.sess, p.ctx, p.showArchived
	return func() tea.Msg {
		teams, err := sess.Teams(ctx, archived)
		return teamsDataMsg{teams: teams, err: err}
	}
}

func (p teamsModel) refreshTasks() tea.Cmd {
	if p.cursor >= len(p.teams) {
		return nil
	}
	sess, ctx, id := p.sess, p.ctx, p.teams[p.cursor].ID
	return func() tea.Msg {
		tasks, _ := sess.Tasks(ctx, sess.Today(), &id, true)
		return teamTasksMsg{teamID: id, tasks: tasks}
	}
}

func (p teamsModel) update(msg tea.Msg) (teamsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case teamsDataMsg:
		if msg.err != nil {
			return p, errorCmd("Load teams", msg.err)
		}
		p.teams = msg.teams
		if p.cursor >= len(p.teams) {
			p.cursor = max(0, len(p.teams)-1)
		}
		return p, nil

	case teamTasksMsg:
		p.tasks = msg.tasks
		if p.taskCursor >= len(p.tasks) {
			p.taskCursor = max(0, len(p.tasks)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.viewingTasks {
			return p.updateTaskView(msg)
		}
		return p.updateTeamList(msg)
	}
	return p, nil
}

func (p teamsModel) updateTeamList(msg tea.KeyMsg) (teamsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.teams)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.teams) > 0 {
			p.viewingTasks = true
			p.taskCursor = 0
			return p, p.refreshTasks()
		}
	case key.Matches(msg, keys.New):
		return p.showTeamForm("team")
	case key.Matches(msg, keys.Edit):
		if len(p.teams) > 0 {
			return p.showTeamForm("edit_team")
		}
	case key.Matches(msg, keys.Archived):
		p.showArchived = !p.showArchived
		return p, p.refresh()
	case key.Matches(msg, keys.Delete):
		if len(p.teams) > 0 {
			team := p.teams[p.cursor]
			if err := p.sess.ArchiveTeam(p.ctx, team.ID); err != nil {
				return p, errorCmd("Archive team", err)
			}
			return p, tea.Batch(p.refresh(), statusCmd("Archived "+team.Name))
		}
	}
	return p, nil
}

func (p teamsModel) updateTaskView(msg tea.KeyMsg) (teamsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTasks = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(p.tasks)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.New):
		return p.showTaskForm()
	}
	return p, nil
}

func (p teamsModel) showTeamForm(kind string) (teamsModel, tea.Cmd) {
	*p.formName = ""
	*p.formColor = teamColors[0]
	p.formType = kind
	if kind == "edit_team" {
		team := p.teams[p.cursor]
		*p.formName = team.Name
		*p.formColor = team.Color
		p.editingID = team.ID
	}

	colorOptions := make([]huh.Option[string], len(teamColors))
	for i, c := range teamColors {
		colorOptions[i] = huh.NewOption(lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("● ")+c, c)
	}

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Team Name").Value(p.formName),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(p.formColor),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p teamsModel) showTaskForm() (teamsModel, tea.Cmd) {
	*p.formName = ""
	p.formType = "task"

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task for today").Value(p.formName),
		),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p teamsModel) updateForm(msg tea.Msg) (teamsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State != huh.StateCompleted {
		return p, cmd
	}
	p.formActive = false

	switch p.formType {
	case "team":
		if _, err := p.sess.CreateTeam(p.ctx, *p.formName, *p.formColor); err != nil {
			return p, errorCmd("Create team", err)
		}
		return p, p.refresh()
	case "edit_team":
		if err := p.sess.UpdateTeam(p.ctx, p.editingID, *p.formName, *p.formColor); err != nil {
			return p, errorCmd("Update team", err)
		}
		return p, p.refresh()
	case "task":
		if p.cursor < len(p.teams) {
			teamID := p.teams[p.cursor].ID
			if _, err := p.sess.CreateTask(p.ctx, session.NewTask{Title: *p.formName, TeamID: &teamID}); err != nil {
				return p, errorCmd("Create task", err)
			}
		}
		return p, p.refreshTasks()
	}
	return p, nil
}

func (p teamsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Team")
		switch p.formType {
		case "edit_team":
			title = titleStyle.Render("Edit Team")
		case "task":
			title = titleStyle.Render("New Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingTasks {
		return p.renderTaskView()
	}
	return p.renderTeamList()
}

func (p teamsModel) renderTeamList() string {
	w := p.width - 4
	title := titleStyle.Render("Teams")
	if p.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(p.teams) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No teams yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title, ""}
	for i, team := range p.teams {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(team.Color)).Render("●")
		style := normalItemStyle
		if i == p.cursor {
			style = selectedItemStyle
		}
		name := team.Name
		if team.Archived {
			name += " (archived)"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-24s", cursorPrefix(i == p.cursor), colorDot, name)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: archive  a: show archived  enter: today's tasks"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p teamsModel) renderTaskView() string {
	w := p.width - 4
	team := p.teams[p.cursor]
	colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(team.Color)).Render("●")
	title := titleStyle.Render(fmt.Sprintf("%s %s: today", colorDot, team.Name))

	if len(p.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks today. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	rows := []string{title, ""}
	for i, task := range p.tasks {
		style := normalItemStyle
		if i == p.taskCursor {
			style = selectedItemStyle
		}
		check := "○"
		if task.Completed {
			check = "✓"
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursorPrefix(i == p.taskCursor), check, task.Title)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new task  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
