package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskday/internal/export"
	"github.com/sadopc/taskday/internal/session"
)

var exportFormats = []export.Format{export.FormatCSV, export.FormatJSON, export.FormatYAML}

// App is the root Bubble Tea model.
type App struct {
	sess   *session.Session
	ctx    context.Context
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	teams     teamsModel
	reports   reportsModel
	diary     diaryModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

// NewApp builds the root model. ctx bounds the timer tickers and store
// calls made on behalf of the program.
func NewApp(ctx context.Context, s *session.Session) App {
	h := help.New()
	h.ShowAll = false

	return App{
		sess:       s,
		ctx:        ctx,
		activeView: viewToday,
		dashboard:  newDashboardModel(ctx, s),
		teams:      newTeamsModel(ctx, s),
		reports:    newReportsModel(ctx, s),
		diary:      newDiaryModel(ctx, s),
		settings:   newSettingsModel(ctx, s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return a.dashboard.Init()
}

// Close stops the open timer's ticker.
func (a *App) Close() {
	a.dashboard.closePanel()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.teams.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.diary.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (e.g. form) sees keys first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			a.Close()
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchTo(viewToday)
		case key.Matches(msg, keys.Tab2):
			return a.switchTo(viewTeams)
		case key.Matches(msg, keys.Tab3):
			return a.switchTo(viewReports)
		case key.Matches(msg, keys.Tab4):
			return a.switchTo(viewDiary)
		case key.Matches(msg, keys.Tab5):
			return a.switchTo(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchTo((a.activeView + 1) % viewState(len(viewNames)))
		}

	// The open timer keeps running whichever view is active.
	case dashboardDataMsg, panelOpenedMsg, displayMsg, timerActionMsg, startRequestMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd

	case teamsDataMsg, teamTasksMsg:
		var cmd tea.Cmd
		a.teams, cmd = a.teams.update(msg)
		return a, cmd

	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd

	case diaryDataMsg:
		var cmd tea.Cmd
		a.diary, cmd = a.diary.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusError = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchTo(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewTeams:
		a.teams, cmd = a.teams.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewDiary:
		a.diary, cmd = a.diary.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.dashboard.formActive
	case viewTeams:
		return a.teams.formActive
	case viewDiary:
		return a.diary.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.dashboard.loadData()
	case viewTeams:
		return a.teams.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewDiary:
		return a.diary.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.dashboard.view()
	case viewTeams:
		content = a.teams.view()
	case viewReports:
		content = a.reports.view()
	case viewDiary:
		content = a.diary.view()
	case viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(1, a.height-lipgloss.Height(header)-lipgloss.Height(footer))

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("taskday")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	timerInfo := ""
	if a.dashboard.isRunning() {
		timerInfo = successStyle.Render(" ● " + formatSeconds(a.dashboard.display().Seconds()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		style := normalItemStyle
		if i == a.exportCursor {
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursorPrefix(i == a.exportCursor)+string(f)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	sess, ctx := a.sess, a.ctx
	return func() tea.Msg {
		rows, err := sess.Entries(ctx, nil, nil, 0)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		now := sess.Now()
		path := filepath.Join(home, fmt.Sprintf("taskday-export-%s.%s", now.Format("2006-01-02"), format))
		if err := export.ToFile(path, format, rows, now); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
