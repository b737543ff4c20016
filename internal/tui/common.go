package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/taskday/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewTeams
	viewReports
	viewDiary
	viewSettings
)

var viewNames = []string{"Today", "Teams", "Reports", "Diary", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(prefix string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", prefix, err), isError: true}
	}
}

// --- Helpers ---

func formatSeconds(secs int64) string {
	return timer.FormatClock(secs)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}

func cursorPrefix(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}
