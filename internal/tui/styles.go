package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorDone      = lipgloss.Color("#FF6B6B")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// teamColors are offered when creating a team; the first matches the
// store's default.
var teamColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

var (
	boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)

	panelStyle       = boxStyle.BorderForeground(colorSubtle)
	activePanelStyle = boxStyle.BorderForeground(colorPrimary)

	activeTabStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary)
	inactiveTabStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted)

	clockStyle        = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center)
	timerStyle        = clockStyle.Foreground(colorPrimary)
	timerRunningStyle = clockStyle.Foreground(colorSuccess)
	timerDoneStyle    = clockStyle.Foreground(colorDone)

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorFg)
	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorHighlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = mutedStyle.Padding(0, 1)

	selectedItemStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	normalItemStyle    = lipgloss.NewStyle().Foreground(colorFg)
	completedItemStyle = mutedStyle.Strikethrough(true)
)
