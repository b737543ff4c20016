package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/timer"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String() + "\n"
}

func formatTarget(secs int64, ok bool) string {
	if !ok {
		return "-"
	}
	return (time.Duration(secs) * time.Second).String()
}

func taskRow(t domain.Task, teams map[string]string) []string {
	done := ""
	if t.Completed {
		done = "✓"
	}
	team := ""
	if t.TeamID != nil {
		team = teams[*t.TeamID]
	}
	estimate := "-"
	if t.Estimate != nil {
		estimate = formatTarget(*t.Estimate, true)
	}
	return []string{t.ID, t.Title, team, estimate, done}
}

func writeStatus(w io.Writer, st session.Status) {
	fmt.Fprintf(w, "%s  %s\n", st.Task.Title, dimStyle.Render(st.Task.ID))
	state := "stopped"
	if st.Display.Running {
		state = "running"
	}
	if st.Display.Done() {
		state += ", target reached"
	}
	fmt.Fprintf(w, "  state:     %s\n", state)
	fmt.Fprintf(w, "  elapsed:   %s\n", timer.FormatClock(st.Display.Elapsed))
	if st.HasTarget {
		fmt.Fprintf(w, "  target:    %s\n", formatTarget(st.Target, true))
		fmt.Fprintf(w, "  remaining: %s\n", timer.FormatClock(st.Display.Remaining))
	} else {
		fmt.Fprintln(w, "  target:    not set")
	}
	if st.Aggregate.Running != nil {
		fmt.Fprintf(w, "  entry:     %s (since %s)\n", st.Aggregate.Running.ID,
			st.Aggregate.Running.StartAt.Local().Format("15:04:05"))
	}
	if len(st.Aggregate.Warnings) > 0 {
		fmt.Fprintf(w, "  warnings:  %s\n", strings.Join(st.Aggregate.Warnings, ", "))
	}
}
