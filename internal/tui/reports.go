package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/session"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

type reportsModel struct {
	sess   *session.Session
	ctx    context.Context
	width  int
	height int

	mode      reportMode
	weekStart time.Weekday
	summaries []domain.DailySummary
	offset    int // weeks or 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newReportsModel(ctx context.Context, s *session.Session) reportsModel {
	return reportsModel{
		sess:      s,
		ctx:       ctx,
		weekStart: time.Monday,
		chart:     barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

type reportsDataMsg struct {
	summaries []domain.DailySummary
	weekStart time.Weekday
	err       error
}

func (r reportsModel) refresh() tea.Cmd {
	sess, ctx := r.sess, r.ctx
	return func() tea.Msg {
		weekStart := time.Monday
		if v, err := sess.Setting(ctx, session.SettingWeekStart); err == nil && v == "sunday" {
			weekStart = time.Sunday
		}
		r.weekStart = weekStart
		from, to := r.dateRange()
		summaries, err := sess.DailySummary(ctx, from.Format(domain.DayLayout), to.AddDate(0, 0, -1).Format(domain.DayLayout))
		return reportsDataMsg{summaries: summaries, weekStart: weekStart, err: err}
	}
}

// dateRange returns [from, to) in whole days.
func (r reportsModel) dateRange() (time.Time, time.Time) {
	now := r.sess.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch r.mode {
	case reportWeekly:
		back := (int(today.Weekday()) - int(r.weekStart) + 7) % 7
		start := today.AddDate(0, 0, -back-7*r.offset)
		return start, start.AddDate(0, 0, 7)
	default:
		end := today.AddDate(0, 0, 1-7*r.offset)
		return end.AddDate(0, 0, -7), end
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.err != nil {
			return r, errorCmd("Load report", msg.err)
		}
		r.summaries = msg.summaries
		r.weekStart = msg.weekStart
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Enter):
			if r.mode == reportDaily {
				r.mode = reportWeekly
			} else {
				r.mode = reportDaily
			}
			r.offset = 0
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *reportsModel) buildChart() {
	chartWidth := max(r.width-8, 20)
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}
	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()
	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		day := d.Format(domain.DayLayout)

		var values []barchart.BarValue
		for _, s := range r.summaries {
			if s.Day != day {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  teamLabel(s),
				Value: float64(s.TotalSeconds) / 3600.0,
				Style: lipgloss.NewStyle().Foreground(teamColor(s)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{Label: d.Format("Mon 02"), Values: values})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func teamLabel(s domain.DailySummary) string {
	if s.TeamName == "" {
		return "No team"
	}
	return s.TeamName
}

func teamColor(s domain.DailySummary) lipgloss.Color {
	if s.TeamColor == "" {
		return colorMuted
	}
	return lipgloss.Color(s.TeamColor)
}

func (r reportsModel) total() int64 {
	var total int64
	for _, s := range r.summaries {
		total += s.TotalSeconds
	}
	return total
}

func (r reportsModel) view() string {
	w := r.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if r.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s  total %s",
		from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006"), formatHours(r.total())))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", modeTabs, "  ", dateLabel,
	)

	nav := mutedStyle.Render("  ←/→: navigate  enter: switch mode")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderLegend(), "", r.renderSummaryTable(w), "", nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.summaries) == 0 {
		return mutedStyle.Render("  No data for this period")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-12s %-20s %10s %8s", "Day", "Team", "Duration", "Entries")),
		mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 54))),
	}
	for _, s := range r.summaries {
		colorDot := lipgloss.NewStyle().Foreground(teamColor(s)).Render("●")
		rows = append(rows, fmt.Sprintf("  %-12s %s %-18s %10s %8d",
			s.Day, colorDot, teamLabel(s), formatSeconds(s.TotalSeconds), s.EntryCount,
		))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderLegend() string {
	seen := make(map[string]bool)
	var items []string
	for _, s := range r.summaries {
		if seen[s.TeamID] {
			continue
		}
		seen[s.TeamID] = true
		dot := lipgloss.NewStyle().Foreground(teamColor(s)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, teamLabel(s)))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}
