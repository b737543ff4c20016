package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskday/internal/local"
	"github.com/sadopc/taskday/internal/session"
)

type settingsModel struct {
	sess   *session.Session
	ctx    context.Context
	width  int
	height int

	settings   []local.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultTarget *string
	dailyGoal     *string
	tickInterval  *string
	weekStart     *string
}

func newSettingsModel(ctx context.Context, s *session.Session) settingsModel {
	dt, dg, ti, ws := "", "", "", ""
	return settingsModel{
		sess:          s,
		ctx:           ctx,
		defaultTarget: &dt,
		dailyGoal:     &dg,
		tickInterval:  &ti,
		weekStart:     &ws,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []local.Setting
	err      error
}

func (s settingsModel) refresh() tea.Cmd {
	sess, ctx := s.sess, s.ctx
	return func() tea.Msg {
		settings, err := sess.Settings(ctx)
		return settingsDataMsg{settings: settings, err: err}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, errorCmd("Load settings", msg.err)
		}
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.defaultTarget = s.getVal(session.SettingDefaultTarget, "25")
	*s.dailyGoal = secsToHours(s.getVal(session.SettingDailyGoal, "28800"))
	*s.tickInterval = s.getVal(session.SettingTickInterval, "500")
	*s.weekStart = s.getVal(session.SettingWeekStart, "monday")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Default target (min)").Value(s.defaultTarget).Validate(positiveInt),
			huh.NewInput().Title("Refresh interval (ms)").
				Description("Applies on next launch").
				Value(s.tickInterval).Validate(positiveInt),
		).Title("Timer"),
		huh.NewGroup(
			huh.NewInput().Title("Daily goal (hours)").Value(s.dailyGoal).Validate(positiveHours),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
		).Title("General"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, tea.Batch(s.refresh(), errorCmd("Save settings", err))
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []struct{ key, value string }{
		{session.SettingDefaultTarget, *s.defaultTarget},
		{session.SettingDailyGoal, hoursToSecs(*s.dailyGoal)},
		{session.SettingTickInterval, *s.tickInterval},
		{session.SettingWeekStart, *s.weekStart},
	}
	for _, v := range values {
		if err := s.sess.SetSetting(s.ctx, v.key, v.value); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.sess.Setting(s.ctx, k)
	if err != nil || v == "" {
		return fallback
	}
	return v
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	if len(s.settings) == 0 {
		rows = append(rows, mutedStyle.Render("  Using defaults."))
	}
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case session.SettingDefaultTarget:
		return v + " min"
	case session.SettingTickInterval:
		return v + " ms"
	case session.SettingDailyGoal:
		if secs, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%.1f hours", float64(secs)/3600)
		}
	}
	return v
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number above zero")
	}
	return nil
}

func positiveHours(s string) error {
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || h <= 0 || h > 24 {
		return fmt.Errorf("enter hours between 0 and 24")
	}
	return nil
}

func secsToHours(s string) string {
	if secs, err := strconv.Atoi(s); err == nil {
		return fmt.Sprintf("%.1f", float64(secs)/3600)
	}
	return s
}

func hoursToSecs(s string) string {
	if hours, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.Itoa(int(hours * 3600))
	}
	return s
}
