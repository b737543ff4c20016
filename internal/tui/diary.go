package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/session"
)

// diaryModel edits the day's diary entry. Text abandoned with esc is kept
// as a local draft.
type diaryModel struct {
	sess   *session.Session
	ctx    context.Context
	width  int
	height int

	day   string
	entry session.DiaryView

	formActive bool
	form       *huh.Form
	body       *string
}

func newDiaryModel(ctx context.Context, s *session.Session) diaryModel {
	body := ""
	return diaryModel{
		sess: s,
		ctx:  ctx,
		day:  s.Today(),
		body: &body,
	}
}

func (m *diaryModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type diaryDataMsg struct {
	entry session.DiaryView
	err   error
}

func (m diaryModel) refresh() tea.Cmd {
	sess, ctx, day := m.sess, m.ctx, m.day
	return func() tea.Msg {
		v, err := sess.Diary(ctx, day)
		return diaryDataMsg{entry: v, err: err}
	}
}

func (m diaryModel) update(msg tea.Msg) (diaryModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case diaryDataMsg:
		if msg.err != nil {
			return m, errorCmd("Load diary", msg.err)
		}
		if msg.entry.Day == m.day {
			m.entry = msg.entry
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return m.showForm()
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			day, err := time.Parse(domain.DayLayout, m.day)
			if err != nil {
				return m, nil
			}
			if key.Matches(msg, keys.Left) {
				day = day.AddDate(0, 0, -1)
			} else {
				day = day.AddDate(0, 0, 1)
			}
			m.day = day.Format(domain.DayLayout)
			m.entry = session.DiaryView{Day: m.day}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m diaryModel) showForm() (diaryModel, tea.Cmd) {
	*m.body = m.entry.Text()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Diary for " + m.day).
				Lines(max(5, m.height-12)).
				Value(m.body),
		),
	).WithShowHelp(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m diaryModel) updateForm(msg tea.Msg) (diaryModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		m.formActive = false
		m.form = nil
		if *m.body == m.entry.Text() {
			return m, nil
		}
		if err := m.sess.SaveDraft(m.ctx, m.day, *m.body); err != nil {
			return m, errorCmd("Save draft", err)
		}
		return m, tea.Batch(m.refresh(), statusCmd("Draft kept on this device"))
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		if _, err := m.sess.SaveDiary(m.ctx, m.day, *m.body); err != nil {
			return m, errorCmd("Save diary", err)
		}
		return m, tea.Batch(m.refresh(), statusCmd("Diary saved"))
	}
	return m, cmd
}

func (m diaryModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Diary")
	if day, err := time.Parse(domain.DayLayout, m.day); err == nil {
		title += mutedStyle.Render("  " + day.Format("Monday, Jan 02 2006"))
	}

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	rows := []string{title, ""}
	switch {
	case m.entry.HasDraft:
		rows = append(rows, warningStyle.Render("Unsaved draft"), "", m.entry.Draft)
	case m.entry.Saved != nil:
		rows = append(rows, m.entry.Saved.Body, "",
			mutedStyle.Render("Saved "+m.entry.Saved.UpdatedAt.Local().Format("15:04, Jan 02")))
	default:
		rows = append(rows, mutedStyle.Render("Nothing written for this day."))
	}

	rows = append(rows, "", mutedStyle.Render("  enter: write  ←/→: day"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
