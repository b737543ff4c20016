package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/timer"
)

// timerPanel is the open timer of one task. It owns the overlay and feeds
// the overlay's scheduled ticks into the program as displayMsg values.
type timerPanel struct {
	task    domain.Task
	overlay *timer.Overlay
	display timer.Display
	target  int64

	handle  *timer.Handle
	ticks   chan timer.Display
	waiting bool
	// autoFinish is cleared after a failed finish so it is not retried
	// on every tick.
	autoFinish bool
}

type displayMsg struct {
	taskID  string
	display timer.Display
}

type panelOpenedMsg struct {
	panel *timerPanel
	err   error
}

// timerActionMsg reports the outcome of a start or stop.
type timerActionMsg struct {
	taskID  string
	start   *timer.StartResult
	stopped *domain.TimeEntry
	// auto marks the stop issued when the countdown reached zero.
	auto bool
	err  error
}

func openPanel(ctx context.Context, sess *session.Session, task domain.Task) tea.Cmd {
	return func() tea.Msg {
		o, err := sess.OpenTimer(ctx, task.ID)
		if o == nil {
			return panelOpenedMsg{err: err}
		}
		p := &timerPanel{task: task, overlay: o, autoFinish: true}
		p.target, _ = o.Target()
		p.display = o.Display(sess.Now())
		return panelOpenedMsg{panel: p, err: err}
	}
}

// watch starts the overlay's ticker and returns the command that waits
// for the first tick.
func (p *timerPanel) watch(ctx context.Context, sess *session.Session) tea.Cmd {
	p.ticks = make(chan timer.Display, 1)
	ch := p.ticks
	p.handle = p.overlay.Watch(ctx, sess.TickInterval(), func(d timer.Display) {
		select {
		case ch <- d:
		default:
		}
	})
	return p.next()
}

// next waits for one tick. It yields nothing once the ticker is cancelled.
func (p *timerPanel) next() tea.Cmd {
	if p.handle == nil || p.waiting {
		return nil
	}
	p.waiting = true
	ch, done, id := p.ticks, p.handle.Done(), p.task.ID
	return func() tea.Msg {
		select {
		case d := <-ch:
			return displayMsg{taskID: id, display: d}
		case <-done:
			return nil
		}
	}
}

func (p *timerPanel) close() {
	p.overlay.Close()
	p.handle = nil
}

func (p *timerPanel) refresh(now timer.Display) {
	p.display = now
	p.target, _ = p.overlay.Target()
}

func (p *timerPanel) start(ctx context.Context, sess *session.Session) tea.Cmd {
	o, id := p.overlay, p.task.ID
	return func() tea.Msg {
		res, err := o.Start(ctx)
		if err == nil && res.AlreadyComplete {
			err = sess.CompleteTask(ctx, id, true)
		}
		return timerActionMsg{taskID: id, start: &res, err: err}
	}
}

func (p *timerPanel) stop(ctx context.Context) tea.Cmd {
	o, id := p.overlay, p.task.ID
	return func() tea.Msg {
		entry, err := o.Stop(ctx)
		return timerActionMsg{taskID: id, stopped: entry, err: err}
	}
}

// finish closes the running entry once the countdown hits zero and marks
// the task completed.
func (p *timerPanel) finish(ctx context.Context, sess *session.Session) tea.Cmd {
	o, id := p.overlay, p.task.ID
	return func() tea.Msg {
		entry, err := o.Stop(ctx)
		if err == nil {
			err = sess.CompleteTask(ctx, id, true)
		}
		return timerActionMsg{taskID: id, stopped: entry, auto: true, err: err}
	}
}
