package api

import (
	"time"

	"github.com/sadopc/taskday/internal/domain"
	"github.com/sadopc/taskday/internal/session"
	"github.com/sadopc/taskday/internal/timer"
)

type taskView struct {
	ID              string     `json:"id"`
	Day             string     `json:"day"`
	Title           string     `json:"title"`
	TeamID          *string    `json:"team_id,omitempty"`
	EstimateSeconds *int64     `json:"estimated_duration_seconds,omitempty"`
	Completed       bool       `json:"completed"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toTaskView(t domain.Task) taskView {
	return taskView{
		ID:              t.ID,
		Day:             t.Day,
		Title:           t.Title,
		TeamID:          t.TeamID,
		EstimateSeconds: t.Estimate,
		Completed:       t.Completed,
		CompletedAt:     t.CompletedAt,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

type entryView struct {
	ID              string     `json:"id"`
	TaskID          string     `json:"task_id"`
	StartAt         time.Time  `json:"start_at"`
	EndAt           *time.Time `json:"end_at,omitempty"`
	DurationSeconds *int64     `json:"duration_seconds,omitempty"`
}

func toEntryView(e *domain.TimeEntry) *entryView {
	if e == nil {
		return nil
	}
	return &entryView{
		ID:              e.ID,
		TaskID:          e.TaskID,
		StartAt:         e.StartAt,
		EndAt:           e.EndAt,
		DurationSeconds: e.DurationSeconds,
	}
}

type timerView struct {
	TaskID           string     `json:"task_id"`
	BaseSeconds      int64      `json:"base_seconds"`
	Running          *entryView `json:"running,omitempty"`
	ElapsedSeconds   int64      `json:"elapsed_seconds"`
	TargetSeconds    *int64     `json:"target_seconds,omitempty"`
	RemainingSeconds *int64     `json:"remaining_seconds,omitempty"`
	Display          string     `json:"display"`
	Warnings         []string   `json:"warnings"`
}

func toTimerView(st session.Status) timerView {
	v := timerView{
		TaskID:         st.Task.ID,
		BaseSeconds:    st.Aggregate.BaseSeconds,
		Running:        toEntryView(st.Aggregate.Running),
		ElapsedSeconds: st.Display.Elapsed,
		Display:        st.Display.String(),
		Warnings:       warnings(st.Aggregate.Warnings),
	}
	if st.HasTarget {
		target, remaining := st.Target, st.Display.Remaining
		v.TargetSeconds = &target
		v.RemainingSeconds = &remaining
	}
	return v
}

type startView struct {
	Entry           *entryView `json:"entry,omitempty"`
	BaseSeconds     int64      `json:"base_seconds"`
	AlreadyComplete bool       `json:"already_complete"`
	Created         bool       `json:"created"`
	Warnings        []string   `json:"warnings"`
}

func toStartView(res timer.StartResult) startView {
	return startView{
		Entry:           toEntryView(res.Entry),
		BaseSeconds:     res.BaseSeconds,
		AlreadyComplete: res.AlreadyComplete,
		Created:         res.Created,
		Warnings:        warnings(res.Warnings),
	}
}

func warnings(w []string) []string {
	if w == nil {
		return []string{}
	}
	return w
}

type diaryView struct {
	Day       string     `json:"day"`
	Body      string     `json:"body"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type teamView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Archived bool   `json:"archived"`
}

func toTeamView(t domain.Team) teamView {
	return teamView{ID: t.ID, Name: t.Name, Color: t.Color, Archived: t.Archived}
}

type summaryView struct {
	Day          string `json:"day"`
	TeamID       string `json:"team_id,omitempty"`
	TeamName     string `json:"team_name,omitempty"`
	TotalSeconds int64  `json:"total_seconds"`
	EntryCount   int    `json:"entry_count"`
}
