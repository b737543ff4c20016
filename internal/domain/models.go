package domain

import "time"

// DayLayout is the format of Task.Day and diary keys.
const DayLayout = "2006-01-02"

type Team struct {
	ID        string
	Name      string
	Color     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Task struct {
	ID       string
	Owner    string
	Day      string
	Title    string
	TeamID   *string
	Estimate *int64 // estimated_duration_seconds
	// Completed is set by the caller once a timer reports the target reached.
	Completed   bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimeEntry is one start/stop segment of work on a task. EndAt is nil
// while the entry is running; DurationSeconds is present iff EndAt is.
type TimeEntry struct {
	ID              string
	TaskID          string
	StartAt         time.Time
	EndAt           *time.Time
	DurationSeconds *int64
	CreatedAt       time.Time
}

func (e TimeEntry) IsRunning() bool {
	return e.EndAt == nil
}

type DiaryEntry struct {
	Owner     string
	Day       string
	Body      string
	UpdatedAt time.Time
}

// TaskFilter narrows ListTasks. Empty fields match everything.
type TaskFilter struct {
	Owner            string
	Day              string
	TeamID           *string
	IncludeCompleted bool
}

// EntryFilter is used to filter time entries across tasks (exports, reports).
type EntryFilter struct {
	Owner  string
	TaskID *string
	TeamID *string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// DailySummary represents tracked time per team per task day.
type DailySummary struct {
	Day          string
	TeamID       string
	TeamName     string
	TeamColor    string
	TotalSeconds int64
	EntryCount   int
}

// ExportRow is a time entry joined with its task and team for export.
type ExportRow struct {
	Entry     TimeEntry
	TaskTitle string
	TaskDay   string
	TeamName  string
}
