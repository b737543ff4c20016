package timer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sadopc/taskday/internal/domain"
)

const (
	// WarningFetchError marks an aggregate that was zeroed because the
	// entry list could not be read.
	WarningFetchError = "entries_fetch_error"

	warningMultipleRunning = "multiple_running_entries"
)

// MultipleRunningWarning formats the warning attached when n entries of
// one task are open at the same time.
func MultipleRunningWarning(n int) string {
	return fmt.Sprintf("%s:%d", warningMultipleRunning, n)
}

// WarningKind strips the count suffix from a warning tag.
func WarningKind(w string) string {
	kind, _, _ := strings.Cut(w, ":")
	return kind
}

// RunningCount extracts n from a multiple_running_entries:<n> warning.
func RunningCount(w string) (int, bool) {
	kind, n, ok := strings.Cut(w, ":")
	if !ok || kind != warningMultipleRunning {
		return 0, false
	}
	v, err := strconv.Atoi(n)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Aggregate is the derived timer state of one task.
type Aggregate struct {
	TaskID      string
	BaseSeconds int64
	Running     *domain.TimeEntry
	Entries     []domain.TimeEntry
	Warnings    []string
}

// Summarize folds entries into an Aggregate. Closed entries without a
// recorded duration do not count toward BaseSeconds.
func Summarize(taskID string, entries []domain.TimeEntry) Aggregate {
	agg := Aggregate{TaskID: taskID, Entries: entries}
	for _, e := range entries {
		if e.EndAt != nil && e.DurationSeconds != nil {
			agg.BaseSeconds += *e.DurationSeconds
		}
	}

	open := openEntries(entries)
	agg.Running = authoritative(open)
	if len(open) > 1 {
		agg.Warnings = append(agg.Warnings, MultipleRunningWarning(len(open)))
	}
	return agg
}

func openEntries(entries []domain.TimeEntry) []domain.TimeEntry {
	var open []domain.TimeEntry
	for _, e := range entries {
		if e.IsRunning() {
			open = append(open, e)
		}
	}
	return open
}

// authoritative picks the open entry with the latest StartAt; equal
// StartAt values fall back to the lowest ID.
func authoritative(open []domain.TimeEntry) *domain.TimeEntry {
	if len(open) == 0 {
		return nil
	}
	best := open[0]
	for _, e := range open[1:] {
		switch {
		case e.StartAt.After(best.StartAt):
			best = e
		case e.StartAt.Equal(best.StartAt) && e.ID < best.ID:
			best = e
		}
	}
	return &best
}
