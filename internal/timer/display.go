package timer

import (
	"fmt"
	"time"

	"github.com/sadopc/taskday/internal/domain"
)

// Display is what a timer shows at one instant.
type Display struct {
	Elapsed   int64
	Remaining int64
	HasTarget bool
	Running   bool
}

// Seconds is the value to render: the countdown when a target is set,
// elapsed time otherwise.
func (d Display) Seconds() int64 {
	if d.HasTarget {
		return d.Remaining
	}
	return d.Elapsed
}

// Done reports whether a countdown reached zero.
func (d Display) Done() bool {
	return d.HasTarget && d.Remaining == 0
}

func (d Display) String() string {
	return FormatClock(d.Seconds())
}

// ComputeDisplay derives the display from a captured base and running entry.
// A target of zero or less means no countdown.
func ComputeDisplay(base int64, running *domain.TimeEntry, target int64, now time.Time) Display {
	var segment int64
	if running != nil {
		// Same rounding as a stop, so closing the entry does not shift the clock.
		segment = DurationSeconds(running.StartAt, now)
	}

	d := Display{Elapsed: base + segment, Running: running != nil}
	if target > 0 {
		d.HasTarget = true
		d.Remaining = max(0, target-d.Elapsed)
	}
	return d
}

// FormatClock renders seconds as HH:MM:SS.
func FormatClock(secs int64) string {
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
