package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sadopc/taskday/internal/domain"
)

func TestComputeDisplay(t *testing.T) {
	running := &domain.TimeEntry{ID: "r", StartAt: t0}

	tests := []struct {
		name    string
		base    int64
		running *domain.TimeEntry
		target  int64
		now     time.Time
		want    Display
	}{
		{
			name:    "countdown with running segment",
			base:    1800,
			running: running,
			target:  3600,
			now:     t0.Add(300 * time.Second),
			want:    Display{Elapsed: 2100, Remaining: 1500, HasTarget: true, Running: true},
		},
		{
			name: "elapsed without target",
			base: 90,
			want: Display{Elapsed: 90},
		},
		{
			name:    "remaining never negative",
			base:    3000,
			running: running,
			target:  3600,
			now:     t0.Add(time.Hour),
			want:    Display{Elapsed: 6600, Remaining: 0, HasTarget: true, Running: true},
		},
		{
			name:    "clock behind start counts zero",
			base:    60,
			running: running,
			now:     t0.Add(-time.Minute),
			want:    Display{Elapsed: 60, Running: true},
		},
		{
			name:    "running segment rounds like a stop",
			base:    0,
			running: running,
			target:  10,
			now:     t0.Add(1600 * time.Millisecond),
			want:    Display{Elapsed: 2, Remaining: 8, HasTarget: true, Running: true},
		},
		{
			name:   "stopped countdown",
			base:   600,
			target: 1500,
			now:    t0,
			want:   Display{Elapsed: 600, Remaining: 900, HasTarget: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDisplay(tt.base, tt.running, tt.target, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplay_SecondsAndDone(t *testing.T) {
	countdown := Display{Elapsed: 2100, Remaining: 1500, HasTarget: true}
	assert.Equal(t, int64(1500), countdown.Seconds())
	assert.False(t, countdown.Done())
	assert.Equal(t, "00:25:00", countdown.String())

	plain := Display{Elapsed: 3725}
	assert.Equal(t, int64(3725), plain.Seconds())
	assert.False(t, plain.Done())
	assert.Equal(t, "01:02:05", plain.String())

	done := Display{Elapsed: 3600, HasTarget: true}
	assert.True(t, done.Done())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "00:00:00", FormatClock(-4))
	assert.Equal(t, "00:01:01", FormatClock(61))
	assert.Equal(t, "27:46:40", FormatClock(100000))
}
