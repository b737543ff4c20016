package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/sadopc/taskday/internal/timer"
)

// NewLogger builds a text logger writing to w at the named level
// (debug, info, warn, error). Unknown levels mean info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type logObserver struct {
	logger *slog.Logger
}

// LogEvents returns a timer observer that logs every aggregator event.
func LogEvents(logger *slog.Logger) timer.Observer {
	return &logObserver{logger: logger}
}

func (o *logObserver) Observe(ctx context.Context, ev timer.Event) {
	attrs := []any{"task_id", ev.TaskID}
	if ev.Entry != nil {
		attrs = append(attrs, "entry_id", ev.Entry.ID)
	}

	switch ev.Kind {
	case timer.EventStarted, timer.EventResumed:
		attrs = append(attrs, "base_seconds", ev.BaseSeconds, "target_seconds", ev.TargetSeconds)
		o.logger.InfoContext(ctx, "timer_"+string(ev.Kind), attrs...)
	case timer.EventAlreadyComplete:
		attrs = append(attrs, "base_seconds", ev.BaseSeconds, "target_seconds", ev.TargetSeconds)
		o.logger.InfoContext(ctx, "timer_already_complete", attrs...)
	case timer.EventStopped:
		if ev.Entry != nil && ev.Entry.DurationSeconds != nil {
			attrs = append(attrs, "duration_seconds", *ev.Entry.DurationSeconds)
		}
		o.logger.InfoContext(ctx, "timer_stopped", attrs...)
	case timer.EventWarning:
		attrs = append(attrs, "warning", ev.Warning)
		o.logger.WarnContext(ctx, "timer_warning", attrs...)
	case timer.EventStoreError:
		attrs = append(attrs, "op", ev.Op, "error", ev.Err)
		o.logger.ErrorContext(ctx, "timer_store_error", attrs...)
	}
}
