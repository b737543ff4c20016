package session

import (
	"context"
	"strconv"

	"github.com/sadopc/taskday/internal/local"
	"github.com/sadopc/taskday/internal/timer"
)

// Known preference keys.
const (
	SettingDefaultTarget = "default_target_minutes"
	SettingDailyGoal     = "daily_goal"
	SettingTickInterval  = "tick_interval_ms"
	SettingWeekStart     = "week_start"
)

func (s *Session) Setting(ctx context.Context, key string) (string, error) {
	return s.local.GetSetting(ctx, key)
}

func (s *Session) Settings(ctx context.Context) ([]local.Setting, error) {
	return s.local.GetAllSettings(ctx)
}

// SetSetting validates numeric preferences before storing them.
func (s *Session) SetSetting(ctx context.Context, key, value string) error {
	switch key {
	case SettingDefaultTarget, SettingDailyGoal, SettingTickInterval:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return &timer.ValidationError{Field: key, Reason: "must be a positive integer"}
		}
	case SettingWeekStart:
		if value != "monday" && value != "sunday" {
			return &timer.ValidationError{Field: key, Reason: "must be monday or sunday"}
		}
	}
	return s.local.SetSetting(ctx, key, value)
}

// DefaultTarget is the preferred target for tasks that have none, in
// seconds.
func (s *Session) DefaultTarget(ctx context.Context) int64 {
	return int64(s.local.IntSetting(ctx, SettingDefaultTarget, 25)) * 60
}

// DailyGoal is the per-day tracked time goal in seconds.
func (s *Session) DailyGoal(ctx context.Context) int64 {
	return int64(s.local.IntSetting(ctx, SettingDailyGoal, 28800))
}
