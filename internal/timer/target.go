package timer

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// maxTargetMinutes keeps mins*60 inside int64.
const maxTargetMinutes = float64(math.MaxInt64 / 60)

// ValidateTarget rejects targets that are not a positive number of seconds.
func ValidateTarget(seconds int64) error {
	if seconds <= 0 {
		return &ValidationError{Field: "target", Reason: "must be a positive number of seconds"}
	}
	return nil
}

// ParseTarget reads a user-entered target. Bare numbers are minutes;
// anything else must be a Go duration such as "1h30m" or "90s".
func ParseTarget(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ValidationError{Field: "target", Reason: "required"}
	}
	if mins, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(mins) || math.IsInf(mins, 0) {
			return 0, &ValidationError{Field: "target", Reason: "must be finite"}
		}
		if mins > maxTargetMinutes {
			return 0, &ValidationError{Field: "target", Reason: "too large"}
		}
		secs := int64(mins * 60)
		if err := ValidateTarget(secs); err != nil {
			return 0, err
		}
		return secs, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, &ValidationError{Field: "target", Reason: "not a number of minutes or a duration"}
	}
	secs := int64(d / time.Second)
	if err := ValidateTarget(secs); err != nil {
		return 0, err
	}
	return secs, nil
}

// ResolveTarget applies target precedence: a local target wins over the
// task's stored estimate. It reports false when neither is usable.
func ResolveTarget(local int64, localOK bool, estimate *int64) (int64, bool) {
	if localOK && local > 0 {
		return local, true
	}
	if estimate != nil && *estimate > 0 {
		return *estimate, true
	}
	return 0, false
}
