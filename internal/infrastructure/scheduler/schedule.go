package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ParseSchedule parses a standard five-field cron expression ("0 2 * * *").
// Descriptors such as "@daily" are accepted too.
func ParseSchedule(expr string) (cron.Schedule, error) {
	expr = strings.Join(strings.Fields(expr), " ")
	if expr == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidSchedule)
	}
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, expr, err)
	}
	return schedule, nil
}

// ShouldRun reports whether a job is due at now given its last successful run.
// A job that never ran is due immediately; otherwise it is due once the first
// activation after lastRun has been reached.
func ShouldRun(schedule cron.Schedule, lastRun *time.Time, now time.Time) bool {
	if lastRun == nil {
		return true
	}
	return !schedule.Next(*lastRun).After(now)
}

// NextRun returns the next activation strictly after the later of lastRun and now
func NextRun(schedule cron.Schedule, lastRun *time.Time, now time.Time) time.Time {
	from := now
	if lastRun != nil && lastRun.After(now) {
		from = *lastRun
	}
	return schedule.Next(from)
}
