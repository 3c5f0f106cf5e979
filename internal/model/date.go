package model

import "time"

// DateOnly truncates t to its calendar day in UTC. All day-boundary
// comparisons in the engine happen on DateOnly values.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Days returns a duration of n calendar days.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
