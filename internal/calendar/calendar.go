// Package calendar holds the date arithmetic shared by the generation engine
// and the reschedule coordinator. Weeks start on Sunday and all dates are
// normalized to midnight UTC before comparison.
package calendar

import "time"

// Normalize strips the time-of-day component and forces UTC.
func Normalize(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayOfWeek returns 0 for Sunday through 6 for Saturday.
func DayOfWeek(t time.Time) int {
	return int(Normalize(t).Weekday())
}

// StartOfWeek returns the Sunday of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	n := Normalize(t)
	return n.AddDate(0, 0, -int(n.Weekday()))
}

// IsSameWeek reports whether a and b fall in the same Sunday-Saturday week.
func IsSameWeek(a, b time.Time) bool {
	return StartOfWeek(a).Equal(StartOfWeek(b))
}

// DatesBetween returns every calendar date in [start, end] inclusive.
// Returns nil when start is after end.
func DatesBetween(start, end time.Time) []time.Time {
	start = Normalize(start)
	end = Normalize(end)
	if start.After(end) {
		return nil
	}
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
