// Package dateutil provides duration and time-of-day parsing, formatting and
// calendar-day helpers.
package dateutil

import "time"

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextMidnight returns the start of the calendar day following t, i.e. hour 24
// of t's day in t's location.
func NextMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location())
}

// OnDay returns the wall-clock time hour:min:sec on day's calendar date.
func OnDay(day time.Time, hour, min, sec int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, min, sec, 0, day.Location())
}
