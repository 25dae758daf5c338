package dateutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ClockFormat selects how times of day are rendered.
type ClockFormat string

const (
	Clock24 ClockFormat = "24h"
	Clock12 ClockFormat = "12h"
)

// Valid returns true if the clock format is a known value.
func (f ClockFormat) Valid() bool {
	switch f {
	case Clock24, Clock12:
		return true
	default:
		return false
	}
}

var (
	clock24Re = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	clock12Re = regexp.MustCompile(`^(\d{1,2}):(\d{2}) ?([ap]m)$`)
)

// ParseTime parses a time of day and places it on day's calendar date.
//
// Accepted forms are 24-hour "H:MM", "HH:MM" and "HH:MM:SS", and 12-hour
// "H:MM AM" / "H:MMpm" (case-insensitive). Out-of-range components and
// unrecognized text report ok == false.
func ParseTime(text string, day time.Time) (t time.Time, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return time.Time{}, false
	}

	if m := clock12Re.FindStringSubmatch(s); m != nil {
		hour, _ := atoi(m[1])
		min, _ := atoi(m[2])
		if hour < 1 || hour > 12 || min > 59 {
			return time.Time{}, false
		}
		hour %= 12
		if m[3] == "pm" {
			hour += 12
		}
		return OnDay(day, hour, min, 0), true
	}

	if m := clock24Re.FindStringSubmatch(s); m != nil {
		hour, _ := atoi(m[1])
		min, _ := atoi(m[2])
		sec := 0
		if m[3] != "" {
			sec, _ = atoi(m[3])
		}
		if hour > 23 || min > 59 || sec > 59 {
			return time.Time{}, false
		}
		return OnDay(day, hour, min, sec), true
	}

	return time.Time{}, false
}

// FormatTime renders t as "09:30" (24-hour) or "9:30 AM" (12-hour).
// Unknown formats fall back to 24-hour.
func FormatTime(t time.Time, format ClockFormat) string {
	if format == Clock12 {
		hour := t.Hour() % 12
		if hour == 0 {
			hour = 12
		}
		meridiem := "AM"
		if t.Hour() >= 12 {
			meridiem = "PM"
		}
		return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), meridiem)
	}
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
