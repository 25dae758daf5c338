package dateutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxDurationSec is the longest duration, in seconds, that still fits in a
// time.Duration.
const MaxDurationSec = math.MaxInt64 / int64(time.Second)

var (
	// "1h", "30m", "45s", "1h 30m", "1h30m", "1h 1m 1s"
	unitDurationRe = regexp.MustCompile(`^(?:(\d+)h)? ?(?:(\d+)m)? ?(?:(\d+)s)?$`)
	// "MM:SS"
	minSecRe = regexp.MustCompile(`^(\d+):(\d{2})$`)
	// "HH:MM:SS"
	hourMinSecRe = regexp.MustCompile(`^(\d+):(\d{2}):(\d{2})$`)

	spaceRe = regexp.MustCompile(`\s+`)
)

// ParseDuration parses a human-entered duration into seconds.
//
// Accepted forms: "30s", "30m", "1h", "1h 30m", "1h30m", "1m 30s",
// "MM:SS" and "HH:MM:SS". Units are case-insensitive and surrounding
// whitespace is ignored. Bare numbers, negative values, totals above
// MaxDurationSec and anything else report ok == false.
func ParseDuration(text string) (seconds int, ok bool) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0, false
	}
	s = spaceRe.ReplaceAllString(s, " ")

	if m := hourMinSecRe.FindStringSubmatch(s); m != nil {
		if !belowSixty(m[2]) || !belowSixty(m[3]) {
			return 0, false
		}
		return sumUnits(m[1:4], []int64{3600, 60, 1})
	}

	if m := minSecRe.FindStringSubmatch(s); m != nil {
		if !belowSixty(m[2]) {
			return 0, false
		}
		return sumUnits(m[1:3], []int64{60, 1})
	}

	m := unitDurationRe.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "" && m[3] == "") {
		return 0, false
	}
	return sumUnits(m[1:4], []int64{3600, 60, 1})
}

// FormatDuration renders seconds using only the non-zero units, largest first:
// 0 -> "0s", 90 -> "1m 30s", 3600 -> "1h", 3661 -> "1h 1m 1s".
// Negative values are rendered with a leading minus sign.
func FormatDuration(seconds int) string {
	if seconds == 0 {
		return "0s"
	}
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	parts := make([]string, 0, 3)
	if h > 0 {
		parts = append(parts, strconv.Itoa(h)+"h")
	}
	if m > 0 {
		parts = append(parts, strconv.Itoa(m)+"m")
	}
	if s > 0 {
		parts = append(parts, strconv.Itoa(s)+"s")
	}
	return sign + strings.Join(parts, " ")
}

// sumUnits adds up digit strings scaled by the matching multiplier. Empty
// strings are skipped. The sum must stay within MaxDurationSec.
func sumUnits(digits []string, mults []int64) (int, bool) {
	var total int64
	for i, d := range digits {
		if d == "" {
			continue
		}
		n, err := strconv.ParseInt(d, 10, 64)
		if err != nil || n < 0 || n > (MaxDurationSec-total)/mults[i] {
			return 0, false
		}
		total += n * mults[i]
	}
	if total > math.MaxInt {
		return 0, false
	}
	return int(total), true
}

func belowSixty(d string) bool {
	n, err := strconv.Atoi(d)
	return err == nil && n < 60
}

// atoi converts a short digit string such as a clock field. Range checks are
// left to the caller.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
