package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseTimestamp turns free-text timestamp cells into an instant, or nil
// when the text cannot be dated. The sheet's native export format
// M/D/YYYY H:MM:SS is tried first and read as local calendar components
// with no timezone conversion; anything else goes through a generic
// parser. Never panics, even on garbage.
func ParseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	if t, ok := parseNative(raw); ok {
		return &t
	}
	if t, ok := parseFreeform(raw); ok {
		return &t
	}
	return nil
}

// parseNative handles the slash-delimited export format, e.g.
// "3/1/2024 8:05:09". Components are validated by round-tripping through
// time.Date so overflow dates like 2/30 are rejected instead of
// normalized.
func parseNative(raw string) (time.Time, bool) {
	parts := strings.Fields(raw)
	if len(parts) != 2 {
		return time.Time{}, false
	}

	dateParts := strings.Split(parts[0], "/")
	timeParts := strings.Split(parts[1], ":")
	if len(dateParts) != 3 || len(timeParts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 0, 6)
	for _, s := range append(dateParts, timeParts...) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}, false
		}
		nums = append(nums, n)
	}

	month, day, year := nums[0], nums[1], nums[2]
	hour, minute, sec := nums[3], nums[4], nums[5]
	if year < 1000 || hour > 23 || minute > 59 || sec > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.Local)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// parseFreeform delegates to dateparse in local mode. dateparse can panic
// on certain malformed inputs, and a human-edited sheet will produce them.
func parseFreeform(raw string) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	t, err := dateparse.ParseLocal(raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
