// Package schedule indexes appointments onto calendar days. Appointment
// dates arrive in two encodings, ISO 8601 (YYYY-MM-DD, optionally with a
// time suffix) and slash-delimited DD/MM/YYYY, and comparison is by
// calendar day only.
package schedule

import (
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// ParseDay parses a date string into a calendar day (midnight UTC).
// The second return value is false for anything that matches neither
// encoding; such rows are excluded from every day bucket rather than
// mis-bucketed or treated as an error.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, "/") {
		t, err := time.ParseInLocation("02/01/2006", s, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	// ISO 8601: the calendar day is the first ten characters; any time
	// suffix is ignored for day matching.
	if len(s) >= len(dayLayout) {
		t, err := time.ParseInLocation(dayLayout, s[:len(dayLayout)], time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}

// ParseDayOrEpoch is the sort key for appointment ordering: rows with an
// unparseable date sort as the Unix epoch, so they surface first ascending
// and last descending.
func ParseDayOrEpoch(s string) time.Time {
	if t, ok := ParseDay(s); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// FormatDay renders a day in the ISO encoding used for bucket keys.
func FormatDay(t time.Time) string {
	return t.Format(dayLayout)
}
