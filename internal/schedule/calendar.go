package schedule

import (
	"time"

	"github.com/carewell/clinic-portal/internal/upstream"
)

// On returns the appointments whose date falls on the given calendar day.
// A day with no matches yields an empty (nil) slice, not an error.
func On(day time.Time, appts []upstream.Appointment) []upstream.Appointment {
	dayKey := FormatDay(day)
	var out []upstream.Appointment
	for _, a := range appts {
		d, ok := ParseDay(a.Date)
		if !ok {
			continue
		}
		if FormatDay(d) == dayKey {
			out = append(out, a)
		}
	}
	return out
}

// Buckets partitions the parseable subset of appts by calendar day, keyed by
// ISO day string. Every appointment with a parseable date lands in exactly
// one bucket; unparseable rows appear in none.
func Buckets(appts []upstream.Appointment) map[string][]upstream.Appointment {
	out := make(map[string][]upstream.Appointment)
	for _, a := range appts {
		d, ok := ParseDay(a.Date)
		if !ok {
			continue
		}
		key := FormatDay(d)
		out[key] = append(out[key], a)
	}
	return out
}
