// Package patients derives per-patient records from the flat appointment
// list. Email is the only identity key on the wire, so grouping normalizes
// it; everything else is derived from date ordering within a group.
package patients

import (
	"sort"
	"strings"
	"time"

	"github.com/carewell/clinic-portal/internal/schedule"
	"github.com/carewell/clinic-portal/internal/upstream"
)

// Patient is a derived record, never persisted. Visits are ordered by visit
// date descending (prescription-history order).
type Patient struct {
	Name        string                 `json:"name"`
	Email       string                 `json:"email"`
	Phone       string                 `json:"phone"`
	FirstVisit  string                 `json:"first_visit"`
	LatestVisit string                 `json:"latest_visit"`
	Visits      []upstream.Appointment `json:"visits"`
}

// Aggregate groups appointments by lower-cased email and derives each
// patient's identity fields and visit range. Re-running aggregation on the
// same input yields identical records. The result is ordered by group key
// for deterministic output.
func Aggregate(appts []upstream.Appointment) []Patient {
	groups := make(map[string][]upstream.Appointment)
	for _, a := range appts {
		key := groupKey(a.Email)
		groups[key] = append(groups[key], a)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]Patient, 0, len(keys))
	for _, key := range keys {
		out = append(out, buildPatient(groups[key]))
	}
	return out
}

// Search filters patients by a case-insensitive substring of name or email.
// An empty query returns the input unchanged.
func Search(list []Patient, query string) []Patient {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	var out []Patient
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Email), query) {
			out = append(out, p)
		}
	}
	return out
}

// SortVisitsDesc orders visits by visit_date (fallback: booked date)
// descending, in place. Unparseable dates sort as the epoch and land last.
func SortVisitsDesc(visits []upstream.Appointment) {
	sort.SliceStable(visits, func(i, j int) bool {
		return visitDay(visits[j]).Before(visitDay(visits[i]))
	})
}

func buildPatient(group []upstream.Appointment) Patient {
	// Earliest booked appointment supplies the identity fields; ties keep
	// source array order (the sort is stable).
	asc := make([]upstream.Appointment, len(group))
	copy(asc, group)
	sort.SliceStable(asc, func(i, j int) bool {
		return schedule.ParseDayOrEpoch(asc[i].Date).Before(schedule.ParseDayOrEpoch(asc[j].Date))
	})
	first := asc[0]

	desc := make([]upstream.Appointment, len(group))
	copy(desc, group)
	SortVisitsDesc(desc)

	latest := desc[0].VisitDate
	if latest == "" {
		latest = desc[0].Date
	}

	return Patient{
		Name:        first.Name,
		Email:       first.Email,
		Phone:       first.Phone,
		FirstVisit:  first.Date,
		LatestVisit: latest,
		Visits:      desc,
	}
}

func visitDay(a upstream.Appointment) time.Time {
	if a.VisitDate != "" {
		return schedule.ParseDayOrEpoch(a.VisitDate)
	}
	return schedule.ParseDayOrEpoch(a.Date)
}

func groupKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
