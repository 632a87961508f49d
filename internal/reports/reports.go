// Package reports derives presentation statistics from the backend-computed
// report payload. The backend numbers are consumed as-is; only the
// completion rate is computed here.
package reports

import (
	"math"

	"github.com/carewell/clinic-portal/internal/upstream"
)

// MonthStat is a month bucket with its derived completion rate.
type MonthStat struct {
	Month         string `json:"month"`
	Year          int    `json:"year"`
	Appointments  int    `json:"appointments"`
	Visits        int    `json:"visits"`
	CompletionPct int    `json:"completion_pct"`
}

// Summary is the reports view served to the admin dashboard.
type Summary struct {
	TotalAppointments   int         `json:"total_appointments"`
	TotalVisits         int         `json:"total_visits"`
	PendingAppointments int         `json:"pending_appointments"`
	CompletionPct       int         `json:"completion_pct"`
	Monthly             []MonthStat `json:"monthly_stats"`
}

// CompletionPct returns round(visits/appointments*100), defined as 0 when
// there are no appointments.
func CompletionPct(appointments, visits int) int {
	if appointments <= 0 {
		return 0
	}
	return int(math.Round(float64(visits) / float64(appointments) * 100))
}

// Build derives the summary view from the raw upstream payload.
func Build(r upstream.Reports) Summary {
	monthly := make([]MonthStat, 0, len(r.MonthlyStats))
	for _, m := range r.MonthlyStats {
		monthly = append(monthly, MonthStat{
			Month:         m.Month,
			Year:          m.Year,
			Appointments:  m.Appointments,
			Visits:        m.Visits,
			CompletionPct: CompletionPct(m.Appointments, m.Visits),
		})
	}
	return Summary{
		TotalAppointments:   r.TotalAppointments,
		TotalVisits:         r.TotalVisits,
		PendingAppointments: r.PendingAppointments,
		CompletionPct:       CompletionPct(r.TotalAppointments, r.TotalVisits),
		Monthly:             monthly,
	}
}
