package upstream

// Appointment is a raw row as returned by the clinic backend. There is no
// appointment id on the wire; identity is positional within a fetched list.
type Appointment struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Notes        string `json:"notes,omitempty"`
	Prescription string `json:"prescription,omitempty"`
	VisitDate    string `json:"visit_date,omitempty"`
}

// Completed reports whether a visit outcome has been recorded.
// An appointment without a prescription is pending.
func (a Appointment) Completed() bool {
	return a.Prescription != ""
}

// BookingRequest is the payload for creating an appointment.
type BookingRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes,omitempty"`
}

// MonthlyStat is one backend-computed month bucket, consumed as-is.
type MonthlyStat struct {
	Month        string `json:"month"`
	Year         int    `json:"year"`
	Appointments int    `json:"appointments"`
	Visits       int    `json:"visits"`
}

// Reports is the backend aggregate report payload.
type Reports struct {
	TotalAppointments   int           `json:"total_appointments"`
	TotalVisits         int           `json:"total_visits"`
	PendingAppointments int           `json:"pending_appointments"`
	MonthlyStats        []MonthlyStat `json:"monthly_stats"`
}

// PatientData is the pre-filtered history for a single email.
type PatientData struct {
	FirstVisit  string        `json:"first_visit"`
	LatestVisit string        `json:"latest_visit"`
	Visits      []Appointment `json:"visits"`
}

type appointmentsEnvelope struct {
	Appointments []Appointment `json:"appointments"`
}

type messageEnvelope struct {
	Message string `json:"message"`
}
