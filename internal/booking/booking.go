// Package booking validates and submits appointment requests and serves the
// clinic's service catalogue and bookable time slots.
package booking

import (
	"regexp"
	"strings"

	"github.com/carewell/clinic-portal/internal/upstream"
)

// TimeSlots are the bookable appointment times, morning and afternoon.
var TimeSlots = []string{
	"09:00", "10:00", "11:00", "12:00",
	"14:00", "15:00", "16:00", "17:00",
}

// Service is one entry of the clinic's treatment catalogue.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Services is the static catalogue shown on the booking page.
var Services = []Service{
	{Name: "Physiotherapy Consultation", Description: "Initial assessment and personalised treatment planning."},
	{Name: "Rehabilitation Programs", Description: "Structured recovery programs for injuries and surgeries."},
	{Name: "Pain Management", Description: "Targeted therapy for chronic and acute pain relief."},
	{Name: "Sports Injury Treatment", Description: "Specialised care for athletic injuries and performance recovery."},
	{Name: "Post-Surgical Recovery", Description: "Guided rehabilitation following surgical procedures."},
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidationErrors maps a field name to its display message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, field+": "+msg)
	}
	return "booking: invalid request: " + strings.Join(parts, "; ")
}

// Validate normalizes the request in place and reports every field problem
// at once so the form can surface them together.
func Validate(req *upstream.BookingRequest) ValidationErrors {
	errs := ValidationErrors{}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	req.Notes = strings.TrimSpace(req.Notes)

	if req.Name == "" {
		errs["name"] = "Name is required"
	}
	switch {
	case req.Email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(req.Email):
		errs["email"] = "Please enter a valid email address"
	}
	switch {
	case req.Phone == "":
		errs["phone"] = "Phone number is required"
	case digitCount(req.Phone) < 10:
		errs["phone"] = "Please enter a valid phone number"
	}
	if req.Date == "" {
		errs["date"] = "Date is required"
	}
	switch {
	case req.Time == "":
		errs["time"] = "Time is required"
	case !validSlot(req.Time):
		errs["time"] = "Please choose one of the available time slots"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func validSlot(t string) bool {
	for _, slot := range TimeSlots {
		if t == slot {
			return true
		}
	}
	return false
}
