package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carewell/clinic-portal/internal/upstream"
)

func validRequest() upstream.BookingRequest {
	return upstream.BookingRequest{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "+1 (555) 123-4567",
		Date:  "2026-09-15",
		Time:  "09:00",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*upstream.BookingRequest)
		wantField string
	}{
		{"missing name", func(r *upstream.BookingRequest) { r.Name = "  " }, "name"},
		{"missing email", func(r *upstream.BookingRequest) { r.Email = "" }, "email"},
		{"malformed email", func(r *upstream.BookingRequest) { r.Email = "jane@nodot" }, "email"},
		{"email with spaces", func(r *upstream.BookingRequest) { r.Email = "ja ne@example.com" }, "email"},
		{"missing phone", func(r *upstream.BookingRequest) { r.Phone = "" }, "phone"},
		{"short phone", func(r *upstream.BookingRequest) { r.Phone = "555-1234" }, "phone"},
		{"missing date", func(r *upstream.BookingRequest) { r.Date = "" }, "date"},
		{"missing time", func(r *upstream.BookingRequest) { r.Time = "" }, "time"},
		{"lunch hour", func(r *upstream.BookingRequest) { r.Time = "13:00" }, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			errs := Validate(&req)
			assert.Contains(t, errs, tt.wantField)
		})
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := validRequest()
	assert.Nil(t, Validate(&req))
}

func TestValidateNormalizesFields(t *testing.T) {
	req := validRequest()
	req.Name = "  Jane Doe  "
	req.Email = " jane@example.com "
	if errs := Validate(&req); errs != nil {
		t.Fatalf("Validate() = %v", errs)
	}
	assert.Equal(t, "Jane Doe", req.Name)
	assert.Equal(t, "jane@example.com", req.Email)
}

func TestValidateReportsAllProblemsAtOnce(t *testing.T) {
	req := upstream.BookingRequest{}
	errs := Validate(&req)
	assert.Len(t, errs, 5)
}

func TestPhoneCountsDigitsOnly(t *testing.T) {
	req := validRequest()
	req.Phone = "(555) 123-4567"
	assert.Nil(t, Validate(&req))
}

type fakeBooker struct {
	calls int
	last  upstream.BookingRequest
	err   error
}

func (f *fakeBooker) BookAppointment(_ context.Context, req upstream.BookingRequest) error {
	f.calls++
	f.last = req
	return f.err
}

func TestBookHandlerSuccess(t *testing.T) {
	api := &fakeBooker{}
	h := NewHandler(api, nil)

	body := `{"name":"Jane Doe","email":"jane@example.com","phone":"5551234567","date":"2026-09-15","time":"10:00","notes":"knee pain"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Book(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if api.calls != 1 {
		t.Fatalf("calls = %d, want 1", api.calls)
	}
	assert.Equal(t, "knee pain", api.last.Notes)
}

func TestBookHandlerValidationFailureSkipsUpstream(t *testing.T) {
	api := &fakeBooker{}
	h := NewHandler(api, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{"name":"Jane"}`))
	rec := httptest.NewRecorder()
	h.Book(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if api.calls != 0 {
		t.Errorf("calls = %d, want 0", api.calls)
	}
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "phone")
}

func TestBookHandlerSurfacesBackendMessage(t *testing.T) {
	api := &fakeBooker{err: &upstream.Error{StatusCode: http.StatusConflict, Message: "This slot is already booked"}}
	h := NewHandler(api, nil)

	body := `{"name":"Jane Doe","email":"jane@example.com","phone":"5551234567","date":"2026-09-15","time":"10:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Book(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "This slot is already booked")
}

func TestListServices(t *testing.T) {
	h := NewHandler(&fakeBooker{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	rec := httptest.NewRecorder()
	h.ListServices(rec, req)

	var body struct {
		Services  []Service `json:"services"`
		TimeSlots []string  `json:"time_slots"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	assert.Len(t, body.Services, 5)
	assert.Equal(t, TimeSlots, body.TimeSlots)
}
