package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api", 5*time.Second, nil, nil)
}

func TestRequestOTPPostsEmail(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "OTP sent to email"})
	})

	if err := c.RequestOTP(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("RequestOTP: %v", err)
	}
	if gotPath != "/api/request-otp" {
		t.Errorf("path = %q, want /api/request-otp", gotPath)
	}
	if gotBody["email"] != "jane@example.com" {
		t.Errorf("email = %q", gotBody["email"])
	}
}

func TestVerifyOTPSurfacesBackendMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid OTP"})
	})

	err := c.VerifyOTP(context.Background(), "jane@example.com", "000000")
	if err == nil {
		t.Fatal("expected error")
	}
	var ue *Error
	if !errors.As(err, &ue) {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if ue.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", ue.StatusCode)
	}
	if ue.Message != "Invalid OTP" {
		t.Errorf("Message = %q", ue.Message)
	}
	if got := Message(err, "fallback"); got != "Invalid OTP" {
		t.Errorf("Message(err) = %q", got)
	}
}

func TestMessageFallback(t *testing.T) {
	if got := Message(errors.New("dial tcp: refused"), "Failed to send OTP."); got != "Failed to send OTP." {
		t.Errorf("Message = %q, want fallback", got)
	}
	if got := Message(&Error{StatusCode: 500}, "generic"); got != "generic" {
		t.Errorf("Message on empty backend message = %q, want fallback", got)
	}
}

func TestListAppointmentsDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/appointments" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"appointments": []map[string]string{
				{"name": "Jane", "email": "jane@example.com", "date": "2024-01-05", "time": "09:00"},
				{"name": "Raj", "email": "raj@example.com", "date": "10/03/2024", "time": "14:00", "prescription": "rest"},
			},
		})
	})

	appts, err := c.ListAppointments(context.Background())
	if err != nil {
		t.Fatalf("ListAppointments: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("len = %d, want 2", len(appts))
	}
	if appts[0].Completed() {
		t.Error("appointment without prescription should be pending")
	}
	if !appts[1].Completed() {
		t.Error("appointment with prescription should be completed")
	}
}

func TestPatientDataQueryEncoding(t *testing.T) {
	var gotEmail string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotEmail = r.URL.Query().Get("email")
		_ = json.NewEncoder(w).Encode(PatientData{FirstVisit: "2024-01-05"})
	})

	data, err := c.PatientData(context.Background(), "a+b@example.com")
	if err != nil {
		t.Fatalf("PatientData: %v", err)
	}
	if gotEmail != "a+b@example.com" {
		t.Errorf("email query = %q", gotEmail)
	}
	if data.FirstVisit != "2024-01-05" {
		t.Errorf("FirstVisit = %q", data.FirstVisit)
	}
}

func TestUploadPrescriptionOmitsEmptyDate(t *testing.T) {
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	})

	if err := c.UploadPrescription(context.Background(), "jane@example.com", "ibuprofen 400mg", ""); err != nil {
		t.Fatalf("UploadPrescription: %v", err)
	}
	if _, ok := gotBody["date"]; ok {
		t.Error("empty date should not be sent")
	}
	if gotBody["details"] != "ibuprofen 400mg" {
		t.Errorf("details = %q", gotBody["details"])
	}
}

func TestTransportErrorWrapped(t *testing.T) {
	c := NewClient("http://127.0.0.1:0/api", time.Second, nil, nil)
	err := c.RequestOTP(context.Background(), "jane@example.com")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var ue *Error
	if errors.As(err, &ue) {
		t.Errorf("transport failure should not be an *Error: %v", err)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"backend 404 passes through", &Error{StatusCode: http.StatusNotFound}, http.StatusNotFound},
		{"backend 400 passes through", &Error{StatusCode: http.StatusBadRequest}, http.StatusBadRequest},
		{"backend 500 reads as bad gateway", &Error{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"transport failure reads as bad gateway", errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
