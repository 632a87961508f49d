package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/carewell/clinic-portal/internal/observability/metrics"
	"github.com/carewell/clinic-portal/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Error is a failed backend call. Message carries the backend-provided
// human-readable message when the response body had one; callers surface it
// directly or substitute their own fallback text.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream: status %d", e.StatusCode)
}

// Message extracts the backend-provided message from err, or returns fallback.
func Message(err error, fallback string) string {
	var ue *Error
	if errors.As(err, &ue) && ue.Message != "" {
		return ue.Message
	}
	return fallback
}

// HTTPStatus maps a client error to the status the portal should answer
// with. Backend 4xx statuses pass through; everything else, including
// transport failures, reads as a bad gateway.
func HTTPStatus(err error) int {
	var ue *Error
	if errors.As(err, &ue) && ue.StatusCode >= 400 && ue.StatusCode < 500 {
		return ue.StatusCode
	}
	return http.StatusBadGateway
}

// Client is the single configured HTTP client for the clinic backend.
// All portal data access routes through it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
	metrics    *metrics.PortalMetrics
	tracer     trace.Tracer
}

// NewClient creates a backend client. baseURL includes any path prefix,
// e.g. "https://backend.example.com/api". metrics may be nil.
func NewClient(baseURL string, timeout time.Duration, m *metrics.PortalMetrics, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    m,
		tracer:     otel.Tracer("portal.internal.upstream"),
	}
}

// RequestOTP asks the backend to issue a passcode for email.
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	return c.post(ctx, "request_otp", "/request-otp", map[string]string{"email": email}, nil)
}

// VerifyOTP authenticates (email, otp) against the backend.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.post(ctx, "verify_otp", "/verify-otp", map[string]string{"email": email, "otp": otp}, nil)
}

// ListAppointments fetches the full appointment list.
func (c *Client) ListAppointments(ctx context.Context) ([]Appointment, error) {
	var out appointmentsEnvelope
	if err := c.get(ctx, "list_appointments", "/appointments", nil, &out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}

// BookAppointment submits a new appointment request.
func (c *Client) BookAppointment(ctx context.Context, req BookingRequest) error {
	return c.post(ctx, "book_appointment", "/appointments", req, nil)
}

// Reports fetches backend-computed aggregate statistics.
func (c *Client) Reports(ctx context.Context) (*Reports, error) {
	var out Reports
	if err := c.get(ctx, "reports", "/reports", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PatientData fetches the visit history pre-filtered to one email.
func (c *Client) PatientData(ctx context.Context, email string) (*PatientData, error) {
	var out PatientData
	q := url.Values{"email": {email}}
	if err := c.get(ctx, "patient_data", "/patient-data", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPrescription attaches a prescription record to a patient's visit.
// date is optional; the backend defaults it.
func (c *Client) UploadPrescription(ctx context.Context, email, details, date string) error {
	body := map[string]string{"email": email, "details": details}
	if date != "" {
		body["date"] = date
	}
	return c.post(ctx, "upload_prescription", "/upload-prescription", body, nil)
}

func (c *Client) post(ctx context.Context, op, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("upstream: marshal %s request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("upstream: create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, op, out)
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("upstream: create %s request: %w", op, err)
	}
	return c.do(req, op, out)
}

func (c *Client) do(req *http.Request, op string, out interface{}) error {
	ctx, span := c.tracer.Start(req.Context(), "upstream."+op)
	defer span.End()
	req = req.WithContext(ctx)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveUpstream(op, "error", time.Since(start).Seconds())
		return fmt.Errorf("upstream: %s: %w", op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		c.metrics.ObserveUpstream(op, "error", time.Since(start).Seconds())
		return fmt.Errorf("upstream: read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var env messageEnvelope
		if jsonErr := json.Unmarshal(respBody, &env); jsonErr == nil {
			apiErr.Message = env.Message
		}
		span.RecordError(apiErr)
		c.metrics.ObserveUpstream(op, "error", time.Since(start).Seconds())
		c.logger.Warn("upstream request failed",
			"op", op,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return apiErr
	}

	c.metrics.ObserveUpstream(op, "ok", time.Since(start).Seconds())

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("upstream: decode %s response: %w", op, err)
	}
	return nil
}
