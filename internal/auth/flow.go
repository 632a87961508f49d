// Package auth implements the OTP login flow shared by the patient and
// admin entrances: request a passcode for an email, verify it, and mint a
// session. The admin instantiation is additionally gated by a local
// allow-list check against the single configured admin address. That check
// is a convenience that saves a passcode round trip; the upstream verify
// call remains the only real authority.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carewell/clinic-portal/internal/observability/metrics"
	"github.com/carewell/clinic-portal/internal/session"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// State of a login flow.
type State string

const (
	StateAwaitingEmail State = "awaiting_email"
	StateAwaitingOTP   State = "awaiting_otp"
	StateAuthenticated State = "authenticated"
)

var (
	// ErrNotAdmin rejects a non-allow-listed address locally, before any
	// upstream call.
	ErrNotAdmin = errors.New("auth: only the configured admin email can log in")

	// ErrNoPendingPasscode means verify was submitted with no passcode
	// request in progress.
	ErrNoPendingPasscode = errors.New("auth: no passcode request in progress")
)

// PasscodeClient is the slice of the upstream client the flow needs.
type PasscodeClient interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, otp string) error
}

// Flow is one login attempt's state machine. It is persisted between the
// request and verify steps.
type Flow struct {
	Role  session.Role `json:"role"`
	State State        `json:"state"`
	Email string       `json:"email,omitempty"`
}

// NewFlow starts a flow at AwaitingEmail.
func NewFlow(role session.Role) *Flow {
	return &Flow{Role: role, State: StateAwaitingEmail}
}

// Back returns an AwaitingOTP flow to AwaitingEmail. The submitted email is
// kept so the form can be resubmitted; the pending passcode step is void.
func (f *Flow) Back() {
	f.State = StateAwaitingEmail
}

// Service drives flow transitions against the upstream backend.
type Service struct {
	api        PasscodeClient
	adminEmail string
	metrics    *metrics.PortalMetrics
	logger     *logging.Logger
}

func NewService(api PasscodeClient, adminEmail string, m *metrics.PortalMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		api:        api,
		adminEmail: adminEmail,
		metrics:    m,
		logger:     logger,
	}
}

// SubmitEmail handles AwaitingEmail → AwaitingOTP. On failure the flow stays
// in AwaitingEmail and the error carries the surfaceable message.
func (s *Service) SubmitEmail(ctx context.Context, f *Flow, email string) error {
	email = strings.TrimSpace(email)
	if f.Role == session.RoleAdmin && !s.allowAdmin(email) {
		s.metrics.ObserveLogin(string(f.Role), "request", "rejected")
		return ErrNotAdmin
	}
	if err := s.api.RequestOTP(ctx, email); err != nil {
		s.metrics.ObserveLogin(string(f.Role), "request", "error")
		return err
	}
	f.Email = email
	f.State = StateAwaitingOTP
	s.metrics.ObserveLogin(string(f.Role), "request", "ok")
	return nil
}

// SubmitOTP handles AwaitingOTP → Authenticated and returns the session to
// persist. On failure the flow remains in AwaitingOTP.
func (s *Service) SubmitOTP(ctx context.Context, f *Flow, otp string) (*session.Session, error) {
	if f.State != StateAwaitingOTP || f.Email == "" {
		return nil, ErrNoPendingPasscode
	}
	// Re-check the allow-list locally before spending the network call.
	if f.Role == session.RoleAdmin && !s.allowAdmin(f.Email) {
		s.metrics.ObserveLogin(string(f.Role), "verify", "rejected")
		return nil, ErrNotAdmin
	}
	if err := s.api.VerifyOTP(ctx, f.Email, otp); err != nil {
		s.metrics.ObserveLogin(string(f.Role), "verify", "error")
		return nil, err
	}
	f.State = StateAuthenticated
	s.metrics.ObserveLogin(string(f.Role), "verify", "ok")
	s.logger.Info("login verified", "role", f.Role, "email", f.Email)
	return &session.Session{
		Email:     f.Email,
		Role:      f.Role,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// allowAdmin compares against the configured admin address, case-insensitively.
func (s *Service) allowAdmin(email string) bool {
	return s.adminEmail != "" && strings.EqualFold(strings.TrimSpace(email), s.adminEmail)
}
