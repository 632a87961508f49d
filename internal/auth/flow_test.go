package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/carewell/clinic-portal/internal/session"
)

type fakePasscodeClient struct {
	requestCalls int
	verifyCalls  int
	requestErr   error
	verifyErr    error
	lastEmail    string
	lastOTP      string
}

func (f *fakePasscodeClient) RequestOTP(_ context.Context, email string) error {
	f.requestCalls++
	f.lastEmail = email
	return f.requestErr
}

func (f *fakePasscodeClient) VerifyOTP(_ context.Context, email, otp string) error {
	f.verifyCalls++
	f.lastEmail = email
	f.lastOTP = otp
	return f.verifyErr
}

func TestSubmitEmailAdvancesFlow(t *testing.T) {
	api := &fakePasscodeClient{}
	svc := NewService(api, "admin@clinic.example", nil, nil)

	f := NewFlow(session.RolePatient)
	if err := svc.SubmitEmail(context.Background(), f, "  Jane@Example.com "); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	if f.State != StateAwaitingOTP {
		t.Errorf("state = %q, want %q", f.State, StateAwaitingOTP)
	}
	if f.Email != "Jane@Example.com" {
		t.Errorf("email = %q, want trimmed original", f.Email)
	}
	if api.requestCalls != 1 {
		t.Errorf("requestCalls = %d, want 1", api.requestCalls)
	}
}

func TestSubmitEmailUpstreamFailureKeepsState(t *testing.T) {
	api := &fakePasscodeClient{requestErr: errors.New("boom")}
	svc := NewService(api, "admin@clinic.example", nil, nil)

	f := NewFlow(session.RolePatient)
	if err := svc.SubmitEmail(context.Background(), f, "jane@example.com"); err == nil {
		t.Fatal("SubmitEmail() expected error")
	}
	if f.State != StateAwaitingEmail {
		t.Errorf("state = %q, want %q after failure", f.State, StateAwaitingEmail)
	}
}

func TestAdminAllowListBlocksWithoutUpstreamCall(t *testing.T) {
	api := &fakePasscodeClient{}
	svc := NewService(api, "admin@clinic.example", nil, nil)

	f := NewFlow(session.RoleAdmin)
	err := svc.SubmitEmail(context.Background(), f, "intruder@example.com")
	if !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("SubmitEmail() error = %v, want ErrNotAdmin", err)
	}
	if api.requestCalls != 0 {
		t.Errorf("requestCalls = %d, want 0 for rejected admin", api.requestCalls)
	}
	if f.State != StateAwaitingEmail {
		t.Errorf("state = %q, want unchanged", f.State)
	}
}

func TestAdminAllowListIsCaseInsensitive(t *testing.T) {
	api := &fakePasscodeClient{}
	svc := NewService(api, "admin@clinic.example", nil, nil)

	f := NewFlow(session.RoleAdmin)
	if err := svc.SubmitEmail(context.Background(), f, "ADMIN@Clinic.Example"); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	if api.requestCalls != 1 {
		t.Errorf("requestCalls = %d, want 1", api.requestCalls)
	}
}

func TestSubmitOTPRequiresPendingRequest(t *testing.T) {
	api := &fakePasscodeClient{}
	svc := NewService(api, "admin@clinic.example", nil, nil)

	f := NewFlow(session.RolePatient)
	if _, err := svc.SubmitOTP(context.Background(), f, "123456"); !errors.Is(err, ErrNoPendingPasscode) {
		t.Fatalf("SubmitOTP() error = %v, want ErrNoPendingPasscode", err)
	}
	if api.verifyCalls != 0 {
		t.Errorf("verifyCalls = %d, want 0", api.verifyCalls)
	}
}

func TestSubmitOTPSuccessMintsSession(t *testing.T) {
	api := &fakePasscodeClient{}
	svc := NewService(api, "admin@clinic.example", nil, nil)

	f := NewFlow(session.RolePatient)
	if err := svc.SubmitEmail(context.Background(), f, "jane@example.com"); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	sess, err := svc.SubmitOTP(context.Background(), f, "123456")
	if err != nil {
		t.Fatalf("SubmitOTP() error = %v", err)
	}
	if f.State != StateAuthenticated {
		t.Errorf("state = %q, want %q", f.State, StateAuthenticated)
	}
	if sess.Email != "jane@example.com" || sess.Role != session.RolePatient {
		t.Errorf("session = %+v, want flow identity", sess)
	}
	if sess.CreatedAt.IsZero() {
		t.Error("session CreatedAt not stamped")
	}
	if api.lastOTP != "123456" {
		t.Errorf("lastOTP = %q, want submitted passcode", api.lastOTP)
	}
}

func TestSubmitOTPFailureKeepsAwaitingOTP(t *testing.T) {
	api := &fakePasscodeClient{}
	svc := NewService(api, "admin@clinic.example", nil, nil)

	f := NewFlow(session.RolePatient)
	if err := svc.SubmitEmail(context.Background(), f, "jane@example.com"); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	api.verifyErr = errors.New("wrong otp")
	if _, err := svc.SubmitOTP(context.Background(), f, "000000"); err == nil {
		t.Fatal("SubmitOTP() expected error")
	}
	if f.State != StateAwaitingOTP {
		t.Errorf("state = %q, want %q so the user may retry", f.State, StateAwaitingOTP)
	}
}

func TestBackReturnsToEmailStep(t *testing.T) {
	api := &fakePasscodeClient{}
	svc := NewService(api, "admin@clinic.example", nil, nil)

	f := NewFlow(session.RolePatient)
	if err := svc.SubmitEmail(context.Background(), f, "jane@example.com"); err != nil {
		t.Fatalf("SubmitEmail() error = %v", err)
	}
	f.Back()
	if f.State != StateAwaitingEmail {
		t.Errorf("state = %q, want %q", f.State, StateAwaitingEmail)
	}
	if _, err := svc.SubmitOTP(context.Background(), f, "123456"); !errors.Is(err, ErrNoPendingPasscode) {
		t.Errorf("SubmitOTP() after Back error = %v, want ErrNoPendingPasscode", err)
	}
}
