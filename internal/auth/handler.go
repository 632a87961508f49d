package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/carewell/clinic-portal/internal/api/respond"
	"github.com/carewell/clinic-portal/internal/session"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// Handler exposes the login flow over HTTP. The same handler serves the
// patient and admin entrances; the role is fixed per route at registration.
type Handler struct {
	svc          *Service
	flows        *FlowStore
	sessions     *session.Store
	cookieSecure bool
	logger       *logging.Logger
}

func NewHandler(svc *Service, flows *FlowStore, sessions *session.Store, cookieSecure bool, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		svc:          svc,
		flows:        flows,
		sessions:     sessions,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

func flowCookieName(role session.Role) string {
	return "portal_login_" + string(role)
}

func (h *Handler) setFlowCookie(w http.ResponseWriter, role session.Role, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flowCookieName(role),
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearFlowCookie(w http.ResponseWriter, role session.Role) {
	http.SetCookie(w, &http.Cookie{
		Name:     flowCookieName(role),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func flowIDFromRequest(r *http.Request, role session.Role) (string, bool) {
	c, err := r.Cookie(flowCookieName(role))
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

type emailRequest struct {
	Email string `json:"email"`
}

type otpRequest struct {
	OTP string `json:"otp"`
}

// RequestPasscode starts a fresh flow for the role and submits the email.
func (h *Handler) RequestPasscode(role session.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req emailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		email := strings.TrimSpace(req.Email)
		if email == "" {
			respond.Error(w, http.StatusBadRequest, "Email is required")
			return
		}

		f := NewFlow(role)
		if err := h.svc.SubmitEmail(r.Context(), f, email); err != nil {
			if errors.Is(err, ErrNotAdmin) {
				respond.Error(w, http.StatusForbidden, "Only the clinic administrator can log in here")
				return
			}
			h.logger.Error("passcode request failed", "role", role, "error", err)
			respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Failed to send OTP. Please try again."))
			return
		}

		id := uuid.NewString()
		if err := h.flows.Save(r.Context(), id, f); err != nil {
			h.logger.Error("flow save failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		h.setFlowCookie(w, role, id)
		respond.JSON(w, http.StatusOK, map[string]string{"message": "OTP sent to your email!"})
	}
}

// VerifyPasscode completes the flow and establishes a session.
func (h *Handler) VerifyPasscode(role session.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req otpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		otp := strings.TrimSpace(req.OTP)
		if otp == "" {
			respond.Error(w, http.StatusBadRequest, "OTP is required")
			return
		}

		id, ok := flowIDFromRequest(r, role)
		if !ok {
			respond.Error(w, http.StatusBadRequest, "No passcode request in progress")
			return
		}
		f, err := h.flows.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrFlowNotFound) {
				respond.Error(w, http.StatusBadRequest, "No passcode request in progress")
				return
			}
			h.logger.Error("flow load failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}

		sess, err := h.svc.SubmitOTP(r.Context(), f, otp)
		if err != nil {
			switch {
			case errors.Is(err, ErrNoPendingPasscode):
				respond.Error(w, http.StatusBadRequest, "No passcode request in progress")
			case errors.Is(err, ErrNotAdmin):
				respond.Error(w, http.StatusForbidden, "Only the clinic administrator can log in here")
			default:
				respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Invalid OTP. Please try again."))
			}
			return
		}

		token, err := h.sessions.Create(r.Context(), *sess)
		if err != nil {
			h.logger.Error("session create failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		// The flow record is spent; drop it so the passcode step cannot be
		// replayed.
		if err := h.flows.Delete(r.Context(), id); err != nil {
			h.logger.Warn("flow delete failed", "error", err)
		}
		h.clearFlowCookie(w, role)
		session.SetCookie(w, token, h.cookieSecure)
		respond.JSON(w, http.StatusOK, map[string]string{
			"message": "Login successful!",
			"role":    string(sess.Role),
			"email":   sess.Email,
		})
	}
}

// Back returns a flow from the passcode step to the email step.
func (h *Handler) Back(role session.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := flowIDFromRequest(r, role)
		if !ok {
			respond.JSON(w, http.StatusOK, map[string]string{"message": "ok"})
			return
		}
		f, err := h.flows.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, ErrFlowNotFound) {
				respond.JSON(w, http.StatusOK, map[string]string{"message": "ok"})
				return
			}
			h.logger.Error("flow load failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		f.Back()
		if err := h.flows.Save(r.Context(), id, f); err != nil {
			h.logger.Error("flow save failed", "error", err)
			respond.Error(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"message": "ok"})
	}
}

// Logout destroys the session record and clears the cookie. Logging out
// without a session is fine.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := session.TokenFromRequest(r); ok {
		if err := h.sessions.Delete(r.Context(), token); err != nil {
			h.logger.Warn("session delete failed", "error", err)
		}
	}
	session.ClearCookie(w)
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// SessionInfo reports the current session, if any, so the UI can resume it.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	token, ok := session.TokenFromRequest(r)
	if !ok {
		respond.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	sess, err := h.sessions.Get(r.Context(), token)
	if err != nil {
		respond.JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"role":          sess.Role,
		"email":         sess.Email,
	})
}
