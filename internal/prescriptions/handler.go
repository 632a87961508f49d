// Package prescriptions records visit outcomes. An upload is forwarded to
// the backend and then confirmed by refetching, so the admin view always
// reflects what the backend actually stored rather than an optimistic local
// update.
package prescriptions

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/carewell/clinic-portal/internal/api/respond"
	"github.com/carewell/clinic-portal/internal/dashboard"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// Uploader is the slice of the upstream client the handler needs.
type Uploader interface {
	UploadPrescription(ctx context.Context, email, details, date string) error
}

// Refresher refetches the dashboard after a successful upload.
type Refresher interface {
	Refresh(ctx context.Context) (*dashboard.Snapshot, error)
}

type Handler struct {
	api       Uploader
	refresher Refresher
	logger    *logging.Logger
}

func NewHandler(api Uploader, refresher Refresher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{api: api, refresher: refresher, logger: logger}
}

type uploadRequest struct {
	Email        string `json:"email"`
	Prescription string `json:"prescription"`
	VisitDate    string `json:"visit_date,omitempty"`
}

// Upload records a prescription against a patient's visit.
// POST /api/admin/prescriptions
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Prescription = strings.TrimSpace(req.Prescription)
	req.VisitDate = strings.TrimSpace(req.VisitDate)

	if req.Email == "" || req.Prescription == "" {
		respond.Error(w, http.StatusBadRequest, "Email and prescription details are required")
		return
	}

	if err := h.api.UploadPrescription(r.Context(), req.Email, req.Prescription, req.VisitDate); err != nil {
		h.logger.Error("prescription upload failed", "email", req.Email, "error", err)
		// Echo the attempted input so the form can be retried as-is.
		respond.JSON(w, upstream.HTTPStatus(err), map[string]any{
			"error":     upstream.Message(err, "Failed to upload prescription. Please try again."),
			"attempted": req,
		})
		return
	}

	// Confirm by refetching. The upload succeeded either way; a failed
	// refetch only means the confirmation view is unavailable.
	snap, err := h.refresher.Refresh(r.Context())
	if err != nil {
		h.logger.Warn("post-upload refresh failed", "email", req.Email, "error", err)
		respond.JSON(w, http.StatusOK, map[string]any{
			"message": "Prescription uploaded successfully!",
		})
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"message":      "Prescription uploaded successfully!",
		"appointments": snap.Appointments,
	})
}
