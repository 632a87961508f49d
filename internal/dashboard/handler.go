package dashboard

import (
	"net/http"

	"github.com/carewell/clinic-portal/internal/api/respond"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// Handler serves the admin dashboard endpoints.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Overview refetches and serves the full dashboard.
// GET /api/admin/dashboard
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.logger.Error("dashboard refresh failed", "error", err)
		respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Failed to load dashboard data."))
		return
	}
	respond.JSON(w, http.StatusOK, snap)
}

// Appointments serves just the appointment list, freshly fetched.
// GET /api/admin/appointments
func (h *Handler) Appointments(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Refresh(r.Context())
	if err != nil {
		h.logger.Error("appointments refresh failed", "error", err)
		respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Failed to load appointments."))
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"appointments": snap.Appointments})
}
