package patients

import (
	"context"
	"net/http"

	"github.com/carewell/clinic-portal/internal/api/respond"
	"github.com/carewell/clinic-portal/internal/session"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// API is the slice of the upstream client the patient views need.
type API interface {
	ListAppointments(ctx context.Context) ([]upstream.Appointment, error)
	PatientData(ctx context.Context, email string) (*upstream.PatientData, error)
}

type Handler struct {
	api    API
	logger *logging.Logger
}

func NewHandler(api API, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{api: api, logger: logger}
}

// List serves the aggregated patient records, freshly derived from the full
// appointment list. An optional q parameter filters by name or email.
// GET /api/admin/patients?q=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	appts, err := h.api.ListAppointments(r.Context())
	if err != nil {
		h.logger.Error("patient list fetch failed", "error", err)
		respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Failed to load patients."))
		return
	}
	list := Search(Aggregate(appts), r.URL.Query().Get("q"))
	if list == nil {
		list = []Patient{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{"patients": list})
}

// History serves the logged-in patient's own visit history. The email
// always comes from the session, never from the request, so a patient can
// only see their own record.
// GET /api/patient/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Please log in to view your history")
		return
	}

	data, err := h.api.PatientData(r.Context(), sess.Email)
	if err != nil {
		h.logger.Error("patient history fetch failed", "email", sess.Email, "error", err)
		respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Failed to load your visit history."))
		return
	}
	// The backend ought to return visits newest first; sort anyway so the
	// history page never depends on upstream ordering.
	SortVisitsDesc(data.Visits)
	respond.JSON(w, http.StatusOK, data)
}
