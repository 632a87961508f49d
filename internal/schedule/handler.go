package schedule

import (
	"context"
	"net/http"

	"github.com/carewell/clinic-portal/internal/api/respond"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// Lister is the slice of the upstream client the calendar needs.
type Lister interface {
	ListAppointments(ctx context.Context) ([]upstream.Appointment, error)
}

type Handler struct {
	api    Lister
	logger *logging.Logger
}

func NewHandler(api Lister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{api: api, logger: logger}
}

// Day serves the appointments on one calendar day. Without a date parameter
// it serves the full day index instead, for rendering the month view.
// GET /api/admin/calendar?date=2026-09-15
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")

	appts, err := h.api.ListAppointments(r.Context())
	if err != nil {
		h.logger.Error("calendar fetch failed", "error", err)
		respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Failed to load the calendar."))
		return
	}

	if raw == "" {
		respond.JSON(w, http.StatusOK, map[string]any{"days": Buckets(appts)})
		return
	}

	day, ok := ParseDay(raw)
	if !ok {
		respond.Error(w, http.StatusBadRequest, "Invalid date")
		return
	}
	onDay := On(day, appts)
	if onDay == nil {
		onDay = []upstream.Appointment{}
	}
	respond.JSON(w, http.StatusOK, map[string]any{
		"date":         FormatDay(day),
		"appointments": onDay,
	})
}
