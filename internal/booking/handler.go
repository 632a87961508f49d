package booking

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/carewell/clinic-portal/internal/api/respond"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// Booker is the slice of the upstream client the handler needs.
type Booker interface {
	BookAppointment(ctx context.Context, req upstream.BookingRequest) error
}

type Handler struct {
	api    Booker
	logger *logging.Logger
}

func NewHandler(api Booker, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{api: api, logger: logger}
}

// Book validates the form and forwards it to the backend. Validation
// failures come back as a per-field map so the UI can highlight each input.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	var req upstream.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := Validate(&req); errs != nil {
		respond.JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "Please correct the highlighted fields",
			"fields": errs,
		})
		return
	}

	if err := h.api.BookAppointment(r.Context(), req); err != nil {
		h.logger.Error("booking failed", "email", req.Email, "error", err)
		respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Failed to book appointment. Please try again."))
		return
	}
	respond.Message(w, http.StatusCreated, "Appointment booked successfully!")
}

// ListServices serves the treatment catalogue and bookable slots.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"services":   Services,
		"time_slots": TimeSlots,
	})
}
