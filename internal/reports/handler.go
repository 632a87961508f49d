package reports

import (
	"context"
	"net/http"

	"github.com/carewell/clinic-portal/internal/api/respond"
	"github.com/carewell/clinic-portal/internal/upstream"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// Fetcher is the slice of the upstream client the reports page needs.
type Fetcher interface {
	Reports(ctx context.Context) (*upstream.Reports, error)
}

type Handler struct {
	api    Fetcher
	logger *logging.Logger
}

func NewHandler(api Fetcher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{api: api, logger: logger}
}

// Get serves the derived report summary.
// GET /api/admin/reports
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	raw, err := h.api.Reports(r.Context())
	if err != nil {
		h.logger.Error("reports fetch failed", "error", err)
		respond.Error(w, upstream.HTTPStatus(err), upstream.Message(err, "Failed to load reports."))
		return
	}
	respond.JSON(w, http.StatusOK, Build(*raw))
}
