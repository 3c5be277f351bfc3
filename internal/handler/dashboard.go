package handler

import (
	"net/http"

	"github.com/eehealth/api/internal/ctxkeys"
	"github.com/eehealth/api/internal/service"
)

type DashboardHandler struct {
	summaryService *service.SummaryService
	clock          *Clock
}

func NewDashboardHandler(summaryService *service.SummaryService, clock *Clock) *DashboardHandler {
	return &DashboardHandler{
		summaryService: summaryService,
		clock:          clock,
	}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	today, err := h.clock.DateParam(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := h.summaryService.Summary(r.Context(), user.ID, today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
