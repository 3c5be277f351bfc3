package handler

import (
	"net/http"

	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/ctxkeys"
	"github.com/eehealth/api/internal/model"
	"github.com/eehealth/api/internal/service"
	"github.com/eehealth/api/internal/validation"
)

type ProgressHandler struct {
	progressService *service.ProgressService
	clock           *Clock
}

func NewProgressHandler(progressService *service.ProgressService, clock *Clock) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		clock:           clock,
	}
}

type recordProgressRequest struct {
	Date      string `json:"date"`
	GoalID    string `json:"goalId"`
	Completed *bool  `json:"completed"`
	Area      string `json:"area"`
}

// Record toggles one goal's completion for one day.
func (h *ProgressHandler) Record(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req recordProgressRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	date, err := validation.ParseDate("date", req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.Completed == nil {
		writeError(w, r, apperr.Validation("completed", "is required"))
		return
	}

	record, err := h.progressService.Record(r.Context(), user.ID, model.ProgressInput{
		Date:      date,
		GoalID:    req.GoalID,
		Completed: *req.Completed,
		Area:      req.Area,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// History lists records between from and to. to defaults to today and from to the week before it.
func (h *ProgressHandler) History(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	to, err := h.clock.DateParam(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}

	from := to.AddDays(-(service.WeekDays - 1))
	if value := r.URL.Query().Get("from"); value != "" {
		from, err = validation.ParseDate("from", value)
		if err != nil {
			writeError(w, r, err)
			return
		}
	}

	records, err := h.progressService.History(r.Context(), user.ID, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *ProgressHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	asOf, err := h.clock.DateParam(r, "asOf")
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := h.progressService.Streaks(r.Context(), user.ID, asOf)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
