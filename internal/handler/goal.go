package handler

import (
	"log/slog"
	"net/http"

	"github.com/eehealth/api/internal/apperr"
	"github.com/eehealth/api/internal/ctxkeys"
	"github.com/eehealth/api/internal/model"
	"github.com/eehealth/api/internal/repository"
	"github.com/eehealth/api/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createGoalRequest struct {
	Area        string `json:"area"`
	BigGoal     string `json:"bigGoal"`
	DailyAction string `json:"dailyAction"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	sortBy := r.URL.Query().Get("sort")
	switch sortBy {
	case "":
		sortBy = repository.GoalSortRecent
	case repository.GoalSortRecent, repository.GoalSortStreak, repository.GoalSortArea:
	default:
		writeError(w, r, apperr.Validation("sort", "must be one of recent, streak, area"))
		return
	}

	goals, err := h.goalService.Goals(r.Context(), user.ID, sortBy)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	goal, err := h.goalService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req createGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), user.ID, req.Area, req.BigGoal, req.DailyAction)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("goal created", "user_id", user.ID, "goal_id", goal.ID, "area", goal.Area)
	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var patch model.GoalPatch
	err := decodeJSON(w, r, &patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	goal, err := h.goalService.Update(r.Context(), user.ID, r.PathValue("id"), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.goalService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
