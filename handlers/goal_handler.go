package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"dailyMotivatorAPI/internal/types/goal"
	"dailyMotivatorAPI/services"
	"dailyMotivatorAPI/utils"
)

type GoalHandler struct {
	goalService *services.GoalService
	timeout     time.Duration
}

func NewGoalHandler(goalService *services.GoalService, timeout time.Duration) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		timeout:     timeout,
	}
}

// GET /api/goals
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	goals, err := h.goalService.ListGoals(ctx, userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(goals))
}

// POST /api/goals
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req goal.CreateGoalRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	g, err := h.goalService.CreateGoal(ctx, userID, &req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, g)
}

// PUT /api/goals/{id}
func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req goal.UpdateGoalRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	g, err := h.goalService.UpdateGoal(ctx, userID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, g)
}

// DELETE /api/goals/{id}
func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.goalService.DeleteGoal(ctx, userID, mux.Vars(r)["id"]); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
