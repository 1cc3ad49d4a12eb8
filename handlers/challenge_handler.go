package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/services"
	"dailyMotivatorAPI/utils"
)

type ChallengeHandler struct {
	challengeService *services.ChallengeService
	timeout          time.Duration
}

func NewChallengeHandler(challengeService *services.ChallengeService, timeout time.Duration) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService: challengeService,
		timeout:          timeout,
	}
}

// GET /api/challenges?category=
func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	challenges, err := h.challengeService.ListChallenges(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(challenges))
}

// GET /api/challenges/{id}
func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ch, err := h.challengeService.GetChallenge(ctx, mux.Vars(r)["id"])
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ch)
}

// GET /api/challenges/search?q=
func (h *ChallengeHandler) SearchChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results, err := h.challengeService.SearchChallenges(ctx, r.URL.Query().Get("q"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(results))
}

// POST /api/challenges/start
func (h *ChallengeHandler) StartChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req challenge.StartChallengeRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	uc, created, err := h.challengeService.StartChallenge(ctx, userID, req.ChallengeID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, uc)
}

// POST /api/challenges/complete-task
func (h *ChallengeHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req challenge.CompleteTaskRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	resp, err := h.challengeService.CompleteTask(ctx, userID, &req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}

// GET /api/user-challenges/active
func (h *ChallengeHandler) GetActiveChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	active, err := h.challengeService.GetActive(ctx, userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	// null when nothing is active
	respondWithJSON(w, http.StatusOK, active)
}

// GET /api/user-challenges
func (h *ChallengeHandler) ListUserChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	enrollments, err := h.challengeService.ListUserChallenges(ctx, userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(enrollments))
}

// POST /api/user-challenges/{id}/abandon
func (h *ChallengeHandler) AbandonChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	uc, err := h.challengeService.AbandonChallenge(ctx, userID, mux.Vars(r)["id"])
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, uc)
}
