package handlers

import (
	"context"
	"net/http"
	"time"

	"dailyMotivatorAPI/middleware"
	"dailyMotivatorAPI/services"
)

type BadgeHandler struct {
	badgeService *services.BadgeService
	timeout      time.Duration
}

func NewBadgeHandler(badgeService *services.BadgeService, timeout time.Duration) *BadgeHandler {
	return &BadgeHandler{
		badgeService: badgeService,
		timeout:      timeout,
	}
}

// GET /api/badges - the caller is optional; anonymous requests get no earned_at
func (h *BadgeHandler) ListBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, _ := middleware.GetUserID(ctx)

	badges, err := h.badgeService.ListBadges(ctx, userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(badges))
}

// GET /api/user-badges
func (h *BadgeHandler) ListUserBadges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	badges, err := h.badgeService.ListUserBadges(ctx, userID)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, list(badges))
}
