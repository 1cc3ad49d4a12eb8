package handlers

import (
	"context"
	"net/http"
	"time"

	"dailyMotivatorAPI/internal/types/notification"
	"dailyMotivatorAPI/services"
	"dailyMotivatorAPI/utils"
)

type NotificationHandler struct {
	notificationService *services.NotificationService
	timeout             time.Duration
}

func NewNotificationHandler(notificationService *services.NotificationService, timeout time.Duration) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		timeout:             timeout,
	}
}

// POST /api/notifications/register-device
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req notification.RegisterDeviceRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	device, err := h.notificationService.RegisterDevice(ctx, userID, &req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, device)
}
