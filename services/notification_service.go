package services

import (
	"context"
	"fmt"
	"strings"

	"dailyMotivatorAPI/internal/apperr"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/internal/types/notification"
)

type NotificationService struct {
	store      storage.DeviceStore
	dispatcher *NotificationDispatcher
}

func NewNotificationService(store storage.DeviceStore, dispatcher *NotificationDispatcher) *NotificationService {
	return &NotificationService{
		store:      store,
		dispatcher: dispatcher,
	}
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID string, req *notification.RegisterDeviceRequest) (*notification.DeviceToken, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, apperr.BadRequest("Device token is required")
	}

	device := &notification.DeviceToken{
		UserID:    userID,
		Token:     token,
		Platform:  req.Platform,
		UpdatedAt: timeNow(),
	}
	if err := s.store.UpsertDevice(ctx, device); err != nil {
		return nil, apperr.Internal("Failed to register device", err)
	}
	return device, nil
}

// NotifyBadgeEarned queues a push; delivery failures never reach the caller.
func (s *NotificationService) NotifyBadgeEarned(userID string, b *badge.Badge, ch *challenge.Challenge) {
	if s == nil || s.dispatcher == nil {
		return
	}

	s.dispatcher.Enqueue(&notification.Push{
		UserID: userID,
		Type:   notification.NotificationBadgeEarned,
		Title:  "New badge earned!",
		Body:   fmt.Sprintf("You completed the %s and earned %s.", ch.Title, b.Name),
		Data: map[string]any{
			"badge_id":     b.ID,
			"challenge_id": ch.ID,
			"image_url":    b.ImageURL,
		},
	})
}
