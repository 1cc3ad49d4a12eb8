package notification

import (
	"time"
)

type NotificationType string

const (
	NotificationBadgeEarned        NotificationType = "badge_earned"
	NotificationChallengeCompleted NotificationType = "challenge_completed"
)

type DeviceToken struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Push is a rendered notification ready for delivery to a user's devices.
type Push struct {
	UserID string
	Type   NotificationType
	Title  string
	Body   string
	Data   map[string]any
}

type RegisterDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=ios android web"`
}
