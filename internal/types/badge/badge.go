package badge

import (
	"time"
)

type Requirements struct {
	DaysCompleted int `json:"days_completed" db:"days_completed"`
}

type Badge struct {
	ID           string       `json:"id" db:"id"`
	Name         string       `json:"name" db:"name"`
	Description  string       `json:"description" db:"description"`
	ImageURL     string       `json:"image_url" db:"image_url"`
	Category     string       `json:"category" db:"category"`
	Requirements Requirements `json:"requirements" db:"requirements"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

type UserBadge struct {
	ID       string    `json:"id" db:"id"`
	UserID   string    `json:"user_id" db:"user_id"`
	BadgeID  string    `json:"badge_id" db:"badge_id"`
	EarnedAt time.Time `json:"earned_at" db:"earned_at"`
}

// BadgeWithStatus annotates a catalog badge with the caller's award time, nil when not owned.
type BadgeWithStatus struct {
	Badge
	EarnedAt *time.Time `json:"earned_at"`
}

type EarnedBadge struct {
	UserBadge
	Badge *Badge `json:"badge"`
}
