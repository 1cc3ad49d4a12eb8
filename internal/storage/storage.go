// Package storage defines the persistence contract shared by the MongoDB, PostgreSQL and
// in-memory backends.
package storage

import (
	"context"
	"errors"
	"time"

	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/internal/types/goal"
	"dailyMotivatorAPI/internal/types/notification"
	"dailyMotivatorAPI/internal/types/quote"
)

var (
	// ErrNotFound is returned when no record matches the given key (including ownership).
	ErrNotFound = errors.New("storage: not found")
	// ErrConflict is returned by conditional updates whose precondition no longer holds.
	ErrConflict = errors.New("storage: conflicting update")
)

// Collection names, shared by every backend for Counts.
const (
	CollectionChallenges     = "challenges"
	CollectionUserChallenges = "userchallenges"
	CollectionBadges         = "badges"
	CollectionUserBadges     = "userbadges"
	CollectionQuotes         = "quotes"
	CollectionFavorites      = "userfavorites"
	CollectionGoals          = "goals"
	CollectionDevices        = "devicetokens"
)

type ChallengeStore interface {
	InsertChallenges(ctx context.Context, challenges []*challenge.Challenge) error
	ListChallenges(ctx context.Context, category string) ([]*challenge.Challenge, error)
	GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error)
	CountChallenges(ctx context.Context) (int64, error)
}

// EnrollmentUpdate is a conditional write: it applies only while the stored record still has
// ExpectStatus and ExpectDay.
type EnrollmentUpdate struct {
	ID           string
	UserID       string
	ExpectStatus challenge.Status
	ExpectDay    int

	Status         challenge.Status
	CurrentDay     int
	CompletedTasks []string
	LastUpdated    time.Time
	CompletedAt    *time.Time
}

type EnrollmentStore interface {
	// CreateEnrollment inserts uc unless an active enrollment for the same user and challenge
	// exists, in which case the existing one is returned with created=false.
	CreateEnrollment(ctx context.Context, uc *challenge.UserChallenge) (stored *challenge.UserChallenge, created bool, err error)
	FindActiveEnrollment(ctx context.Context, userID, challengeID string) (*challenge.UserChallenge, error)
	// LatestActiveEnrollment returns the active enrollment with the latest start date, ties
	// broken by the greatest id.
	LatestActiveEnrollment(ctx context.Context, userID string) (*challenge.UserChallenge, error)
	ListEnrollments(ctx context.Context, userID string) ([]*challenge.UserChallenge, error)
	GetEnrollment(ctx context.Context, userID, id string) (*challenge.UserChallenge, error)
	UpdateEnrollment(ctx context.Context, upd EnrollmentUpdate) (*challenge.UserChallenge, error)
}

type BadgeStore interface {
	InsertBadges(ctx context.Context, badges []*badge.Badge) error
	ListBadges(ctx context.Context) ([]*badge.Badge, error)
	GetBadge(ctx context.Context, id string) (*badge.Badge, error)
	FindBadge(ctx context.Context, category string, daysCompleted int) (*badge.Badge, error)
	CountBadges(ctx context.Context) (int64, error)
	// AwardBadge records ownership once per (user, badge); created is false when it already existed.
	AwardBadge(ctx context.Context, userID, badgeID string, at time.Time) (award *badge.UserBadge, created bool, err error)
	ListUserBadges(ctx context.Context, userID string) ([]*badge.UserBadge, error)
}

type QuoteStore interface {
	InsertQuotes(ctx context.Context, quotes []*quote.Quote) error
	ListQuotes(ctx context.Context, category string) ([]*quote.Quote, error)
	GetQuote(ctx context.Context, id string) (*quote.Quote, error)
	GetQuotes(ctx context.Context, ids []string) ([]*quote.Quote, error)
	CountQuotes(ctx context.Context) (int64, error)
}

type FavoriteStore interface {
	AddFavorite(ctx context.Context, userID, quoteID string, at time.Time) (fav *quote.Favorite, created bool, err error)
	RemoveFavorite(ctx context.Context, userID, quoteID string) error
	// ListFavorites returns the user's favorites, newest first.
	ListFavorites(ctx context.Context, userID string) ([]*quote.Favorite, error)
}

type GoalStore interface {
	CreateGoal(ctx context.Context, g *goal.Goal) (*goal.Goal, error)
	// UpdateGoal and DeleteGoal match on id and owner in one query.
	UpdateGoal(ctx context.Context, userID, id string, upd *goal.UpdateGoalRequest, at time.Time) (*goal.Goal, error)
	DeleteGoal(ctx context.Context, userID, id string) error
	ListGoals(ctx context.Context, userID string) ([]*goal.Goal, error)
}

type DeviceStore interface {
	UpsertDevice(ctx context.Context, d *notification.DeviceToken) error
	ListDevices(ctx context.Context, userID string) ([]notification.DeviceToken, error)
}

type Store interface {
	ChallengeStore
	EnrollmentStore
	BadgeStore
	QuoteStore
	FavoriteStore
	GoalStore
	DeviceStore

	// Counts returns the number of records per collection.
	Counts(ctx context.Context) (map[string]int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
