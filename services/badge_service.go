package services

import (
	"context"
	"errors"
	"time"

	"dailyMotivatorAPI/internal/apperr"
	"dailyMotivatorAPI/internal/catalog"
	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/metrics"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
)

type BadgeService struct {
	store    storage.BadgeStore
	catalog  *catalog.Cache
	notifier *NotificationService
}

func NewBadgeService(store storage.BadgeStore, cache *catalog.Cache, notifier *NotificationService) *BadgeService {
	return &BadgeService{
		store:    store,
		catalog:  cache,
		notifier: notifier,
	}
}

// AwardForChallenge grants the badge matching ch's category and length. It returns true only when
// this call minted the award.
func (s *BadgeService) AwardForChallenge(ctx context.Context, userID string, ch *challenge.Challenge, at time.Time) (bool, error) {
	b, err := s.catalog.BadgeFor(ctx, ch.Category, ch.DurationDays)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Warn().Str("category", ch.Category).Int("days", ch.DurationDays).Msg("No badge defined for completed challenge")
		return false, nil
	}
	if err != nil {
		return false, apperr.Internal("Failed to look up badge", err)
	}

	award, created, err := s.store.AwardBadge(ctx, userID, b.ID, at)
	if err != nil {
		return false, apperr.Internal("Failed to award badge", err)
	}
	if !created {
		return false, nil
	}

	metrics.BadgesAwarded.Inc()
	logger.Info().Str("user_id", userID).Str("badge_id", award.BadgeID).Str("badge", b.Name).Msg("Badge awarded")
	s.notifier.NotifyBadgeEarned(userID, b, ch)
	return true, nil
}

// ListBadges returns the whole catalog; when userID is set each badge carries the caller's
// earned_at.
func (s *BadgeService) ListBadges(ctx context.Context, userID string) ([]*badge.BadgeWithStatus, error) {
	all, err := s.store.ListBadges(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch badges", err)
	}

	earned := map[string]time.Time{}
	if userID != "" {
		owned, err := s.store.ListUserBadges(ctx, userID)
		if err != nil {
			return nil, apperr.Internal("Failed to fetch user badges", err)
		}
		for _, ub := range owned {
			earned[ub.BadgeID] = ub.EarnedAt
		}
	}

	out := make([]*badge.BadgeWithStatus, len(all))
	for i, b := range all {
		out[i] = &badge.BadgeWithStatus{Badge: *b}
		if at, ok := earned[b.ID]; ok {
			at := at
			out[i].EarnedAt = &at
		}
	}
	return out, nil
}

func (s *BadgeService) ListUserBadges(ctx context.Context, userID string) ([]*badge.EarnedBadge, error) {
	owned, err := s.store.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch user badges", err)
	}

	out := make([]*badge.EarnedBadge, 0, len(owned))
	for _, ub := range owned {
		b, err := s.store.GetBadge(ctx, ub.BadgeID)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.Internal("Failed to fetch badge", err)
		}
		out = append(out, &badge.EarnedBadge{UserBadge: *ub, Badge: b})
	}
	return out, nil
}
