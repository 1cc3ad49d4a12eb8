package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"dailyMotivatorAPI/internal/apperr"
	"dailyMotivatorAPI/internal/catalog"
	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/metrics"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/challenge"
)

// A stale progress write is re-read and re-applied at most this many times.
const maxProgressAttempts = 3

type ChallengeService struct {
	store   storage.Store
	catalog *catalog.Cache
	badges  *BadgeService
}

func NewChallengeService(store storage.Store, cache *catalog.Cache, badges *BadgeService) *ChallengeService {
	return &ChallengeService{
		store:   store,
		catalog: cache,
		badges:  badges,
	}
}

func (s *ChallengeService) ListChallenges(ctx context.Context, category string) ([]*challenge.Challenge, error) {
	list, err := s.store.ListChallenges(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.Internal("Failed to fetch challenges", err)
	}
	return list, nil
}

func (s *ChallengeService) GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	ch, err := s.catalog.Challenge(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Challenge not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch challenge", err)
	}
	return ch, nil
}

type challengeTitles []*challenge.Challenge

func (c challengeTitles) String(i int) string { return c[i].Title }
func (c challengeTitles) Len() int            { return len(c) }

func (s *ChallengeService) SearchChallenges(ctx context.Context, query string) ([]*challenge.Challenge, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.BadRequest("Search query is required")
	}

	all, err := s.store.ListChallenges(ctx, "")
	if err != nil {
		return nil, apperr.Internal("Failed to fetch challenges", err)
	}

	idx := fuzzyRank(query, challengeTitles(all), maxSearchResults)
	out := make([]*challenge.Challenge, len(idx))
	for i, j := range idx {
		out[i] = all[j]
	}
	return out, nil
}

// StartChallenge enrolls the user. Starting a challenge that is already active for the user
// returns that enrollment with created=false.
func (s *ChallengeService) StartChallenge(ctx context.Context, userID, challengeID string) (*challenge.UserChallengeDetail, bool, error) {
	ch, err := s.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, false, err
	}

	now := timeNow()
	uc := &challenge.UserChallenge{
		UserID:         userID,
		ChallengeID:    ch.ID,
		Status:         challenge.StatusActive,
		CurrentDay:     1,
		CompletedTasks: []string{},
		StartDate:      now,
		LastUpdated:    now,
	}

	stored, created, err := s.store.CreateEnrollment(ctx, uc)
	if err != nil {
		return nil, false, apperr.Internal("Failed to start challenge", err)
	}

	if created {
		metrics.ChallengesStarted.WithLabelValues(ch.Category).Inc()
		logger.Info().Str("user_id", userID).Str("challenge_id", ch.ID).Msg("Challenge started")
	}
	return &challenge.UserChallengeDetail{UserChallenge: *stored, Challenge: ch}, created, nil
}

// advance computes the write that records taskID against uc. It reports whether the write moves
// the enrollment into the completed state.
func advance(uc *challenge.UserChallenge, ch *challenge.Challenge, taskID string, now time.Time) (storage.EnrollmentUpdate, bool) {
	upd := storage.EnrollmentUpdate{
		ID:             uc.ID,
		UserID:         uc.UserID,
		ExpectStatus:   uc.Status,
		ExpectDay:      uc.CurrentDay,
		Status:         uc.Status,
		CurrentDay:     uc.CurrentDay,
		CompletedTasks: append([]string{}, uc.CompletedTasks...),
		LastUpdated:    now,
	}

	if !uc.HasCompleted(taskID) {
		upd.CompletedTasks = append(upd.CompletedTasks, taskID)
		upd.CurrentDay++
	}

	completing := uc.Status == challenge.StatusActive && upd.CurrentDay > ch.DurationDays
	if completing {
		upd.Status = challenge.StatusCompleted
		upd.CompletedAt = &now
	}
	return upd, completing
}

// CompleteTask records the task for the caller's active enrollment. Only the task of the current
// day moves progress; an already-recorded task is accepted again without effect. The badge is
// awarded before the completing write is saved, so a failed save can be retried and still lands
// the enrollment in completed.
func (s *ChallengeService) CompleteTask(ctx context.Context, userID string, req *challenge.CompleteTaskRequest) (*challenge.CompleteTaskResponse, error) {
	ch, err := s.GetChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}
	task, ok := ch.Task(req.TaskID)
	if !ok {
		return nil, apperr.BadRequest("Task does not belong to this challenge")
	}

	badgeEarned := false
	for attempt := 1; attempt <= maxProgressAttempts; attempt++ {
		uc, err := s.store.FindActiveEnrollment(ctx, userID, ch.ID)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NotFound("Active challenge not found")
		}
		if err != nil {
			return nil, apperr.Internal("Failed to load challenge progress", err)
		}

		if !uc.HasCompleted(task.ID) && task.Day != uc.CurrentDay {
			return nil, apperr.BadRequest("Task is not for the current day")
		}

		now := timeNow()
		upd, completing := advance(uc, ch, task.ID, now)

		if completing {
			created, err := s.badges.AwardForChallenge(ctx, userID, ch, now)
			if err != nil {
				return nil, err
			}
			badgeEarned = badgeEarned || created
		}

		updated, err := s.store.UpdateEnrollment(ctx, upd)
		if errors.Is(err, storage.ErrConflict) {
			metrics.ProgressConflicts.Inc()
			logger.Debug().Str("user_id", userID).Int("attempt", attempt).Msg("Stale progress write, retrying")
			continue
		}
		if err != nil {
			return nil, apperr.Internal("Failed to save challenge progress", err)
		}

		if upd.CurrentDay > uc.CurrentDay {
			metrics.TasksCompleted.WithLabelValues(ch.Category).Inc()
		}
		if completing {
			metrics.ChallengesCompleted.WithLabelValues(ch.Category).Inc()
		}

		return &challenge.CompleteTaskResponse{
			UserChallenge: &challenge.UserChallengeDetail{UserChallenge: *updated, Challenge: ch},
			BadgeEarned:   badgeEarned,
		}, nil
	}

	return nil, apperr.Conflict("Challenge progress changed concurrently, please retry")
}

// GetActive returns the most recently started active enrollment, or nil when there is none.
func (s *ChallengeService) GetActive(ctx context.Context, userID string) (*challenge.UserChallengeDetail, error) {
	uc, err := s.store.LatestActiveEnrollment(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Internal("Failed to fetch active challenge", err)
	}
	return s.withChallenge(ctx, uc), nil
}

func (s *ChallengeService) ListUserChallenges(ctx context.Context, userID string) ([]*challenge.UserChallengeDetail, error) {
	list, err := s.store.ListEnrollments(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch user challenges", err)
	}

	out := make([]*challenge.UserChallengeDetail, len(list))
	for i, uc := range list {
		out[i] = s.withChallenge(ctx, uc)
	}
	return out, nil
}

func (s *ChallengeService) AbandonChallenge(ctx context.Context, userID, enrollmentID string) (*challenge.UserChallengeDetail, error) {
	for attempt := 1; attempt <= maxProgressAttempts; attempt++ {
		uc, err := s.store.GetEnrollment(ctx, userID, enrollmentID)
		if errors.Is(err, storage.ErrNotFound) || (err == nil && uc.Status != challenge.StatusActive) {
			return nil, apperr.NotFound("Active challenge not found")
		}
		if err != nil {
			return nil, apperr.Internal("Failed to load challenge progress", err)
		}

		updated, err := s.store.UpdateEnrollment(ctx, storage.EnrollmentUpdate{
			ID:             uc.ID,
			UserID:         userID,
			ExpectStatus:   challenge.StatusActive,
			ExpectDay:      uc.CurrentDay,
			Status:         challenge.StatusAbandoned,
			CurrentDay:     uc.CurrentDay,
			CompletedTasks: uc.CompletedTasks,
			LastUpdated:    timeNow(),
		})
		if errors.Is(err, storage.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, apperr.Internal("Failed to abandon challenge", err)
		}
		return s.withChallenge(ctx, updated), nil
	}

	return nil, apperr.Conflict("Challenge progress changed concurrently, please retry")
}

// withChallenge joins the catalog entry; an enrollment whose challenge vanished is returned bare.
func (s *ChallengeService) withChallenge(ctx context.Context, uc *challenge.UserChallenge) *challenge.UserChallengeDetail {
	detail := &challenge.UserChallengeDetail{UserChallenge: *uc}
	ch, err := s.catalog.Challenge(ctx, uc.ChallengeID)
	if err != nil {
		logger.Warn().Err(err).Str("challenge_id", uc.ChallengeID).Msg("Enrollment references unknown challenge")
		return detail
	}
	detail.Challenge = ch
	return detail
}
