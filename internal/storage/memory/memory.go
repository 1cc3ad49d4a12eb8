// Package memory is an in-process storage backend used for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/internal/types/goal"
	"dailyMotivatorAPI/internal/types/notification"
	"dailyMotivatorAPI/internal/types/quote"
)

type Store struct {
	mu sync.RWMutex

	challenges  map[string]*challenge.Challenge
	enrollments map[string]*challenge.UserChallenge
	badges      map[string]*badge.Badge
	userBadges  map[string]*badge.UserBadge
	quotes      map[string]*quote.Quote
	favorites   map[string]*quote.Favorite
	goals       map[string]*goal.Goal
	devices     map[string]notification.DeviceToken
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		challenges:  make(map[string]*challenge.Challenge),
		enrollments: make(map[string]*challenge.UserChallenge),
		badges:      make(map[string]*badge.Badge),
		userBadges:  make(map[string]*badge.UserBadge),
		quotes:      make(map[string]*quote.Quote),
		favorites:   make(map[string]*quote.Favorite),
		goals:       make(map[string]*goal.Goal),
		devices:     make(map[string]notification.DeviceToken),
	}
}

func newID() string {
	return uuid.NewString()
}

// --- challenges ---

func (s *Store) InsertChallenges(ctx context.Context, challenges []*challenge.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range challenges {
		if c.ID == "" {
			c.ID = newID()
		}
		s.challenges[c.ID] = c.Clone()
	}
	return nil
}

func (s *Store) ListChallenges(ctx context.Context, category string) ([]*challenge.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*challenge.Challenge, 0, len(s.challenges))
	for _, c := range s.challenges {
		if category != "" && c.Category != category {
			continue
		}
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].DurationDays != out[j].DurationDays {
			return out[i].DurationDays < out[j].DurationDays
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.challenges[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c.Clone(), nil
}

func (s *Store) CountChallenges(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.challenges)), nil
}

// --- enrollments ---

func (s *Store) findActiveLocked(userID, challengeID string) *challenge.UserChallenge {
	for _, uc := range s.enrollments {
		if uc.UserID == userID && uc.ChallengeID == challengeID && uc.Status == challenge.StatusActive {
			return uc
		}
	}
	return nil
}

func (s *Store) CreateEnrollment(ctx context.Context, uc *challenge.UserChallenge) (*challenge.UserChallenge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uc.Status == challenge.StatusActive {
		if existing := s.findActiveLocked(uc.UserID, uc.ChallengeID); existing != nil {
			return existing.Clone(), false, nil
		}
	}

	stored := uc.Clone()
	if stored.ID == "" {
		stored.ID = newID()
	}
	if stored.CompletedTasks == nil {
		stored.CompletedTasks = []string{}
	}
	s.enrollments[stored.ID] = stored
	return stored.Clone(), true, nil
}

func (s *Store) FindActiveEnrollment(ctx context.Context, userID, challengeID string) (*challenge.UserChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uc := s.findActiveLocked(userID, challengeID)
	if uc == nil {
		return nil, storage.ErrNotFound
	}
	return uc.Clone(), nil
}

func newestEnrollmentFirst(list []*challenge.UserChallenge) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartDate.Equal(list[j].StartDate) {
			return list[i].StartDate.After(list[j].StartDate)
		}
		return list[i].ID > list[j].ID
	})
}

func (s *Store) LatestActiveEnrollment(ctx context.Context, userID string) (*challenge.UserChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var active []*challenge.UserChallenge
	for _, uc := range s.enrollments {
		if uc.UserID == userID && uc.Status == challenge.StatusActive {
			active = append(active, uc)
		}
	}
	if len(active) == 0 {
		return nil, storage.ErrNotFound
	}
	newestEnrollmentFirst(active)
	return active[0].Clone(), nil
}

func (s *Store) ListEnrollments(ctx context.Context, userID string) ([]*challenge.UserChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*challenge.UserChallenge{}
	for _, uc := range s.enrollments {
		if uc.UserID == userID {
			out = append(out, uc.Clone())
		}
	}
	newestEnrollmentFirst(out)
	return out, nil
}

func (s *Store) GetEnrollment(ctx context.Context, userID, id string) (*challenge.UserChallenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uc, ok := s.enrollments[id]
	if !ok || uc.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return uc.Clone(), nil
}

func (s *Store) UpdateEnrollment(ctx context.Context, upd storage.EnrollmentUpdate) (*challenge.UserChallenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	uc, ok := s.enrollments[upd.ID]
	if !ok || uc.UserID != upd.UserID || uc.Status != upd.ExpectStatus || uc.CurrentDay != upd.ExpectDay {
		return nil, storage.ErrConflict
	}

	uc.Status = upd.Status
	uc.CurrentDay = upd.CurrentDay
	uc.CompletedTasks = append([]string{}, upd.CompletedTasks...)
	uc.LastUpdated = upd.LastUpdated
	if upd.CompletedAt != nil {
		t := *upd.CompletedAt
		uc.CompletedAt = &t
	}
	return uc.Clone(), nil
}

// --- badges ---

func (s *Store) InsertBadges(ctx context.Context, badges []*badge.Badge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range badges {
		if b.ID == "" {
			b.ID = newID()
		}
		cp := *b
		s.badges[b.ID] = &cp
	}
	return nil
}

func (s *Store) ListBadges(ctx context.Context) ([]*badge.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*badge.Badge, 0, len(s.badges))
	for _, b := range s.badges {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Requirements.DaysCompleted != out[j].Requirements.DaysCompleted {
			return out[i].Requirements.DaysCompleted < out[j].Requirements.DaysCompleted
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetBadge(ctx context.Context, id string) (*badge.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.badges[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *Store) FindBadge(ctx context.Context, category string, daysCompleted int) (*badge.Badge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *badge.Badge
	for _, b := range s.badges {
		if b.Category == category && b.Requirements.DaysCompleted == daysCompleted {
			if found == nil || b.ID < found.ID {
				found = b
			}
		}
	}
	if found == nil {
		return nil, storage.ErrNotFound
	}
	cp := *found
	return &cp, nil
}

func (s *Store) CountBadges(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.badges)), nil
}

func (s *Store) AwardBadge(ctx context.Context, userID, badgeID string, at time.Time) (*badge.UserBadge, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ub := range s.userBadges {
		if ub.UserID == userID && ub.BadgeID == badgeID {
			cp := *ub
			return &cp, false, nil
		}
	}

	ub := &badge.UserBadge{ID: newID(), UserID: userID, BadgeID: badgeID, EarnedAt: at}
	s.userBadges[ub.ID] = ub
	cp := *ub
	return &cp, true, nil
}

func (s *Store) ListUserBadges(ctx context.Context, userID string) ([]*badge.UserBadge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*badge.UserBadge{}
	for _, ub := range s.userBadges {
		if ub.UserID == userID {
			cp := *ub
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EarnedAt.Equal(out[j].EarnedAt) {
			return out[i].EarnedAt.After(out[j].EarnedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// --- quotes ---

func (s *Store) InsertQuotes(ctx context.Context, quotes []*quote.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range quotes {
		if q.ID == "" {
			q.ID = newID()
		}
		cp := *q
		s.quotes[q.ID] = &cp
	}
	return nil
}

func (s *Store) ListQuotes(ctx context.Context, category string) ([]*quote.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*quote.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		if category != "" && q.Category != category {
			continue
		}
		cp := *q
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) GetQuote(ctx context.Context, id string) (*quote.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (s *Store) GetQuotes(ctx context.Context, ids []string) ([]*quote.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*quote.Quote, 0, len(ids))
	for _, id := range ids {
		if q, ok := s.quotes[id]; ok {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) CountQuotes(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.quotes)), nil
}

// --- favorites ---

func (s *Store) AddFavorite(ctx context.Context, userID, quoteID string, at time.Time) (*quote.Favorite, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.favorites {
		if f.UserID == userID && f.QuoteID == quoteID {
			cp := *f
			return &cp, false, nil
		}
	}

	f := &quote.Favorite{ID: newID(), UserID: userID, QuoteID: quoteID, AddedAt: at}
	s.favorites[f.ID] = f
	cp := *f
	return &cp, true, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, quoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, f := range s.favorites {
		if f.UserID == userID && f.QuoteID == quoteID {
			delete(s.favorites, id)
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *Store) ListFavorites(ctx context.Context, userID string) ([]*quote.Favorite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*quote.Favorite{}
	for _, f := range s.favorites {
		if f.UserID == userID {
			cp := *f
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// --- goals ---

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) (*goal.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *g
	if cp.ID == "" {
		cp.ID = newID()
	}
	s.goals[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (s *Store) UpdateGoal(ctx context.Context, userID, id string, upd *goal.UpdateGoalRequest, at time.Time) (*goal.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return nil, storage.ErrNotFound
	}
	if upd.Title != nil {
		g.Title = *upd.Title
	}
	if upd.Description != nil {
		g.Description = *upd.Description
	}
	if upd.Completed != nil {
		g.Completed = *upd.Completed
	}
	g.UpdatedAt = at
	out := *g
	return &out, nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok || g.UserID != userID {
		return storage.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]*goal.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*goal.Goal{}
	for _, g := range s.goals {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// --- devices ---

func (s *Store) UpsertDevice(ctx context.Context, d *notification.DeviceToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.devices[d.Token] = *d
	return nil
}

func (s *Store) ListDevices(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []notification.DeviceToken{}
	for _, d := range s.devices {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Token < out[j].Token })
	return out, nil
}

// --- housekeeping ---

func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]int64{
		storage.CollectionChallenges:     int64(len(s.challenges)),
		storage.CollectionUserChallenges: int64(len(s.enrollments)),
		storage.CollectionBadges:         int64(len(s.badges)),
		storage.CollectionUserBadges:     int64(len(s.userBadges)),
		storage.CollectionQuotes:         int64(len(s.quotes)),
		storage.CollectionFavorites:      int64(len(s.favorites)),
		storage.CollectionGoals:          int64(len(s.goals)),
		storage.CollectionDevices:        int64(len(s.devices)),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}
