package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dailyMotivatorAPI/internal/catalog"
	"dailyMotivatorAPI/internal/storage/memory"
	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/internal/types/notification"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recordingProvider struct {
	mu     sync.Mutex
	pushes []*notification.Push
	tokens [][]notification.DeviceToken
}

func (p *recordingProvider) SendPush(ctx context.Context, tokens []notification.DeviceToken, push *notification.Push) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushes = append(p.pushes, push)
	p.tokens = append(p.tokens, tokens)
	return nil
}

func (p *recordingProvider) sent() []*notification.Push {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*notification.Push(nil), p.pushes...)
}

type fixture struct {
	store      *memory.Store
	provider   *recordingProvider
	dispatcher *NotificationDispatcher
	notifier   *NotificationService
	badges     *BadgeService
	challenges *ChallengeService
	quotes     *QuoteService
	favorites  *FavoriteService
	goals      *GoalService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.New()
	require.NoError(t, catalog.EnsureSeeded(context.Background(), store))

	cache := catalog.NewCache(store, 64)
	provider := &recordingProvider{}
	dispatcher := NewNotificationDispatcher(store, provider, 2)
	t.Cleanup(dispatcher.Stop)

	notifier := NewNotificationService(store, dispatcher)
	badges := NewBadgeService(store, cache, notifier)

	return &fixture{
		store:      store,
		provider:   provider,
		dispatcher: dispatcher,
		notifier:   notifier,
		badges:     badges,
		challenges: NewChallengeService(store, cache, badges),
		quotes:     NewQuoteService(store),
		favorites:  NewFavoriteService(store),
		goals:      NewGoalService(store),
	}
}

// challengeFor returns the seeded challenge for category with the given length.
func (f *fixture) challengeFor(t *testing.T, category string, days int) *challenge.Challenge {
	t.Helper()
	list, err := f.store.ListChallenges(context.Background(), category)
	require.NoError(t, err)
	for _, c := range list {
		if c.DurationDays == days {
			return c
		}
	}
	t.Fatalf("no %d-day %s challenge seeded", days, category)
	return nil
}

// fakeClock makes timeNow advance one second per call for the duration of the test.
func fakeClock(t *testing.T) {
	t.Helper()
	var mu sync.Mutex
	current := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	prev := timeNow
	timeNow = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
	t.Cleanup(func() { timeNow = prev })
}
