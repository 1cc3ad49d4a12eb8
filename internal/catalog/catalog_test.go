package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/storage/memory"
	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
)

func TestDifficultyFor(t *testing.T) {
	assert.Equal(t, challenge.DifficultyBeginner, DifficultyFor(30))
	assert.Equal(t, challenge.DifficultyIntermediate, DifficultyFor(60))
	assert.Equal(t, challenge.DifficultyAdvanced, DifficultyFor(100))
}

func TestNewChallenge(t *testing.T) {
	c := NewChallenge("Coding Skills", 30, time.Now())

	assert.Equal(t, "30-Day Coding Skills Challenge", c.Title)
	assert.Equal(t, "A 30 days journey to improve your Coding Skills.", c.Description)
	require.Len(t, c.DailyTasks, 30)

	seen := map[string]bool{}
	for i, task := range c.DailyTasks {
		assert.Equal(t, i+1, task.Day)
		assert.NotEmpty(t, task.ID)
		assert.False(t, seen[task.ID], "task ids must be unique")
		seen[task.ID] = true
	}
	assert.Contains(t, c.DailyTasks[0].Task, "Day 1 task for Coding Skills")
}

func TestNewBadge(t *testing.T) {
	b := NewBadge("Health & Wellness", 60, time.Now())

	assert.Equal(t, "60-Day Health & Wellness Master", b.Name)
	assert.Equal(t, "Awarded for completing the 60-day Health & Wellness challenge.", b.Description)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Health+&+Wellness+60&background=random&size=200", b.ImageURL)
	assert.Equal(t, 60, b.Requirements.DaysCompleted)
}

func TestBuildPairsEveryChallengeWithABadge(t *testing.T) {
	challenges, badges := Build(time.Now())
	require.Len(t, challenges, len(Topics)*len(Durations))
	require.Len(t, badges, len(challenges))

	for i := range challenges {
		assert.Equal(t, challenges[i].Category, badges[i].Category)
		assert.Equal(t, challenges[i].DurationDays, badges[i].Requirements.DaysCompleted)
	}
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	require.NoError(t, EnsureSeeded(ctx, store))
	require.NoError(t, EnsureSeeded(ctx, store))

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 21, counts[storage.CollectionChallenges])
	assert.EqualValues(t, 21, counts[storage.CollectionBadges])
	assert.EqualValues(t, 6, counts[storage.CollectionQuotes])

	quotes, err := store.ListQuotes(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "Steve Jobs", quotes[0].Author)
	assert.Equal(t, "Lao Tzu", quotes[5].Author)
}

type badgeInsertFails struct {
	*memory.Store
	fail bool
}

func (s *badgeInsertFails) InsertBadges(ctx context.Context, badges []*badge.Badge) error {
	if s.fail {
		return errors.New("write timeout")
	}
	return s.Store.InsertBadges(ctx, badges)
}

func TestEnsureSeededCompletesMissingBadges(t *testing.T) {
	ctx := context.Background()
	store := &badgeInsertFails{Store: memory.New(), fail: true}

	require.Error(t, EnsureSeeded(ctx, store))
	n, err := store.CountChallenges(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 21, n)

	store.fail = false
	require.NoError(t, EnsureSeeded(ctx, store))

	counts, err := store.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 21, counts[storage.CollectionChallenges])
	assert.EqualValues(t, 21, counts[storage.CollectionBadges])

	b, err := store.FindBadge(ctx, "Fitness", 30)
	require.NoError(t, err)
	assert.Equal(t, "30-Day Fitness Master", b.Name)
}

func TestCacheDoesNotShareDailyTasks(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, EnsureSeeded(ctx, store))

	all, err := store.ListChallenges(ctx, "Mindfulness")
	require.NoError(t, err)
	require.NotEmpty(t, all)
	id := all[0].ID

	cache := NewCache(store, 8)
	fetched, err := cache.Challenge(ctx, id)
	require.NoError(t, err)
	fetched.DailyTasks[0].ID = "mutated-on-miss"

	hit, err := cache.Challenge(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated-on-miss", hit.DailyTasks[0].ID)
	hit.DailyTasks[0].ID = "mutated-on-hit"

	again, err := cache.Challenge(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, all[0].DailyTasks[0].ID, again.DailyTasks[0].ID)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, EnsureSeeded(ctx, store))

	cache := NewCache(store, 8)
	all, err := store.ListChallenges(ctx, "Fitness")
	require.NoError(t, err)
	require.NotEmpty(t, all)

	first, err := cache.Challenge(ctx, all[0].ID)
	require.NoError(t, err)
	first.Title = "mutated"

	again, err := cache.Challenge(ctx, all[0].ID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Title, "cached value must not be shared")

	b, err := cache.BadgeFor(ctx, "Fitness", 30)
	require.NoError(t, err)
	assert.Equal(t, "30-Day Fitness Master", b.Name)
	assert.Equal(t, 2, cache.Len())

	_, err = cache.Challenge(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = cache.BadgeFor(ctx, "Fitness", 7)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 2, cache.Len())

	cache.Purge()
	assert.Zero(t, cache.Len())
}
