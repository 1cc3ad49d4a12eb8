// Package storagetest is a conformance suite every storage backend must pass.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/internal/types/goal"
	"dailyMotivatorAPI/internal/types/notification"
	"dailyMotivatorAPI/internal/types/quote"
)

// Opener returns an empty store; the suite calls it once per subtest.
type Opener func(t *testing.T) storage.Store

func Run(t *testing.T, open Opener) {
	t.Run("Challenges", func(t *testing.T) { testChallenges(t, open(t)) })
	t.Run("EnrollmentUniqueness", func(t *testing.T) { testEnrollmentUniqueness(t, open(t)) })
	t.Run("EnrollmentActiveTieBreak", func(t *testing.T) { testActiveTieBreak(t, open(t)) })
	t.Run("EnrollmentConditionalUpdate", func(t *testing.T) { testConditionalUpdate(t, open(t)) })
	t.Run("Badges", func(t *testing.T) { testBadges(t, open(t)) })
	t.Run("Quotes", func(t *testing.T) { testQuotes(t, open(t)) })
	t.Run("Favorites", func(t *testing.T) { testFavorites(t, open(t)) })
	t.Run("Goals", func(t *testing.T) { testGoals(t, open(t)) })
	t.Run("Devices", func(t *testing.T) { testDevices(t, open(t)) })
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// MissingID is a well-formed id that no backend will have generated.
func MissingID() string {
	return "000000000000000000000000"
}

func sampleChallenge(category string, days int) *challenge.Challenge {
	tasks := make([]challenge.DailyTask, days)
	for i := range tasks {
		tasks[i] = challenge.DailyTask{ID: uuid.NewString(), Day: i + 1, Task: fmt.Sprintf("Day %d task", i+1)}
	}
	return &challenge.Challenge{
		Title:        fmt.Sprintf("%d-Day %s Challenge", days, category),
		Description:  "test challenge",
		DurationDays: days,
		Category:     category,
		Difficulty:   challenge.DifficultyBeginner,
		DailyTasks:   tasks,
		CreatedAt:    now(),
	}
}

func newEnrollment(userID, challengeID string, start time.Time) *challenge.UserChallenge {
	return &challenge.UserChallenge{
		UserID:         userID,
		ChallengeID:    challengeID,
		Status:         challenge.StatusActive,
		CurrentDay:     1,
		CompletedTasks: []string{},
		StartDate:      start,
		LastUpdated:    start,
	}
}

func seedChallenges(t *testing.T, s storage.Store, cs ...*challenge.Challenge) {
	t.Helper()
	require.NoError(t, s.InsertChallenges(context.Background(), cs))
	for _, c := range cs {
		require.NotEmpty(t, c.ID, "InsertChallenges must assign ids")
	}
}

func testChallenges(t *testing.T, s storage.Store) {
	ctx := context.Background()
	fitness := sampleChallenge("Fitness", 3)
	mind := sampleChallenge("Mindfulness", 5)
	seedChallenges(t, s, fitness, mind)

	all, err := s.ListChallenges(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyFitness, err := s.ListChallenges(ctx, "Fitness")
	require.NoError(t, err)
	require.Len(t, onlyFitness, 1)
	assert.Equal(t, fitness.ID, onlyFitness[0].ID)

	got, err := s.GetChallenge(ctx, mind.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.DurationDays)
	require.Len(t, got.DailyTasks, 5)
	assert.Equal(t, mind.DailyTasks[2].ID, got.DailyTasks[2].ID)
	assert.Equal(t, 3, got.DailyTasks[2].Day)

	_, err = s.GetChallenge(ctx, MissingID())
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.GetChallenge(ctx, "not-an-id")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	n, err := s.CountChallenges(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func testEnrollmentUniqueness(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c1 := sampleChallenge("Fitness", 3)
	c2 := sampleChallenge("Fitness", 5)
	seedChallenges(t, s, c1, c2)

	first, created, err := s.CreateEnrollment(ctx, newEnrollment("user-a", c1.ID, now()))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.ID)

	again, created, err := s.CreateEnrollment(ctx, newEnrollment("user-a", c1.ID, now().Add(time.Second)))
	require.NoError(t, err)
	assert.False(t, created, "second active enrollment in the same challenge must not be created")
	assert.Equal(t, first.ID, again.ID)

	other, created, err := s.CreateEnrollment(ctx, newEnrollment("user-a", c2.ID, now()))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)

	_, created, err = s.CreateEnrollment(ctx, newEnrollment("user-b", c1.ID, now()))
	require.NoError(t, err)
	assert.True(t, created)

	// Leaving the active state frees the slot for a new attempt.
	_, err = s.UpdateEnrollment(ctx, storage.EnrollmentUpdate{
		ID: first.ID, UserID: "user-a",
		ExpectStatus: challenge.StatusActive, ExpectDay: 1,
		Status: challenge.StatusAbandoned, CurrentDay: 1, CompletedTasks: []string{}, LastUpdated: now(),
	})
	require.NoError(t, err)

	retry, created, err := s.CreateEnrollment(ctx, newEnrollment("user-a", c1.ID, now()))
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, retry.ID)

	list, err := s.ListEnrollments(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = s.GetEnrollment(ctx, "user-b", first.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	got, err := s.GetEnrollment(ctx, "user-a", first.ID)
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusAbandoned, got.Status)
}

func testActiveTieBreak(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c1 := sampleChallenge("Fitness", 3)
	c2 := sampleChallenge("Productivity", 3)
	c3 := sampleChallenge("Mindfulness", 3)
	seedChallenges(t, s, c1, c2, c3)

	_, err := s.LatestActiveEnrollment(ctx, "user-a")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	base := now()
	_, _, err = s.CreateEnrollment(ctx, newEnrollment("user-a", c1.ID, base))
	require.NoError(t, err)
	newest, _, err := s.CreateEnrollment(ctx, newEnrollment("user-a", c2.ID, base.Add(time.Hour)))
	require.NoError(t, err)
	_, _, err = s.CreateEnrollment(ctx, newEnrollment("user-a", c3.ID, base.Add(time.Minute)))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		got, err := s.LatestActiveEnrollment(ctx, "user-a")
		require.NoError(t, err)
		assert.Equal(t, newest.ID, got.ID)
	}

	list, err := s.ListEnrollments(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, c2.ID, list[0].ChallengeID)
	assert.Equal(t, c3.ID, list[1].ChallengeID)
	assert.Equal(t, c1.ID, list[2].ChallengeID)
}

func testConditionalUpdate(t *testing.T, s storage.Store) {
	ctx := context.Background()
	c := sampleChallenge("Fitness", 2)
	seedChallenges(t, s, c)

	uc, _, err := s.CreateEnrollment(ctx, newEnrollment("user-a", c.ID, now()))
	require.NoError(t, err)

	updated, err := s.UpdateEnrollment(ctx, storage.EnrollmentUpdate{
		ID: uc.ID, UserID: "user-a",
		ExpectStatus: challenge.StatusActive, ExpectDay: 1,
		Status: challenge.StatusActive, CurrentDay: 2,
		CompletedTasks: []string{c.DailyTasks[0].ID}, LastUpdated: now(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentDay)
	assert.Equal(t, []string{c.DailyTasks[0].ID}, updated.CompletedTasks)

	// A writer that read day 1 lost the race.
	_, err = s.UpdateEnrollment(ctx, storage.EnrollmentUpdate{
		ID: uc.ID, UserID: "user-a",
		ExpectStatus: challenge.StatusActive, ExpectDay: 1,
		Status: challenge.StatusActive, CurrentDay: 2,
		CompletedTasks: []string{c.DailyTasks[1].ID}, LastUpdated: now(),
	})
	assert.ErrorIs(t, err, storage.ErrConflict)

	// Wrong owner never matches.
	_, err = s.UpdateEnrollment(ctx, storage.EnrollmentUpdate{
		ID: uc.ID, UserID: "user-b",
		ExpectStatus: challenge.StatusActive, ExpectDay: 2,
		Status: challenge.StatusActive, CurrentDay: 3, LastUpdated: now(),
	})
	assert.ErrorIs(t, err, storage.ErrConflict)

	done := now()
	completed, err := s.UpdateEnrollment(ctx, storage.EnrollmentUpdate{
		ID: uc.ID, UserID: "user-a",
		ExpectStatus: challenge.StatusActive, ExpectDay: 2,
		Status: challenge.StatusCompleted, CurrentDay: 3,
		CompletedTasks: []string{c.DailyTasks[0].ID, c.DailyTasks[1].ID},
		LastUpdated:    done, CompletedAt: &done,
	})
	require.NoError(t, err)
	assert.Equal(t, challenge.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.True(t, done.Equal(*completed.CompletedAt))

	_, err = s.FindActiveEnrollment(ctx, "user-a", c.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testBadges(t *testing.T, s storage.Store) {
	ctx := context.Background()
	b30 := &badge.Badge{Name: "30-Day Fitness Master", Description: "d", ImageURL: "u", Category: "Fitness",
		Requirements: badge.Requirements{DaysCompleted: 30}, CreatedAt: now()}
	b60 := &badge.Badge{Name: "60-Day Fitness Master", Description: "d", ImageURL: "u", Category: "Fitness",
		Requirements: badge.Requirements{DaysCompleted: 60}, CreatedAt: now()}
	require.NoError(t, s.InsertBadges(ctx, []*badge.Badge{b30, b60}))
	require.NotEmpty(t, b30.ID)

	found, err := s.FindBadge(ctx, "Fitness", 60)
	require.NoError(t, err)
	assert.Equal(t, b60.ID, found.ID)
	assert.Equal(t, 60, found.Requirements.DaysCompleted)

	_, err = s.FindBadge(ctx, "Fitness", 100)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.FindBadge(ctx, "Coding Skills", 30)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	got, err := s.GetBadge(ctx, b30.ID)
	require.NoError(t, err)
	assert.Equal(t, "30-Day Fitness Master", got.Name)

	first, created, err := s.AwardBadge(ctx, "user-a", b30.ID, now())
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.AwardBadge(ctx, "user-a", b30.ID, now().Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.EarnedAt.Equal(second.EarnedAt), "re-award must not move earned_at")

	_, created, err = s.AwardBadge(ctx, "user-b", b30.ID, now())
	require.NoError(t, err)
	assert.True(t, created)

	owned, err := s.ListUserBadges(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, b30.ID, owned[0].BadgeID)

	n, err := s.CountBadges(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func testQuotes(t *testing.T, s storage.Store) {
	ctx := context.Background()
	base := now()
	q1 := &quote.Quote{Text: "one", Author: "A", Category: "success", CreatedAt: base}
	q2 := &quote.Quote{Text: "two", Author: "B", Category: "health", CreatedAt: base.Add(time.Second)}
	q3 := &quote.Quote{Text: "three", Author: "C", Category: "success", CreatedAt: base.Add(2 * time.Second)}
	require.NoError(t, s.InsertQuotes(ctx, []*quote.Quote{q1, q2, q3}))

	all, err := s.ListQuotes(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, q1.ID, all[0].ID)

	success, err := s.ListQuotes(ctx, "success")
	require.NoError(t, err)
	assert.Len(t, success, 2)

	subset, err := s.GetQuotes(ctx, []string{q3.ID, MissingID(), q1.ID})
	require.NoError(t, err)
	assert.Len(t, subset, 2)

	_, err = s.GetQuote(ctx, MissingID())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testFavorites(t *testing.T, s storage.Store) {
	ctx := context.Background()
	q1 := &quote.Quote{Text: "one", Author: "A", Category: "success", CreatedAt: now()}
	q2 := &quote.Quote{Text: "two", Author: "B", Category: "health", CreatedAt: now()}
	require.NoError(t, s.InsertQuotes(ctx, []*quote.Quote{q1, q2}))

	base := now()
	f1, created, err := s.AddFavorite(ctx, "user-a", q1.ID, base)
	require.NoError(t, err)
	assert.True(t, created)

	dup, created, err := s.AddFavorite(ctx, "user-a", q1.ID, base.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, f1.ID, dup.ID)

	_, _, err = s.AddFavorite(ctx, "user-a", q2.ID, base.Add(time.Hour))
	require.NoError(t, err)

	list, err := s.ListFavorites(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, q2.ID, list[0].QuoteID, "newest favorite first")
	assert.Equal(t, q1.ID, list[1].QuoteID)

	err = s.RemoveFavorite(ctx, "user-b", q1.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.RemoveFavorite(ctx, "user-a", q1.ID))
	err = s.RemoveFavorite(ctx, "user-a", q1.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	list, err = s.ListFavorites(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func testGoals(t *testing.T, s storage.Store) {
	ctx := context.Background()
	base := now()

	older, err := s.CreateGoal(ctx, &goal.Goal{UserID: "user-a", Title: "Run", CreatedAt: base, UpdatedAt: base})
	require.NoError(t, err)
	require.NotEmpty(t, older.ID)
	newer, err := s.CreateGoal(ctx, &goal.Goal{UserID: "user-a", Title: "Read", Description: "books",
		CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)})
	require.NoError(t, err)

	list, err := s.ListGoals(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	done := true
	updated, err := s.UpdateGoal(ctx, "user-a", older.ID, &goal.UpdateGoalRequest{Completed: &done}, base.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Run", updated.Title, "unset fields are preserved")

	title := "Hijack"
	_, err = s.UpdateGoal(ctx, "user-b", older.ID, &goal.UpdateGoalRequest{Title: &title}, base)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = s.UpdateGoal(ctx, "user-a", MissingID(), &goal.UpdateGoalRequest{Title: &title}, base)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.DeleteGoal(ctx, "user-b", newer.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, s.DeleteGoal(ctx, "user-a", newer.ID))

	list, err = s.ListGoals(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Run", list[0].Title)

	others, err := s.ListGoals(ctx, "user-b")
	require.NoError(t, err)
	assert.Empty(t, others)
}

func testDevices(t *testing.T, s storage.Store) {
	ctx := context.Background()
	require.NoError(t, s.UpsertDevice(ctx, &notification.DeviceToken{UserID: "user-a", Token: "tok-1", Platform: "android", UpdatedAt: now()}))
	require.NoError(t, s.UpsertDevice(ctx, &notification.DeviceToken{UserID: "user-a", Token: "tok-2", Platform: "ios", UpdatedAt: now()}))

	devices, err := s.ListDevices(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, devices, 2)

	// A token re-registered by another account moves with it.
	require.NoError(t, s.UpsertDevice(ctx, &notification.DeviceToken{UserID: "user-b", Token: "tok-1", Platform: "android", UpdatedAt: now()}))

	devices, err = s.ListDevices(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "tok-2", devices[0].Token)

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[storage.CollectionDevices])
}
