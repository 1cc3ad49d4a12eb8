// Package catalog owns the static reference data (challenges, badges, quotes): how it is generated,
// seeded into an empty store, and cached for lookups.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/internal/types/quote"
)

var Topics = []string{
	"Health & Wellness",
	"Fitness",
	"Mindfulness",
	"Coding Skills",
	"Productivity",
	"Relationships",
	"Mental Health",
}

var Durations = []int{30, 60, 100}

var seedQuotes = []struct {
	text, author, category string
}{
	{"The only way to do great work is to love what you do.", "Steve Jobs", "success"},
	{"Believe you can and you're halfway there.", "Theodore Roosevelt", "personal-growth"},
	{"Health is the greatest gift.", "Buddha", "health"},
	{"Happiness depends upon ourselves.", "Aristotle", "relationships"},
	{"Your time is limited, don't waste it living someone else's life.", "Steve Jobs", "success"},
	{"The journey of a thousand miles begins with one step.", "Lao Tzu", "personal-growth"},
}

func DifficultyFor(durationDays int) challenge.Difficulty {
	switch {
	case durationDays <= 30:
		return challenge.DifficultyBeginner
	case durationDays <= 60:
		return challenge.DifficultyIntermediate
	default:
		return challenge.DifficultyAdvanced
	}
}

func NewChallenge(topic string, durationDays int, at time.Time) *challenge.Challenge {
	tasks := make([]challenge.DailyTask, durationDays)
	for i := range tasks {
		tasks[i] = challenge.DailyTask{
			ID:   uuid.NewString(),
			Day:  i + 1,
			Task: fmt.Sprintf("Day %d task for %s: Dedicate 20 minutes to %s practice.", i+1, topic, strings.ToLower(topic)),
		}
	}

	return &challenge.Challenge{
		Title:        fmt.Sprintf("%d-Day %s Challenge", durationDays, topic),
		Description:  fmt.Sprintf("A %d days journey to improve your %s.", durationDays, topic),
		DurationDays: durationDays,
		Category:     topic,
		Difficulty:   DifficultyFor(durationDays),
		DailyTasks:   tasks,
		CreatedAt:    at,
	}
}

// NewBadge builds the badge earned by finishing the topic's challenge of the given length.
func NewBadge(topic string, durationDays int, at time.Time) *badge.Badge {
	return &badge.Badge{
		Name:        fmt.Sprintf("%d-Day %s Master", durationDays, topic),
		Description: fmt.Sprintf("Awarded for completing the %d-day %s challenge.", durationDays, topic),
		ImageURL: fmt.Sprintf("https://ui-avatars.com/api/?name=%s+%d&background=random&size=200",
			strings.ReplaceAll(topic, " ", "+"), durationDays),
		Category:     topic,
		Requirements: badge.Requirements{DaysCompleted: durationDays},
		CreatedAt:    at,
	}
}

// Build returns one challenge and one matching badge per topic and duration.
func Build(at time.Time) ([]*challenge.Challenge, []*badge.Badge) {
	challenges := make([]*challenge.Challenge, 0, len(Topics)*len(Durations))
	badges := make([]*badge.Badge, 0, len(Topics)*len(Durations))
	for _, topic := range Topics {
		for _, days := range Durations {
			challenges = append(challenges, NewChallenge(topic, days, at))
			badges = append(badges, NewBadge(topic, days, at))
		}
	}
	return challenges, badges
}

func BuildQuotes(at time.Time) []*quote.Quote {
	out := make([]*quote.Quote, len(seedQuotes))
	for i, q := range seedQuotes {
		// Spread creation times so listing order matches the seed order.
		out[i] = &quote.Quote{
			Text:      q.text,
			Author:    q.author,
			Category:  q.category,
			CreatedAt: at.Add(time.Duration(i) * time.Millisecond),
		}
	}
	return out
}

// EnsureSeeded fills the catalog collections that are still empty. Each collection is checked on
// its own so a partially failed seed is completed on the next start.
func EnsureSeeded(ctx context.Context, store storage.Store) error {
	now := time.Now().UTC()
	challenges, badges := Build(now)

	n, err := store.CountChallenges(ctx)
	if err != nil {
		return fmt.Errorf("failed to count challenges: %w", err)
	}
	if n == 0 {
		if err := store.InsertChallenges(ctx, challenges); err != nil {
			return err
		}
		logger.Info().Int("challenges", len(challenges)).Msg("Challenges seeded")
	}

	n, err = store.CountBadges(ctx)
	if err != nil {
		return fmt.Errorf("failed to count badges: %w", err)
	}
	if n == 0 {
		if err := store.InsertBadges(ctx, badges); err != nil {
			return err
		}
		logger.Info().Int("badges", len(badges)).Msg("Badges seeded")
	}

	n, err = store.CountQuotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to count quotes: %w", err)
	}
	if n == 0 {
		quotes := BuildQuotes(now)
		if err := store.InsertQuotes(ctx, quotes); err != nil {
			return err
		}
		logger.Info().Int("quotes", len(quotes)).Msg("Quotes seeded")
	}
	return nil
}
