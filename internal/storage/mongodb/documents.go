package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/internal/types/goal"
	"dailyMotivatorAPI/internal/types/notification"
	"dailyMotivatorAPI/internal/types/quote"
)

type taskDoc struct {
	ID   string `bson:"id"`
	Day  int    `bson:"day"`
	Task string `bson:"task"`
}

type challengeDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	Description  string             `bson:"description"`
	DurationDays int                `bson:"duration_days"`
	Category     string             `bson:"category"`
	Difficulty   string             `bson:"difficulty"`
	DailyTasks   []taskDoc          `bson:"daily_tasks"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func fromChallenge(c *challenge.Challenge) challengeDoc {
	tasks := make([]taskDoc, len(c.DailyTasks))
	for i, t := range c.DailyTasks {
		tasks[i] = taskDoc{ID: t.ID, Day: t.Day, Task: t.Task}
	}
	return challengeDoc{
		Title:        c.Title,
		Description:  c.Description,
		DurationDays: c.DurationDays,
		Category:     c.Category,
		Difficulty:   string(c.Difficulty),
		DailyTasks:   tasks,
		CreatedAt:    c.CreatedAt,
	}
}

func (d challengeDoc) toChallenge() *challenge.Challenge {
	tasks := make([]challenge.DailyTask, len(d.DailyTasks))
	for i, t := range d.DailyTasks {
		tasks[i] = challenge.DailyTask{ID: t.ID, Day: t.Day, Task: t.Task}
	}
	return &challenge.Challenge{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		Description:  d.Description,
		DurationDays: d.DurationDays,
		Category:     d.Category,
		Difficulty:   challenge.Difficulty(d.Difficulty),
		DailyTasks:   tasks,
		CreatedAt:    d.CreatedAt,
	}
}

type userChallengeDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"user_id"`
	ChallengeID    primitive.ObjectID `bson:"challenge_id"`
	Status         string             `bson:"status"`
	CurrentDay     int                `bson:"current_day"`
	CompletedTasks []string           `bson:"completed_tasks"`
	StartDate      time.Time          `bson:"start_date"`
	LastUpdated    time.Time          `bson:"last_updated"`
	CompletedAt    *time.Time         `bson:"completed_at,omitempty"`
}

func (d userChallengeDoc) toUserChallenge() *challenge.UserChallenge {
	tasks := d.CompletedTasks
	if tasks == nil {
		tasks = []string{}
	}
	return &challenge.UserChallenge{
		ID:             d.ID.Hex(),
		UserID:         d.UserID,
		ChallengeID:    d.ChallengeID.Hex(),
		Status:         challenge.Status(d.Status),
		CurrentDay:     d.CurrentDay,
		CompletedTasks: tasks,
		StartDate:      d.StartDate,
		LastUpdated:    d.LastUpdated,
		CompletedAt:    d.CompletedAt,
	}
}

type requirementsDoc struct {
	DaysCompleted int `bson:"days_completed"`
}

type badgeDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Description  string             `bson:"description"`
	ImageURL     string             `bson:"image_url"`
	Category     string             `bson:"category"`
	Requirements requirementsDoc    `bson:"requirements"`
	CreatedAt    time.Time          `bson:"created_at"`
}

func fromBadge(b *badge.Badge) badgeDoc {
	return badgeDoc{
		Name:         b.Name,
		Description:  b.Description,
		ImageURL:     b.ImageURL,
		Category:     b.Category,
		Requirements: requirementsDoc{DaysCompleted: b.Requirements.DaysCompleted},
		CreatedAt:    b.CreatedAt,
	}
}

func (d badgeDoc) toBadge() *badge.Badge {
	return &badge.Badge{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Description:  d.Description,
		ImageURL:     d.ImageURL,
		Category:     d.Category,
		Requirements: badge.Requirements{DaysCompleted: d.Requirements.DaysCompleted},
		CreatedAt:    d.CreatedAt,
	}
}

type userBadgeDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	UserID   string             `bson:"user_id"`
	BadgeID  primitive.ObjectID `bson:"badge_id"`
	EarnedAt time.Time          `bson:"earned_at"`
}

func (d userBadgeDoc) toUserBadge() *badge.UserBadge {
	return &badge.UserBadge{
		ID:       d.ID.Hex(),
		UserID:   d.UserID,
		BadgeID:  d.BadgeID.Hex(),
		EarnedAt: d.EarnedAt,
	}
}

type quoteDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Text      string             `bson:"text"`
	Author    string             `bson:"author"`
	Category  string             `bson:"category"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d quoteDoc) toQuote() *quote.Quote {
	return &quote.Quote{
		ID:        d.ID.Hex(),
		Text:      d.Text,
		Author:    d.Author,
		Category:  d.Category,
		CreatedAt: d.CreatedAt,
	}
}

type favoriteDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UserID  string             `bson:"user_id"`
	QuoteID primitive.ObjectID `bson:"quote_id"`
	AddedAt time.Time          `bson:"added_at"`
}

func (d favoriteDoc) toFavorite() *quote.Favorite {
	return &quote.Favorite{
		ID:      d.ID.Hex(),
		UserID:  d.UserID,
		QuoteID: d.QuoteID.Hex(),
		AddedAt: d.AddedAt,
	}
}

type goalDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Completed   bool               `bson:"completed"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d goalDoc) toGoal() *goal.Goal {
	return &goal.Goal{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// deviceDoc is keyed by the push token itself.
type deviceDoc struct {
	Token     string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Platform  string    `bson:"platform"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d deviceDoc) toDevice() notification.DeviceToken {
	return notification.DeviceToken{
		UserID:    d.UserID,
		Token:     d.Token,
		Platform:  d.Platform,
		UpdatedAt: d.UpdatedAt,
	}
}
