package challenge

import (
	"time"
)

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

type DailyTask struct {
	ID   string `json:"id" db:"id"`
	Day  int    `json:"day" db:"day"`
	Task string `json:"task" db:"task"`
}

type Challenge struct {
	ID           string      `json:"id" db:"id"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	DurationDays int         `json:"duration_days" db:"duration_days"`
	Category     string      `json:"category" db:"category"`
	Difficulty   Difficulty  `json:"difficulty" db:"difficulty"`
	DailyTasks   []DailyTask `json:"daily_tasks" db:"daily_tasks"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// Task looks up one of the challenge's daily tasks by id.
func (c *Challenge) Task(taskID string) (DailyTask, bool) {
	for _, t := range c.DailyTasks {
		if t.ID == taskID {
			return t, true
		}
	}
	return DailyTask{}, false
}

func (c *Challenge) Clone() *Challenge {
	cp := *c
	cp.DailyTasks = append([]DailyTask(nil), c.DailyTasks...)
	return &cp
}

type UserChallenge struct {
	ID             string     `json:"id" db:"id"`
	UserID         string     `json:"user_id" db:"user_id"`
	ChallengeID    string     `json:"challenge_id" db:"challenge_id"`
	Status         Status     `json:"status" db:"status"`
	CurrentDay     int        `json:"current_day" db:"current_day"`
	CompletedTasks []string   `json:"completed_tasks" db:"completed_tasks"`
	StartDate      time.Time  `json:"start_date" db:"start_date"`
	LastUpdated    time.Time  `json:"last_updated" db:"last_updated"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// HasCompleted reports whether taskID was already counted toward progress.
func (uc *UserChallenge) HasCompleted(taskID string) bool {
	for _, id := range uc.CompletedTasks {
		if id == taskID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to mutate.
func (uc *UserChallenge) Clone() *UserChallenge {
	cp := *uc
	cp.CompletedTasks = append([]string(nil), uc.CompletedTasks...)
	if uc.CompletedAt != nil {
		t := *uc.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

// UserChallengeDetail is an enrollment joined with its catalog challenge.
type UserChallengeDetail struct {
	UserChallenge
	Challenge *Challenge `json:"challenge,omitempty"`
}

type StartChallengeRequest struct {
	ChallengeID string `json:"challengeId" validate:"required"`
}

type CompleteTaskRequest struct {
	ChallengeID string `json:"challengeId" validate:"required"`
	TaskID      string `json:"taskId" validate:"required"`
}

type CompleteTaskResponse struct {
	UserChallenge *UserChallengeDetail `json:"userChallenge"`
	BadgeEarned   bool                 `json:"badgeEarned"`
}
