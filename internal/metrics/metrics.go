// Package metrics holds the domain counters exported on /metrics next to the HTTP metrics.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ChallengesStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motivator_challenges_started_total",
			Help: "Enrollments created, by challenge category",
		},
		[]string{"category"},
	)
	TasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motivator_tasks_completed_total",
			Help: "Task completions that advanced progress, by challenge category",
		},
		[]string{"category"},
	)
	ChallengesCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "motivator_challenges_completed_total",
			Help: "Enrollments that reached the completed state",
		},
		[]string{"category"},
	)
	BadgesAwarded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "motivator_badges_awarded_total",
			Help: "Newly minted user badges",
		},
	)
	ProgressConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "motivator_progress_conflicts_total",
			Help: "Stale progress writes that had to be retried",
		},
	)
	NotificationsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "motivator_notifications_dropped_total",
			Help: "Push notifications dropped because the dispatch queue was full",
		},
	)
)

var registerOnce sync.Once

// Register adds the domain collectors to reg. Safe to call more than once.
func Register(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(
			ChallengesStarted,
			TasksCompleted,
			ChallengesCompleted,
			BadgesAwarded,
			ProgressConflicts,
			NotificationsDropped,
		)
	})
}
