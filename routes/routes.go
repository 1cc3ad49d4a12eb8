package routes

import (
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dailyMotivatorAPI/handlers"
	"dailyMotivatorAPI/middleware"
	"dailyMotivatorAPI/services"
)

type Deps struct {
	Store         handlers.Pinger
	Challenges    *services.ChallengeService
	Badges        *services.BadgeService
	Quotes        *services.QuoteService
	Favorites     *services.FavoriteService
	Goals         *services.GoalService
	Notifications *services.NotificationService

	Auth        *middleware.Auth
	RateLimiter *middleware.RateLimiter

	// Gatherer serves /metrics; nil disables the endpoint.
	Gatherer    prometheus.Gatherer
	MetricsUser string
	MetricsPass string

	RequestTimeout time.Duration
}

func New(d Deps) *mux.Router {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	challengeHandler := handlers.NewChallengeHandler(d.Challenges, timeout)
	badgeHandler := handlers.NewBadgeHandler(d.Badges, timeout)
	quoteHandler := handlers.NewQuoteHandler(d.Quotes, d.Favorites, timeout)
	goalHandler := handlers.NewGoalHandler(d.Goals, timeout)
	notificationHandler := handlers.NewNotificationHandler(d.Notifications, timeout)
	healthHandler := handlers.NewHealthHandler(d.Store)

	r := mux.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.MonitorMiddleware)
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware)
	}

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	if d.Gatherer != nil {
		metrics := promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})
		r.Handle("/metrics", middleware.BasicAuthMiddleware(d.MetricsUser, d.MetricsPass)(metrics)).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()
	protected := func(h http.HandlerFunc) http.Handler { return d.Auth.Require(h) }

	// search and start are registered ahead of {id} so they are not swallowed by it
	api.HandleFunc("/challenges", challengeHandler.ListChallenges).Methods("GET")
	api.HandleFunc("/challenges/search", challengeHandler.SearchChallenges).Methods("GET")
	api.Handle("/challenges/start", protected(challengeHandler.StartChallenge)).Methods("POST")
	api.Handle("/challenges/complete-task", protected(challengeHandler.CompleteTask)).Methods("POST")
	api.HandleFunc("/challenges/{id}", challengeHandler.GetChallenge).Methods("GET")

	api.Handle("/user-challenges", protected(challengeHandler.ListUserChallenges)).Methods("GET")
	api.Handle("/user-challenges/active", protected(challengeHandler.GetActiveChallenge)).Methods("GET")
	api.Handle("/user-challenges/{id}/abandon", protected(challengeHandler.AbandonChallenge)).Methods("POST")

	api.Handle("/badges", d.Auth.Optional(http.HandlerFunc(badgeHandler.ListBadges))).Methods("GET")
	api.Handle("/user-badges", protected(badgeHandler.ListUserBadges)).Methods("GET")

	api.HandleFunc("/quotes", quoteHandler.ListQuotes).Methods("GET")
	api.HandleFunc("/quotes/daily", quoteHandler.DailyQuote).Methods("GET")
	api.HandleFunc("/quotes/search", quoteHandler.SearchQuotes).Methods("GET")

	api.Handle("/favorites", protected(quoteHandler.ListFavorites)).Methods("GET")
	api.Handle("/favorites", protected(quoteHandler.AddFavorite)).Methods("POST")
	api.Handle("/favorites/{id}", protected(quoteHandler.RemoveFavorite)).Methods("DELETE")

	api.Handle("/goals", protected(goalHandler.ListGoals)).Methods("GET")
	api.Handle("/goals", protected(goalHandler.CreateGoal)).Methods("POST")
	api.Handle("/goals/{id}", protected(goalHandler.UpdateGoal)).Methods("PUT")
	api.Handle("/goals/{id}", protected(goalHandler.DeleteGoal)).Methods("DELETE")

	api.Handle("/notifications/register-device", protected(notificationHandler.RegisterDevice)).Methods("POST")

	return r
}

// WithCORS wraps h with the CORS policy for the given origins.
func WithCORS(h http.Handler, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(origins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)(h)
}
