package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dailyMotivatorAPI/internal/catalog"
	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/metrics"
	pushnotify "dailyMotivatorAPI/internal/notification"
	"dailyMotivatorAPI/internal/storage/memory"
	"dailyMotivatorAPI/internal/testutil"
	"dailyMotivatorAPI/internal/types/badge"
	"dailyMotivatorAPI/internal/types/challenge"
	"dailyMotivatorAPI/internal/types/goal"
	"dailyMotivatorAPI/internal/types/quote"
	"dailyMotivatorAPI/middleware"
	"dailyMotivatorAPI/services"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var registry = func() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	middleware.InitPrometheus(reg)
	metrics.Register(reg)
	return reg
}()

type testServer struct {
	handler http.Handler
	store   *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := memory.New()
	require.NoError(t, catalog.EnsureSeeded(context.Background(), store))

	cache := catalog.NewCache(store, 64)
	dispatcher := services.NewNotificationDispatcher(store, pushnotify.LogProvider{}, 1)
	t.Cleanup(dispatcher.Stop)

	notifier := services.NewNotificationService(store, dispatcher)
	badges := services.NewBadgeService(store, cache, notifier)

	r := New(Deps{
		Store:         store,
		Challenges:    services.NewChallengeService(store, cache, badges),
		Badges:        badges,
		Quotes:        services.NewQuoteService(store),
		Favorites:     services.NewFavoriteService(store),
		Goals:         services.NewGoalService(store),
		Notifications: notifier,
		Auth:          middleware.NewAuth(middleware.NewJWTVerifier(testutil.TestSecret)),
		Gatherer:      registry,
		MetricsUser:   "metrics",
		MetricsPass:   "pass",
	})
	return &testServer{handler: WithCORS(r, nil), store: store}
}

func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", testutil.BearerHeader(testutil.SignToken(t, testutil.TestSecret, userID)))
	}

	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func (s *testServer) challengeFor(t *testing.T, category string, days int) *challenge.Challenge {
	t.Helper()
	rr := s.do(t, http.MethodGet, "/api/challenges?category="+url.QueryEscape(category), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, c := range decode[[]*challenge.Challenge](t, rr) {
		if c.DurationDays == days {
			return c
		}
	}
	t.Fatalf("no %d-day %s challenge", days, category)
	return nil
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", decode[map[string]string](t, rr)["status"])
}

func TestMetricsRequiresBasicAuth(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	s.do(t, http.MethodGet, "/api/quotes", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("metrics", "pass")
	rr = httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "http_requests_total")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/challenges/start"},
		{http.MethodPost, "/api/challenges/complete-task"},
		{http.MethodGet, "/api/user-challenges/active"},
		{http.MethodGet, "/api/user-badges"},
		{http.MethodGet, "/api/favorites"},
		{http.MethodDelete, "/api/goals/abc"},
		{http.MethodPost, "/api/notifications/register-device"},
	} {
		rr := s.do(t, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/challenges", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[[]*challenge.Challenge](t, rr)
	assert.Len(t, all, len(catalog.Topics)*len(catalog.Durations))

	rr = s.do(t, http.MethodGet, "/api/challenges/"+all[0].ID, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, all[0].Title, decode[*challenge.Challenge](t, rr).Title)

	rr = s.do(t, http.MethodGet, "/api/challenges/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Challenge not found", decode[map[string]string](t, rr)["error"])

	rr = s.do(t, http.MethodGet, "/api/challenges/search?q=Fitness", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, decode[[]*challenge.Challenge](t, rr))

	rr = s.do(t, http.MethodGet, "/api/challenges/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/quotes/daily", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[*quote.Quote](t, rr)
	rr = s.do(t, http.MethodGet, "/api/quotes/daily", "", nil)
	assert.Equal(t, first.ID, decode[*quote.Quote](t, rr).ID)
}

func TestThirtyDayChallengeOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ch := s.challengeFor(t, catalog.Topics[0], 30)

	rr := s.do(t, http.MethodPost, "/api/challenges/start", "user-1", challenge.StartChallengeRequest{ChallengeID: ch.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	started := decode[*challenge.UserChallengeDetail](t, rr)
	assert.Equal(t, challenge.StatusActive, started.Status)
	assert.Equal(t, 1, started.CurrentDay)

	rr = s.do(t, http.MethodPost, "/api/challenges/start", "user-1", challenge.StartChallengeRequest{ChallengeID: ch.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, started.ID, decode[*challenge.UserChallengeDetail](t, rr).ID)

	rr = s.do(t, http.MethodGet, "/api/user-challenges/active", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, started.ID, decode[*challenge.UserChallengeDetail](t, rr).ID)

	rr = s.do(t, http.MethodPost, "/api/challenges/complete-task", "user-1",
		challenge.CompleteTaskRequest{ChallengeID: ch.ID, TaskID: "not-a-task"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var last *challenge.CompleteTaskResponse
	for i, task := range ch.DailyTasks {
		rr = s.do(t, http.MethodPost, "/api/challenges/complete-task", "user-1",
			challenge.CompleteTaskRequest{ChallengeID: ch.ID, TaskID: task.ID})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		last = decode[*challenge.CompleteTaskResponse](t, rr)
		if i < len(ch.DailyTasks)-1 {
			assert.False(t, last.BadgeEarned, "task %d", i+1)
		}
	}
	require.NotNil(t, last)
	assert.True(t, last.BadgeEarned)
	assert.Equal(t, challenge.StatusCompleted, last.UserChallenge.Status)
	assert.Equal(t, 31, last.UserChallenge.CurrentDay)
	assert.NotNil(t, last.UserChallenge.CompletedAt)

	rr = s.do(t, http.MethodGet, "/api/user-challenges/active", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "null", string(bytes.TrimSpace(rr.Body.Bytes())))

	rr = s.do(t, http.MethodGet, "/api/user-badges", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	earned := decode[[]*badge.EarnedBadge](t, rr)
	require.Len(t, earned, 1)
	assert.Equal(t, ch.Category, earned[0].Badge.Category)

	rr = s.do(t, http.MethodGet, "/api/badges", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	withStatus := 0
	for _, b := range decode[[]*badge.BadgeWithStatus](t, rr) {
		if b.EarnedAt != nil {
			withStatus++
		}
	}
	assert.Equal(t, 1, withStatus)

	rr = s.do(t, http.MethodGet, "/api/badges", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, b := range decode[[]*badge.BadgeWithStatus](t, rr) {
		assert.Nil(t, b.EarnedAt)
	}
}

func TestAbandonOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ch := s.challengeFor(t, catalog.Topics[1], 60)

	rr := s.do(t, http.MethodPost, "/api/challenges/start", "user-1", challenge.StartChallengeRequest{ChallengeID: ch.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode[*challenge.UserChallengeDetail](t, rr).ID

	rr = s.do(t, http.MethodPost, fmt.Sprintf("/api/user-challenges/%s/abandon", id), "user-2", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPost, fmt.Sprintf("/api/user-challenges/%s/abandon", id), "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, challenge.StatusAbandoned, decode[*challenge.UserChallengeDetail](t, rr).Status)

	rr = s.do(t, http.MethodGet, "/api/user-challenges", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]*challenge.UserChallengeDetail](t, rr), 1)
}

func TestFavoritesOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/api/quotes", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	quotes := decode[[]*quote.Quote](t, rr)
	require.NotEmpty(t, quotes)
	q := quotes[0]

	rr = s.do(t, http.MethodPost, "/api/favorites", "user-1", quote.AddFavoriteRequest{QuoteID: q.ID})
	assert.Equal(t, http.StatusCreated, rr.Code)
	rr = s.do(t, http.MethodPost, "/api/favorites", "user-1", quote.AddFavoriteRequest{QuoteID: q.ID})
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/favorites", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	favs := decode[[]*quote.FavoriteQuote](t, rr)
	require.Len(t, favs, 1)
	assert.Equal(t, q.ID, favs[0].ID)
	assert.True(t, favs[0].IsFavorite)

	rr = s.do(t, http.MethodDelete, "/api/favorites/"+q.ID, "user-1", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = s.do(t, http.MethodDelete, "/api/favorites/"+q.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/favorites", "user-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", string(bytes.TrimSpace(rr.Body.Bytes())))

	rr = s.do(t, http.MethodPost, "/api/favorites", "user-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGoalsOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/goals", "alice", goal.CreateGoalRequest{Title: "Read 12 books", Description: "one a month"})
	require.Equal(t, http.StatusCreated, rr.Code)
	g := decode[*goal.Goal](t, rr)
	assert.False(t, g.Completed)

	done := true
	rr = s.do(t, http.MethodPut, "/api/goals/"+g.ID, "bob", goal.UpdateGoalRequest{Completed: &done})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodPut, "/api/goals/"+g.ID, "alice", goal.UpdateGoalRequest{Completed: &done})
	require.Equal(t, http.StatusOK, rr.Code)
	updated := decode[*goal.Goal](t, rr)
	assert.True(t, updated.Completed)
	assert.Equal(t, "Read 12 books", updated.Title)

	rr = s.do(t, http.MethodGet, "/api/goals", "bob", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]*goal.Goal](t, rr))

	rr = s.do(t, http.MethodDelete, "/api/goals/"+g.ID, "bob", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = s.do(t, http.MethodDelete, "/api/goals/"+g.ID, "alice", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodPost, "/api/goals", "alice", goal.CreateGoalRequest{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRegisterDeviceOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/notifications/register-device", "user-1",
		map[string]string{"token": "fcm-token-1", "platform": "android"})
	require.Equal(t, http.StatusOK, rr.Code)

	devices, err := s.store.ListDevices(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "fcm-token-1", devices[0].Token)

	rr = s.do(t, http.MethodPost, "/api/notifications/register-device", "user-1",
		map[string]string{"token": "fcm-token-1", "platform": "symbian"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/goals", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartChallengeLogsOnce(t *testing.T) {
	s := newTestServer(t)
	ch := s.challengeFor(t, "Fitness", 60)

	var out bytes.Buffer
	logger.SetOutput(&out)
	t.Cleanup(func() { logger.SetOutput(os.Stdout) })

	rr := s.do(t, http.MethodPost, "/api/challenges/start", "user-1", challenge.StartChallengeRequest{ChallengeID: ch.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 1, strings.Count(out.String(), `"message":"Challenge started"`))

	rr = s.do(t, http.MethodPost, "/api/challenges/complete-task", "user-1",
		challenge.CompleteTaskRequest{ChallengeID: ch.ID, TaskID: ch.DailyTasks[59].ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"Task is not for the current day"}`, rr.Body.String())
}
