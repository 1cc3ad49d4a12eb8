package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"dailyMotivatorAPI/internal/apperr"
)

func TestRespondWithAppError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)

	rr := httptest.NewRecorder()
	respondWithAppError(rr, req, apperr.NotFound("Goal not found"))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Goal not found"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	respondWithAppError(rr, req, errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	respondWithAppError(rr, req, apperr.Internal("Failed to fetch goals", errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch goals"}`, rr.Body.String())
}

func TestListEncodesEmptyAsArray(t *testing.T) {
	rr := httptest.NewRecorder()
	var none []string
	respondWithJSON(rr, http.StatusOK, list(none))
	assert.Equal(t, "[]", rr.Body.String())
}

func TestRequireUserWithoutAuth(t *testing.T) {
	rr := httptest.NewRecorder()
	_, ok := requireUser(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

type failingPinger struct{ err error }

func (p failingPinger) Ping(ctx context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthHandler(failingPinger{}).Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	NewHealthHandler(failingPinger{err: errors.New("down")}).Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "unhealthy")
}
