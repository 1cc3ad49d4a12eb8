package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyMotivatorAPI/internal/apperr"
	"dailyMotivatorAPI/internal/storage/memory"
)

func TestListQuotesByCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	all, err := f.quotes.ListQuotes(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 6)

	success, err := f.quotes.ListQuotes(ctx, "success")
	require.NoError(t, err)
	require.Len(t, success, 2)
	for _, q := range success {
		assert.Equal(t, "Steve Jobs", q.Author)
	}
}

func TestDailyQuoteIsStablePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	morning := time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 10, 22, 30, 0, 0, time.UTC)
	nextDay := morning.Add(24 * time.Hour)

	a, err := f.quotes.DailyQuote(ctx, morning)
	require.NoError(t, err)
	b, err := f.quotes.DailyQuote(ctx, evening)
	require.NoError(t, err)
	c, err := f.quotes.DailyQuote(ctx, nextDay)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID, "consecutive days rotate through the list")

	empty := NewQuoteService(memory.New())
	_, err = empty.DailyQuote(ctx, morning)
	assert.Equal(t, http.StatusNotFound, apperr.StatusCode(err))
}

func TestSearchQuotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	results, err := f.quotes.SearchQuotes(ctx, "journey")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Lao Tzu", results[0].Author)

	results, err = f.quotes.SearchQuotes(ctx, "zzzzqqq")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = f.quotes.SearchQuotes(ctx, "")
	assert.Equal(t, http.StatusBadRequest, apperr.StatusCode(err))
}
