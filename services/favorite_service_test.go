package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyMotivatorAPI/internal/apperr"
)

func TestFavorites(t *testing.T) {
	fakeClock(t)
	f := newFixture(t)
	ctx := context.Background()

	quotes, err := f.quotes.ListQuotes(ctx, "")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(quotes), 2)

	t.Run("add twice lists once", func(t *testing.T) {
		fav, created, err := f.favorites.AddFavorite(ctx, "user-1", quotes[0].ID)
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, fav.IsFavorite)

		_, created, err = f.favorites.AddFavorite(ctx, "user-1", quotes[0].ID)
		require.NoError(t, err)
		assert.False(t, created)

		list, err := f.favorites.ListFavorites(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, quotes[0].Text, list[0].Text)
	})

	t.Run("newest first", func(t *testing.T) {
		_, _, err := f.favorites.AddFavorite(ctx, "user-1", quotes[1].ID)
		require.NoError(t, err)

		list, err := f.favorites.ListFavorites(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, quotes[1].ID, list[0].ID)
		assert.Equal(t, quotes[0].ID, list[1].ID)
	})

	t.Run("unknown quote", func(t *testing.T) {
		_, _, err := f.favorites.AddFavorite(ctx, "user-1", "missing")
		assert.Equal(t, http.StatusNotFound, apperr.StatusCode(err))
	})

	t.Run("remove never added", func(t *testing.T) {
		err := f.favorites.RemoveFavorite(ctx, "user-2", quotes[0].ID)
		assert.Equal(t, http.StatusNotFound, apperr.StatusCode(err))

		list, err := f.favorites.ListFavorites(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, list, 2, "another user's removal must not change state")
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, f.favorites.RemoveFavorite(ctx, "user-1", quotes[0].ID))

		list, err := f.favorites.ListFavorites(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, quotes[1].ID, list[0].ID)
	})

	t.Run("empty list", func(t *testing.T) {
		list, err := f.favorites.ListFavorites(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}
