package services

import (
	"context"
	"errors"

	"dailyMotivatorAPI/internal/apperr"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/quote"
)

type FavoriteService struct {
	store storage.Store
}

func NewFavoriteService(store storage.Store) *FavoriteService {
	return &FavoriteService{store: store}
}

// AddFavorite is idempotent; created is false when the quote was already a favorite.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, quoteID string) (*quote.FavoriteQuote, bool, error) {
	q, err := s.store.GetQuote(ctx, quoteID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, apperr.NotFound("Quote not found")
	}
	if err != nil {
		return nil, false, apperr.Internal("Failed to fetch quote", err)
	}

	fav, created, err := s.store.AddFavorite(ctx, userID, q.ID, timeNow())
	if err != nil {
		return nil, false, apperr.Internal("Failed to add favorite", err)
	}

	return &quote.FavoriteQuote{Quote: *q, IsFavorite: true, AddedAt: fav.AddedAt}, created, nil
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, quoteID string) error {
	err := s.store.RemoveFavorite(ctx, userID, quoteID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("Favorite not found")
	}
	if err != nil {
		return apperr.Internal("Failed to remove favorite", err)
	}
	return nil
}

// ListFavorites returns the favorited quotes, newest favorite first. Favorites whose quote no
// longer exists are skipped.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]*quote.FavoriteQuote, error) {
	favs, err := s.store.ListFavorites(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch favorites", err)
	}
	if len(favs) == 0 {
		return []*quote.FavoriteQuote{}, nil
	}

	ids := make([]string, len(favs))
	for i, f := range favs {
		ids[i] = f.QuoteID
	}
	quotes, err := s.store.GetQuotes(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch quotes", err)
	}

	byID := make(map[string]*quote.Quote, len(quotes))
	for _, q := range quotes {
		byID[q.ID] = q
	}

	out := make([]*quote.FavoriteQuote, 0, len(favs))
	for _, f := range favs {
		q, ok := byID[f.QuoteID]
		if !ok {
			continue
		}
		out = append(out, &quote.FavoriteQuote{Quote: *q, IsFavorite: true, AddedAt: f.AddedAt})
	}
	return out, nil
}
