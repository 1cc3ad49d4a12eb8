package services

import (
	"context"
	"strings"
	"time"

	"dailyMotivatorAPI/internal/apperr"
	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/quote"
)

type QuoteService struct {
	store storage.QuoteStore
}

func NewQuoteService(store storage.QuoteStore) *QuoteService {
	return &QuoteService{store: store}
}

func (s *QuoteService) ListQuotes(ctx context.Context, category string) ([]*quote.Quote, error) {
	list, err := s.store.ListQuotes(ctx, strings.TrimSpace(category))
	if err != nil {
		return nil, apperr.Internal("Failed to fetch quotes", err)
	}
	return list, nil
}

// DailyQuote picks the same quote for every request made on the same UTC calendar day.
func (s *QuoteService) DailyQuote(ctx context.Context, day time.Time) (*quote.Quote, error) {
	list, err := s.store.ListQuotes(ctx, "")
	if err != nil {
		return nil, apperr.Internal("Failed to fetch quotes", err)
	}
	if len(list) == 0 {
		return nil, apperr.NotFound("No quotes available")
	}

	days := day.UTC().Unix() / int64(24*time.Hour/time.Second)
	idx := int(days % int64(len(list)))
	if idx < 0 {
		idx += len(list)
	}
	return list[idx], nil
}

type quoteTexts []*quote.Quote

func (q quoteTexts) String(i int) string { return q[i].Text + " " + q[i].Author }
func (q quoteTexts) Len() int            { return len(q) }

func (s *QuoteService) SearchQuotes(ctx context.Context, query string) ([]*quote.Quote, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.BadRequest("Search query is required")
	}

	all, err := s.store.ListQuotes(ctx, "")
	if err != nil {
		return nil, apperr.Internal("Failed to fetch quotes", err)
	}

	idx := fuzzyRank(query, quoteTexts(all), maxSearchResults)
	out := make([]*quote.Quote, len(idx))
	for i, j := range idx {
		out[i] = all[j]
	}
	return out, nil
}
