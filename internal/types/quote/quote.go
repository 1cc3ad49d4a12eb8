package quote

import (
	"time"
)

type Quote struct {
	ID        string    `json:"id" db:"id"`
	Text      string    `json:"text" db:"text"`
	Author    string    `json:"author" db:"author"`
	Category  string    `json:"category" db:"category"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Favorite struct {
	ID      string    `json:"id" db:"id"`
	UserID  string    `json:"user_id" db:"user_id"`
	QuoteID string    `json:"quote_id" db:"quote_id"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}

// FavoriteQuote is a favorite joined with its catalog quote.
type FavoriteQuote struct {
	Quote
	IsFavorite bool      `json:"isFavorite"`
	AddedAt    time.Time `json:"added_at"`
}

type AddFavoriteRequest struct {
	QuoteID string `json:"quoteId" validate:"required"`
}
