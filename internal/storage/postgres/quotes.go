package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/quote"
)

const quoteColumns = `id, text, author, category, created_at`

func scanQuote(row scanner) (*quote.Quote, error) {
	q := &quote.Quote{}
	if err := row.Scan(&q.ID, &q.Text, &q.Author, &q.Category, &q.CreatedAt); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Store) InsertQuotes(ctx context.Context, quotes []*quote.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, q := range quotes {
		if q.ID == "" {
			q.ID = newID()
		}
		batch.Queue(`INSERT INTO quotes (`+quoteColumns+`) VALUES ($1, $2, $3, $4, $5)`,
			q.ID, q.Text, q.Author, q.Category, q.CreatedAt)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert quotes: %w", err)
	}
	return nil
}

func (s *Store) queryQuotes(ctx context.Context, query string, args ...any) ([]*quote.Quote, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	out := []*quote.Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) ListQuotes(ctx context.Context, category string) ([]*quote.Quote, error) {
	return s.queryQuotes(ctx, `SELECT `+quoteColumns+` FROM quotes
		WHERE ($1 = '' OR category = $1)
		ORDER BY created_at, id`, category)
}

func (s *Store) GetQuote(ctx context.Context, id string) (*quote.Quote, error) {
	q, err := scanQuote(s.db.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id))
	if err != nil {
		return nil, noRows(err)
	}
	return q, nil
}

func (s *Store) GetQuotes(ctx context.Context, ids []string) ([]*quote.Quote, error) {
	if len(ids) == 0 {
		return []*quote.Quote{}, nil
	}
	return s.queryQuotes(ctx, `SELECT `+quoteColumns+` FROM quotes
		WHERE id = ANY($1)
		ORDER BY created_at, id`, ids)
}

func (s *Store) CountQuotes(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&n)
	return n, err
}

// --- favorites ---

const favoriteColumns = `id, user_id, quote_id, added_at`

func scanFavorite(row scanner) (*quote.Favorite, error) {
	f := &quote.Favorite{}
	if err := row.Scan(&f.ID, &f.UserID, &f.QuoteID, &f.AddedAt); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Store) AddFavorite(ctx context.Context, userID, quoteID string, at time.Time) (*quote.Favorite, bool, error) {
	query := `
		INSERT INTO userfavorites (` + favoriteColumns + `)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, quote_id) DO NOTHING
		RETURNING ` + favoriteColumns

	f, err := scanFavorite(s.db.QueryRow(ctx, query, newID(), userID, quoteID, at))
	if err == nil {
		return f, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to add favorite: %w", err)
	}

	existing := `SELECT ` + favoriteColumns + ` FROM userfavorites WHERE user_id = $1 AND quote_id = $2`
	f, err = scanFavorite(s.db.QueryRow(ctx, existing, userID, quoteID))
	if err != nil {
		return nil, false, noRows(err)
	}
	return f, false, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, quoteID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM userfavorites WHERE user_id = $1 AND quote_id = $2`, userID, quoteID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListFavorites(ctx context.Context, userID string) ([]*quote.Favorite, error) {
	query := `SELECT ` + favoriteColumns + ` FROM userfavorites
		WHERE user_id = $1
		ORDER BY added_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	out := []*quote.Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
