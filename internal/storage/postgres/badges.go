package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dailyMotivatorAPI/internal/types/badge"
)

const badgeColumns = `id, name, description, image_url, category, days_completed, created_at`

func scanBadge(row scanner) (*badge.Badge, error) {
	b := &badge.Badge{}
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.ImageURL,
		&b.Category, &b.Requirements.DaysCompleted, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) InsertBadges(ctx context.Context, badges []*badge.Badge) error {
	if len(badges) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, b := range badges {
		if b.ID == "" {
			b.ID = newID()
		}
		batch.Queue(`INSERT INTO badges (`+badgeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			b.ID, b.Name, b.Description, b.ImageURL, b.Category, b.Requirements.DaysCompleted, b.CreatedAt)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert badges: %w", err)
	}
	return nil
}

func (s *Store) ListBadges(ctx context.Context) ([]*badge.Badge, error) {
	rows, err := s.db.Query(ctx, `SELECT `+badgeColumns+` FROM badges ORDER BY category, days_completed, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	out := []*badge.Badge{}
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) GetBadge(ctx context.Context, id string) (*badge.Badge, error) {
	b, err := scanBadge(s.db.QueryRow(ctx, `SELECT `+badgeColumns+` FROM badges WHERE id = $1`, id))
	if err != nil {
		return nil, noRows(err)
	}
	return b, nil
}

func (s *Store) FindBadge(ctx context.Context, category string, daysCompleted int) (*badge.Badge, error) {
	query := `SELECT ` + badgeColumns + ` FROM badges
		WHERE category = $1 AND days_completed = $2
		ORDER BY id LIMIT 1`
	b, err := scanBadge(s.db.QueryRow(ctx, query, category, daysCompleted))
	if err != nil {
		return nil, noRows(err)
	}
	return b, nil
}

func (s *Store) CountBadges(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM badges`).Scan(&n)
	return n, err
}

const userBadgeColumns = `id, user_id, badge_id, earned_at`

func scanUserBadge(row scanner) (*badge.UserBadge, error) {
	ub := &badge.UserBadge{}
	if err := row.Scan(&ub.ID, &ub.UserID, &ub.BadgeID, &ub.EarnedAt); err != nil {
		return nil, err
	}
	return ub, nil
}

func (s *Store) AwardBadge(ctx context.Context, userID, badgeID string, at time.Time) (*badge.UserBadge, bool, error) {
	query := `
		INSERT INTO userbadges (` + userBadgeColumns + `)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, badge_id) DO NOTHING
		RETURNING ` + userBadgeColumns

	ub, err := scanUserBadge(s.db.QueryRow(ctx, query, newID(), userID, badgeID, at))
	if err == nil {
		return ub, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to award badge: %w", err)
	}

	existing := `SELECT ` + userBadgeColumns + ` FROM userbadges WHERE user_id = $1 AND badge_id = $2`
	ub, err = scanUserBadge(s.db.QueryRow(ctx, existing, userID, badgeID))
	if err != nil {
		return nil, false, noRows(err)
	}
	return ub, false, nil
}

func (s *Store) ListUserBadges(ctx context.Context, userID string) ([]*badge.UserBadge, error) {
	query := `SELECT ` + userBadgeColumns + ` FROM userbadges
		WHERE user_id = $1
		ORDER BY earned_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	defer rows.Close()

	out := []*badge.UserBadge{}
	for rows.Next() {
		ub, err := scanUserBadge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user badge: %w", err)
		}
		out = append(out, ub)
	}
	return out, rows.Err()
}
