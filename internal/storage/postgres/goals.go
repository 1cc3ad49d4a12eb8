package postgres

import (
	"context"
	"fmt"
	"time"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/goal"
	"dailyMotivatorAPI/internal/types/notification"
)

const goalColumns = `id, user_id, title, description, completed, created_at, updated_at`

func scanGoal(row scanner) (*goal.Goal, error) {
	g := &goal.Goal{}
	err := row.Scan(&g.ID, &g.UserID, &g.Title, &g.Description, &g.Completed, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) (*goal.Goal, error) {
	query := `INSERT INTO goals (` + goalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + goalColumns

	out, err := scanGoal(s.db.QueryRow(ctx, query,
		newID(), g.UserID, g.Title, g.Description, g.Completed, g.CreatedAt, g.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert goal: %w", err)
	}
	return out, nil
}

func (s *Store) UpdateGoal(ctx context.Context, userID, id string, upd *goal.UpdateGoalRequest, at time.Time) (*goal.Goal, error) {
	query := `
		UPDATE goals
		SET title = COALESCE($3, title),
			description = COALESCE($4, description),
			completed = COALESCE($5, completed),
			updated_at = $6
		WHERE id = $1 AND user_id = $2
		RETURNING ` + goalColumns

	g, err := scanGoal(s.db.QueryRow(ctx, query, id, userID, upd.Title, upd.Description, upd.Completed, at))
	if err != nil {
		return nil, noRows(err)
	}
	return g, nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	out := []*goal.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// --- devices ---

func (s *Store) UpsertDevice(ctx context.Context, d *notification.DeviceToken) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO devicetokens (token, user_id, platform, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform, updated_at = EXCLUDED.updated_at`,
		d.Token, d.UserID, d.Platform, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

func (s *Store) ListDevices(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `
		SELECT token, user_id, platform, updated_at FROM devicetokens
		WHERE user_id = $1
		ORDER BY token`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer rows.Close()

	out := []notification.DeviceToken{}
	for rows.Next() {
		var d notification.DeviceToken
		if err := rows.Scan(&d.Token, &d.UserID, &d.Platform, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan device token: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
