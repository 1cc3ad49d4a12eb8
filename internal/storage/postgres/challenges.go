package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/challenge"
)

const challengeColumns = `id, title, description, duration_days, category, difficulty, daily_tasks, created_at`

func scanChallenge(row scanner) (*challenge.Challenge, error) {
	c := &challenge.Challenge{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.DurationDays,
		&c.Category, &c.Difficulty, &c.DailyTasks, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) InsertChallenges(ctx context.Context, challenges []*challenge.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range challenges {
		if c.ID == "" {
			c.ID = newID()
		}
		tasks := c.DailyTasks
		if tasks == nil {
			tasks = []challenge.DailyTask{}
		}
		batch.Queue(`INSERT INTO challenges (`+challengeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			c.ID, c.Title, c.Description, c.DurationDays, c.Category, string(c.Difficulty), tasks, c.CreatedAt)
	}

	if err := s.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert challenges: %w", err)
	}
	return nil
}

func (s *Store) ListChallenges(ctx context.Context, category string) ([]*challenge.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges
		WHERE ($1 = '' OR category = $1)
		ORDER BY category, duration_days, id`

	rows, err := s.db.Query(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer rows.Close()

	out := []*challenge.Challenge{}
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	row := s.db.QueryRow(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id)
	c, err := scanChallenge(row)
	if err != nil {
		return nil, noRows(err)
	}
	return c, nil
}

func (s *Store) CountChallenges(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM challenges`).Scan(&n)
	return n, err
}

// --- enrollments ---

const enrollmentColumns = `id, user_id, challenge_id, status, current_day, completed_tasks, start_date, last_updated, completed_at`

func scanEnrollment(row scanner) (*challenge.UserChallenge, error) {
	uc := &challenge.UserChallenge{}
	err := row.Scan(&uc.ID, &uc.UserID, &uc.ChallengeID, &uc.Status, &uc.CurrentDay,
		&uc.CompletedTasks, &uc.StartDate, &uc.LastUpdated, &uc.CompletedAt)
	if err != nil {
		return nil, err
	}
	if uc.CompletedTasks == nil {
		uc.CompletedTasks = []string{}
	}
	return uc, nil
}

func (s *Store) CreateEnrollment(ctx context.Context, uc *challenge.UserChallenge) (*challenge.UserChallenge, bool, error) {
	tasks := uc.CompletedTasks
	if tasks == nil {
		tasks = []string{}
	}

	query := `
		INSERT INTO userchallenges (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, challenge_id) WHERE status = 'active' DO NOTHING
		RETURNING ` + enrollmentColumns

	row := s.db.QueryRow(ctx, query, newID(), uc.UserID, uc.ChallengeID, string(uc.Status),
		uc.CurrentDay, tasks, uc.StartDate, uc.LastUpdated, uc.CompletedAt)
	stored, err := scanEnrollment(row)
	if err == nil {
		return stored, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("failed to insert enrollment: %w", err)
	}

	existing, err := s.FindActiveEnrollment(ctx, uc.UserID, uc.ChallengeID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Store) FindActiveEnrollment(ctx context.Context, userID, challengeID string) (*challenge.UserChallenge, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM userchallenges
		WHERE user_id = $1 AND challenge_id = $2 AND status = 'active'`
	uc, err := scanEnrollment(s.db.QueryRow(ctx, query, userID, challengeID))
	if err != nil {
		return nil, noRows(err)
	}
	return uc, nil
}

func (s *Store) LatestActiveEnrollment(ctx context.Context, userID string) (*challenge.UserChallenge, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM userchallenges
		WHERE user_id = $1 AND status = 'active'
		ORDER BY start_date DESC, id DESC
		LIMIT 1`
	uc, err := scanEnrollment(s.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, noRows(err)
	}
	return uc, nil
}

func (s *Store) ListEnrollments(ctx context.Context, userID string) ([]*challenge.UserChallenge, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM userchallenges
		WHERE user_id = $1
		ORDER BY start_date DESC, id DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer rows.Close()

	out := []*challenge.UserChallenge{}
	for rows.Next() {
		uc, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		out = append(out, uc)
	}
	return out, rows.Err()
}

func (s *Store) GetEnrollment(ctx context.Context, userID, id string) (*challenge.UserChallenge, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM userchallenges WHERE id = $1 AND user_id = $2`
	uc, err := scanEnrollment(s.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, noRows(err)
	}
	return uc, nil
}

func (s *Store) UpdateEnrollment(ctx context.Context, upd storage.EnrollmentUpdate) (*challenge.UserChallenge, error) {
	tasks := upd.CompletedTasks
	if tasks == nil {
		tasks = []string{}
	}

	query := `
		UPDATE userchallenges
		SET status = $5, current_day = $6, completed_tasks = $7, last_updated = $8,
			completed_at = COALESCE($9, completed_at)
		WHERE id = $1 AND user_id = $2 AND status = $3 AND current_day = $4
		RETURNING ` + enrollmentColumns

	row := s.db.QueryRow(ctx, query,
		upd.ID, upd.UserID, string(upd.ExpectStatus), upd.ExpectDay,
		string(upd.Status), upd.CurrentDay, tasks, upd.LastUpdated, upd.CompletedAt)
	uc, err := scanEnrollment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	return uc, nil
}
