// Package postgres implements the storage contract on PostgreSQL through a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/storage"
)

type Store struct {
	db *pgxpool.Pool
}

var _ storage.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS challenges (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	description   TEXT NOT NULL DEFAULT '',
	duration_days INTEGER NOT NULL CHECK (duration_days > 0),
	category      TEXT NOT NULL,
	difficulty    TEXT NOT NULL,
	daily_tasks   JSONB NOT NULL DEFAULT '[]',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_challenges_category ON challenges (category, duration_days);

CREATE TABLE IF NOT EXISTS userchallenges (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	challenge_id    TEXT NOT NULL REFERENCES challenges (id),
	status          TEXT NOT NULL,
	current_day     INTEGER NOT NULL,
	completed_tasks TEXT[] NOT NULL DEFAULT '{}',
	start_date      TIMESTAMPTZ NOT NULL,
	last_updated    TIMESTAMPTZ NOT NULL,
	completed_at    TIMESTAMPTZ
);
CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_enrollment
	ON userchallenges (user_id, challenge_id) WHERE status = 'active';
CREATE INDEX IF NOT EXISTS idx_userchallenges_user ON userchallenges (user_id, status, start_date DESC);

CREATE TABLE IF NOT EXISTS badges (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	image_url      TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL,
	days_completed INTEGER NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_badges_requirement ON badges (category, days_completed);

CREATE TABLE IF NOT EXISTS userbadges (
	id        TEXT PRIMARY KEY,
	user_id   TEXT NOT NULL,
	badge_id  TEXT NOT NULL REFERENCES badges (id),
	earned_at TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, badge_id)
);

CREATE TABLE IF NOT EXISTS quotes (
	id         TEXT PRIMARY KEY,
	text       TEXT NOT NULL,
	author     TEXT NOT NULL,
	category   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS userfavorites (
	id       TEXT PRIMARY KEY,
	user_id  TEXT NOT NULL,
	quote_id TEXT NOT NULL REFERENCES quotes (id),
	added_at TIMESTAMPTZ NOT NULL,
	UNIQUE (user_id, quote_id)
);

CREATE TABLE IF NOT EXISTS goals (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_goals_user ON goals (user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS devicetokens (
	token      TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	platform   TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_devicetokens_user ON devicetokens (user_id);
`

var tables = []string{
	storage.CollectionChallenges,
	storage.CollectionUserChallenges,
	storage.CollectionBadges,
	storage.CollectionUserBadges,
	storage.CollectionQuotes,
	storage.CollectionFavorites,
	storage.CollectionGoals,
	storage.CollectionDevices,
}

// Open creates the pool with the same tuning the API has always used and applies the schema.
func Open(ctx context.Context, dbURL string) (*Store, error) {
	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	s := New(pool)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	stat := pool.Stat()
	logger.Info().
		Int32("max_conns", stat.MaxConns()).
		Int32("total_conns", stat.TotalConns()).
		Msg("PostgreSQL pool ready")
	return s, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{db: pool}
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(tables))
	for _, table := range tables {
		var n int64
		if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	s.db.Close()
	return nil
}

func newID() string {
	return uuid.NewString()
}

type scanner interface {
	Scan(dest ...any) error
}

func noRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}
