// Package mongodb is the primary storage backend, one collection per record type.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"dailyMotivatorAPI/internal/logger"
	"dailyMotivatorAPI/internal/storage"
)

const (
	defaultConnTimeout = 10 * time.Second
	maxPoolSize        = 25
	minPoolSize        = 5
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database

	challenges     *mongo.Collection
	userChallenges *mongo.Collection
	badges         *mongo.Collection
	userBadges     *mongo.Collection
	quotes         *mongo.Collection
	favorites      *mongo.Collection
	goals          *mongo.Collection
	devices        *mongo.Collection
}

var _ storage.Store = (*Store)(nil)

// Open connects to uri, verifies the connection and makes sure the indexes the store relies on
// for uniqueness exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultConnTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetServerSelectionTimeout(defaultConnTimeout)

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := New(client, client.Database(database))
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info().Str("database", database).Msg("MongoDB connected")
	return s, nil
}

// New wraps an existing database handle. The caller keeps ownership of the client when Close is
// not used.
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:         client,
		db:             db,
		challenges:     db.Collection(storage.CollectionChallenges),
		userChallenges: db.Collection(storage.CollectionUserChallenges),
		badges:         db.Collection(storage.CollectionBadges),
		userBadges:     db.Collection(storage.CollectionUserBadges),
		quotes:         db.Collection(storage.CollectionQuotes),
		favorites:      db.Collection(storage.CollectionFavorites),
		goals:          db.Collection(storage.CollectionGoals),
		devices:        db.Collection(storage.CollectionDevices),
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.userChallenges: {
			{
				// One active attempt per user and challenge.
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "challenge_id", Value: 1}},
				Options: options.Index().
					SetName("uniq_active_enrollment").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "active"}),
			},
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}, {Key: "start_date", Value: -1}},
			},
		},
		s.userBadges: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "badge_id", Value: 1}},
				Options: options.Index().SetName("uniq_user_badge").SetUnique(true),
			},
		},
		s.favorites: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "quote_id", Value: 1}},
				Options: options.Index().SetName("uniq_user_favorite").SetUnique(true),
			},
		},
		s.badges: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "requirements.days_completed", Value: 1}}},
		},
		s.goals: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		s.devices: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Counts(ctx context.Context) (map[string]int64, error) {
	colls := []*mongo.Collection{
		s.challenges, s.userChallenges, s.badges, s.userBadges,
		s.quotes, s.favorites, s.goals, s.devices,
	}

	counts := make(map[string]int64, len(colls))
	for _, coll := range colls {
		n, err := coll.CountDocuments(ctx, bson.D{})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", coll.Name(), err)
		}
		counts[coll.Name()] = n
	}
	return counts, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database; used by tests.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

// objectID parses a hex id. Malformed ids can never match a document, so they map to ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, storage.ErrNotFound
	}
	return oid, nil
}

func objectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			out = append(out, oid)
		}
	}
	return out
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return storage.ErrNotFound
	}
	return err
}
