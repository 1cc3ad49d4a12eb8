package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyMotivatorAPI/internal/types/badge"
)

func (s *Store) InsertBadges(ctx context.Context, badges []*badge.Badge) error {
	if len(badges) == 0 {
		return nil
	}

	docs := make([]interface{}, len(badges))
	for i, b := range badges {
		doc := fromBadge(b)
		doc.ID = primitive.NewObjectID()
		docs[i] = doc
		b.ID = doc.ID.Hex()
	}

	if _, err := s.badges.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert badges: %w", err)
	}
	return nil
}

func (s *Store) ListBadges(ctx context.Context) ([]*badge.Badge, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "category", Value: 1},
		{Key: "requirements.days_completed", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := s.badges.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []badgeDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode badges: %w", err)
	}

	out := make([]*badge.Badge, len(docs))
	for i, doc := range docs {
		out[i] = doc.toBadge()
	}
	return out, nil
}

func (s *Store) GetBadge(ctx context.Context, id string) (*badge.Badge, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc badgeDoc
	if err := s.badges.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toBadge(), nil
}

func (s *Store) FindBadge(ctx context.Context, category string, daysCompleted int) (*badge.Badge, error) {
	filter := bson.M{"category": category, "requirements.days_completed": daysCompleted}
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: 1}})

	var doc badgeDoc
	if err := s.badges.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toBadge(), nil
}

func (s *Store) CountBadges(ctx context.Context) (int64, error) {
	return s.badges.CountDocuments(ctx, bson.D{})
}

// AwardBadge upserts on (user_id, badge_id); $setOnInsert keeps the first earned_at.
func (s *Store) AwardBadge(ctx context.Context, userID, badgeID string, at time.Time) (*badge.UserBadge, bool, error) {
	badgeOID, err := objectID(badgeID)
	if err != nil {
		return nil, false, err
	}

	filter := bson.M{"user_id": userID, "badge_id": badgeOID}
	update := bson.M{"$setOnInsert": bson.M{"earned_at": at}}

	res, err := s.userBadges.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	// Two concurrent upserts can race on the unique index; the loser simply reads the winner.
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("failed to award badge: %w", err)
	}
	created := err == nil && res.UpsertedCount == 1

	var doc userBadgeDoc
	if err := s.userBadges.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, false, notFound(err)
	}
	return doc.toUserBadge(), created, nil
}

func (s *Store) ListUserBadges(ctx context.Context, userID string) ([]*badge.UserBadge, error) {
	opts := options.Find().SetSort(bson.D{{Key: "earned_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.userBadges.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	defer cursor.Close(ctx)

	out := []*badge.UserBadge{}
	for cursor.Next(ctx) {
		var doc userBadgeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user badge: %w", err)
		}
		out = append(out, doc.toUserBadge())
	}
	return out, cursor.Err()
}
