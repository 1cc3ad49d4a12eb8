package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/goal"
	"dailyMotivatorAPI/internal/types/notification"
)

func (s *Store) CreateGoal(ctx context.Context, g *goal.Goal) (*goal.Goal, error) {
	doc := goalDoc{
		ID:          primitive.NewObjectID(),
		UserID:      g.UserID,
		Title:       g.Title,
		Description: g.Description,
		Completed:   g.Completed,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
	if _, err := s.goals.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert goal: %w", err)
	}
	return doc.toGoal(), nil
}

func (s *Store) UpdateGoal(ctx context.Context, userID, id string, upd *goal.UpdateGoalRequest, at time.Time) (*goal.Goal, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": at}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Completed != nil {
		set["completed"] = *upd.Completed
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc goalDoc
	err = s.goals.FindOneAndUpdate(ctx, bson.M{"_id": oid, "user_id": userID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	return doc.toGoal(), nil
}

func (s *Store) DeleteGoal(ctx context.Context, userID, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	res, err := s.goals.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListGoals(ctx context.Context, userID string) ([]*goal.Goal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.goals.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer cursor.Close(ctx)

	out := []*goal.Goal{}
	for cursor.Next(ctx) {
		var doc goalDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode goal: %w", err)
		}
		out = append(out, doc.toGoal())
	}
	return out, cursor.Err()
}

// --- devices ---

func (s *Store) UpsertDevice(ctx context.Context, d *notification.DeviceToken) error {
	doc := deviceDoc{
		Token:     d.Token,
		UserID:    d.UserID,
		Platform:  d.Platform,
		UpdatedAt: d.UpdatedAt,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.devices.ReplaceOne(ctx, bson.M{"_id": d.Token}, doc, opts); err != nil {
		return fmt.Errorf("failed to upsert device token: %w", err)
	}
	return nil
}

func (s *Store) ListDevices(ctx context.Context, userID string) ([]notification.DeviceToken, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.devices.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list device tokens: %w", err)
	}
	defer cursor.Close(ctx)

	out := []notification.DeviceToken{}
	for cursor.Next(ctx) {
		var doc deviceDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode device token: %w", err)
		}
		out = append(out, doc.toDevice())
	}
	return out, cursor.Err()
}
