package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/challenge"
)

func (s *Store) InsertChallenges(ctx context.Context, challenges []*challenge.Challenge) error {
	if len(challenges) == 0 {
		return nil
	}

	docs := make([]interface{}, len(challenges))
	for i, c := range challenges {
		doc := fromChallenge(c)
		doc.ID = primitive.NewObjectID()
		docs[i] = doc
		c.ID = doc.ID.Hex()
	}

	if _, err := s.challenges.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert challenges: %w", err)
	}
	return nil
}

func (s *Store) ListChallenges(ctx context.Context, category string) ([]*challenge.Challenge, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "category", Value: 1},
		{Key: "duration_days", Value: 1},
		{Key: "_id", Value: 1},
	})

	cursor, err := s.challenges.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	defer cursor.Close(ctx)

	out := []*challenge.Challenge{}
	for cursor.Next(ctx) {
		var doc challengeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode challenge: %w", err)
		}
		out = append(out, doc.toChallenge())
	}
	return out, cursor.Err()
}

func (s *Store) GetChallenge(ctx context.Context, id string) (*challenge.Challenge, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc challengeDoc
	if err := s.challenges.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toChallenge(), nil
}

func (s *Store) CountChallenges(ctx context.Context) (int64, error) {
	return s.challenges.CountDocuments(ctx, bson.D{})
}

// --- enrollments ---

func (s *Store) CreateEnrollment(ctx context.Context, uc *challenge.UserChallenge) (*challenge.UserChallenge, bool, error) {
	challengeOID, err := objectID(uc.ChallengeID)
	if err != nil {
		return nil, false, err
	}

	tasks := uc.CompletedTasks
	if tasks == nil {
		tasks = []string{}
	}
	doc := userChallengeDoc{
		ID:             primitive.NewObjectID(),
		UserID:         uc.UserID,
		ChallengeID:    challengeOID,
		Status:         string(uc.Status),
		CurrentDay:     uc.CurrentDay,
		CompletedTasks: tasks,
		StartDate:      uc.StartDate,
		LastUpdated:    uc.LastUpdated,
		CompletedAt:    uc.CompletedAt,
	}

	if _, err := s.userChallenges.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			existing, ferr := s.FindActiveEnrollment(ctx, uc.UserID, uc.ChallengeID)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to insert enrollment: %w", err)
	}
	return doc.toUserChallenge(), true, nil
}

func (s *Store) FindActiveEnrollment(ctx context.Context, userID, challengeID string) (*challenge.UserChallenge, error) {
	challengeOID, err := objectID(challengeID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"user_id": userID, "challenge_id": challengeOID, "status": string(challenge.StatusActive)}
	var doc userChallengeDoc
	if err := s.userChallenges.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toUserChallenge(), nil
}

var newestEnrollmentFirst = bson.D{{Key: "start_date", Value: -1}, {Key: "_id", Value: -1}}

func (s *Store) LatestActiveEnrollment(ctx context.Context, userID string) (*challenge.UserChallenge, error) {
	filter := bson.M{"user_id": userID, "status": string(challenge.StatusActive)}
	opts := options.FindOne().SetSort(newestEnrollmentFirst)

	var doc userChallengeDoc
	if err := s.userChallenges.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toUserChallenge(), nil
}

func (s *Store) ListEnrollments(ctx context.Context, userID string) ([]*challenge.UserChallenge, error) {
	opts := options.Find().SetSort(newestEnrollmentFirst)
	cursor, err := s.userChallenges.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []userChallengeDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode enrollments: %w", err)
	}

	out := make([]*challenge.UserChallenge, len(docs))
	for i, doc := range docs {
		out[i] = doc.toUserChallenge()
	}
	return out, nil
}

func (s *Store) GetEnrollment(ctx context.Context, userID, id string) (*challenge.UserChallenge, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc userChallengeDoc
	if err := s.userChallenges.FindOne(ctx, bson.M{"_id": oid, "user_id": userID}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toUserChallenge(), nil
}

func (s *Store) UpdateEnrollment(ctx context.Context, upd storage.EnrollmentUpdate) (*challenge.UserChallenge, error) {
	oid, err := primitive.ObjectIDFromHex(upd.ID)
	if err != nil {
		return nil, storage.ErrConflict
	}

	tasks := upd.CompletedTasks
	if tasks == nil {
		tasks = []string{}
	}
	set := bson.M{
		"status":          string(upd.Status),
		"current_day":     upd.CurrentDay,
		"completed_tasks": tasks,
		"last_updated":    upd.LastUpdated,
	}
	if upd.CompletedAt != nil {
		set["completed_at"] = *upd.CompletedAt
	}

	filter := bson.M{
		"_id":         oid,
		"user_id":     upd.UserID,
		"status":      string(upd.ExpectStatus),
		"current_day": upd.ExpectDay,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userChallengeDoc
	err = s.userChallenges.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	return doc.toUserChallenge(), nil
}
