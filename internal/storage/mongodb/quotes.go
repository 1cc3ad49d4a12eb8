package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dailyMotivatorAPI/internal/storage"
	"dailyMotivatorAPI/internal/types/quote"
)

func (s *Store) InsertQuotes(ctx context.Context, quotes []*quote.Quote) error {
	if len(quotes) == 0 {
		return nil
	}

	docs := make([]interface{}, len(quotes))
	for i, q := range quotes {
		doc := quoteDoc{
			ID:        primitive.NewObjectID(),
			Text:      q.Text,
			Author:    q.Author,
			Category:  q.Category,
			CreatedAt: q.CreatedAt,
		}
		docs[i] = doc
		q.ID = doc.ID.Hex()
	}

	if _, err := s.quotes.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert quotes: %w", err)
	}
	return nil
}

func (s *Store) findQuotes(ctx context.Context, filter bson.M) ([]*quote.Quote, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.quotes.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer cursor.Close(ctx)

	out := []*quote.Quote{}
	for cursor.Next(ctx) {
		var doc quoteDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode quote: %w", err)
		}
		out = append(out, doc.toQuote())
	}
	return out, cursor.Err()
}

func (s *Store) ListQuotes(ctx context.Context, category string) ([]*quote.Quote, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	return s.findQuotes(ctx, filter)
}

func (s *Store) GetQuote(ctx context.Context, id string) (*quote.Quote, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc quoteDoc
	if err := s.quotes.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toQuote(), nil
}

func (s *Store) GetQuotes(ctx context.Context, ids []string) ([]*quote.Quote, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*quote.Quote{}, nil
	}
	return s.findQuotes(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

func (s *Store) CountQuotes(ctx context.Context) (int64, error) {
	return s.quotes.CountDocuments(ctx, bson.D{})
}

// --- favorites ---

func (s *Store) AddFavorite(ctx context.Context, userID, quoteID string, at time.Time) (*quote.Favorite, bool, error) {
	quoteOID, err := objectID(quoteID)
	if err != nil {
		return nil, false, err
	}

	filter := bson.M{"user_id": userID, "quote_id": quoteOID}
	update := bson.M{"$setOnInsert": bson.M{"added_at": at}}

	res, err := s.favorites.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("failed to add favorite: %w", err)
	}
	created := err == nil && res.UpsertedCount == 1

	var doc favoriteDoc
	if err := s.favorites.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, false, notFound(err)
	}
	return doc.toFavorite(), created, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, quoteID string) error {
	quoteOID, err := objectID(quoteID)
	if err != nil {
		return err
	}

	res, err := s.favorites.DeleteOne(ctx, bson.M{"user_id": userID, "quote_id": quoteOID})
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListFavorites(ctx context.Context, userID string) ([]*quote.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "added_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := s.favorites.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer cursor.Close(ctx)

	out := []*quote.Favorite{}
	for cursor.Next(ctx) {
		var doc favoriteDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode favorite: %w", err)
		}
		out = append(out, doc.toFavorite())
	}
	return out, cursor.Err()
}
