package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// mongoRatingStore recomputes artist rating aggregates from the reviews
// collection and persists them on the user document.
type mongoRatingStore struct {
	db *mongo.Database
}

// NewMongoRatingStore creates a rating store backed by the given database.
func NewMongoRatingStore(db *mongo.Database) *mongoRatingStore {
	return &mongoRatingStore{db: db}
}

func (s *mongoRatingStore) RefreshArtistRating(ctx context.Context, artistID string) (float64, error) {
	oid, err := primitive.ObjectIDFromHex(artistID)
	if err != nil {
		return 0, fmt.Errorf("invalid artist id %q: %w", artistID, err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"artist_id": oid}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.db.Collection(string(KindReview)).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to aggregate reviews for artist %s: %w", artistID, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode rating aggregate for artist %s: %w", artistID, err)
	}

	var average float64
	var count int64
	if len(results) > 0 {
		average = results[0].Average
		count = results[0].Count
	}

	update := bson.M{"$set": bson.M{
		"average_rating": average,
		"review_count":   count,
		"updated_at":     time.Now(),
	}}
	if _, err := s.db.Collection(string(KindArtist)).UpdateByID(ctx, oid, update); err != nil {
		return 0, fmt.Errorf("failed to persist rating for artist %s: %w", artistID, err)
	}

	return average, nil
}
