package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"TuneMart/model"
)

// mongoStore implements RecordStore and TrackStore over a Mongo database.
type mongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a record store backed by the given database.
func NewMongoStore(db *mongo.Database) *mongoStore {
	return &mongoStore{db: db}
}

func (s *mongoStore) collection(kind Kind) *mongo.Collection {
	return s.db.Collection(string(kind))
}

// cloneFilter copies a filter so query-phase decoration never leaks back
// into the caller's map.
func cloneFilter(filter bson.M) bson.M {
	out := make(bson.M, len(filter)+1)
	for k, v := range filter {
		out[k] = v
	}
	return out
}

func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]model.Record, error) {
	defer cursor.Close(ctx)

	var records []model.Record
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

func (s *mongoStore) FindFiltered(ctx context.Context, kind Kind, filter bson.M, sort bson.D, skip, limit int64) ([]model.Record, error) {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.collection(kind).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", kind, err)
	}
	return decodeAll(ctx, cursor)
}

func (s *mongoStore) Count(ctx context.Context, kind Kind, filter bson.M) (int64, error) {
	count, err := s.collection(kind).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", kind, err)
	}
	return count, nil
}

func (s *mongoStore) DistinctValues(ctx context.Context, kind Kind, field string) ([]interface{}, error) {
	values, err := s.collection(kind).Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to read distinct %s.%s: %w", kind, field, err)
	}
	return values, nil
}

func (s *mongoStore) Sample(ctx context.Context, kind Kind, filter bson.M, size int64) ([]model.Record, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}

	cursor, err := s.collection(kind).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sample %s: %w", kind, err)
	}
	return decodeAll(ctx, cursor)
}

func (s *mongoStore) TextSearch(ctx context.Context, kind Kind, query string, filter bson.M, sort bson.D, skip, limit int64) ([]model.Record, error) {
	textFilter := cloneFilter(filter)
	textFilter["$text"] = bson.M{"$search": query}

	// Relevance score first, any explicit order as a secondary key.
	textSort := bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}}
	textSort = append(textSort, sort...)

	opts := options.Find().
		SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
		SetSort(textSort)
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.collection(kind).Find(ctx, textFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to text-search %s: %w", kind, err)
	}
	return decodeAll(ctx, cursor)
}

func (s *mongoStore) RegexSearch(ctx context.Context, kind Kind, field, pattern string, filter bson.M, sort bson.D, skip, limit int64) ([]model.Record, error) {
	regexFilter := cloneFilter(filter)
	regexFilter[field] = primitive.Regex{Pattern: pattern, Options: "i"}

	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	if skip > 0 {
		opts.SetSkip(skip)
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.collection(kind).Find(ctx, regexFilter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to regex-search %s: %w", kind, err)
	}
	return decodeAll(ctx, cursor)
}

// AddExample appends an example clip to the track document and bumps its
// example count.
func (s *mongoStore) AddExample(ctx context.Context, trackID string, example model.TrackExample) error {
	oid, err := primitive.ObjectIDFromHex(trackID)
	if err != nil {
		return fmt.Errorf("invalid track id %q: %w", trackID, err)
	}

	update := bson.M{
		"$push": bson.M{"examples": example},
		"$inc":  bson.M{"example_count": 1},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := s.collection(KindTrack).UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to add example to track %s: %w", trackID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveExample pulls the example with the given id from the track.
func (s *mongoStore) RemoveExample(ctx context.Context, trackID, exampleID string) error {
	oid, err := primitive.ObjectIDFromHex(trackID)
	if err != nil {
		return fmt.Errorf("invalid track id %q: %w", trackID, err)
	}

	update := bson.M{
		"$pull": bson.M{"examples": bson.M{"id": exampleID}},
		"$inc":  bson.M{"example_count": -1},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := s.collection(KindTrack).UpdateByID(ctx, oid, update)
	if err != nil {
		return fmt.Errorf("failed to remove example from track %s: %w", trackID, err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
