package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"TuneMart/model"
)

// Kind selects a record collection.
type Kind string

const (
	KindTrack      Kind = "tracks"
	KindArtist     Kind = "users"
	KindCommission Kind = "commissions"
	KindReview     Kind = "reviews"
)

// RecordStore is the query surface the discovery core needs from the
// record store. The store exclusively owns the records; the core only
// reads through this interface.
type RecordStore interface {
	// FindFiltered returns records matching filter in the given sort
	// order. An empty sort leaves the store's natural order. limit <= 0
	// means no limit.
	FindFiltered(ctx context.Context, kind Kind, filter bson.M, sort bson.D, skip, limit int64) ([]model.Record, error)

	// Count returns the number of records matching filter.
	Count(ctx context.Context, kind Kind, filter bson.M) (int64, error)

	// DistinctValues returns the distinct values of field across the
	// whole collection.
	DistinctValues(ctx context.Context, kind Kind, field string) ([]interface{}, error)

	// Sample returns up to size records drawn uniformly at random from
	// the population matching filter.
	Sample(ctx context.Context, kind Kind, filter bson.M, size int64) ([]model.Record, error)

	// TextSearch runs an indexed relevance-ranked search for query
	// intersected with filter. Results are ordered by relevance score,
	// with sort as a secondary key.
	TextSearch(ctx context.Context, kind Kind, query string, filter bson.M, sort bson.D, skip, limit int64) ([]model.Record, error)

	// RegexSearch runs a case-insensitive pattern match of pattern
	// against field, intersected with filter. No relevance ranking.
	RegexSearch(ctx context.Context, kind Kind, field, pattern string, filter bson.M, sort bson.D, skip, limit int64) ([]model.Record, error)
}

// RatingStore recomputes persisted rating aggregates. Consumed
// best-effort by the featured-artist curation path.
type RatingStore interface {
	// RefreshArtistRating recomputes the artist's average rating and
	// review count from the reviews collection, persists them, and
	// returns the new average.
	RefreshArtistRating(ctx context.Context, artistID string) (float64, error)
}

// TrackStore covers the example-media mutations the routing layer
// exposes. Every mutation here can change featured feed composition, so
// its handler must invalidate the feed cache keys.
type TrackStore interface {
	// AddExample appends an example clip to the track.
	AddExample(ctx context.Context, trackID string, example model.TrackExample) error

	// RemoveExample removes the example with the given id from the
	// track. Removing a missing example is not an error.
	RemoveExample(ctx context.Context, trackID, exampleID string) error
}
