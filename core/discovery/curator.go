package discovery

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"

	"TuneMart/cache"
	"TuneMart/logger"
	"TuneMart/model"
	"TuneMart/repository"
)

const (
	popularTrackCount = 5
	recentTrackCount  = 3
	randomTrackCount  = 2

	qualityArtistCount  = 7
	sampledArtistCount  = 3
	featuredArtistCount = 10
)

// Curator builds the bounded featured feeds, reading through the feed
// cache. A cache hit short-circuits all computation; a miss recomputes
// and overwrites the entry. Concurrent misses may recompute redundantly;
// recomputation is idempotent and last writer wins.
type Curator struct {
	store   repository.RecordStore
	cache   cache.Cache
	ratings repository.RatingStore

	// AsyncRatingRefresh moves the per-artist rating recompute off the
	// read path. The feed then projects last-known ratings.
	AsyncRatingRefresh bool
}

// NewCurator creates a curator. ratings may be nil to disable the rating
// recompute entirely.
func NewCurator(store repository.RecordStore, feedCache cache.Cache, ratings repository.RatingStore) *Curator {
	return &Curator{store: store, cache: feedCache, ratings: ratings}
}

// Invalidate drops the given feed cache keys. Mutations that can change
// feed composition call this before returning their own response.
func (c *Curator) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		c.cache.Delete(ctx, key)
	}
}

// InvalidateAll drops every feed cache key.
func (c *Curator) InvalidateAll(ctx context.Context) {
	c.Invalidate(ctx, cache.FeaturedTracksKey, cache.FeaturedArtistsKey)
}

func (c *Curator) cachedTracks(ctx context.Context) ([]model.TrackSummary, bool) {
	raw, ok := c.cache.Get(ctx, cache.FeaturedTracksKey)
	if !ok {
		return nil, false
	}
	var cached []model.TrackSummary
	if err := json.Unmarshal(raw, &cached); err != nil {
		logger.Warn("corrupt featured tracks cache entry, recomputing",
			logger.ErrorField(err),
		)
		return nil, false
	}
	return cached, true
}

// FeaturedTracks returns the featured tracks feed: the most purchased,
// the most recent, and a random backfill sampled from the eligible
// population outside the already-selected set.
func (c *Curator) FeaturedTracks(ctx context.Context) ([]model.TrackSummary, error) {
	if cached, ok := c.cachedTracks(ctx); ok {
		return cached, nil
	}

	eligible := bson.M{"is_private": false}

	popular, err := c.store.FindFiltered(ctx, repository.KindTrack, eligible,
		bson.D{{Key: "purchase_count", Value: -1}}, 0, popularTrackCount)
	if err != nil {
		return nil, storeErr("popular tracks", err)
	}

	recent, err := c.store.FindFiltered(ctx, repository.KindTrack, eligible,
		bson.D{{Key: "created_at", Value: -1}}, 0, recentTrackCount)
	if err != nil {
		return nil, storeErr("recent tracks", err)
	}

	// Identifiers already selected are withheld from random sampling.
	seen := make(map[string]struct{})
	exclude := make([]interface{}, 0, len(popular)+len(recent))
	for _, rec := range append(append([]model.Record{}, popular...), recent...) {
		id := rec.ID()
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		exclude = append(exclude, rec.RawID())
	}

	total, err := c.store.Count(ctx, repository.KindTrack, eligible)
	if err != nil {
		return nil, storeErr("eligible track count", err)
	}

	// Sample only when records remain outside the selection; otherwise
	// the selection already is the whole eligible universe.
	var random []model.Record
	if int64(len(exclude)) < total {
		sampleFilter := bson.M{
			"is_private": false,
			"_id":        bson.M{"$nin": exclude},
		}
		random, err = c.store.Sample(ctx, repository.KindTrack, sampleFilter, randomTrackCount)
		if err != nil {
			return nil, storeErr("random track sample", err)
		}
	}

	// Order matters for display only: popular, then random, then recent.
	merged := mergeRecords(popular, random, recent)

	summaries := make([]model.TrackSummary, 0, len(merged))
	for _, rec := range merged {
		summaries = append(summaries, model.TrackSummaryFromRecord(rec))
	}

	c.storeFeed(ctx, cache.FeaturedTracksKey, summaries)
	return summaries, nil
}

func (c *Curator) cachedArtists(ctx context.Context) ([]model.ArtistSummary, bool) {
	raw, ok := c.cache.Get(ctx, cache.FeaturedArtistsKey)
	if !ok {
		return nil, false
	}
	var cached []model.ArtistSummary
	if err := json.Unmarshal(raw, &cached); err != nil {
		logger.Warn("corrupt featured artists cache entry, recomputing",
			logger.ErrorField(err),
		)
		return nil, false
	}
	return cached, true
}

// FeaturedArtists returns the featured artists feed. Quality candidates
// (approved artists/admins with uploads or commissions) come first, a
// random sample of more quality candidates follows, and any shortfall is
// backfilled by eligibleWithFallback: approved artists/admins regardless
// of the quality predicate, so the feed stays populated in a cold-start
// catalog.
func (c *Curator) FeaturedArtists(ctx context.Context) ([]model.ArtistSummary, error) {
	if cached, ok := c.cachedArtists(ctx); ok {
		return cached, nil
	}

	commissioned, err := c.store.DistinctValues(ctx, repository.KindCommission, "artist_id")
	if err != nil {
		return nil, storeErr("commissioned artist ids", err)
	}
	if commissioned == nil {
		commissioned = []interface{}{}
	}

	// Quality candidates: approved artists/admins with at least one
	// uploaded track or at least one commission referencing them.
	quality := func() bson.M {
		return bson.M{
			"approved": true,
			"role":     bson.M{"$in": []string{"artist", "admin"}},
			"$or": []bson.M{
				{"track_count": bson.M{"$gte": 1}},
				{"_id": bson.M{"$in": commissioned}},
			},
		}
	}

	picked, err := c.store.FindFiltered(ctx, repository.KindArtist, quality(), nil, 0, qualityArtistCount)
	if err != nil {
		return nil, storeErr("quality artists", err)
	}

	seen := make(map[string]struct{})
	exclude := make([]interface{}, 0, len(picked))
	for _, rec := range picked {
		if id := rec.ID(); id != "" {
			seen[id] = struct{}{}
			exclude = append(exclude, rec.RawID())
		}
	}

	sampleFilter := quality()
	sampleFilter["_id"] = bson.M{"$nin": exclude}
	sampled, err := c.store.Sample(ctx, repository.KindArtist, sampleFilter, sampledArtistCount)
	if err != nil {
		return nil, storeErr("sampled artists", err)
	}

	merged := mergeRecords(picked, sampled)

	// eligibleWithFallback: below target, top up with any approved
	// artist/admin not already included. The quality predicate is
	// deliberately ignored here.
	if len(merged) < featuredArtistCount {
		excludeAll := make([]interface{}, 0, len(merged))
		for _, rec := range merged {
			excludeAll = append(excludeAll, rec.RawID())
		}
		fallback := bson.M{
			"approved": true,
			"role":     bson.M{"$in": []string{"artist", "admin"}},
			"_id":      bson.M{"$nin": excludeAll},
		}
		shortfall := int64(featuredArtistCount - len(merged))
		backfill, err := c.store.FindFiltered(ctx, repository.KindArtist, fallback, nil, 0, shortfall)
		if err != nil {
			return nil, storeErr("artist backfill", err)
		}
		merged = mergeRecords(merged, backfill)
	}

	c.refreshRatings(ctx, merged)

	summaries := make([]model.ArtistSummary, 0, len(merged))
	for _, rec := range merged {
		summaries = append(summaries, model.ArtistSummaryFromRecord(rec))
	}

	c.storeFeed(ctx, cache.FeaturedArtistsKey, summaries)
	return summaries, nil
}

// refreshRatings recomputes each artist's persisted rating aggregate.
// Best-effort per item: a failure is logged and the artist keeps its
// last-known rating; the feed build never aborts.
func (c *Curator) refreshRatings(ctx context.Context, artists []model.Record) {
	if c.ratings == nil {
		return
	}

	for _, rec := range artists {
		id := rec.ID()
		if id == "" {
			continue
		}

		if c.AsyncRatingRefresh {
			go func(artistID string) {
				if _, err := c.ratings.RefreshArtistRating(context.Background(), artistID); err != nil {
					logger.Warn("async rating refresh failed",
						logger.String("artistId", artistID),
						logger.ErrorField(err),
					)
				}
			}(id)
			continue
		}

		average, err := c.ratings.RefreshArtistRating(ctx, id)
		if err != nil {
			logger.Warn("rating refresh failed, keeping last-known rating",
				logger.String("artistId", id),
				logger.ErrorField(err),
			)
			continue
		}
		rec["average_rating"] = average
	}
}

func (c *Curator) storeFeed(ctx context.Context, key string, feed interface{}) {
	raw, err := json.Marshal(feed)
	if err != nil {
		logger.Error("failed to serialize feed for caching",
			logger.String("key", key),
			logger.ErrorField(err),
		)
		return
	}
	c.cache.Set(ctx, key, raw)
}

// mergeRecords concatenates record lists, dropping records without an
// identifier and any duplicate identifiers, keeping first occurrence.
func mergeRecords(lists ...[]model.Record) []model.Record {
	seen := make(map[string]struct{})
	var merged []model.Record
	for _, list := range lists {
		for _, rec := range list {
			id := rec.ID()
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, rec)
		}
	}
	return merged
}
