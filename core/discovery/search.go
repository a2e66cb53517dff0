package discovery

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"TuneMart/model"
	"TuneMart/repository"
)

// Engine answers parameterized listing queries against one record kind,
// with a two-phase search when a free-text query is present: an indexed
// relevance search first, then an escaped case-insensitive substring
// fallback against the primary display field.
type Engine struct {
	store repository.RecordStore
}

// NewEngine creates a search engine over the given record store.
func NewEngine(store repository.RecordStore) *Engine {
	return &Engine{store: store}
}

// TrackPage is one page of track summaries plus pagination metadata.
type TrackPage struct {
	Tracks      []model.TrackSummary `json:"tracks"`
	CurrentPage int64                `json:"currentPage"`
	TotalPages  int64                `json:"totalPages"`
	TotalTracks int64                `json:"totalTracks"`
	Limit       int64                `json:"limit"`
	HasNextPage bool                 `json:"hasNextPage"`
	HasPrevPage bool                 `json:"hasPrevPage"`
}

// ArtistPage is one page of artist summaries plus pagination metadata.
type ArtistPage struct {
	Artists      []model.ArtistSummary `json:"artists"`
	CurrentPage  int64                 `json:"currentPage"`
	TotalPages   int64                 `json:"totalPages"`
	TotalArtists int64                 `json:"totalArtists"`
	Limit        int64                 `json:"limit"`
	HasNextPage  bool                  `json:"hasNextPage"`
	HasPrevPage  bool                  `json:"hasPrevPage"`
}

func pageMeta(total int64, p Pagination) (totalPages int64, hasNext, hasPrev bool) {
	if total == 0 {
		return 0, false, false
	}
	totalPages = (total + p.Limit - 1) / p.Limit
	return totalPages, p.Page < totalPages, p.Page > 1
}

func withText(filter bson.M, query string) bson.M {
	out := make(bson.M, len(filter)+1)
	for k, v := range filter {
		out[k] = v
	}
	out["$text"] = bson.M{"$search": query}
	return out
}

func withRegex(filter bson.M, field, pattern string) bson.M {
	out := make(bson.M, len(filter)+1)
	for k, v := range filter {
		out[k] = v
	}
	out[field] = primitive.Regex{Pattern: pattern, Options: "i"}
	return out
}

// search runs the shared listing flow for one kind and returns the page
// of records plus the total count, consistent with whichever phase
// produced the rows.
func (e *Engine) search(ctx context.Context, kind repository.Kind, displayField string, filter bson.M, sort bson.D, query string, p Pagination) ([]model.Record, int64, error) {
	if query == "" {
		records, err := e.store.FindFiltered(ctx, kind, filter, sort, p.Skip(), p.Limit)
		if err != nil {
			return nil, 0, storeErr("filtered listing", err)
		}
		total, err := e.store.Count(ctx, kind, filter)
		if err != nil {
			return nil, 0, storeErr("filtered count", err)
		}
		return records, total, nil
	}

	if err := validateSearchQuery(query); err != nil {
		return nil, 0, err
	}

	// Phase 1: indexed relevance search.
	records, err := e.store.TextSearch(ctx, kind, query, filter, sort, p.Skip(), p.Limit)
	if err != nil {
		return nil, 0, storeErr("text search", err)
	}
	if len(records) > 0 {
		total, err := e.store.Count(ctx, kind, withText(filter, query))
		if err != nil {
			return nil, 0, storeErr("text search count", err)
		}
		return records, total, nil
	}

	// Phase 2: escaped substring fallback against the display field. The
	// count must come from this phase so rows and totals stay consistent.
	pattern := regexp.QuoteMeta(query)
	records, err = e.store.RegexSearch(ctx, kind, displayField, pattern, filter, sort, p.Skip(), p.Limit)
	if err != nil {
		return nil, 0, storeErr("substring search", err)
	}
	total, err := e.store.Count(ctx, kind, withRegex(filter, displayField, pattern))
	if err != nil {
		return nil, 0, storeErr("substring search count", err)
	}
	return records, total, nil
}

// SearchTracks answers a track listing query.
func (e *Engine) SearchTracks(ctx context.Context, q TrackQuery) (*TrackPage, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	p := q.Page.normalized()

	records, total, err := e.search(ctx, repository.KindTrack, "title", filter, q.sort(), q.Query, p)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.TrackSummary, 0, len(records))
	for _, rec := range records {
		if rec.ID() == "" {
			continue
		}
		summaries = append(summaries, model.TrackSummaryFromRecord(rec))
	}

	totalPages, hasNext, hasPrev := pageMeta(total, p)
	return &TrackPage{
		Tracks:      summaries,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		TotalTracks: total,
		Limit:       p.Limit,
		HasNextPage: hasNext,
		HasPrevPage: hasPrev,
	}, nil
}

// SearchArtists answers an artist listing query.
func (e *Engine) SearchArtists(ctx context.Context, q ArtistQuery) (*ArtistPage, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	p := q.Page.normalized()

	records, total, err := e.search(ctx, repository.KindArtist, "username", filter, q.sort(), q.Query, p)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.ArtistSummary, 0, len(records))
	for _, rec := range records {
		if rec.ID() == "" {
			continue
		}
		summaries = append(summaries, model.ArtistSummaryFromRecord(rec))
	}

	totalPages, hasNext, hasPrev := pageMeta(total, p)
	return &ArtistPage{
		Artists:      summaries,
		CurrentPage:  p.Page,
		TotalPages:   totalPages,
		TotalArtists: total,
		Limit:        p.Limit,
		HasNextPage:  hasNext,
		HasPrevPage:  hasPrev,
	}, nil
}

// TrackByID looks up a single visible track.
func (e *Engine) TrackByID(ctx context.Context, id string) (*model.TrackSummary, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, validationf("invalid track id %q", id)
	}

	records, err := e.store.FindFiltered(ctx, repository.KindTrack, bson.M{"_id": oid, "is_private": false}, nil, 0, 1)
	if err != nil {
		return nil, storeErr("track lookup", err)
	}
	if len(records) == 0 {
		return nil, &NotFoundError{Message: "track not found"}
	}

	summary := model.TrackSummaryFromRecord(records[0])
	return &summary, nil
}
