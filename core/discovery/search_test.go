package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"TuneMart/model"
	"TuneMart/repository"
)

func trackRecord(title string, purchases int64, created time.Time) model.Record {
	return model.Record{
		"_id":            primitive.NewObjectID(),
		"title":          title,
		"genre":          "pop",
		"track_type":     "original",
		"is_private":     false,
		"purchase_count": purchases,
		"created_at":     created,
	}
}

func TestSearchTracksPlainListing(t *testing.T) {
	store := newFakeStore()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := int64(0); i < 25; i++ {
		store.add(repository.KindTrack, trackRecord("track", i, base.Add(time.Duration(i)*time.Hour)))
	}
	// Private tracks never appear in listings.
	hidden := trackRecord("secret", 99, base)
	hidden["is_private"] = true
	store.add(repository.KindTrack, hidden)

	engine := NewEngine(store)
	page, err := engine.SearchTracks(context.Background(), TrackQuery{
		OrderBy: "popular",
		Page:    Pagination{Page: 2, Limit: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(25), page.TotalTracks)
	assert.Equal(t, int64(3), page.TotalPages)
	assert.Equal(t, int64(2), page.CurrentPage)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)
	require.Len(t, page.Tracks, 10)
	// popular ordering: page 2 starts at the 11th highest purchase count.
	assert.Equal(t, int64(14), page.Tracks[0].PurchaseCount)
}

func TestSearchTracksTextPhase(t *testing.T) {
	store := newFakeStore()
	base := time.Now()
	hit := trackRecord("Sunrise Over Water", 5, base)
	miss := trackRecord("Something Else", 9, base)
	store.add(repository.KindTrack, hit, miss)
	store.addTextHit("sunrise", hit.ID())

	engine := NewEngine(store)
	page, err := engine.SearchTracks(context.Background(), TrackQuery{Query: "sunrise"})
	require.NoError(t, err)

	require.Len(t, page.Tracks, 1)
	assert.Equal(t, "Sunrise Over Water", page.Tracks[0].Title)
	// Total counts the text phase, not the unfiltered listing.
	assert.Equal(t, int64(1), page.TotalTracks)
	assert.Equal(t, int64(1), page.TotalPages)
	assert.Equal(t, 0, store.regexCalls)
}

func TestSearchTracksSubstringFallback(t *testing.T) {
	store := newFakeStore()
	store.add(repository.KindTrack,
		trackRecord("Rainbow Road", 1, time.Now()),
		trackRecord("Moonlight", 2, time.Now()),
	)
	// No indexed hits for the query; the engine must fall back.

	engine := NewEngine(store)
	page, err := engine.SearchTracks(context.Background(), TrackQuery{Query: "rainbow"})
	require.NoError(t, err)

	assert.Equal(t, 1, store.textCalls)
	assert.Equal(t, 1, store.regexCalls)
	require.Len(t, page.Tracks, 1)
	assert.Equal(t, "Rainbow Road", page.Tracks[0].Title)
	assert.Equal(t, int64(1), page.TotalTracks)
	assert.Equal(t, int64(1), page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)
}

func TestSearchTracksFallbackEscapesMetacharacters(t *testing.T) {
	store := newFakeStore()
	literal := trackRecord("a.b*c mix", 1, time.Now())
	decoy := trackRecord("aXbc", 1, time.Now())
	store.add(repository.KindTrack, literal, decoy)

	engine := NewEngine(store)
	page, err := engine.SearchTracks(context.Background(), TrackQuery{Query: "a.b*c"})
	require.NoError(t, err)

	// The query is matched literally; "aXbc" would match the raw pattern.
	require.Len(t, page.Tracks, 1)
	assert.Equal(t, "a.b*c mix", page.Tracks[0].Title)
}

func TestSearchTracksNoMatchesEitherPhase(t *testing.T) {
	store := newFakeStore()
	store.add(repository.KindTrack, trackRecord("Moonlight", 2, time.Now()))

	engine := NewEngine(store)
	page, err := engine.SearchTracks(context.Background(), TrackQuery{Query: "zebra"})
	require.NoError(t, err)

	assert.Empty(t, page.Tracks)
	assert.Equal(t, int64(0), page.TotalTracks)
	assert.Equal(t, int64(0), page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPrevPage)
}

func TestSearchTracksRejectsDegenerateQuery(t *testing.T) {
	engine := NewEngine(newFakeStore())

	_, err := engine.SearchTracks(context.Background(), TrackQuery{Query: "***"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestSearchArtists(t *testing.T) {
	store := newFakeStore()
	store.add(repository.KindArtist,
		model.Record{"_id": primitive.NewObjectID(), "username": "aria", "approved": true, "role": "artist", "available_for_commission": true},
		model.Record{"_id": primitive.NewObjectID(), "username": "bram", "approved": true, "role": "artist", "available_for_commission": false},
		model.Record{"_id": primitive.NewObjectID(), "username": "casey", "approved": false, "role": "artist"},
		model.Record{"_id": primitive.NewObjectID(), "username": "drew", "approved": true, "role": "listener"},
	)

	engine := NewEngine(store)
	page, err := engine.SearchArtists(context.Background(), ArtistQuery{OrderBy: "alphabetical"})
	require.NoError(t, err)

	// Unapproved accounts and plain listeners are filtered out.
	require.Len(t, page.Artists, 2)
	assert.Equal(t, "aria", page.Artists[0].Username)
	assert.Equal(t, "bram", page.Artists[1].Username)
	assert.Equal(t, int64(2), page.TotalArtists)

	page, err = engine.SearchArtists(context.Background(), ArtistQuery{Available: "true"})
	require.NoError(t, err)
	require.Len(t, page.Artists, 1)
	assert.Equal(t, "aria", page.Artists[0].Username)
}

func TestTrackByID(t *testing.T) {
	store := newFakeStore()
	rec := trackRecord("Moonlight", 2, time.Now())
	store.add(repository.KindTrack, rec)

	engine := NewEngine(store)

	found, err := engine.TrackByID(context.Background(), rec.ID())
	require.NoError(t, err)
	assert.Equal(t, "Moonlight", found.Title)

	_, err = engine.TrackByID(context.Background(), primitive.NewObjectID().Hex())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)

	_, err = engine.TrackByID(context.Background(), "bogus")
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestTrackByIDHidesPrivateTracks(t *testing.T) {
	store := newFakeStore()
	rec := trackRecord("Secret", 2, time.Now())
	rec["is_private"] = true
	store.add(repository.KindTrack, rec)

	engine := NewEngine(store)
	_, err := engine.TrackByID(context.Background(), rec.ID())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestPageMeta(t *testing.T) {
	totalPages, hasNext, hasPrev := pageMeta(0, Pagination{Page: 1, Limit: 10})
	assert.Equal(t, int64(0), totalPages)
	assert.False(t, hasNext)
	assert.False(t, hasPrev)

	totalPages, hasNext, hasPrev = pageMeta(95, Pagination{Page: 10, Limit: 10})
	assert.Equal(t, int64(10), totalPages)
	assert.False(t, hasNext)
	assert.True(t, hasPrev)

	totalPages, hasNext, hasPrev = pageMeta(10, Pagination{Page: 1, Limit: 10})
	assert.Equal(t, int64(1), totalPages)
	assert.False(t, hasNext)
	assert.False(t, hasPrev)
}
