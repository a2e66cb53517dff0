package model

import "time"

// ArtistSummary is the listing-view projection of an artist record.
type ArtistSummary struct {
	ID                     string  `json:"id"`
	Username               string  `json:"username"`
	Role                   string  `json:"role,omitempty"`
	AverageRating          float64 `json:"averageRating"`
	ReviewCount            int64   `json:"reviewCount"`
	TrackCount             int64   `json:"trackCount"`
	CommissionCount        int64   `json:"commissionCount"`
	AvailableForCommission bool    `json:"availableForCommission"`
}

// TrackSummary is the listing-view projection of a track record. Artist
// holds either an inline ArtistSummary (owner populated on the record) or
// the bare owner reference id as a string.
type TrackSummary struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Artist        interface{} `json:"artist,omitempty"`
	Genre         string      `json:"genre,omitempty"`
	KeySignature  string      `json:"keySignature,omitempty"`
	VocalRange    string      `json:"vocalRange,omitempty"`
	TrackType     string      `json:"trackType,omitempty"`
	PurchaseCount int64       `json:"purchaseCount"`
	AverageRating float64     `json:"averageRating"`
	ExampleCount  int64       `json:"exampleCount"`
	CreatedAt     time.Time   `json:"createdAt"`
}

// ArtistSummaryFromRecord projects an artist record. Malformed fields
// degrade to zero values rather than failing.
func ArtistSummaryFromRecord(rec Record) ArtistSummary {
	return ArtistSummary{
		ID:                     rec.ID(),
		Username:               rec.Str("username"),
		Role:                   rec.Str("role"),
		AverageRating:          rec.Float64("average_rating"),
		ReviewCount:            rec.Int64("review_count"),
		TrackCount:             rec.Int64("track_count"),
		CommissionCount:        rec.Int64("commission_count"),
		AvailableForCommission: rec.Bool("available_for_commission"),
	}
}

// TrackSummaryFromRecord projects a track record. The owner reference is
// passed through when it is not populated inline.
func TrackSummaryFromRecord(rec Record) TrackSummary {
	s := TrackSummary{
		ID:            rec.ID(),
		Title:         rec.Str("title"),
		Genre:         rec.Str("genre"),
		KeySignature:  rec.Str("key_signature"),
		VocalRange:    rec.Str("vocal_range"),
		TrackType:     rec.Str("track_type"),
		PurchaseCount: rec.Int64("purchase_count"),
		AverageRating: rec.Float64("average_rating"),
		ExampleCount:  rec.Int64("example_count"),
		CreatedAt:     rec.Time("created_at"),
	}

	if owner := rec.Sub("artist"); owner != nil {
		s.Artist = ArtistSummaryFromRecord(owner)
	} else if ref := (Record{"_id": rec["artist"]}).ID(); ref != "" {
		s.Artist = ref
	}

	return s
}
