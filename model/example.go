package model

import "time"

// TrackExample is a promotional example clip attached to a track. Adding
// or removing one changes what the featured feeds may surface, so the
// handlers that mutate examples must drop the feed cache keys.
type TrackExample struct {
	ID      string    `json:"id" bson:"id"`
	Label   string    `json:"label,omitempty" bson:"label,omitempty"`
	URL     string    `json:"url" bson:"url"`
	AddedAt time.Time `json:"addedAt" bson:"added_at"`
}
