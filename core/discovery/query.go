package discovery

import (
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultLimit is the page size when none is requested.
	DefaultLimit = 10
	// MaxLimit caps the page size.
	MaxLimit = 50

	maxQueryLength = 100
)

var alphaNumeric = regexp.MustCompile(`[A-Za-z0-9]`)

// Pagination is a normalized page request: page >= 1, limit in [1, MaxLimit].
type Pagination struct {
	Page  int64
	Limit int64
}

// Skip returns the number of records to skip; never negative.
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) normalized() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// ParsePagination builds a Pagination from raw query parameters. Parse
// failures and out-of-range values fall back to defaults and clamps, they
// are never an error.
func ParsePagination(pageStr, limitStr string) Pagination {
	page, err := strconv.ParseInt(pageStr, 10, 64)
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil {
		limit = DefaultLimit
	}

	return Pagination{Page: page, Limit: limit}.normalized()
}

// SortOrder is one field plus a direction.
type SortOrder struct {
	Field      string
	Descending bool
}

func (o SortOrder) bson() bson.D {
	dir := 1
	if o.Descending {
		dir = -1
	}
	return bson.D{{Key: o.Field, Value: dir}}
}

// Orderby tokens map to a fixed (field, direction) table per kind.
// Unrecognized or absent tokens leave the store's natural order; that is
// a deliberate fallback, not an error.
var trackOrderings = map[string]SortOrder{
	"newest":       {Field: "created_at", Descending: true},
	"oldest":       {Field: "created_at"},
	"popular":      {Field: "purchase_count", Descending: true},
	"rating":       {Field: "average_rating", Descending: true},
	"alphabetical": {Field: "title"},
}

var artistOrderings = map[string]SortOrder{
	"newest":       {Field: "created_at", Descending: true},
	"rating":       {Field: "average_rating", Descending: true},
	"reviews":      {Field: "review_count", Descending: true},
	"alphabetical": {Field: "username"},
}

func resolveOrder(table map[string]SortOrder, token string) bson.D {
	if order, ok := table[token]; ok {
		return order.bson()
	}
	return nil
}

// Enumerated filter allow-lists. Unrecognized values are rejected with
// the field name and the allowed set, never silently ignored.
var (
	TrackGenres   = []string{"pop", "rock", "jazz", "classical", "hiphop", "electronic", "folk", "rnb", "country", "other"}
	KeySignatures = []string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "Ab", "A", "Bb", "B"}
	VocalRanges   = []string{"soprano", "mezzo-soprano", "alto", "tenor", "baritone", "bass"}
	TrackTypes    = []string{"original", "cover", "instrumental"}
)

func allowed(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func checkAllowed(field, value string, values []string) error {
	if !allowed(values, value) {
		return validationf("invalid %s %q, allowed values: %s", field, value, strings.Join(values, ", "))
	}
	return nil
}

// TrackQuery is a parsed track listing request. Zero-value string fields
// mean "no constraint".
type TrackQuery struct {
	Genre        string
	KeySignature string
	VocalRange   string
	TrackType    string
	ArtistID     string
	OrderBy      string
	Query        string
	Page         Pagination
}

// filter builds the store match constraint. The baseline visibility
// predicate (not private) always applies.
func (q TrackQuery) filter() (bson.M, error) {
	f := bson.M{"is_private": false}

	if q.Genre != "" {
		if err := checkAllowed("genre", q.Genre, TrackGenres); err != nil {
			return nil, err
		}
		f["genre"] = q.Genre
	}
	if q.KeySignature != "" {
		if err := checkAllowed("key signature", q.KeySignature, KeySignatures); err != nil {
			return nil, err
		}
		f["key_signature"] = q.KeySignature
	}
	if q.VocalRange != "" {
		if err := checkAllowed("vocal range", q.VocalRange, VocalRanges); err != nil {
			return nil, err
		}
		f["vocal_range"] = q.VocalRange
	}
	if q.TrackType != "" {
		if err := checkAllowed("track type", q.TrackType, TrackTypes); err != nil {
			return nil, err
		}
		f["track_type"] = q.TrackType
	}
	if q.ArtistID != "" {
		oid, err := primitive.ObjectIDFromHex(q.ArtistID)
		if err != nil {
			return nil, validationf("invalid artist id %q", q.ArtistID)
		}
		f["artist"] = oid
	}

	return f, nil
}

func (q TrackQuery) sort() bson.D {
	return resolveOrder(trackOrderings, q.OrderBy)
}

// ArtistQuery is a parsed artist listing request.
type ArtistQuery struct {
	Available string // "", "true" or "false"
	OrderBy   string
	Query     string
	Page      Pagination
}

func (q ArtistQuery) filter() (bson.M, error) {
	f := bson.M{
		"approved": true,
		"role":     bson.M{"$in": []string{"artist", "admin"}},
	}

	if q.Available != "" {
		avail, err := strconv.ParseBool(q.Available)
		if err != nil {
			return nil, validationf("invalid availability %q, allowed values: true, false", q.Available)
		}
		f["available_for_commission"] = avail
	}

	return f, nil
}

func (q ArtistQuery) sort() bson.D {
	return resolveOrder(artistOrderings, q.OrderBy)
}

// validateSearchQuery applies the free-text safety check: bounded length
// and at least one alphanumeric character, so pure punctuation or
// whitespace never reaches the store as a degenerate pattern.
func validateSearchQuery(q string) error {
	if len(q) > maxQueryLength {
		return validationf("search query too long, maximum %d characters", maxQueryLength)
	}
	if !alphaNumeric.MatchString(q) {
		return validationf("search query must contain at least one alphanumeric character")
	}
	return nil
}
