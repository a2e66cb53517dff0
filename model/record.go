package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is an opaque store document. The discovery core only ever reads
// records; the typed accessors below tolerate missing or malformed fields
// and degrade to zero values, so one bad document in a bulk result cannot
// take down a whole page.
type Record map[string]interface{}

// ID returns the record identifier as a hex string, or "" when absent.
func (r Record) ID() string {
	switch v := r["_id"].(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return ""
	}
}

// RawID returns the identifier in its stored form, suitable for store
// filters such as $in / $nin.
func (r Record) RawID() interface{} {
	return r["_id"]
}

// Str returns a string field, or "" when absent or of another type.
func (r Record) Str(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// Int64 returns a numeric field as int64. Mongo decodes numbers into
// int32, int64 or float64 depending on how they were written.
func (r Record) Int64(field string) int64 {
	switch v := r[field].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Float64 returns a numeric field as float64.
func (r Record) Float64(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// Bool returns a boolean field, false when absent.
func (r Record) Bool(field string) bool {
	if v, ok := r[field].(bool); ok {
		return v
	}
	return false
}

// Time returns a timestamp field, zero time when absent.
func (r Record) Time(field string) time.Time {
	switch v := r[field].(type) {
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	default:
		return time.Time{}
	}
}

// Sub returns an embedded document field, or nil when the field holds a
// bare reference or is absent.
func (r Record) Sub(field string) Record {
	switch v := r[field].(type) {
	case Record:
		return v
	case map[string]interface{}:
		return Record(v)
	case primitive.M:
		return Record(v)
	default:
		return nil
	}
}
