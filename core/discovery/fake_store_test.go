package discovery

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"TuneMart/model"
	"TuneMart/repository"
)

// fakeStore is an in-memory RecordStore. Filters are evaluated against
// the record maps directly; text relevance is simulated through an
// explicit query -> id table. Sampling is deterministic: the first
// matching records in insertion order.
type fakeStore struct {
	mu      sync.Mutex
	records map[repository.Kind][]model.Record

	// textHits maps a search query to the ids it should match.
	textHits map[string]map[string]bool

	findCalls     int
	countCalls    int
	sampleCalls   int
	textCalls     int
	regexCalls    int
	distinctCalls int

	findErr   error
	countErr  error
	sampleErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records:  make(map[repository.Kind][]model.Record),
		textHits: make(map[string]map[string]bool),
	}
}

func (f *fakeStore) add(kind repository.Kind, recs ...model.Record) {
	f.records[kind] = append(f.records[kind], recs...)
}

func (f *fakeStore) addTextHit(query string, ids ...string) {
	hits := f.textHits[query]
	if hits == nil {
		hits = make(map[string]bool)
		f.textHits[query] = hits
	}
	for _, id := range ids {
		hits[id] = true
	}
}

func (f *fakeStore) matching(kind repository.Kind, filter bson.M) []model.Record {
	var out []model.Record
	for _, rec := range f.records[kind] {
		if f.matches(rec, filter) {
			out = append(out, rec)
		}
	}
	return out
}

func (f *fakeStore) matches(rec model.Record, filter bson.M) bool {
	for key, want := range filter {
		switch key {
		case "$or":
			branches, ok := want.([]bson.M)
			if !ok {
				return false
			}
			anyMatch := false
			for _, branch := range branches {
				if f.matches(rec, branch) {
					anyMatch = true
					break
				}
			}
			if !anyMatch {
				return false
			}
		case "$text":
			spec, ok := want.(bson.M)
			if !ok {
				return false
			}
			query, _ := spec["$search"].(string)
			if !f.textHits[query][rec.ID()] {
				return false
			}
		default:
			if !matchValue(rec[key], want) {
				return false
			}
		}
	}
	return true
}

func matchValue(have, want interface{}) bool {
	switch cond := want.(type) {
	case bson.M:
		for op, arg := range cond {
			switch op {
			case "$in":
				if !valueIn(have, arg) {
					return false
				}
			case "$nin":
				if valueIn(have, arg) {
					return false
				}
			case "$gte":
				haveN, okHave := asFloat(have)
				wantN, okWant := asFloat(arg)
				if !okHave || !okWant || haveN < wantN {
					return false
				}
			default:
				return false
			}
		}
		return true
	case primitive.Regex:
		s, ok := have.(string)
		if !ok {
			return false
		}
		re, err := regexp.Compile("(?i)" + cond.Pattern)
		if err != nil {
			return false
		}
		return re.MatchString(s)
	default:
		return have == want
	}
}

func valueIn(have, list interface{}) bool {
	switch values := list.(type) {
	case []interface{}:
		for _, v := range values {
			if have == v {
				return true
			}
		}
	case []string:
		for _, v := range values {
			if have == v {
				return true
			}
		}
	}
	return false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case time.Time:
		return float64(n.UnixNano()), true
	}
	return 0, false
}

func applySort(recs []model.Record, order bson.D) []model.Record {
	if len(order) == 0 {
		return recs
	}
	field := order[0].Key
	dir, _ := order[0].Value.(int)

	sorted := make([]model.Record, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		less := valueLess(sorted[i][field], sorted[j][field])
		if dir < 0 {
			return valueLess(sorted[j][field], sorted[i][field])
		}
		return less
	})
	return sorted
}

func valueLess(a, b interface{}) bool {
	if na, ok := asFloat(a); ok {
		nb, _ := asFloat(b)
		return na < nb
	}
	sa, _ := a.(string)
	sb, _ := b.(string)
	return sa < sb
}

func applyWindow(recs []model.Record, skip, limit int64) []model.Record {
	if skip >= int64(len(recs)) {
		return nil
	}
	recs = recs[skip:]
	if limit > 0 && limit < int64(len(recs)) {
		recs = recs[:limit]
	}
	return recs
}

func (f *fakeStore) FindFiltered(ctx context.Context, kind repository.Kind, filter bson.M, order bson.D, skip, limit int64) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return applyWindow(applySort(f.matching(kind, filter), order), skip, limit), nil
}

func (f *fakeStore) Count(ctx context.Context, kind repository.Kind, filter bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.matching(kind, filter))), nil
}

func (f *fakeStore) DistinctValues(ctx context.Context, kind repository.Kind, field string) ([]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.distinctCalls++
	seen := make(map[interface{}]struct{})
	var out []interface{}
	for _, rec := range f.records[kind] {
		v, ok := rec[field]
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeStore) Sample(ctx context.Context, kind repository.Kind, filter bson.M, size int64) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sampleCalls++
	if f.sampleErr != nil {
		return nil, f.sampleErr
	}
	return applyWindow(f.matching(kind, filter), 0, size), nil
}

func (f *fakeStore) TextSearch(ctx context.Context, kind repository.Kind, query string, filter bson.M, order bson.D, skip, limit int64) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textCalls++
	var hits []model.Record
	for _, rec := range f.matching(kind, filter) {
		if f.textHits[query][rec.ID()] {
			hits = append(hits, rec)
		}
	}
	return applyWindow(applySort(hits, order), skip, limit), nil
}

func (f *fakeStore) RegexSearch(ctx context.Context, kind repository.Kind, field, pattern string, filter bson.M, order bson.D, skip, limit int64) ([]model.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.regexCalls++
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	var hits []model.Record
	for _, rec := range f.matching(kind, filter) {
		if re.MatchString(rec.Str(field)) {
			hits = append(hits, rec)
		}
	}
	return applyWindow(applySort(hits, order), skip, limit), nil
}

var errRatingUnavailable = errors.New("ratings unavailable")

// fakeRatings records refresh calls and can fail selected artists.
type fakeRatings struct {
	mu       sync.Mutex
	averages map[string]float64
	failIDs  map[string]bool
	calls    []string
	err      error
}

func newFakeRatings() *fakeRatings {
	return &fakeRatings{
		averages: make(map[string]float64),
		failIDs:  make(map[string]bool),
		err:      errRatingUnavailable,
	}
}

func (f *fakeRatings) RefreshArtistRating(ctx context.Context, artistID string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, artistID)
	if f.failIDs[artistID] {
		return 0, f.err
	}
	return f.averages[artistID], nil
}
