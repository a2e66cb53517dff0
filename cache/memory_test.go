package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGetDelete(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	_, ok := m.Get(ctx, FeaturedTracksKey)
	assert.False(t, ok)

	m.Set(ctx, FeaturedTracksKey, []byte("feed"))
	got, ok := m.Get(ctx, FeaturedTracksKey)
	require.True(t, ok)
	assert.Equal(t, []byte("feed"), got)

	m.Delete(ctx, FeaturedTracksKey)
	_, ok = m.Get(ctx, FeaturedTracksKey)
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	m.Delete(ctx, FeaturedTracksKey)
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	m.Set(ctx, FeaturedArtistsKey, []byte("old"))
	m.Set(ctx, FeaturedArtistsKey, []byte("new"))

	got, ok := m.Get(ctx, FeaturedArtistsKey)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), got)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(time.Hour)
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.Set(ctx, FeaturedTracksKey, []byte("feed"))

	now = now.Add(59 * time.Minute)
	_, ok := m.Get(ctx, FeaturedTracksKey)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx, FeaturedTracksKey)
	assert.False(t, ok)
}
