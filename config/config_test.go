package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.MongoURI)
	assert.Equal(t, "tunemart", cfg.MongoDB)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, time.Hour, cfg.FeedTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MONGO_DB", "tunemart_test")
	t.Setenv("FEED_TTL", "15m")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "tunemart_test", cfg.MongoDB)
	assert.Equal(t, 15*time.Minute, cfg.FeedTTL)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("FEED_TTL", "soon")
	t.Setenv("REDIS_DB", "three")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.FeedTTL)
	assert.Equal(t, 0, cfg.RedisDB)
}
