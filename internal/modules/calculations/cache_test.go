package calculations

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupTestCache(t *testing.T) *Cache {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cache := NewCache(db, zerolog.Nop())
	require.NoError(t, cache.EnsureSchema())
	return cache
}

type cachedPayload struct {
	Name   string    `msgpack:"name"`
	Values []float64 `msgpack:"values"`
}

func TestCache_RoundTrip(t *testing.T) {
	cache := setupTestCache(t)

	stored := cachedPayload{Name: "report", Values: []float64{1.5, 2.5}}
	require.NoError(t, cache.Set("risk_report", "abc123", stored, time.Hour))

	var loaded cachedPayload
	ok, err := cache.Get("risk_report", "abc123", &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored, loaded)
}

func TestCache_Miss(t *testing.T) {
	cache := setupTestCache(t)

	var loaded cachedPayload
	ok, err := cache.Get("risk_report", "missing", &loaded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_NamespaceIsolation(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("risk_report", "key", cachedPayload{Name: "a"}, time.Hour))

	var loaded cachedPayload
	ok, err := cache.Get("simulation", "key", &loaded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	cache := setupTestCache(t)

	// Already expired on write.
	require.NoError(t, cache.Set("risk_report", "stale", cachedPayload{Name: "old"}, -time.Second))

	var loaded cachedPayload
	ok, err := cache.Get("risk_report", "stale", &loaded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_Overwrite(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("risk_report", "key", cachedPayload{Name: "first"}, time.Hour))
	require.NoError(t, cache.Set("risk_report", "key", cachedPayload{Name: "second"}, time.Hour))

	var loaded cachedPayload
	ok, err := cache.Get("risk_report", "key", &loaded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", loaded.Name)
}

func TestCache_Purge(t *testing.T) {
	cache := setupTestCache(t)

	require.NoError(t, cache.Set("risk_report", "fresh", cachedPayload{Name: "keep"}, time.Hour))
	require.NoError(t, cache.Set("risk_report", "stale", cachedPayload{Name: "drop"}, -time.Second))

	purged, err := cache.Purge()
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var loaded cachedPayload
	ok, err := cache.Get("risk_report", "fresh", &loaded)
	require.NoError(t, err)
	assert.True(t, ok)
}
