// Package calculations provides a TTL cache for expensive computation
// results, backed by cache.db. Values are msgpack-encoded blobs keyed by
// namespace and key; expired rows are ignored on read and purged lazily.
package calculations

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache TTLs per result family.
const (
	TTLReport     = 24 * time.Hour
	TTLSimulation = 6 * time.Hour
)

// Cache is a sqlite-backed TTL cache for computed results.
type Cache struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewCache creates a calculation cache.
func NewCache(db *sql.DB, log zerolog.Logger) *Cache {
	return &Cache{
		db:  db,
		log: log.With().Str("component", "calc_cache").Logger(),
	}
}

// EnsureSchema creates the cache table if it does not exist.
func (c *Cache) EnsureSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS calc_cache (
			namespace  TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      BLOB NOT NULL,
			expires_at INTEGER NOT NULL,
			PRIMARY KEY (namespace, key)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}
	return nil
}

// Set stores a value under (namespace, key), msgpack-encoded, with a TTL.
func (c *Cache) Set(namespace, key string, value any, ttl time.Duration) error {
	data, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}

	expiresAt := time.Now().Add(ttl).Unix()
	_, err = c.db.Exec(`
		INSERT INTO calc_cache (namespace, key, value, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
	`, namespace, key, data, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to store cache entry %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Get loads and msgpack-decodes the value under (namespace, key) into dest.
// Returns false when the entry is missing or expired.
func (c *Cache) Get(namespace, key string, dest any) (bool, error) {
	var data []byte
	var expiresAt int64
	err := c.db.QueryRow(`
		SELECT value, expires_at FROM calc_cache
		WHERE namespace = ? AND key = ?
	`, namespace, key).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry %s/%s: %w", namespace, key, err)
	}

	if time.Now().Unix() >= expiresAt {
		// Expired; purge lazily.
		if _, err := c.db.Exec(`DELETE FROM calc_cache WHERE namespace = ? AND key = ?`, namespace, key); err != nil {
			c.log.Warn().Err(err).Str("namespace", namespace).Msg("Failed to purge expired cache entry")
		}
		return false, nil
	}

	if err := msgpack.Unmarshal(data, dest); err != nil {
		// A decode failure means the cached shape changed; treat as a miss.
		c.log.Warn().Err(err).Str("namespace", namespace).Msg("Failed to decode cache entry, recalculating")
		return false, nil
	}
	return true, nil
}

// Purge removes all expired entries.
func (c *Cache) Purge() (int64, error) {
	res, err := c.db.Exec(`DELETE FROM calc_cache WHERE expires_at <= ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
