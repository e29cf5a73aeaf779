package scene

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scene_cache (
	key        TEXT PRIMARY KEY,
	boundaries TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);`

// Cache stores detected boundaries keyed by file identity and threshold,
// replacing per-file stats sidecars with a single database.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if necessary) the cache database at path.
// Use ":memory:" for an ephemeral cache.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open scene cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init scene cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get retrieves cached boundaries. Returns false on miss or corrupt entry.
func (c *Cache) Get(ctx context.Context, key string) ([]time.Duration, bool) {
	var raw string
	err := c.db.QueryRowContext(ctx,
		"SELECT boundaries FROM scene_cache WHERE key = ?", key,
	).Scan(&raw)
	if err != nil {
		return nil, false
	}

	var secs []float64
	if err := json.Unmarshal([]byte(raw), &secs); err != nil {
		// Corrupt entry: drop it and force re-detection.
		_, _ = c.db.ExecContext(ctx, "DELETE FROM scene_cache WHERE key = ?", key)
		return nil, false
	}
	out := make([]time.Duration, len(secs))
	for i, s := range secs {
		out[i] = time.Duration(s * float64(time.Second))
	}
	return out, true
}

// Put stores boundaries for key, overwriting any previous entry.
func (c *Cache) Put(ctx context.Context, key string, boundaries []time.Duration) error {
	secs := make([]float64, len(boundaries))
	for i, b := range boundaries {
		secs[i] = b.Seconds()
	}
	raw, err := json.Marshal(secs)
	if err != nil {
		return fmt.Errorf("encode boundaries: %w", err)
	}

	_, err = c.db.ExecContext(ctx,
		`INSERT INTO scene_cache (key, boundaries, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET boundaries = excluded.boundaries, created_at = excluded.created_at`,
		key, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Prune removes entries older than maxAge. Returns the number removed.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	result, err := c.db.ExecContext(ctx,
		"DELETE FROM scene_cache WHERE created_at < ?", time.Now().UTC().Add(-maxAge),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return result.RowsAffected()
}
