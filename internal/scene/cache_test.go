package scene

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	cache, err := OpenCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	boundaries := []time.Duration{1500 * time.Millisecond, 29 * time.Second, 61200 * time.Millisecond}

	require.NoError(t, cache.Put(ctx, "src.mp4|1024|0.4", boundaries))

	got, ok := cache.Get(ctx, "src.mp4|1024|0.4")
	require.True(t, ok)
	assert.Equal(t, boundaries, got)
}

func TestCache_Miss(t *testing.T) {
	cache, err := OpenCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	_, ok := cache.Get(context.Background(), "never-stored")
	assert.False(t, ok)
}

func TestCache_Overwrite(t *testing.T) {
	cache, err := OpenCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, "k", []time.Duration{time.Second}))
	require.NoError(t, cache.Put(ctx, "k", []time.Duration{2 * time.Second, 3 * time.Second}))

	got, ok := cache.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []time.Duration{2 * time.Second, 3 * time.Second}, got)
}

func TestCache_EmptyBoundaries(t *testing.T) {
	// A file with no scene changes is a valid, cacheable result.
	cache, err := OpenCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	require.NoError(t, cache.Put(ctx, "still.mp4|10|0.4", nil))

	got, ok := cache.Get(ctx, "still.mp4|10|0.4")
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestCache_CorruptEntryDropped(t *testing.T) {
	cache, err := OpenCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	_, err = cache.db.ExecContext(ctx,
		"INSERT INTO scene_cache (key, boundaries, created_at) VALUES (?, ?, ?)",
		"bad", "{not json", time.Now().UTC())
	require.NoError(t, err)

	_, ok := cache.Get(ctx, "bad")
	assert.False(t, ok)

	// The corrupt row is gone, so a fresh Put succeeds cleanly.
	require.NoError(t, cache.Put(ctx, "bad", []time.Duration{time.Second}))
	got, ok := cache.Get(ctx, "bad")
	require.True(t, ok)
	assert.Equal(t, []time.Duration{time.Second}, got)
}

func TestCache_Prune(t *testing.T) {
	cache, err := OpenCache(":memory:")
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	_, err = cache.db.ExecContext(ctx,
		"INSERT INTO scene_cache (key, boundaries, created_at) VALUES (?, ?, ?)",
		"stale", "[]", time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "fresh", []time.Duration{time.Second}))

	removed, err := cache.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok := cache.Get(ctx, "stale")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "fresh")
	assert.True(t, ok)
}

func TestOpenCache_OnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.db")

	cache, err := OpenCache(path)
	require.NoError(t, err)
	require.NoError(t, cache.Put(context.Background(), "k", []time.Duration{5 * time.Second}))
	require.NoError(t, cache.Close())

	// Entries survive reopening.
	cache, err = OpenCache(path)
	require.NoError(t, err)
	defer cache.Close()
	got, ok := cache.Get(context.Background(), "k")
	require.True(t, ok)
	assert.Equal(t, []time.Duration{5 * time.Second}, got)
}
