// Package scene detects scene-change boundaries in source assets by
// delegating to the media engine, with a sqlite cache so repeated runs
// over the same file skip re-detection.
package scene

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kmcq/reclip/internal/clip"
	"github.com/kmcq/reclip/internal/engine"
)

// Source yields the ordered scene boundaries of an asset. The returned
// slice is finite, monotonically increasing, and may be empty.
type Source interface {
	Boundaries(ctx context.Context, asset *clip.SourceAsset) ([]time.Duration, error)
}

// Detector runs the engine's scene filter and parses showinfo timestamps.
type Detector struct {
	runner    engine.Runner
	cache     *Cache
	threshold float64
	log       *slog.Logger
}

// NewDetector creates a detector. cache may be nil to disable caching.
// threshold is the engine scene score cutoff in [0, 1].
func NewDetector(runner engine.Runner, cache *Cache, threshold float64, log *slog.Logger) *Detector {
	if log == nil {
		log = slog.Default()
	}
	return &Detector{
		runner:    runner,
		cache:     cache,
		threshold: threshold,
		log:       log.With("component", "scene"),
	}
}

// Boundaries returns the asset's scene-change timestamps, cached when a
// cache is configured. Detection runs the whole file once; the planner
// restarts from the cached slice on subsequent calls.
func (d *Detector) Boundaries(ctx context.Context, asset *clip.SourceAsset) ([]time.Duration, error) {
	key := cacheKey(asset, d.threshold)
	if d.cache != nil {
		if cached, ok := d.cache.Get(ctx, key); ok {
			d.log.Debug("scene cache hit", "path", asset.Path, "boundaries", len(cached))
			return cached, nil
		}
	}

	stderr, err := d.runner.Run(ctx, []string{
		"-i", asset.Path,
		"-vf", fmt.Sprintf("select='gt(scene,%g)',showinfo", d.threshold),
		"-f", "null",
		"-",
	})
	if err != nil {
		return nil, fmt.Errorf("scene detection for %s: %w", asset.Path, err)
	}

	boundaries := parseShowinfo(stderr)
	d.log.Debug("scene detection complete", "path", asset.Path, "boundaries", len(boundaries))

	if d.cache != nil {
		if err := d.cache.Put(ctx, key, boundaries); err != nil {
			// Cache failures degrade to re-detection next run.
			d.log.Warn("scene cache write failed", "path", asset.Path, "error", err)
		}
	}
	return boundaries, nil
}

// cacheKey identifies one (file contents, threshold) pair. Size and
// mtime invalidate the entry when the file changes in place.
func cacheKey(asset *clip.SourceAsset, threshold float64) string {
	return fmt.Sprintf("%s|%d|%d|%g", asset.Path, asset.Size, asset.ModTime.UnixNano(), threshold)
}

// parseShowinfo extracts pts_time values from the engine's showinfo
// stderr output, sorted and deduplicated.
func parseShowinfo(stderr string) []time.Duration {
	var out []time.Duration
	for _, line := range strings.Split(stderr, "\n") {
		_, rest, ok := strings.Cut(line, "pts_time:")
		if !ok {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		sec, err := strconv.ParseFloat(fields[0], 64)
		if err != nil || sec < 0 {
			continue
		}
		out = append(out, time.Duration(sec*float64(time.Second)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	dedup := out[:0]
	var prev time.Duration = -1
	for _, b := range out {
		if b != prev {
			dedup = append(dedup, b)
			prev = b
		}
	}
	return dedup
}
