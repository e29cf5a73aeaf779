// Package planner turns a probed source asset and a clip configuration
// into an ordered sequence of clip descriptors.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/kmcq/reclip/internal/clip"
	"github.com/kmcq/reclip/internal/scene"
	"github.com/kmcq/reclip/pkg/naming"
)

// Config drives planning for one asset.
type Config struct {
	// ClipLength is the nominal window length. Must be positive.
	ClipLength time.Duration

	// OverlapFraction shortens each subsequent start offset by
	// OverlapFraction×ClipLength. Must satisfy 0 <= f < 1.
	OverlapFraction float64

	// UseSceneDetection snaps window starts to detected boundaries.
	UseSceneDetection bool

	// SnapTolerance bounds how far a start may move to reach a boundary.
	SnapTolerance time.Duration

	// OutputDir receives the planned output paths.
	OutputDir string

	// Stem overrides the output filename stem. Defaults to the asset
	// basename; callers planning several assets into one directory set
	// it to keep names collision-free.
	Stem string

	// FirstIndex is the batch-wide index of this asset's first clip.
	FirstIndex int

	Transforms clip.TransformSet
}

// Plan computes the ordered clip windows for asset. The result is
// deterministic for identical inputs: window arithmetic has no hidden
// randomness and boundary snapping consumes a finite ordered sequence.
func Plan(ctx context.Context, asset *clip.SourceAsset, scenes scene.Source, cfg Config) ([]clip.Descriptor, error) {
	if err := validate(asset, scenes, cfg); err != nil {
		return nil, err
	}

	var boundaries []time.Duration
	if cfg.UseSceneDetection {
		var err error
		boundaries, err = scenes.Boundaries(ctx, asset)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", asset.Path, err)
		}
	}

	stem := cfg.Stem
	if stem == "" {
		stem = asset.Base()
	}

	step := cfg.ClipLength - time.Duration(cfg.OverlapFraction*float64(cfg.ClipLength))
	var descriptors []clip.Descriptor

	prevStart := time.Duration(-1)
	for start := time.Duration(0); start < asset.Duration; {
		snapped := false
		if cfg.UseSceneDetection {
			if s, ok := snap(start, boundaries, cfg.SnapTolerance); ok && s > prevStart && s < asset.Duration {
				snapped = s != start
				start = s
			}
		}

		end := start + cfg.ClipLength
		if end > asset.Duration {
			// Final window truncates to the asset rather than dropping
			// or padding.
			end = asset.Duration
		}

		pos := len(descriptors)
		descriptors = append(descriptors, clip.Descriptor{
			Asset:      asset,
			Index:      cfg.FirstIndex + pos,
			Start:      start,
			End:        end,
			Snapped:    snapped,
			Output:     filepath.Join(cfg.OutputDir, naming.ClipFile(stem, pos, cfg.Transforms.Vertical, cfg.Transforms.AudioOnly)),
			Transforms: cfg.Transforms,
		})

		prevStart = start
		start += step
	}

	slog.Debug("planned asset", "path", asset.Path, "clips", len(descriptors), "step", step)
	return descriptors, nil
}

func validate(asset *clip.SourceAsset, scenes scene.Source, cfg Config) error {
	if cfg.ClipLength <= 0 {
		return fmt.Errorf("%w: clip length must be positive, got %s", clip.ErrConfiguration, cfg.ClipLength)
	}
	if cfg.OverlapFraction < 0 || cfg.OverlapFraction >= 1 {
		return fmt.Errorf("%w: overlap fraction must be in [0, 1), got %g", clip.ErrConfiguration, cfg.OverlapFraction)
	}
	if cfg.UseSceneDetection && scenes == nil {
		return fmt.Errorf("%w: scene detection requested without a scene source", clip.ErrConfiguration)
	}
	if asset == nil || asset.Duration <= 0 {
		return fmt.Errorf("%w: asset has no positive duration", clip.ErrConfiguration)
	}
	if err := cfg.Transforms.Validate(); err != nil {
		return err
	}
	return nil
}

// snap returns the boundary nearest to target within tolerance.
// boundaries must be sorted ascending.
func snap(target time.Duration, boundaries []time.Duration, tolerance time.Duration) (time.Duration, bool) {
	best := time.Duration(0)
	bestDist := tolerance + 1
	for _, b := range boundaries {
		dist := b - target
		if dist < 0 {
			dist = -dist
		}
		if dist < bestDist {
			best = b
			bestDist = dist
		}
		if b > target+tolerance {
			break
		}
	}
	if bestDist > tolerance {
		return 0, false
	}
	return best, true
}
