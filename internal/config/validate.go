package config

import (
	"fmt"

	"github.com/kmcq/reclip/internal/preset"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Planner.ClipLengthSec <= 0 {
		errs = append(errs, fmt.Sprintf("planner.clip_length_sec: must be positive, got %g", c.Planner.ClipLengthSec))
	}
	if c.Planner.Overlap < 0 || c.Planner.Overlap >= 1 {
		errs = append(errs, fmt.Sprintf("planner.overlap: must be in [0, 1), got %g", c.Planner.Overlap))
	}
	if c.Planner.SceneThreshold <= 0 || c.Planner.SceneThreshold > 1 {
		errs = append(errs, fmt.Sprintf("planner.scene_threshold: must be in (0, 1], got %g", c.Planner.SceneThreshold))
	}
	if c.Planner.SnapToleranceSec < 0 {
		errs = append(errs, fmt.Sprintf("planner.snap_tolerance_sec: must not be negative, got %g", c.Planner.SnapToleranceSec))
	}

	if c.Dispatch.Workers < 0 {
		errs = append(errs, fmt.Sprintf("dispatch.workers: must not be negative, got %d", c.Dispatch.Workers))
	}
	if c.Dispatch.Retries < 0 {
		errs = append(errs, fmt.Sprintf("dispatch.retries: must not be negative, got %d", c.Dispatch.Retries))
	}

	if c.Transform.Speed < 0 {
		errs = append(errs, fmt.Sprintf("transform.speed: must be positive, got %g", c.Transform.Speed))
	}
	if c.Transform.Enhance != "" {
		if _, err := preset.LookupEnhancement(c.Transform.Enhance); err != nil {
			errs = append(errs, fmt.Sprintf("transform.enhance: %v", err))
		}
	}
	if c.Transform.Preset != "" {
		if _, err := preset.LookupFormat(c.Transform.Preset); err != nil {
			errs = append(errs, fmt.Sprintf("transform.preset: %v", err))
		}
	}
	if c.Transform.AudioOnly && (c.Transform.Vertical || c.Transform.Mirror || c.Transform.Enhance != "") {
		errs = append(errs, "transform.audio_only: excludes vertical, mirror and enhance")
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	return errs
}
