package clip

import (
	"fmt"
	"time"
)

// Enhancement holds the filter parameters for the auto-enhance chain.
// Zero value means no enhancement.
type Enhancement struct {
	Contrast   float64
	Brightness float64
	Sharpness  float64
}

// Enabled reports whether the enhancement chain should be applied.
func (e Enhancement) Enabled() bool {
	return e != Enhancement{}
}

// RampSegment is one piece of a piecewise speed ramp. Start and End are
// offsets relative to the clip, not the source asset.
type RampSegment struct {
	Start time.Duration
	End   time.Duration
	Speed float64
}

// TransformSet enumerates the optional operations applied to a clip.
type TransformSet struct {
	// Vertical crops to 9:16 instead of the default scale-and-pad.
	Vertical bool

	// Mirror flips the video horizontally.
	Mirror bool

	// AudioOnly extracts an audio track instead of a video clip.
	AudioOnly bool

	// Speed is a constant playback multiplier. Zero means unchanged.
	Speed float64

	// Ramp is a piecewise speed ramp. When set, Speed is ignored.
	Ramp []RampSegment

	// Enhance applies the denoise/contrast/sharpen chain.
	Enhance Enhancement
}

// HasVideoOps reports whether any video-stream transform is requested.
func (t TransformSet) HasVideoOps() bool {
	return t.Vertical || t.Mirror || len(t.Ramp) > 0 || t.Enhance.Enabled()
}

// Validate checks that the requested operations are mutually compatible.
func (t TransformSet) Validate() error {
	if t.AudioOnly && t.HasVideoOps() {
		return fmt.Errorf("%w: audio-only extraction excludes video transforms", ErrConfiguration)
	}
	if t.Speed < 0 {
		return fmt.Errorf("%w: speed multiplier must be positive, got %g", ErrConfiguration, t.Speed)
	}
	if t.Speed > 0 && len(t.Ramp) > 0 {
		return fmt.Errorf("%w: constant speed and speed ramp are exclusive", ErrConfiguration)
	}
	var prev time.Duration
	for i, seg := range t.Ramp {
		if seg.Speed <= 0 {
			return fmt.Errorf("%w: ramp segment %d: speed must be positive, got %g", ErrConfiguration, i, seg.Speed)
		}
		if seg.End <= seg.Start {
			return fmt.Errorf("%w: ramp segment %d: end must be after start", ErrConfiguration, i)
		}
		if seg.Start < prev {
			return fmt.Errorf("%w: ramp segment %d: segments must not overlap", ErrConfiguration, i)
		}
		prev = seg.End
	}
	return nil
}
