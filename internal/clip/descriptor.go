package clip

import (
	"fmt"
	"time"
)

// Descriptor is one planned clip window. Created by the planner, consumed
// exactly once by the executor, immutable after creation.
type Descriptor struct {
	// Asset is the probed source this window was planned against.
	Asset *SourceAsset

	// Index is the submission-order position within the batch. Output
	// naming and report ordering key off it.
	Index int

	// Start and End bound the window within the asset: Start < End,
	// End <= Asset.Duration.
	Start time.Duration
	End   time.Duration

	// Snapped records that Start was moved to a detected scene boundary.
	Snapped bool

	// Output is the destination path, unique within the batch.
	Output string

	Transforms TransformSet
}

// Window returns the window length.
func (d Descriptor) Window() time.Duration {
	return d.End - d.Start
}

// Validate checks the window invariants against the source asset.
func (d Descriptor) Validate() error {
	if d.Asset == nil {
		return fmt.Errorf("%w: descriptor has no source asset", ErrConfiguration)
	}
	if d.Start < 0 || d.End <= d.Start {
		return fmt.Errorf("%w: window [%s, %s) is empty or negative", ErrConfiguration, d.Start, d.End)
	}
	if d.End > d.Asset.Duration {
		return fmt.Errorf("%w: window end %s past asset duration %s", ErrConfiguration, d.End, d.Asset.Duration)
	}
	if d.Output == "" {
		return fmt.Errorf("%w: descriptor has no output path", ErrConfiguration)
	}
	return d.Transforms.Validate()
}
