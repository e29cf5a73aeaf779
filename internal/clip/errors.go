package clip

import "errors"

// Sentinel errors for the clip pipeline.
var (
	// ErrConfiguration is returned for invalid planner or transform
	// configuration. It is fatal: nothing is scheduled when planning fails.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrEngine is returned when the media engine exits non-zero or
	// produces no usable output artifact. Captured per job, never fatal.
	ErrEngine = errors.New("engine invocation failed")

	// ErrIO is returned when an output cannot be written or a source
	// cannot be read. Captured per job, never fatal.
	ErrIO = errors.New("i/o failure")
)
