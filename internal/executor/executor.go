// Package executor runs one clip descriptor through the media engine and
// validates the produced artifact.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kmcq/reclip/internal/clip"
	"github.com/kmcq/reclip/internal/engine"
)

// Transformer executes descriptors against an engine runner.
type Transformer struct {
	runner engine.Runner
	log    *slog.Logger
}

// New creates a transformer.
func New(runner engine.Runner, log *slog.Logger) *Transformer {
	if log == nil {
		log = slog.Default()
	}
	return &Transformer{runner: runner, log: log.With("component", "executor")}
}

// Execute runs one descriptor to a terminal result. Engine and i/o
// failures are captured in the result, never propagated: the dispatcher
// relies on that to keep sibling jobs alive.
func (t *Transformer) Execute(ctx context.Context, d clip.Descriptor) clip.JobResult {
	started := time.Now()

	if err := d.Validate(); err != nil {
		return t.fail(d, started, err)
	}
	if err := os.MkdirAll(filepath.Dir(d.Output), 0o755); err != nil {
		return t.fail(d, started, fmt.Errorf("%w: create output directory: %v", clip.ErrIO, err))
	}

	t.log.Debug("executing clip", "index", d.Index, "start", d.Start, "end", d.End, "output", d.Output)

	if _, err := t.runner.Run(ctx, BuildArgs(d)); err != nil {
		t.removePartial(d.Output)
		return t.fail(d, started, fmt.Errorf("%w: %v", clip.ErrEngine, err))
	}

	// Exit code zero is not enough: the contract is one non-empty
	// artifact per invocation.
	info, err := os.Stat(d.Output)
	if err != nil {
		return t.fail(d, started, fmt.Errorf("%w: no output artifact at %s", clip.ErrEngine, d.Output))
	}
	if info.Size() == 0 {
		t.removePartial(d.Output)
		return t.fail(d, started, fmt.Errorf("%w: empty output artifact at %s", clip.ErrEngine, d.Output))
	}

	return clip.JobResult{
		Descriptor: d,
		Status:     clip.StatusSucceeded,
		Output:     d.Output,
		Size:       info.Size(),
		Elapsed:    time.Since(started),
	}
}

func (t *Transformer) fail(d clip.Descriptor, started time.Time, err error) clip.JobResult {
	return clip.JobResult{
		Descriptor: d,
		Status:     clip.StatusFailed,
		Err:        err,
		Elapsed:    time.Since(started),
	}
}

// removePartial deletes a possibly half-written artifact so an aborted
// or failed run never leaves a corrupt output behind.
func (t *Transformer) removePartial(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		t.log.Warn("could not remove partial output", "path", path, "error", err)
	}
}
