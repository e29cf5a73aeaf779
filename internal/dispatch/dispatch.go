// Package dispatch schedules planned clip descriptors across a bounded
// worker pool and aggregates per-job outcomes into a batch report.
package dispatch

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kmcq/reclip/internal/clip"
)

// Executor runs one descriptor to a terminal result. Implementations
// must capture their own failures in the result rather than panicking;
// one clip's failure never aborts the batch.
type Executor interface {
	Execute(ctx context.Context, desc clip.Descriptor) clip.JobResult
}

// Observer is notified as each job reaches a terminal status. Calls are
// serialized; submission order is not guaranteed.
type Observer func(clip.JobResult)

// Options bound the worker pool and retry policy.
type Options struct {
	// Workers is the pool size. Zero or negative derives from the
	// available processing units, clamped to at least 1.
	Workers int

	// MaxRetries re-submits a failed job up to this many extra times,
	// immediately and with no backoff.
	MaxRetries int

	// Observer receives terminal results as they complete. Optional.
	Observer Observer
}

// Dispatcher fans descriptors out to executors.
type Dispatcher struct {
	exec Executor
	log  *slog.Logger
}

// New creates a dispatcher.
func New(exec Executor, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{exec: exec, log: log.With("component", "dispatch")}
}

// Run executes every descriptor and returns the finalized report. The
// report always holds exactly one result per descriptor, in submission
// order regardless of completion order.
//
// Cancelling ctx stops scheduling: queued descriptors are marked skipped
// and in-flight jobs run to completion, so no partially written artifact
// is left behind by a mid-invocation kill.
func (d *Dispatcher) Run(ctx context.Context, descriptors []clip.Descriptor, opts Options) *clip.BatchReport {
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers < 1 {
		workers = 1
	}

	report := clip.NewBatchReport(len(descriptors))
	d.log.Info("batch started", "id", report.ID, "jobs", len(descriptors), "workers", workers, "retries", opts.MaxRetries)

	type job struct {
		slot int
		desc clip.Descriptor
	}

	jobs := make(chan job)
	var mu sync.Mutex
	record := func(slot int, res clip.JobResult) {
		mu.Lock()
		defer mu.Unlock()
		report.Results[slot] = res
		// The observer runs under the lock so calls stay serialized.
		if opts.Observer != nil {
			opts.Observer(res)
		}
	}

	// In-flight jobs must not be killed mid-invocation, so executors run
	// against a context detached from the stop signal.
	execCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for j := range jobs {
				record(j.slot, d.runJob(execCtx, j.desc, opts.MaxRetries))
			}
			return nil
		})
	}

	// Feed descriptors until done or cancelled. The cancellation check
	// happens before each handoff, so a raised stop signal prevents any
	// further job from starting.
	skipFrom := func(i int) {
		d.log.Info("stop requested, skipping unstarted jobs", "id", report.ID)
		for slot := i; slot < len(descriptors); slot++ {
			record(slot, skipped(descriptors[slot]))
		}
	}
feed:
	for i, desc := range descriptors {
		// A ready worker must not win the race against an already-raised
		// stop signal, so the signal is checked before entering the select.
		if ctx.Err() != nil {
			skipFrom(i)
			break
		}
		select {
		case jobs <- job{slot: i, desc: desc}:
		case <-ctx.Done():
			skipFrom(i)
			break feed
		}
	}
	close(jobs)
	_ = g.Wait()

	report.Finalize()
	d.log.Info("batch finished", "id", report.ID,
		"succeeded", report.Succeeded, "failed", report.Failed, "skipped", report.Skipped,
		"elapsed", report.FinishedAt.Sub(report.StartedAt))
	return report
}

// runJob executes one descriptor with the retry policy applied.
func (d *Dispatcher) runJob(ctx context.Context, desc clip.Descriptor, maxRetries int) clip.JobResult {
	started := time.Now()
	var res clip.JobResult
	for attempt := 0; attempt <= maxRetries; attempt++ {
		res = d.exec.Execute(ctx, desc)
		res.Attempts = attempt + 1
		if res.Status == clip.StatusSucceeded {
			break
		}
		if attempt < maxRetries {
			d.log.Warn("job failed, retrying", "index", desc.Index, "attempt", attempt+1, "error", res.Err)
		}
	}
	res.Elapsed = time.Since(started)
	if res.Status != clip.StatusSucceeded {
		d.log.Error("job permanently failed", "index", desc.Index, "attempts", res.Attempts, "error", res.Err)
	}
	return res
}

func skipped(desc clip.Descriptor) clip.JobResult {
	return clip.JobResult{Descriptor: desc, Status: clip.StatusSkipped}
}
