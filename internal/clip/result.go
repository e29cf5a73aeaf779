package clip

import (
	"time"

	"github.com/google/uuid"
)

// JobResult is the terminal outcome of one descriptor. Append-only:
// never mutated after the dispatcher records it.
type JobResult struct {
	Descriptor Descriptor
	Status     Status

	// Output is the produced artifact path (success only).
	Output string

	// Size is the artifact size in bytes (success only).
	Size int64

	// Err carries the last failure cause (failed only).
	Err error

	// Attempts counts executor invocations, including retries.
	Attempts int

	Elapsed time.Duration
}

// BatchReport aggregates every JobResult of a run in descriptor-submission
// order. Created at dispatch start, finalized when all jobs have a
// terminal status.
type BatchReport struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	// Results is ordered by Descriptor.Index, not completion time.
	Results []JobResult

	Succeeded int
	Failed    int
	Skipped   int
}

// NewBatchReport creates a report sized for n descriptors.
func NewBatchReport(n int) *BatchReport {
	return &BatchReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Results:   make([]JobResult, n),
	}
}

// Finalize stamps the finish time and tallies the status counts.
// Statuses partition exactly into succeeded/failed/skipped.
func (r *BatchReport) Finalize() {
	r.FinishedAt = time.Now().UTC()
	r.Succeeded, r.Failed, r.Skipped = 0, 0, 0
	for _, res := range r.Results {
		switch res.Status {
		case StatusSucceeded:
			r.Succeeded++
		case StatusSkipped:
			r.Skipped++
		default:
			r.Failed++
		}
	}
}

// OK reports whether the run finished with no permanent failures.
func (r *BatchReport) OK() bool {
	return r.Failed == 0
}
