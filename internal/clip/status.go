package clip

// Status is the lifecycle state of one job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// validTransitions defines allowed state transitions.
// Key is the "from" status, value is the list of valid "to" statuses.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusRunning, StatusSkipped},
	StatusRunning:   {StatusSucceeded, StatusFailed},
	StatusFailed:    {StatusRunning}, // retry
	StatusSucceeded: {},
	StatusSkipped:   {},
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true once a job can make no further progress.
// Failed is terminal only once no retries remain, which the dispatcher
// tracks; at the status level failed may still re-run.
func (s Status) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusSkipped
}
