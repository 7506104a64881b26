package executor

import "time"

// Status is the terminal state of a task execution.
type Status string

const (
	// StatusSucceeded means the capability returned output.
	StatusSucceeded Status = "succeeded"
	// StatusFailed means every attempt failed.
	StatusFailed Status = "failed"
	// StatusSkipped means the guard returned false; the task never ran.
	StatusSkipped Status = "skipped"
)

// Result is the outcome of executing one task. Intermediate attempts are
// counted but not reported; only the final terminal outcome surfaces.
type Result struct {
	// TaskID identifies the task.
	TaskID string `json:"task_id"`
	// Status is the terminal outcome.
	Status Status `json:"status"`
	// Output is the capability's return value on success.
	Output any `json:"output,omitempty"`
	// Err is the final attempt's failure.
	Err error `json:"-"`
	// SkipReason explains a skip.
	SkipReason string `json:"skip_reason,omitempty"`
	// Duration is the wall-clock time across all attempts.
	Duration time.Duration `json:"duration"`
	// Attempts is the number of attempts made (0 for skipped tasks).
	Attempts int `json:"attempts"`
}

// Terminal reports whether the result counts as terminal non-failed for
// dependents: succeeded and skipped tasks unblock their dependents.
func (r Result) Terminal() bool {
	return r.Status == StatusSucceeded || r.Status == StatusSkipped
}
