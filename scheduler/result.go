package scheduler

import (
	"time"

	"github.com/kbukum/flowkit/executor"
)

// RunStatus is the terminal state of a whole run.
type RunStatus string

const (
	// RunCompleted means every non-skipped task succeeded.
	RunCompleted RunStatus = "completed"
	// RunFailed means a task exhausted its retries.
	RunFailed RunStatus = "failed"
	// RunCancelled means the run-level cancellation signal was raised.
	RunCancelled RunStatus = "cancelled"
)

// RunResult is the outcome of scheduling a graph. Results always contains
// what finished before any failure so callers can inspect progress.
type RunResult struct {
	// Status is the run's terminal state.
	Status RunStatus `json:"status"`
	// Results maps task id to its terminal execution result.
	Results map[string]executor.Result `json:"results"`
	// Err carries the first task failure or the cancellation.
	Err error `json:"-"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the run ended without completing.
func (r RunResult) Failed() bool {
	return r.Status != RunCompleted
}

// Hooks receive task lifecycle notifications. Used by embedders for
// progress reporting and by tests to assert ordering invariants.
type Hooks struct {
	// OnTaskStart fires just before a task's first attempt.
	OnTaskStart func(taskID string, level int)
	// OnTaskFinish fires once a task reaches a terminal state.
	OnTaskFinish func(result executor.Result, level int)
}

func (h Hooks) taskStart(taskID string, level int) {
	if h.OnTaskStart != nil {
		h.OnTaskStart(taskID, level)
	}
}

func (h Hooks) taskFinish(result executor.Result, level int) {
	if h.OnTaskFinish != nil {
		h.OnTaskFinish(result, level)
	}
}
