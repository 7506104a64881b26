package pipeline

import (
	"time"

	"github.com/kbukum/flowkit/executor"
	"github.com/kbukum/flowkit/resource"
	"github.com/kbukum/flowkit/saga"
)

// Status is the terminal outcome of a whole pipeline run.
type Status string

const (
	// StatusCompleted means every non-skipped task succeeded.
	StatusCompleted Status = "completed"
	// StatusFailed means validation rejected the graph or a task failed.
	StatusFailed Status = "failed"
	// StatusCancelled means the run-level cancellation signal was raised.
	StatusCancelled Status = "cancelled"
)

// State is a position in the run state machine. The report records the
// state the run terminated in.
type State string

const (
	StateValidating   State = "validating"
	StateScheduling   State = "scheduling"
	StateRunning      State = "running"
	StateCompleted    State = "completed"
	StateFailed       State = "failed"
	StateCompensating State = "compensating"
	StateCompensated  State = "compensated"
)

// RunReport is the full outcome of one pipeline run. Partial results are
// always present alongside a failure so callers can inspect progress.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`
	// Status is the terminal outcome.
	Status Status `json:"status"`
	// State is the state-machine position the run terminated in.
	State State `json:"state"`
	// Results maps task id to its terminal execution result.
	Results map[string]executor.Result `json:"results,omitempty"`
	// Conflicts is populated only when validation rejected the graph.
	Conflicts []resource.Conflict `json:"conflicts,omitempty"`
	// Compensation describes the unwind after a failure; nil when the run
	// completed or failed validation.
	Compensation *saga.CompensationReport `json:"compensation,omitempty"`
	// Err is the primary failure. Compensation outcomes never replace it.
	Err error `json:"-"`
	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the run ended without completing.
func (r RunReport) Failed() bool {
	return r.Status != StatusCompleted
}
