package saga

// CompensationStatus is the outcome of one compensating action.
type CompensationStatus string

const (
	// CompensationSucceeded means the undo action completed.
	CompensationSucceeded CompensationStatus = "succeeded"
	// CompensationFailed means the undo action itself errored; the unwind
	// continued past it.
	CompensationFailed CompensationStatus = "failed"
	// CompensationSkipped means the step declared no compensating action.
	CompensationSkipped CompensationStatus = "skipped"
)

// CompensationRecord is the outcome of unwinding one completed step.
type CompensationRecord struct {
	// Step is the name of the compensated step.
	Step string `json:"step"`
	// Status is the compensation outcome.
	Status CompensationStatus `json:"status"`
	// Err is set when Status is failed.
	Err error `json:"-"`
}

// CompensationReport lists the unwind outcomes in the order the
// compensations ran, which is the reverse of the steps' completion order.
type CompensationReport struct {
	Records []CompensationRecord `json:"records"`
}

// Failures counts compensating actions that themselves errored.
func (r *CompensationReport) Failures() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Status == CompensationFailed {
			n++
		}
	}
	return n
}

// Result is the outcome of a saga body. On failure Report describes the
// unwind and Outputs holds what completed before the failing step.
type Result struct {
	// SagaID uniquely identifies this saga execution.
	SagaID string `json:"saga_id"`
	// Outputs maps step name to its forward output.
	Outputs map[string]any `json:"-"`
	// Report is nil when the saga completed without compensation.
	Report *CompensationReport `json:"report,omitempty"`
}
