package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Structural errors (never retried, nothing to compensate)
const (
	// ErrCodeCycleDetected indicates the task graph contains a dependency cycle.
	ErrCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// ErrCodeUnknownDependency indicates a task references a dependency not in the graph.
	ErrCodeUnknownDependency ErrorCode = "UNKNOWN_DEPENDENCY"
	// ErrCodeInvalidInput indicates a task declaration or budget field is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required declaration field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Validation conflicts (block execution, caller must fix the declaration)
const (
	// ErrCodeValidationFailed indicates static resource validation rejected the graph.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
)

// Run failures (terminal, trigger compensation)
const (
	// ErrCodeExecutionFailed indicates a task exhausted its retries.
	ErrCodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
	// ErrCodeCancelled indicates the run-level cancellation signal was raised.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeTimeout indicates a single execution attempt exceeded its deadline.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeBelowQualityThreshold indicates the best candidate scored under the threshold.
	ErrCodeBelowQualityThreshold ErrorCode = "BELOW_QUALITY_THRESHOLD"
	// ErrCodeAllCandidatesFailed indicates every candidate strategy failed.
	ErrCodeAllCandidatesFailed ErrorCode = "ALL_CANDIDATES_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates a defect inside the orchestration core.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:         true,
	ErrCodeExecutionFailed: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Only transient task-level failures are retryable; structural and validation
// errors require the caller to change the declaration.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
