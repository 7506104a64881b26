package errors

import (
	"fmt"
)

// AppError is the unified error type for the orchestration core.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error
	// (offending task ids, partial results, conflict lists).
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// CycleDetected creates an AppError carrying the offending identifier chain.
func CycleDetected(chain []string) *AppError {
	return &AppError{
		Code:    ErrCodeCycleDetected,
		Message: fmt.Sprintf("task graph contains a dependency cycle: %v", chain),
		Details: map[string]any{"chain": chain},
	}
}

// UnknownDependency creates an AppError for a dependency reference that is
// not present in the graph.
func UnknownDependency(taskID, depID string) *AppError {
	return &AppError{
		Code:    ErrCodeUnknownDependency,
		Message: fmt.Sprintf("task %q depends on unknown task %q", taskID, depID),
		Details: map[string]any{"task": taskID, "dependency": depID},
	}
}

// InvalidInput creates an AppError for an invalid declaration field.
func InvalidInput(field, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: fmt.Sprintf("%s %s", field, reason),
		Details: map[string]any{"field": field},
	}
}

// MissingField creates an AppError for a required field that is missing.
func MissingField(field string) *AppError {
	return &AppError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("%s is required", field),
		Details: map[string]any{"field": field},
	}
}

// Validation creates an AppError for a failed static validation pass.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidationFailed,
		Message: message,
	}
}

// ExecutionFailed creates an AppError for a task that exhausted its retries.
func ExecutionFailed(taskID string, attempts int, cause error) *AppError {
	return &AppError{
		Code:      ErrCodeExecutionFailed,
		Message:   fmt.Sprintf("task %q failed after %d attempts", taskID, attempts),
		Retryable: true,
		Details:   map[string]any{"task": taskID, "attempts": attempts},
		Cause:     cause,
	}
}

// Timeout creates an AppError for an attempt that exceeded its deadline.
func Timeout(taskID string) *AppError {
	return &AppError{
		Code:      ErrCodeTimeout,
		Message:   fmt.Sprintf("task %q exceeded its deadline", taskID),
		Retryable: true,
		Details:   map[string]any{"task": taskID},
	}
}

// Cancelled creates an AppError for a run aborted by the caller.
func Cancelled(reason string) *AppError {
	return &AppError{
		Code:    ErrCodeCancelled,
		Message: fmt.Sprintf("run cancelled: %s", reason),
	}
}

// BelowQualityThreshold creates an AppError for a best candidate under threshold.
func BelowQualityThreshold(candidateID string, score, threshold float64) *AppError {
	return &AppError{
		Code:    ErrCodeBelowQualityThreshold,
		Message: fmt.Sprintf("best candidate %q scored %.1f, below threshold %.1f", candidateID, score, threshold),
		Details: map[string]any{"candidate": candidateID, "score": score, "threshold": threshold},
	}
}

// AllCandidatesFailed creates an AppError for total strategy exhaustion.
func AllCandidatesFailed(count int) *AppError {
	return &AppError{
		Code:    ErrCodeAllCandidatesFailed,
		Message: fmt.Sprintf("all %d candidate strategies failed", count),
		Details: map[string]any{"strategies": count},
	}
}

// Internal creates an AppError for a defect inside the core.
func Internal(cause error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal error",
		Cause:   cause,
	}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError and returns it.
func IsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// GetCode extracts the error code, or ErrCodeInternal for foreign errors.
func GetCode(err error) ErrorCode {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Retryable
	}
	return false
}
