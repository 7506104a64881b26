// Package errors provides unified error handling for the orchestration core.
// It implements structured error values with machine-readable codes,
// retryable detection, and detail maps that carry partial results and
// conflict lists alongside the failure.
package errors
