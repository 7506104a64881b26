package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeCycleDetected, "cycle")
	if err.Code != ErrCodeCycleDetected {
		t.Errorf("expected code %s, got %s", ErrCodeCycleDetected, err.Code)
	}
	if err.Message != "cycle" {
		t.Errorf("expected message 'cycle', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("CYCLE_DETECTED should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out")
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_CycleDetected_Success(t *testing.T) {
	err := CycleDetected([]string{"a", "b", "a"})
	if err.Code != ErrCodeCycleDetected {
		t.Errorf("expected CYCLE_DETECTED, got %s", err.Code)
	}
	chain, ok := err.Details["chain"].([]string)
	if !ok || len(chain) != 3 {
		t.Errorf("expected chain of 3 ids in details, got %v", err.Details["chain"])
	}
	if !strings.Contains(err.Error(), "a b a") {
		t.Errorf("expected chain in message, got %q", err.Error())
	}
}

func TestAppError_UnknownDependency_Success(t *testing.T) {
	err := UnknownDependency("build", "fetch")
	if err.Code != ErrCodeUnknownDependency {
		t.Errorf("expected UNKNOWN_DEPENDENCY, got %s", err.Code)
	}
	if err.Details["task"] != "build" || err.Details["dependency"] != "fetch" {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestAppError_ExecutionFailed_Success(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := ExecutionFailed("build", 3, cause)
	if err.Code != ErrCodeExecutionFailed {
		t.Errorf("expected EXECUTION_FAILED, got %s", err.Code)
	}
	if !err.Retryable {
		t.Error("ExecutionFailed should be retryable")
	}
	if err.Details["attempts"] != 3 {
		t.Errorf("expected attempts=3, got %v", err.Details["attempts"])
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_BelowQualityThreshold_Success(t *testing.T) {
	err := BelowQualityThreshold("fast-path", 95, 96)
	if err.Code != ErrCodeBelowQualityThreshold {
		t.Errorf("expected BELOW_QUALITY_THRESHOLD, got %s", err.Code)
	}
	if err.Details["score"] != 95.0 {
		t.Errorf("expected score=95, got %v", err.Details["score"])
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("nil graph")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.Retryable {
		t.Error("Internal should NOT be retryable")
	}
}

func TestAppError_WithDetail_Chaining(t *testing.T) {
	err := Validation("2 conflicts").
		WithDetail("conflicts", []string{"WorkingDirectoryConflict", "EnvVarConflict"}).
		WithDetail("level", 0)
	if err.Details["level"] != 0 {
		t.Errorf("expected level=0, got %v", err.Details["level"])
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Cancelled("user abort").WithCause(cause)
	if stderrors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return cause")
	}
}

func TestGetCode_ForeignError(t *testing.T) {
	if GetCode(stderrors.New("plain")) != ErrCodeInternal {
		t.Error("foreign errors should map to INTERNAL_ERROR")
	}
	if GetCode(Cancelled("x")) != ErrCodeCancelled {
		t.Error("expected CANCELLED")
	}
}

func TestIsRetryable(t *testing.T) {
	if IsRetryable(stderrors.New("plain")) {
		t.Error("foreign errors should not be retryable")
	}
	if !IsRetryable(Timeout("build")) {
		t.Error("Timeout should be retryable")
	}
	if IsRetryable(CycleDetected([]string{"a"})) {
		t.Error("structural errors should not be retryable")
	}
}
