package executor

import (
	"context"
	"time"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/graph"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/resilience"
)

// Capability is the caller-supplied execution function. The core treats the
// call as atomic: it awaits completion or timeout and never inspects work.
type Capability func(ctx context.Context, work any) (any, error)

// Config configures an Executor.
type Config struct {
	// TimeoutMultiplier scales every task's declared timeout. Values <= 0
	// are treated as 1.
	TimeoutMultiplier float64
	// Retry is the backoff policy between attempts. MaxAttempts is
	// overridden per task from its max_retries declaration.
	Retry resilience.RetryConfig
	// Logger receives per-attempt events. Nil disables logging.
	Logger *logger.Logger
}

// Executor wraps a capability with timeout and retry enforcement.
type Executor struct {
	capability Capability
	multiplier float64
	retry      resilience.RetryConfig
	log        *logger.Logger
}

// New creates an Executor around the given capability.
func New(capability Capability, cfg Config) *Executor {
	multiplier := cfg.TimeoutMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	retry := cfg.Retry
	if retry.InitialBackoff == 0 && retry.BackoffFactor == 0 {
		retry = resilience.DefaultRetryConfig()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Executor{
		capability: capability,
		multiplier: multiplier,
		retry:      retry,
		log:        log.WithComponent("executor"),
	}
}

// Execute runs one task to a terminal outcome. A guard returning false
// yields Skipped without invoking the capability. A timed-out attempt
// counts as a failed attempt and is retried up to the task's limit.
func (e *Executor) Execute(ctx context.Context, task graph.Task) Result {
	start := time.Now()

	if task.Guard != nil && !task.Guard(ctx) {
		e.log.Debug("task skipped by guard", logger.Fields(logger.FieldTask, task.ID))
		return Result{
			TaskID:     task.ID,
			Status:     StatusSkipped,
			SkipReason: "guard returned false",
			Duration:   time.Since(start),
		}
	}

	retry := e.retry
	retry.MaxAttempts = task.Resource.MaxRetries + 1
	retry.OnRetry = func(attempt int, err error, backoff time.Duration) {
		e.log.Debug("task attempt failed, retrying", logger.Fields(
			logger.FieldTask, task.ID,
			logger.FieldAttempt, attempt,
			logger.FieldError, err.Error(),
			"backoff", backoff.String(),
		))
	}

	output, attempts, err := resilience.Retry(ctx, retry, func(attempt int) (any, error) {
		return e.attempt(ctx, task)
	})

	duration := time.Since(start)

	if err != nil {
		e.log.Warn("task failed", logger.Fields(
			logger.FieldTask, task.ID,
			logger.FieldAttempt, attempts,
			logger.FieldError, err.Error(),
		))
		return Result{
			TaskID:   task.ID,
			Status:   StatusFailed,
			Err:      errors.ExecutionFailed(task.ID, attempts, err),
			Duration: duration,
			Attempts: attempts,
		}
	}

	e.log.Debug("task succeeded", logger.Fields(
		logger.FieldTask, task.ID,
		logger.FieldAttempt, attempts,
		logger.FieldDuration, duration.Milliseconds(),
	))
	return Result{
		TaskID:   task.ID,
		Status:   StatusSucceeded,
		Output:   output,
		Duration: duration,
		Attempts: attempts,
	}
}

// attempt makes a single capability invocation under the task deadline.
func (e *Executor) attempt(ctx context.Context, task graph.Task) (any, error) {
	attemptCtx := WithTaskID(ctx, task.ID)

	if task.Resource.Timeout > 0 {
		deadline := time.Duration(float64(task.Resource.Timeout) * e.multiplier)
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(attemptCtx, deadline)
		defer cancel()
	}

	output, err := e.capability(attemptCtx, task.Work)
	if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		// The attempt deadline expired (run-level context is still live);
		// this counts as a failed attempt and is retried like any other.
		return nil, errors.Timeout(task.ID).WithCause(err)
	}
	return output, err
}

// --- task identity plumbing for middleware ---

type contextKey string

const taskIDKey contextKey = "flowkit.task_id"

// WithTaskID stamps the executing task's id into the context.
func WithTaskID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, taskIDKey, id)
}

// TaskIDFromContext returns the executing task's id, if any.
func TaskIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(taskIDKey).(string); ok {
		return v
	}
	return ""
}
