package graph

import (
	"context"
	"time"
)

// GuardFunc is an optional pre-run condition. When it returns false the
// task is recorded as skipped without failing the run.
type GuardFunc func(ctx context.Context) bool

// Resource declares what a task needs while it runs. Estimates are
// supplied by the caller; the core never infers cost from work descriptors.
type Resource struct {
	// MemoryMB is the estimated peak memory in megabytes.
	MemoryMB int `json:"memory_mb" validate:"min=0"`
	// IOIntensive marks the task as I/O bound for concurrency ceilings.
	IOIntensive bool `json:"io_intensive"`
	// WorkingDir is the directory the task operates in. Empty means none.
	WorkingDir string `json:"working_dir,omitempty"`
	// Env is the set of environment variables the task sets.
	Env map[string]string `json:"env,omitempty"`
	// Timeout bounds a single execution attempt before the run-level
	// multiplier is applied.
	Timeout time.Duration `json:"timeout_ms"`
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `json:"max_retries" validate:"min=0"`
}

// Task is one unit of work in a graph.
type Task struct {
	// ID is unique within a graph.
	ID string `json:"id" validate:"required"`
	// Work is the opaque descriptor handed to the execution capability.
	Work any `json:"work"`
	// DependsOn lists task IDs that must reach a terminal non-failed
	// state before this task may start.
	DependsOn []string `json:"depends_on,omitempty"`
	// Parallel marks the task as eligible to run concurrently with
	// siblings at the same level.
	Parallel bool `json:"parallel"`
	// Resource holds the task's resource requirement.
	Resource Resource `json:"resource"`
	// Guard is evaluated before the task runs; nil means always run.
	Guard GuardFunc `json:"-"`
}
