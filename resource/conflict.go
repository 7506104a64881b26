package resource

import (
	"fmt"
	"strings"
)

// ConflictKind identifies the category of a detected violation.
type ConflictKind string

const (
	// WorkingDirectoryConflict: parallel-eligible tasks at one level share a working directory.
	WorkingDirectoryConflict ConflictKind = "WORKING_DIRECTORY_CONFLICT"
	// IOConcurrencyConflict: more I/O-intensive tasks scheduled concurrently than the ceiling.
	IOConcurrencyConflict ConflictKind = "IO_CONCURRENCY_CONFLICT"
	// EnvVarConflict: tasks at one level set the same variable to different values.
	EnvVarConflict ConflictKind = "ENV_VAR_CONFLICT"
	// ReservedEnvVarViolation: a task sets a reserved variable.
	ReservedEnvVarViolation ConflictKind = "RESERVED_ENV_VAR_VIOLATION"
	// MemoryBudgetExceeded: a single estimate exceeds the per-task cap, or a
	// level's sum exceeds the memory limit.
	MemoryBudgetExceeded ConflictKind = "MEMORY_BUDGET_EXCEEDED"
	// ConcurrencyBudgetExceeded: parallel-eligible tasks at one level exceed
	// max_parallel × 2, a soft sanity ceiling above the hard scheduling cap.
	ConcurrencyBudgetExceeded ConflictKind = "CONCURRENCY_BUDGET_EXCEEDED"
)

// Conflict is one statically detected violation. Conflicts are produced
// transiently by validation and never persisted past the call.
type Conflict struct {
	Kind    ConflictKind `json:"kind"`
	Level   int          `json:"level"`
	TaskIDs []string     `json:"task_ids"`
	Detail  string       `json:"detail"`
}

func (c Conflict) String() string {
	return fmt.Sprintf("%s at level %d [%s]: %s",
		c.Kind, c.Level, strings.Join(c.TaskIDs, ", "), c.Detail)
}
