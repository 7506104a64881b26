package resource

import (
	"fmt"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/graph"
	"github.com/kbukum/flowkit/util"
)

// IOPredicate classifies an opaque work descriptor as I/O intensive.
// Supplied by the caller so the core stays domain-agnostic.
type IOPredicate func(work any) bool

// Validator performs static resource analysis over a task graph.
// The zero value is usable; IOIntensive may be nil, in which case only the
// task's declared flag counts.
type Validator struct {
	// IOIntensive augments the per-task IOIntensive flag.
	IOIntensive IOPredicate
}

// Check runs Validate and wraps any conflicts into a structured error.
func (v *Validator) Check(g *graph.TaskGraph, budget Budget) error {
	return ConflictsError(v.Validate(g, budget))
}

// ConflictsError wraps a non-empty conflict list into a structured
// validation error. Returns nil for an empty list.
func ConflictsError(conflicts []Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}
	return errors.Validation(fmt.Sprintf("%d resource conflicts detected", len(conflicts))).
		WithDetail("conflicts", conflicts)
}

// Validate reports every conflict found in the graph under the given budget.
// The result is deterministic: levels ascending, checks in a fixed order,
// task ids in declaration order. Calling it twice yields identical sets.
func (v *Validator) Validate(g *graph.TaskGraph, budget Budget) []Conflict {
	var conflicts []Conflict

	for level := range g.Levels() {
		tasks := g.TasksAt(level)
		parallel := util.Filter(tasks, func(t graph.Task) bool { return t.Parallel })

		conflicts = append(conflicts, v.checkWorkingDirs(level, parallel)...)
		conflicts = append(conflicts, v.checkIOConcurrency(level, parallel, budget)...)
		conflicts = append(conflicts, v.checkEnvCollisions(level, parallel)...)
		conflicts = append(conflicts, v.checkReservedEnv(level, tasks, budget)...)
		conflicts = append(conflicts, v.checkMemory(level, tasks, parallel, budget)...)
		conflicts = append(conflicts, v.checkConcurrency(level, parallel, budget)...)
	}

	return conflicts
}

func (v *Validator) ioIntensive(t graph.Task) bool {
	if t.Resource.IOIntensive {
		return true
	}
	return v.IOIntensive != nil && v.IOIntensive(t.Work)
}

func (v *Validator) checkWorkingDirs(level int, parallel []graph.Task) []Conflict {
	byDir := make(map[string][]string)
	for _, t := range parallel {
		if dir := t.Resource.WorkingDir; dir != "" {
			byDir[dir] = append(byDir[dir], t.ID)
		}
	}

	var out []Conflict
	for _, dir := range util.SortedKeys(byDir) {
		ids := byDir[dir]
		if len(ids) > 1 {
			out = append(out, Conflict{
				Kind:    WorkingDirectoryConflict,
				Level:   level,
				TaskIDs: ids,
				Detail:  fmt.Sprintf("%d parallel tasks share working directory %s", len(ids), dir),
			})
		}
	}
	return out
}

func (v *Validator) checkIOConcurrency(level int, parallel []graph.Task, budget Budget) []Conflict {
	var ids []string
	for _, t := range parallel {
		if v.ioIntensive(t) {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) <= budget.IOIntensiveCeiling {
		return nil
	}
	return []Conflict{{
		Kind:    IOConcurrencyConflict,
		Level:   level,
		TaskIDs: ids,
		Detail: fmt.Sprintf("%d I/O-intensive tasks exceed ceiling of %d",
			len(ids), budget.IOIntensiveCeiling),
	}}
}

func (v *Validator) checkEnvCollisions(level int, parallel []graph.Task) []Conflict {
	// variable name -> value -> task ids that set it
	assignments := make(map[string]map[string][]string)
	for _, t := range parallel {
		for _, name := range util.SortedKeys(t.Resource.Env) {
			value := util.SanitizeEnvValue(t.Resource.Env[name])
			if assignments[name] == nil {
				assignments[name] = make(map[string][]string)
			}
			assignments[name][value] = append(assignments[name][value], t.ID)
		}
	}

	var out []Conflict
	for _, name := range util.SortedKeys(assignments) {
		values := assignments[name]
		if len(values) < 2 {
			continue
		}
		var ids []string
		for _, value := range util.SortedKeys(values) {
			ids = append(ids, values[value]...)
		}
		out = append(out, Conflict{
			Kind:    EnvVarConflict,
			Level:   level,
			TaskIDs: util.Unique(ids),
			Detail:  fmt.Sprintf("variable %s set to %d distinct values", name, len(values)),
		})
	}
	return out
}

func (v *Validator) checkReservedEnv(level int, tasks []graph.Task, budget Budget) []Conflict {
	var out []Conflict
	for _, t := range tasks {
		for _, name := range util.SortedKeys(t.Resource.Env) {
			if util.StringInSlice(name, budget.ReservedEnvVars) {
				out = append(out, Conflict{
					Kind:    ReservedEnvVarViolation,
					Level:   level,
					TaskIDs: []string{t.ID},
					Detail:  fmt.Sprintf("task overrides reserved variable %s", name),
				})
			}
		}
	}
	return out
}

func (v *Validator) checkMemory(level int, tasks, parallel []graph.Task, budget Budget) []Conflict {
	var out []Conflict
	for _, t := range tasks {
		if t.Resource.MemoryMB > budget.PerTaskMemoryCapMB {
			out = append(out, Conflict{
				Kind:    MemoryBudgetExceeded,
				Level:   level,
				TaskIDs: []string{t.ID},
				Detail: fmt.Sprintf("estimate %d MB exceeds per-task cap %d MB",
					t.Resource.MemoryMB, budget.PerTaskMemoryCapMB),
			})
		}
	}

	sum := 0
	for _, t := range parallel {
		sum += t.Resource.MemoryMB
	}
	if sum > budget.MemoryLimitMB {
		out = append(out, Conflict{
			Kind:    MemoryBudgetExceeded,
			Level:   level,
			TaskIDs: util.Map(parallel, func(t graph.Task) string { return t.ID }),
			Detail: fmt.Sprintf("level estimates sum to %d MB, limit is %d MB",
				sum, budget.MemoryLimitMB),
		})
	}
	return out
}

func (v *Validator) checkConcurrency(level int, parallel []graph.Task, budget Budget) []Conflict {
	ceiling := budget.MaxParallel * 2
	if len(parallel) <= ceiling {
		return nil
	}
	return []Conflict{{
		Kind:    ConcurrencyBudgetExceeded,
		Level:   level,
		TaskIDs: util.Map(parallel, func(t graph.Task) string { return t.ID }),
		Detail: fmt.Sprintf("%d parallel tasks exceed soft ceiling of %d (max_parallel × 2)",
			len(parallel), ceiling),
	}}
}
