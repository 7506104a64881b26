package scheduler

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/executor"
	"github.com/kbukum/flowkit/graph"
	"github.com/kbukum/flowkit/logger"
	"github.com/kbukum/flowkit/resilience"
	"github.com/kbukum/flowkit/resource"
)

// Config configures a Scheduler.
type Config struct {
	// Budget supplies the admission ceilings. Zero values get defaults.
	Budget resource.Budget
	// Logger receives scheduling events. Nil disables logging.
	Logger *logger.Logger
	// Hooks receive task lifecycle notifications.
	Hooks Hooks
	// ContinueOnFailure keeps admitting tasks after a failure instead of
	// stopping at the current level. The run still ends as failed. Used
	// when siblings are independent, as in candidate generation.
	ContinueOnFailure bool
}

// Scheduler executes a task graph level by level under admission control.
type Scheduler struct {
	exec          *executor.Executor
	budget        resource.Budget
	log           *logger.Logger
	hooks         Hooks
	keepAdmitting bool
}

// New creates a Scheduler that dispatches tasks through exec.
func New(exec *executor.Executor, cfg Config) *Scheduler {
	budget := cfg.Budget
	budget.ApplyDefaults()
	if budget.MaxParallel <= 0 {
		budget.MaxParallel = resource.DefaultBudget().MaxParallel
	}
	if budget.MemoryLimitMB <= 0 {
		budget.MemoryLimitMB = resource.DefaultBudget().MemoryLimitMB
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		exec:          exec,
		budget:        budget,
		log:           log.WithComponent("scheduler"),
		hooks:         cfg.Hooks,
		keepAdmitting: cfg.ContinueOnFailure,
	}
}

// Run processes the graph's levels strictly in order: level n+1 never
// starts before every non-skipped task at level n reaches a terminal
// state. ctx gates admission only; tasks already dispatched are allowed
// to finish after cancellation rather than being force-killed.
func (s *Scheduler) Run(ctx context.Context, g *graph.TaskGraph) RunResult {
	start := time.Now()

	state := &runState{
		results: make(map[string]executor.Result, g.Len()),
	}
	bulkhead := resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "scheduler",
		MaxConcurrent: s.budget.MaxParallel,
	})
	memory := semaphore.NewWeighted(int64(s.budget.MemoryLimitMB))

	// In-flight tasks run on a context detached from the cancellation
	// signal so cancelling the run never orphans external side effects.
	taskCtx := context.WithoutCancel(ctx)

	for level, ids := range g.Levels() {
		if s.halted(ctx, state) {
			break
		}

		s.log.Debug("level starting", logger.Fields(
			logger.FieldLevel, level, "tasks", len(ids)))

		s.runLevel(ctx, taskCtx, g, level, bulkhead, memory, state)
	}

	duration := time.Since(start)

	if err := ctx.Err(); err != nil {
		return RunResult{
			Status:   RunCancelled,
			Results:  state.results,
			Err:      errors.Cancelled("run context cancelled").WithCause(err),
			Duration: duration,
		}
	}
	if err := state.failure(); err != nil {
		return RunResult{
			Status:   RunFailed,
			Results:  state.results,
			Err:      err,
			Duration: duration,
		}
	}
	return RunResult{
		Status:   RunCompleted,
		Results:  state.results,
		Duration: duration,
	}
}

// runLevel dispatches one level: the parallel batch first, then serial
// siblings one at a time in declaration order.
func (s *Scheduler) runLevel(ctx, taskCtx context.Context, g *graph.TaskGraph, level int,
	bulkhead *resilience.Bulkhead, memory *semaphore.Weighted, state *runState) {

	tasks := g.TasksAt(level)

	var wg sync.WaitGroup
	for _, t := range tasks {
		if !t.Parallel {
			continue
		}
		if s.halted(ctx, state) {
			break
		}
		if !s.depsReady(t, state) {
			continue
		}
		if !s.admit(ctx, t, bulkhead, memory) {
			break
		}
		// A sibling may have failed while this task waited for capacity.
		if s.halted(ctx, state) {
			memory.Release(s.memoryWeight(t))
			bulkhead.Release()
			break
		}

		wg.Add(1)
		go func(t graph.Task, weight int64) {
			defer wg.Done()
			defer memory.Release(weight)
			defer bulkhead.Release()
			s.dispatch(taskCtx, t, level, state)
		}(t, s.memoryWeight(t))
	}
	wg.Wait()

	for _, t := range tasks {
		if t.Parallel {
			continue
		}
		if s.halted(ctx, state) {
			break
		}
		if !s.depsReady(t, state) {
			continue
		}
		if !s.admit(ctx, t, bulkhead, memory) {
			break
		}
		if s.halted(ctx, state) {
			memory.Release(s.memoryWeight(t))
			bulkhead.Release()
			break
		}
		s.dispatch(taskCtx, t, level, state)
		memory.Release(s.memoryWeight(t))
		bulkhead.Release()
	}
}

// halted reports whether admission must stop: cancellation always halts,
// a recorded failure halts unless the scheduler runs in continue mode.
func (s *Scheduler) halted(ctx context.Context, state *runState) bool {
	if ctx.Err() != nil {
		return true
	}
	return !s.keepAdmitting && state.failure() != nil
}

// depsReady reports whether every dependency reached a terminal
// non-failed state. A missing result means the dependency never ran,
// which only happens once admission continued past a failure.
func (s *Scheduler) depsReady(t graph.Task, state *runState) bool {
	for _, dep := range t.DependsOn {
		res, ok := state.result(dep)
		if !ok || res.Status == executor.StatusFailed {
			return false
		}
	}
	return true
}

// admit blocks until both ceilings allow the task to start. It returns
// false only when the run is cancelled while waiting for capacity.
func (s *Scheduler) admit(ctx context.Context, t graph.Task,
	bulkhead *resilience.Bulkhead, memory *semaphore.Weighted) bool {

	if err := bulkhead.Acquire(ctx); err != nil {
		return false
	}
	if err := memory.Acquire(ctx, s.memoryWeight(t)); err != nil {
		bulkhead.Release()
		return false
	}
	return true
}

func (s *Scheduler) dispatch(ctx context.Context, t graph.Task, level int, state *runState) {
	s.hooks.taskStart(t.ID, level)
	res := s.exec.Execute(ctx, t)
	state.record(res)
	s.hooks.taskFinish(res, level)

	s.log.Debug("task finished", logger.Fields(
		logger.FieldTask, t.ID,
		logger.FieldLevel, level,
		logger.FieldStatus, string(res.Status),
		logger.FieldAttempt, res.Attempts,
	))
}

// memoryWeight clamps a task's estimate to the run limit so a single
// oversized task (already reported by validation) cannot deadlock admission.
func (s *Scheduler) memoryWeight(t graph.Task) int64 {
	mb := t.Resource.MemoryMB
	if mb > s.budget.MemoryLimitMB {
		mb = s.budget.MemoryLimitMB
	}
	if mb < 0 {
		mb = 0
	}
	return int64(mb)
}

// runState is the only mutable shared state in a run: the result map and
// the first-failure marker, guarded by one mutex.
type runState struct {
	mu      sync.Mutex
	results map[string]executor.Result
	failed  error
}

func (st *runState) record(res executor.Result) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.results[res.TaskID] = res
	if res.Status == executor.StatusFailed && st.failed == nil {
		st.failed = res.Err
	}
}

func (st *runState) failure() error {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.failed
}

func (st *runState) result(id string) (executor.Result, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	res, ok := st.results[id]
	return res, ok
}
