// Package scheduler turns a validated task graph into an execution order:
// topological levels processed strictly in sequence, each level's parallel
// tasks dispatched concurrently under admission control.
//
// Admission control enforces two logical ceilings independent of physical
// worker count: at most max_parallel tasks in flight, and the sum of
// in-flight memory estimates never above the run's memory limit. Serial
// tasks run one at a time after their level's parallel batch.
//
// On the first task failure the scheduler stops admitting work; tasks
// already in flight finish, then the failure surfaces with the partial
// result set. Run-level cancellation behaves the same way with a
// Cancelled status.
package scheduler
