// Package executor runs a single task through a caller-supplied execution
// capability, enforcing the task's timeout (scaled by the run-level
// multiplier) and retry policy with exponential backoff.
//
// The core never interprets the work descriptor or its output; the
// capability is the only place domain work happens. Capabilities compose
// with middleware for logging, tracing, and metrics:
//
//	cap = executor.Chain(cap,
//		executor.WithLogging(log),
//		executor.WithTracing("flowkit.task"),
//	)
package executor
