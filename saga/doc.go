// Package saga executes an ordered sequence of steps and, on the first
// failure, unwinds every previously succeeded step by invoking its
// compensating action in reverse order.
//
// Compensation is best-effort: a failing compensator is recorded and the
// unwind continues, so every registered compensation gets a chance to
// run. The original failure is always the primary error returned to the
// caller; compensation outcomes travel alongside it in a report.
package saga
