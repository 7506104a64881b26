// Package candidate runs several independent strategies concurrently,
// scores the surviving outputs with a pluggable evaluator, and selects
// the best candidate above a quality threshold.
//
// Strategies have no data dependencies on one another; they execute as a
// flat graph through the scheduler with failure isolation, so one failed
// strategy never aborts its siblings. Selection is deterministic: scores
// sort descending and ties resolve to the first-declared strategy.
package candidate
