// Package pipeline composes graph validation, scheduling and compensation
// into a single run with a fixed state machine:
//
//	validating -> scheduling -> running -> completed
//	                                    -> failed -> compensating -> compensated
//
// A validation failure short-circuits with the full conflict list and no
// compensation, since nothing has executed. Any later failure, including
// cancellation, runs the registered compensations in reverse registration
// order before the report is returned.
package pipeline
