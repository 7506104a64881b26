// Package resilience provides the retry and admission-control primitives
// used by the executor and scheduler: generic retry with exponential
// backoff and jitter, and a bulkhead that bounds concurrent task starts.
package resilience
