// Package resource provides the run-level resource budget and the static
// validator that rejects task graphs with resource conflicts before any
// execution begins.
//
// Validation is a pure function over a graph and a budget: it never mutates
// the graph, knows nothing about wall-clock time, and accumulates every
// conflict it finds rather than stopping at the first.
package resource
