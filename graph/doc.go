// Package graph provides the immutable task graph that every other
// orchestration component consumes.
//
// A TaskGraph is built once from plain Task declarations, checked for
// unknown dependency references and cycles, and caches its topological
// levels: tasks at level 0 have no dependencies, and a task's level is
// one more than the deepest of its dependencies. Tasks within a level
// have no ordering constraints between them.
package graph
