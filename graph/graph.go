package graph

import (
	"github.com/kbukum/flowkit/errors"
)

// TaskGraph is the immutable set of tasks plus cached topological levels.
// It is built once per run and never mutated afterwards.
type TaskGraph struct {
	tasks  map[string]Task
	order  []string   // declaration order, drives deterministic iteration
	levels [][]string // level 0 first; ids within a level in declaration order
	depth  map[string]int
}

// Build validates the declarations and constructs a TaskGraph.
// It fails on empty or duplicate IDs, negative retry counts, unknown
// dependency references, and dependency cycles. On a cycle the error
// carries the offending identifier chain.
func Build(tasks []Task) (*TaskGraph, error) {
	byID := make(map[string]Task, len(tasks))
	order := make([]string, 0, len(tasks))

	for _, t := range tasks {
		if t.ID == "" {
			return nil, errors.MissingField("task.id")
		}
		if _, dup := byID[t.ID]; dup {
			return nil, errors.InvalidInput("task.id", "duplicates "+t.ID)
		}
		if t.Resource.MaxRetries < 0 {
			return nil, errors.InvalidInput("task.resource.max_retries", "must be >= 0").
				WithDetail("task", t.ID)
		}
		byID[t.ID] = t
		order = append(order, t.ID)
	}

	for _, id := range order {
		for _, dep := range byID[id].DependsOn {
			if _, ok := byID[dep]; !ok {
				return nil, errors.UnknownDependency(id, dep)
			}
		}
	}

	if chain := findCycle(byID, order); chain != nil {
		return nil, errors.CycleDetected(chain)
	}

	g := &TaskGraph{tasks: byID, order: order}
	g.computeLevels()
	return g, nil
}

// Len returns the number of tasks in the graph.
func (g *TaskGraph) Len() int { return len(g.order) }

// Task returns the task with the given id.
func (g *TaskGraph) Task(id string) (Task, bool) {
	t, ok := g.tasks[id]
	return t, ok
}

// IDs returns all task ids in declaration order.
func (g *TaskGraph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Levels returns the cached topological levels, level 0 first.
// The returned slices are copies; callers cannot mutate the graph.
func (g *TaskGraph) Levels() [][]string {
	out := make([][]string, len(g.levels))
	for i, lvl := range g.levels {
		out[i] = make([]string, len(lvl))
		copy(out[i], lvl)
	}
	return out
}

// TasksAt returns the tasks at the given level in declaration order.
func (g *TaskGraph) TasksAt(level int) []Task {
	if level < 0 || level >= len(g.levels) {
		return nil
	}
	out := make([]Task, 0, len(g.levels[level]))
	for _, id := range g.levels[level] {
		out = append(out, g.tasks[id])
	}
	return out
}

// LevelOf returns the topological level of a task, or -1 if unknown.
func (g *TaskGraph) LevelOf(id string) int {
	if d, ok := g.depth[id]; ok {
		return d
	}
	return -1
}

// computeLevels assigns level(t) = 1 + max(level of dependencies), with
// dependency-free tasks at level 0. The graph is already known acyclic.
func (g *TaskGraph) computeLevels() {
	depth := make(map[string]int, len(g.order))

	var levelOf func(id string) int
	levelOf = func(id string) int {
		if d, ok := depth[id]; ok {
			return d
		}
		d := 0
		for _, dep := range g.tasks[id].DependsOn {
			if dl := levelOf(dep) + 1; dl > d {
				d = dl
			}
		}
		depth[id] = d
		return d
	}

	maxDepth := 0
	for _, id := range g.order {
		if d := levelOf(id); d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]string, maxDepth+1)
	for _, id := range g.order {
		d := depth[id]
		levels[d] = append(levels[d], id)
	}

	g.depth = depth
	g.levels = levels
}

// DFS coloring states.
const (
	white = iota // unvisited
	gray         // on the current DFS stack
	black        // fully explored
)

// findCycle runs a DFS over the dependency edges and returns the offending
// identifier chain when a back edge is found, nil otherwise.
func findCycle(tasks map[string]Task, order []string) []string {
	color := make(map[string]int, len(tasks))
	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)

		for _, dep := range tasks[id].DependsOn {
			switch color[dep] {
			case gray:
				// Back edge: slice the stack from the first occurrence of dep.
				for i, sid := range stack {
					if sid == dep {
						cycle = append(append([]string{}, stack[i:]...), dep)
						return true
					}
				}
			case white:
				if visit(dep) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, id := range order {
		if color[id] == white && visit(id) {
			return cycle
		}
	}
	return nil
}
