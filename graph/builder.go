package graph

// Builder accumulates task declarations and builds a TaskGraph. It is the
// plain-data replacement for a declarative pipeline front-end: whatever
// parses a textual definition ends up calling Add per task.
type Builder struct {
	tasks []Task
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a task declaration. Validation happens in Build.
func (b *Builder) Add(t Task) *Builder {
	b.tasks = append(b.tasks, t)
	return b
}

// AddAll appends several task declarations.
func (b *Builder) AddAll(tasks ...Task) *Builder {
	b.tasks = append(b.tasks, tasks...)
	return b
}

// Build constructs the TaskGraph from the accumulated declarations.
func (b *Builder) Build() (*TaskGraph, error) {
	return Build(b.tasks)
}
