package candidate

import (
	"sort"
	"sync"

	"github.com/kbukum/flowkit/errors"
	"github.com/kbukum/flowkit/graph"
)

// Producer builds the opaque work descriptor a strategy hands to the
// execution capability. It runs once, at graph construction.
type Producer func() any

// Strategy is one independent way of producing a candidate.
type Strategy struct {
	// Name identifies the strategy and must be unique within a selection.
	Name string
	// Produce builds the strategy's work descriptor.
	Produce Producer
	// Resource bounds the strategy's execution (timeout, retries, memory).
	Resource graph.Resource
}

// Registry provides named strategy lookup, resolved once at run
// construction rather than dispatched dynamically.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register adds a strategy to the registry, keyed by its name.
func (r *Registry) Register(s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[s.Name] = s
}

// Get retrieves a strategy by name.
func (r *Registry) Get(name string) (Strategy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	return s, ok
}

// List returns sorted names of all registered strategies.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps the given names to strategies, preserving order. It fails
// on the first name with no registration.
func (r *Registry) Resolve(names ...string) ([]Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, ok := r.strategies[name]
		if !ok {
			return nil, errors.InvalidInput("strategy", "no strategy registered as "+name)
		}
		out = append(out, s)
	}
	return out, nil
}
