package simulation

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a fresh, unconfigured simulation instance.
type Factory func() Simulation

// Registry maps simulation names to factories. Instances are never shared:
// Get builds a new one per call so concurrent runs don't collide on state.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty simulation registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a simulation factory under a unique name. Called from the
// simulation packages' init functions.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("simulation %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Get returns a new instance of the named simulation.
func (r *Registry) Get(name string) (Simulation, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown simulation %q", name)
	}
	return factory(), nil
}

// List returns all registered simulation names, sorted for stable menus.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global simulation registry.
var DefaultRegistry = NewRegistry()
