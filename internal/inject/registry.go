package inject

import (
	"fmt"
	"sync"
)

// Binding connects a data source to an injector.
type Binding struct {
	Name     string
	Injector Injector
	Source   Source
	Refine   bool // pass string values through the engine's refiner
}

// Registry is an ordered set of bindings. Bindings run in registration order.
type Registry struct {
	mu       sync.RWMutex
	bindings []Binding
	index    map[string]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// Register appends a binding.
func (r *Registry) Register(b Binding) error {
	if b.Name == "" {
		return fmt.Errorf("binding name cannot be empty")
	}
	if b.Injector == nil {
		return fmt.Errorf("binding %s: injector cannot be nil", b.Name)
	}
	if b.Source == nil {
		return fmt.Errorf("binding %s: source cannot be nil", b.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[b.Name]; exists {
		return fmt.Errorf("binding already registered: %s", b.Name)
	}
	r.index[b.Name] = len(r.bindings)
	r.bindings = append(r.bindings, b)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(b Binding) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

// Get returns a binding by name.
func (r *Registry) Get(name string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[name]
	if !ok {
		return Binding{}, false
	}
	return r.bindings[i], true
}

// Bindings returns the bindings in registration order.
func (r *Registry) Bindings() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Len returns the number of bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}
