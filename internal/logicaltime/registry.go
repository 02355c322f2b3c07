package logicaltime

import (
	"slices"
	"strings"
	"sync"
)

// DefaultName is the family resolved from an empty implementation name.
const DefaultName = Float64Name

// Constructor creates a factory. Factories returned by the same constructor
// must be interchangeable.
type Constructor func() Factory

// Registry maps implementation names to factory constructors. Names are
// matched exactly after trimming surrounding whitespace.
type Registry struct {
	mu          sync.RWMutex
	ctors       map[string]Constructor
	defaultName string
}

// NewRegistry returns an empty registry that resolves "" to defaultName.
func NewRegistry(defaultName string) *Registry {
	return &Registry{ctors: make(map[string]Constructor), defaultName: defaultName}
}

// Register adds a constructor under name. Like database/sql.Register it
// panics on a nil constructor or a duplicate name, since both are
// programming errors in an init function.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.TrimSpace(name)
	if ctor == nil {
		panic("logicaltime: Register constructor is nil for " + name)
	}
	if name == "" {
		panic("logicaltime: Register called with an empty name")
	}
	if _, dup := r.ctors[name]; dup {
		panic("logicaltime: Register called twice for " + name)
	}
	r.ctors[name] = ctor
}

// Resolve returns a factory for name. An empty or blank name resolves to the
// registry default. An unknown name returns *UnresolvableFactoryError; a nil
// factory is never returned without an error.
func (r *Registry) Resolve(name string) (Factory, error) {
	name = strings.TrimSpace(name)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.defaultName
	}
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, &UnresolvableFactoryError{Name: name, Valid: r.namesLocked()}
	}
	return ctor(), nil
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.ctors))
	for n := range r.ctors {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

var defaultRegistry = NewRegistry(DefaultName)

// Register adds a constructor to the process-wide registry.
func Register(name string, ctor Constructor) {
	defaultRegistry.Register(name, ctor)
}

// Resolve looks name up in the process-wide registry.
func Resolve(name string) (Factory, error) {
	return defaultRegistry.Resolve(name)
}

// Names lists the names in the process-wide registry.
func Names() []string {
	return defaultRegistry.Names()
}

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}
