package mcp

import (
	"context"
	"fmt"
	"sync"
)

// Handler executes one tool call with an argument mapping that has already
// been validated against the tool's schema. Domain failures are returned as
// *ToolError; any other error or a panic is treated as an internal fault.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Descriptor pairs a tool name and schema with its handler. Descriptors are
// created once during startup registration and never mutated afterwards.
type Descriptor struct {
	Name        string
	Description string
	Schema      ToolSchema
	Handler     Handler
}

// RegistryErrorKind classifies registry operation failures.
type RegistryErrorKind string

const (
	DuplicateName RegistryErrorKind = "DuplicateName"
	NotFound      RegistryErrorKind = "NotFound"
)

// RegistryError reports a failed registry operation for a tool name.
type RegistryError struct {
	Kind RegistryErrorKind
	Name string
}

func (e *RegistryError) Error() string {
	switch e.Kind {
	case DuplicateName:
		return fmt.Sprintf("tool %q already registered", e.Name)
	case NotFound:
		return fmt.Sprintf("tool %q not found", e.Name)
	}
	return fmt.Sprintf("registry error for tool %q", e.Name)
}

// Definition is the discovery view of one registered tool.
type Definition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  ToolSchema `json:"parameters"`
}

// Registry maps tool names to descriptors. Registration happens during
// startup; lookups and listing are safe for concurrent use and return
// tools in registration order. Names are compared byte-exact, so two names
// differing only in case are distinct tools.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Descriptor
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Descriptor)}
}

// Register adds a descriptor. It fails with DuplicateName if the name is
// taken, and rejects descriptors whose schema violates its own invariants.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("descriptor has empty name")
	}
	if d.Handler == nil {
		return fmt.Errorf("tool %q: descriptor has nil handler", d.Name)
	}
	if err := d.Schema.checkWellFormed(); err != nil {
		return fmt.Errorf("tool %q: %w", d.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[d.Name]; exists {
		return &RegistryError{Kind: DuplicateName, Name: d.Name}
	}
	desc := d
	r.byName[d.Name] = &desc
	r.order = append(r.order, d.Name)
	return nil
}

// Lookup returns the descriptor for name, or a NotFound error.
func (r *Registry) Lookup(name string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byName[name]
	if !ok {
		return nil, &RegistryError{Kind: NotFound, Name: name}
	}
	return d, nil
}

// List returns the discovery view of every registered tool, in registration
// order. The order is stable so documentation output stays reproducible.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		d := r.byName[name]
		defs = append(defs, Definition{
			Name:        d.Name,
			Description: d.Description,
			Parameters:  d.Schema,
		})
	}
	return defs
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
