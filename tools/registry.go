package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Registry is a thread-safe tool registry. Tools keep their registration
// order, which is the order tools/list reports them in.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry. Returns an error if a tool with the
// same name is already registered or if its input schema does not compile.
func (r *Registry) Register(t Tool) error {
	if t.Name() == "" {
		return fmt.Errorf("tool name is required")
	}
	if schema := t.InputSchema(); len(schema) > 0 {
		if _, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schema)); err != nil {
			return fmt.Errorf("tool %q: invalid input schema: %w", t.Name(), err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("tool already registered: %q", t.Name())
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// Get returns the tool with the given name, or nil if not found.
func (r *Registry) Get(name string) Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// List returns the names of all registered tools in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Execute runs the named tool with the given arguments. An unknown name is
// an ArgumentError.
func (r *Registry) Execute(ctx context.Context, name string, arguments json.RawMessage) (*Result, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return nil, ArgumentErrorf("Unknown tool: %s", name)
	}
	return t.Execute(ctx, arguments)
}

// Descriptors returns the descriptors of all registered tools.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, Describe(r.tools[name]))
	}
	return defs
}
