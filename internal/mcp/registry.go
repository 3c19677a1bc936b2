package mcp

import (
	"context"
	"errors"
	"fmt"
)

// ToolHandler executes a tool with arguments that already passed its contract.
type ToolHandler func(ctx context.Context, args Args) (*CallToolResult, error)

// ToolSpec binds a tool descriptor to its argument contract and handler.
type ToolSpec struct {
	Tool
	Contract ArgContract
	Handler  ToolHandler
	// Pure tools return the same result for the same arguments.
	Pure bool
}

// Registry is the immutable tool catalog. It is safe for concurrent use.
type Registry struct {
	specs []ToolSpec
	index map[string]int
}

// NewRegistry validates and indexes specs in the given order. Names must be
// unique and every input schema must compile as JSON Schema.
func NewRegistry(specs ...ToolSpec) (*Registry, error) {
	r := &Registry{
		specs: make([]ToolSpec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.New("tool name cannot be empty")
		}
		if spec.Handler == nil {
			return nil, fmt.Errorf("tool %q has no handler", spec.Name)
		}
		if _, exists := r.index[spec.Name]; exists {
			return nil, fmt.Errorf("tool %q already registered", spec.Name)
		}
		if spec.InputSchema.Type != "object" {
			return nil, fmt.Errorf("tool %q: input schema must be of type object", spec.Name)
		}
		if _, err := CompileSchema(spec.Name, spec.InputSchema); err != nil {
			return nil, fmt.Errorf("tool %q: %w", spec.Name, err)
		}
		if err := checkContract(spec.InputSchema, spec.Contract); err != nil {
			return nil, fmt.Errorf("tool %q: %w", spec.Name, err)
		}

		spec.Tool = cloneTool(spec.Tool)
		r.index[spec.Name] = len(r.specs)
		r.specs = append(r.specs, spec)
	}

	return r, nil
}

// ListTools returns descriptors in registration order. The result is a copy.
func (r *Registry) ListTools() []Tool {
	tools := make([]Tool, len(r.specs))
	for i, spec := range r.specs {
		tools[i] = cloneTool(spec.Tool)
	}
	return tools
}

// Find looks a tool up by name.
func (r *Registry) Find(name string) (ToolSpec, bool) {
	i, ok := r.index[name]
	if !ok {
		return ToolSpec{}, false
	}
	return r.specs[i], true
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.specs))
	for i, spec := range r.specs {
		names[i] = spec.Name
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.specs)
}

func cloneTool(t Tool) Tool {
	props := make(map[string]PropertySchema, len(t.InputSchema.Properties))
	for k, v := range t.InputSchema.Properties {
		props[k] = v
	}
	t.InputSchema.Properties = props
	if t.InputSchema.Required != nil {
		t.InputSchema.Required = append([]string(nil), t.InputSchema.Required...)
	}
	return t
}
