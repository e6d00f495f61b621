package tool

import (
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

type entry struct {
	tool   Tool
	schema *jsonschema.Schema
}

// Registry is the ordered catalog of tools. Registration order is the
// discovery order.
type Registry struct {
	tools map[string]*entry
	order []string
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*entry),
	}
}

// Register adds a tool. Its parameter schema must compile as JSON Schema.
func (r *Registry) Register(tool Tool) error {
	name := tool.Name()
	schema, err := compileSchema(name, tool.Schema().JSONSchema())
	if err != nil {
		return fmt.Errorf("tool %s has an invalid schema: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = &entry{tool: tool, schema: schema}
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers every tool and panics on the first failure.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("tool %s not found", name)
	}

	return e.tool, nil
}

// List returns the tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Descriptors returns the discovery view of every tool, in order.
func (r *Registry) Descriptors() []Descriptor {
	tools := r.List()
	defs := make([]Descriptor, len(tools))

	for i, t := range tools {
		defs[i] = Descriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.Schema().JSONSchema(),
		}
	}

	return defs
}

// CheckArgs validates args against the tool's JSON Schema. The result is
// advisory; tools perform their own checks.
func (r *Registry) CheckArgs(name string, args Args) error {
	r.mu.RLock()
	e, exists := r.tools[name]
	r.mu.RUnlock()
	if !exists {
		return fmt.Errorf("tool %s not found", name)
	}

	// Round trip through JSON so the validator sees plain decoded values.
	b, err := json.Marshal(args)
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(b, &instance); err != nil {
		return err
	}
	if instance == nil {
		instance = map[string]any{}
	}
	return e.schema.Validate(instance)
}

func compileSchema(name string, schema map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	url := "mem://tools/" + name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	return c.Compile(url)
}
