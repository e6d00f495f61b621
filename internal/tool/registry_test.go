package tool

import (
	"context"
	"strings"
	"testing"
)

// mockTool is a configurable tool used by the registry and dispatcher tests
type mockTool struct {
	name    string
	params  []Param
	execute func(ctx context.Context, args Args) (*Result, error)
	calls   int
}

func (t *mockTool) Name() string {
	return t.name
}

func (t *mockTool) Description() string {
	return "A mock tool"
}

func (t *mockTool) Schema() Schema {
	return Schema{Params: t.params}
}

func (t *mockTool) Execute(ctx context.Context, args Args) (*Result, error) {
	t.calls++
	if t.execute == nil {
		return OK("mock output"), nil
	}
	return t.execute(ctx, args)
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(&mockTool{name: "echo"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := registry.Get("echo")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name() != "echo" {
		t.Errorf("Expected echo, got %s", got.Name())
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Error("Expected error for missing tool")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(&mockTool{name: "echo"})

	err := registry.Register(&mockTool{name: "echo"})
	if err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Errorf("Expected duplicate error, got %v", err)
	}
}

func TestRegistry_InvalidSchema(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register(&mockTool{name: "broken", params: []Param{{Name: "x", Type: "decimal"}}})
	if err == nil || !strings.Contains(err.Error(), "invalid schema") {
		t.Errorf("Expected schema error, got %v", err)
	}
	if len(registry.List()) != 0 {
		t.Error("Expected broken tool not to be registered")
	}
}

func TestRegistry_PreservesOrder(t *testing.T) {
	registry := NewRegistry()
	names := []string{"zeta", "alpha", "mid"}
	for _, n := range names {
		registry.MustRegister(&mockTool{name: n})
	}

	descs := registry.Descriptors()
	for i, d := range descs {
		if d.Name != names[i] {
			t.Errorf("Position %d: expected %s, got %s", i, names[i], d.Name)
		}
	}
}

func TestRegistry_DescriptorSchema(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(&mockTool{name: "lookup", params: []Param{
		{Name: "id", Type: "integer", Description: "Identifier", Required: true},
		{Name: "verbose", Type: "boolean", Description: "More output"},
	}})

	schema := registry.Descriptors()[0].InputSchema
	if schema["type"] != "object" {
		t.Errorf("Expected object schema, got %v", schema["type"])
	}
	required := schema["required"].([]string)
	if len(required) != 1 || required[0] != "id" {
		t.Errorf("Expected only id to be required, got %v", required)
	}
	props := schema["properties"].(map[string]any)
	if _, ok := props["verbose"]; !ok {
		t.Error("Expected optional parameter in properties")
	}
}

func TestRegistry_EmptySchemaHasEmptyRequired(t *testing.T) {
	schema := Schema{}.JSONSchema()
	required, ok := schema["required"].([]string)
	if !ok || required == nil || len(required) != 0 {
		t.Errorf("Expected empty non-nil required list, got %v", schema["required"])
	}
}

func TestRegistry_CheckArgs(t *testing.T) {
	registry := NewRegistry()
	registry.MustRegister(&mockTool{name: "lookup", params: []Param{
		{Name: "id", Type: "integer", Required: true},
	}})

	if err := registry.CheckArgs("lookup", Args{"id": 3}); err != nil {
		t.Errorf("Expected valid args, got %v", err)
	}
	if err := registry.CheckArgs("lookup", Args{}); err == nil {
		t.Error("Expected error for missing required id")
	}
	if err := registry.CheckArgs("lookup", Args{"id": "three"}); err == nil {
		t.Error("Expected error for wrong type")
	}
	if err := registry.CheckArgs("nope", Args{}); err == nil {
		t.Error("Expected error for unknown tool")
	}
}
