// Package builtin provides the product catalog tools and the calculator.
package builtin

import (
	"prodmcp/internal/store"
	"prodmcp/internal/tool"
)

// Tools returns the built-in tools in discovery order.
func Tools(s store.Store) []tool.Tool {
	return []tool.Tool{
		NewListProductsTool(s),
		NewFindProductTool(s),
		NewFindByCategoryTool(s),
		NewFindByIDTool(s),
		NewAddProductTool(s),
		NewCalculateTool(),
	}
}

// NewRegistry returns a registry holding every built-in tool.
func NewRegistry(s store.Store) (*tool.Registry, error) {
	registry := tool.NewRegistry()
	for _, t := range Tools(s) {
		if err := registry.Register(t); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
