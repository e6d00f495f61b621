package builtin

import (
	"context"

	"prodmcp/internal/store"
	"prodmcp/internal/tool"
)

// requireString returns the named argument as a non-empty string.
func requireString(args tool.Args, name string) (string, error) {
	v := args.Get(name)
	if !v.Present() {
		return "", tool.ErrValidation(name + " parameter required")
	}
	s, ok := v.Str()
	if !ok {
		return "", tool.ErrValidation(name + " must be a string")
	}
	if s == "" {
		return "", tool.ErrValidation(name + " parameter required")
	}
	return s, nil
}

// blank reports a missing, null or empty-string argument.
func blank(v tool.Value) bool {
	if !v.Present() {
		return true
	}
	s, ok := v.Str()
	return ok && s == ""
}

// ListProductsTool returns the whole catalog.
type ListProductsTool struct {
	store store.Store
}

func NewListProductsTool(s store.Store) *ListProductsTool {
	return &ListProductsTool{store: s}
}

func (t *ListProductsTool) Name() string { return "list_products" }

func (t *ListProductsTool) Description() string {
	return "Returns every product in the catalog"
}

func (t *ListProductsTool) Schema() tool.Schema { return tool.Schema{} }

func (t *ListProductsTool) Execute(ctx context.Context, args tool.Args) (*tool.Result, error) {
	products, err := t.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return tool.Counted(products, len(products)), nil
}

// FindProductTool searches products by partial name.
type FindProductTool struct {
	store store.Store
}

func NewFindProductTool(s store.Store) *FindProductTool {
	return &FindProductTool{store: s}
}

func (t *FindProductTool) Name() string { return "find_product" }

func (t *FindProductTool) Description() string {
	return "Finds products whose name contains the given text"
}

func (t *FindProductTool) Schema() tool.Schema {
	return tool.Schema{Params: []tool.Param{
		{Name: "name", Type: "string", Description: "Product name to search for", Required: true},
	}}
}

func (t *FindProductTool) Execute(ctx context.Context, args tool.Args) (*tool.Result, error) {
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	products, err := t.store.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return tool.Counted(products, len(products)), nil
}

// FindByCategoryTool searches products by category.
type FindByCategoryTool struct {
	store store.Store
}

func NewFindByCategoryTool(s store.Store) *FindByCategoryTool {
	return &FindByCategoryTool{store: s}
}

func (t *FindByCategoryTool) Name() string { return "find_products_by_category" }

func (t *FindByCategoryTool) Description() string {
	return "Finds products in the given category"
}

func (t *FindByCategoryTool) Schema() tool.Schema {
	return tool.Schema{Params: []tool.Param{
		{Name: "category", Type: "string", Description: "Product category to search for", Required: true},
	}}
}

func (t *FindByCategoryTool) Execute(ctx context.Context, args tool.Args) (*tool.Result, error) {
	category, err := requireString(args, "category")
	if err != nil {
		return nil, err
	}
	products, err := t.store.FindByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	return tool.Counted(products, len(products)), nil
}

// FindByIDTool looks a product up by its identifier. Zero is a valid id.
type FindByIDTool struct {
	store store.Store
}

func NewFindByIDTool(s store.Store) *FindByIDTool {
	return &FindByIDTool{store: s}
}

func (t *FindByIDTool) Name() string { return "find_product_by_ID" }

func (t *FindByIDTool) Description() string {
	return "Finds a product by its ID"
}

func (t *FindByIDTool) Schema() tool.Schema {
	return tool.Schema{Params: []tool.Param{
		{Name: "id", Type: "integer", Description: "Product ID", Required: true},
	}}
}

func (t *FindByIDTool) Execute(ctx context.Context, args tool.Args) (*tool.Result, error) {
	v := args.Get("id")
	if !v.Present() {
		return nil, tool.ErrValidation("id parameter required")
	}
	id, err := v.Int()
	if err != nil {
		return nil, tool.ErrValidation("id must be an integer")
	}
	product, found, err := t.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, tool.Errorf(tool.KindNotFound, "product with ID %d not found", id)
	}
	return tool.OK(product), nil
}

// AddProductTool creates a new product.
type AddProductTool struct {
	store store.Store
}

func NewAddProductTool(s store.Store) *AddProductTool {
	return &AddProductTool{store: s}
}

func (t *AddProductTool) Name() string { return "add_product" }

func (t *AddProductTool) Description() string {
	return "Adds a new product to the catalog"
}

func (t *AddProductTool) Schema() tool.Schema {
	return tool.Schema{Params: []tool.Param{
		{Name: "name", Type: "string", Description: "Product name", Required: true},
		{Name: "category", Type: "string", Description: "Product category", Required: true},
		{Name: "price", Type: "number", Description: "Product price", Required: true},
	}}
}

// Execute validates every argument before the store is touched.
func (t *AddProductTool) Execute(ctx context.Context, args tool.Args) (*tool.Result, error) {
	const missing = "name, category and price parameters required"

	priceArg := args.Get("price")
	if blank(args.Get("name")) || blank(args.Get("category")) || !priceArg.Present() {
		return nil, tool.ErrValidation(missing)
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	category, err := requireString(args, "category")
	if err != nil {
		return nil, err
	}
	if priceArg.Kind() == tool.ValueBool {
		return nil, tool.ErrValidation("price must be a number")
	}
	price, err := priceArg.Float()
	if err != nil {
		return nil, tool.ErrValidation("price must be a number")
	}
	if price < 0 {
		return nil, tool.ErrValidation("price cannot be negative")
	}

	product, err := t.store.Create(ctx, name, category, price)
	if err != nil {
		return nil, err
	}
	return &tool.Result{
		Success: true,
		Result:  product,
		Message: "product '" + name + "' added successfully",
	}, nil
}
