package chat

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"prodmcp/internal/store"
	"prodmcp/internal/tool"
)

func TestFormatResult_ProductListCap(t *testing.T) {
	products := make([]store.Product, 25)
	for i := range products {
		products[i] = store.Product{ID: int64(i + 1), Name: fmt.Sprintf("Item %d", i+1), Category: "Bulk", Price: 1}
	}

	got := FormatResult("list_products", tool.Counted(products, len(products)))
	if !strings.HasPrefix(got, "Found 25 products:") {
		t.Errorf("Unexpected header: %q", got)
	}
	if !strings.Contains(got, "Name: Item 20\n") {
		t.Error("Expected the 20th item to be shown")
	}
	if strings.Contains(got, "Name: Item 21\n") {
		t.Error("Expected the 21st item to be cut")
	}
	if !strings.HasSuffix(got, "... and 5 more") {
		t.Errorf("Expected overflow note, got tail: %q", got[len(got)-30:])
	}
}

func TestFormatResult_EmptyList(t *testing.T) {
	got := FormatResult("find_product", tool.Counted([]store.Product{}, 0))
	if got != "No products found." {
		t.Errorf("Unexpected reply: %q", got)
	}
}

func TestFormatResult_WireShapedProduct(t *testing.T) {
	// Results decoded from JSON carry maps and json.Number values.
	result := &tool.Result{Success: true, Result: map[string]any{
		"id":       json.Number("3"),
		"name":     "Espresso Beans",
		"category": "Drinks",
		"price":    json.Number("12"),
	}}

	got := FormatResult("find_product_by_ID", result)
	want := "Product found!\n\nID: 3\nName: Espresso Beans\nCategory: Drinks\nPrice: 12.00"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatResult_AddProduct(t *testing.T) {
	p := store.Product{ID: 8, Name: "Matcha", Category: "Drinks", Price: 7.5}
	got := FormatResult("add_product", &tool.Result{Success: true, Result: p, Message: "product 'Matcha' added successfully"})
	if !strings.HasPrefix(got, "Product added successfully!") || !strings.Contains(got, "Price: 7.50") {
		t.Errorf("Unexpected reply: %q", got)
	}

	got = FormatResult("add_product", &tool.Result{Success: true, Message: "product 'Matcha' added successfully"})
	if got != "product 'Matcha' added successfully" {
		t.Errorf("Expected message fallback, got %q", got)
	}
}

func TestFormatResult_Calculate(t *testing.T) {
	got := FormatResult("calculate", &tool.Result{Success: true, Result: 25.0, Expression: "100/4"})
	if got != "Result: 100/4 = 25" {
		t.Errorf("Unexpected reply: %q", got)
	}
}

func TestFormatResult_Failure(t *testing.T) {
	if got := FormatResult("calculate", tool.Failure(tool.KindEvaluation, "evaluation error: division by zero")); got != "Error: evaluation error: division by zero" {
		t.Errorf("Unexpected reply: %q", got)
	}
	if got := FormatResult("calculate", &tool.Result{}); got != "Error: unknown error" {
		t.Errorf("Unexpected reply: %q", got)
	}
}

func TestFormatResult_Generic(t *testing.T) {
	got := FormatResult("something_else", tool.OK(map[string]any{"ok": true}))
	if got != "Done.\n\nResult:\n{\n  \"ok\": true\n}" {
		t.Errorf("Unexpected reply: %q", got)
	}
}
