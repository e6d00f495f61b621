package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"prodmcp/internal/store"
	"prodmcp/internal/tool"
)

// maxListed caps how many products a single reply shows.
const maxListed = 20

// FormatResult renders a result envelope as chat text.
func FormatResult(toolName string, r *tool.Result) string {
	if r == nil {
		return "Error: empty response from tool server"
	}
	if !r.Success {
		msg := r.Error
		if msg == "" {
			msg = "unknown error"
		}
		return "Error: " + msg
	}

	switch toolName {
	case "list_products", "find_product", "find_products_by_category":
		var products []store.Product
		if err := decodeInto(r.Result, &products); err != nil {
			return formatGeneric(r)
		}
		count := len(products)
		if r.Count != nil {
			count = *r.Count
		}
		return formatProducts(products, count)
	case "find_product_by_ID":
		p, ok := decodeProduct(r.Result)
		if !ok {
			return "Product not found."
		}
		return "Product found!\n\n" + formatProduct(p)
	case "add_product":
		p, ok := decodeProduct(r.Result)
		if !ok {
			if r.Message != "" {
				return r.Message
			}
			return "Product added."
		}
		return "Product added successfully!\n\n" + formatProduct(p)
	case "calculate":
		return fmt.Sprintf("Result: %s = %s", r.Expression, formatNumber(r.Result))
	default:
		return formatGeneric(r)
	}
}

func formatProducts(products []store.Product, count int) string {
	if len(products) == 0 {
		return "No products found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d products:\n\n", count)
	shown := products
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	for _, p := range shown {
		sb.WriteString(formatProduct(p))
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat("-", 30))
		sb.WriteString("\n")
	}
	if count > maxListed {
		fmt.Fprintf(&sb, "\n... and %d more", count-maxListed)
	}
	return sb.String()
}

func formatProduct(p store.Product) string {
	return fmt.Sprintf("ID: %d\nName: %s\nCategory: %s\nPrice: %.2f", p.ID, p.Name, p.Category, p.Price)
}

func formatGeneric(r *tool.Result) string {
	data, err := json.MarshalIndent(r.Result, "", "  ")
	if err != nil {
		return fmt.Sprintf("Done.\n\nResult:\n%v", r.Result)
	}
	return "Done.\n\nResult:\n" + string(data)
}

func formatNumber(v any) string {
	var f float64
	if err := decodeInto(v, &f); err != nil {
		return fmt.Sprint(v)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func decodeProduct(v any) (store.Product, bool) {
	if v == nil {
		return store.Product{}, false
	}
	var p store.Product
	if err := decodeInto(v, &p); err != nil {
		return store.Product{}, false
	}
	return p, true
}

// decodeInto converts a loosely typed result (maps and json.Number when it
// came over the wire, concrete structs in process) into out.
func decodeInto(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
