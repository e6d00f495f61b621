package httpapi

import (
	"context"
	"strings"
	"testing"
	"time"

	"prodmcp/internal/tool"
)

func TestClient_ListAndCall(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := NewClient(srv.URL+"/", time.Second)
	ctx := context.Background()

	info, err := c.Info(ctx)
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}
	if info.Status != "running" {
		t.Errorf("Unexpected status: %s", info.Status)
	}

	descriptors, err := c.ListTools(ctx)
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(descriptors) != 6 {
		t.Errorf("Expected 6 tools, got %d", len(descriptors))
	}

	result, err := c.CallTool(ctx, tool.Call{Name: "calculate", Arguments: tool.Args{"expression": "10*5"}})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected success, got: %s", result.Error)
	}
	if result.Expression != "10*5" {
		t.Errorf("Unexpected expression: %s", result.Expression)
	}
}

func TestClient_CallWithNilArguments(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := NewClient(srv.URL, 0)

	result, err := c.CallTool(context.Background(), tool.Call{Name: "list_products"})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.Success || result.Count == nil || *result.Count != 7 {
		t.Errorf("Unexpected result: %+v", result)
	}
}

func TestClient_UnreachableServer(t *testing.T) {
	srv := newTestServer(t, Options{})
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second)
	result, err := c.CallTool(context.Background(), tool.Call{Name: "list_products"})
	if err != nil {
		t.Fatalf("CallTool should report failure in the result, got error: %v", err)
	}
	if result.Success {
		t.Fatal("Expected failure")
	}
	if !strings.HasPrefix(result.Error, "cannot reach tool server: ") {
		t.Errorf("Unexpected error: %s", result.Error)
	}

	if _, err := c.ListTools(context.Background()); err == nil {
		t.Error("Expected ListTools to fail")
	}
}
