package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
}

func TestInit_StdoutExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Config{
		Enabled:        true,
		ServiceName:    "prodmcp-test",
		ServiceVersion: "0.0.1",
		UseStdout:      true,
		Writer:         &buf,
	})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	_, span := otel.Tracer("telemetry-test").Start(context.Background(), "unit.span")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "unit.span") {
		t.Errorf("expected span name in export, got: %s", out)
	}
	if !strings.Contains(out, "prodmcp-test") {
		t.Errorf("expected service name in export, got: %s", out)
	}
}
