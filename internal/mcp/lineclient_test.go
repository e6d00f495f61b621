package mcp

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"prodmcp/internal/tool"
)

// pipeTransport connects a LineClient to an in-process LineServer.
type pipeTransport struct {
	server  *LineServer
	clientR *io.PipeReader
	clientW *io.PipeWriter
	serverR *io.PipeReader
	serverW *io.PipeWriter
	done    chan error
	silent  bool
}

func newPipeTransport(s *LineServer) *pipeTransport {
	serverR, clientW := io.Pipe()
	clientR, serverW := io.Pipe()
	return &pipeTransport{
		server:  s,
		clientR: clientR,
		clientW: clientW,
		serverR: serverR,
		serverW: serverW,
		done:    make(chan error, 1),
	}
}

func (p *pipeTransport) Start() error {
	go func() {
		if p.silent {
			// Swallow requests without answering.
			_, err := io.Copy(io.Discard, p.serverR)
			p.done <- err
			return
		}
		err := p.server.Serve(context.Background(), p.serverR, p.serverW)
		p.serverW.Close()
		p.done <- err
	}()
	return nil
}

func (p *pipeTransport) Reader() io.ReadCloser  { return p.clientR }
func (p *pipeTransport) Writer() io.WriteCloser { return p.clientW }

func (p *pipeTransport) Close() error {
	p.clientW.Close()
	p.clientR.Close()
	return <-p.done
}

func newTestLineClient(t *testing.T) *LineClient {
	t.Helper()
	pt := newPipeTransport(NewLineServer(newTestDispatcher(t), testInfo, nil))
	c, err := NewLineClient(context.Background(), pt)
	if err != nil {
		t.Fatalf("NewLineClient failed: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestLineClient_Initialize(t *testing.T) {
	c := newTestLineClient(t)

	if c.ServerInfo() != testInfo {
		t.Errorf("Expected %v, got %v", testInfo, c.ServerInfo())
	}
}

func TestLineClient_ListTools(t *testing.T) {
	c := newTestLineClient(t)

	tools, err := c.ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools failed: %v", err)
	}
	if len(tools) != 6 || tools[5].Name != "calculate" {
		t.Errorf("Unexpected tools: %v", tools)
	}
}

func TestLineClient_CallTool(t *testing.T) {
	c := newTestLineClient(t)
	ctx := context.Background()

	result, err := c.CallTool(ctx, tool.Call{Name: "find_product", Arguments: tool.Args{"name": "tea"}})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if !result.Success || result.Count == nil || *result.Count != 2 {
		t.Errorf("Unexpected result: %+v", result)
	}

	failed, err := c.CallTool(ctx, tool.Call{Name: "add_product", Arguments: tool.Args{"name": "x", "category": "y", "price": -5}})
	if err != nil {
		t.Fatalf("CallTool failed: %v", err)
	}
	if failed.Success || failed.Error != "price cannot be negative" {
		t.Errorf("Unexpected result: %+v", failed)
	}
}

// blockingTool holds the server until release is closed.
type blockingTool struct {
	release chan struct{}
}

func (b *blockingTool) Name() string        { return "block" }
func (b *blockingTool) Description() string { return "Blocks until released" }
func (b *blockingTool) Schema() tool.Schema { return tool.Schema{} }

func (b *blockingTool) Execute(ctx context.Context, args tool.Args) (*tool.Result, error) {
	<-b.release
	return tool.OK("released"), nil
}

func TestLineClient_TimeoutBreaksConnection(t *testing.T) {
	release := make(chan struct{})
	registry := tool.NewRegistry()
	registry.MustRegister(&blockingTool{release: release})

	pt := newPipeTransport(NewLineServer(tool.NewDispatcher(registry), testInfo, nil))
	c, err := NewLineClient(context.Background(), pt)
	if err != nil {
		t.Fatalf("NewLineClient failed: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = c.CallTool(ctx, tool.Call{Name: "block"})
	close(release)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline error, got %v", err)
	}
	if _, err := c.ListTools(context.Background()); err == nil {
		t.Error("Expected client to stay broken after abandoning a response")
	}
}

func TestLineClient_InitializeFailure(t *testing.T) {
	pt := newPipeTransport(nil)
	pt.silent = true

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := NewLineClient(ctx, pt); err == nil {
		t.Error("Expected initialize to fail when the server never answers")
	}
}
