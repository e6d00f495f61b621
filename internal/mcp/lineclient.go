package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"prodmcp/internal/lineio"
	"prodmcp/internal/mcp/transport"
	"prodmcp/internal/tool"
)

// LineClient speaks the newline-delimited protocol over a Transport.
// Calls are serialised: one request line, then its response line.
type LineClient struct {
	transport transport.Transport
	reader    *lineio.Reader
	info      ServerInfo
	nextID    int64
	mu        sync.Mutex
	broken    error
}

// NewLineClient starts t and performs the initialize handshake.
func NewLineClient(ctx context.Context, t transport.Transport) (*LineClient, error) {
	if err := t.Start(); err != nil {
		return nil, err
	}
	c := &LineClient{
		transport: t,
		reader:    lineio.NewReader(t.Reader()),
	}

	var init InitializeResult
	if err := c.roundTrip(ctx, MethodInitialize, map[string]any{
		"protocolVersion": ProtocolVersion,
		"clientInfo":      map[string]any{"name": "prodmcp-chat", "version": "1.0.0"},
	}, &init); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("initialize failed: %w", err)
	}
	c.info = init.ServerInfo
	return c, nil
}

// ServerInfo returns the identity reported during initialize.
func (c *LineClient) ServerInfo() ServerInfo {
	return c.info
}

// ListTools returns the server's registry.
func (c *LineClient) ListTools(ctx context.Context) ([]tool.Descriptor, error) {
	var res ToolsListResult
	if err := c.roundTrip(ctx, MethodToolsList, nil, &res); err != nil {
		return nil, err
	}
	return res.Tools, nil
}

// CallTool runs one tool remotely and decodes the envelope from the
// content block.
func (c *LineClient) CallTool(ctx context.Context, call tool.Call) (*tool.Result, error) {
	args := call.Arguments
	if args == nil {
		args = tool.Args{}
	}
	var res CallResult
	if err := c.roundTrip(ctx, MethodToolsCall, map[string]any{"name": call.Name, "arguments": args}, &res); err != nil {
		return nil, err
	}
	if len(res.Content) == 0 {
		return nil, fmt.Errorf("tools/call returned no content")
	}
	return DecodeEnvelope(res.Content[0].Text)
}

// Close shuts the transport down.
func (c *LineClient) Close() error {
	return c.transport.Close()
}

func (c *LineClient) roundTrip(ctx context.Context, method string, params any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.broken != nil {
		return c.broken
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.nextID++
	id := json.RawMessage(strconv.FormatInt(c.nextID, 10))
	req := Request{JSONRPC: "2.0", ID: id, Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		if err != nil {
			return err
		}
		req.Params = raw
	}
	frame, err := json.Marshal(req)
	if err != nil {
		return err
	}
	if _, err := c.transport.Writer().Write(append(frame, '\n')); err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}

	line, err := c.reader.ReadLine(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		// The pending response would desynchronise later calls.
		c.broken = fmt.Errorf("connection abandoned after %s: %w", method, ctxErr)
		return c.broken
	}
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var resp struct {
		ID     json.RawMessage `json:"id"`
		Result json.RawMessage `json:"result"`
		Error  *RPCError       `json:"error"`
	}
	if err := json.Unmarshal(line, &resp); err != nil {
		return fmt.Errorf("invalid %s response: %w", method, err)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if string(resp.ID) != string(id) {
		return fmt.Errorf("response id %s does not match request id %s", resp.ID, id)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(resp.Result, out)
}
