package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"prodmcp/internal/tool"
)

// Client wraps the official MCP SDK client session to a tool server
type Client struct {
	session *mcp.ClientSession
}

var clientImpl = &mcp.Implementation{
	Name:    "prodmcp-chat",
	Version: "1.0.0",
}

// NewCommandClient spawns command as an MCP server over stdio.
func NewCommandClient(ctx context.Context, command string, args []string, env map[string]string) (*Client, error) {
	cmd := exec.Command(command, args...)
	if len(env) > 0 {
		cmd.Env = append(cmd.Environ(), formatEnvVars(env)...)
	}
	return connect(ctx, &mcp.CommandTransport{Command: cmd})
}

// NewHTTPClient connects to a streamable HTTP MCP endpoint.
func NewHTTPClient(ctx context.Context, endpoint string) (*Client, error) {
	return connect(ctx, &mcp.StreamableClientTransport{Endpoint: endpoint})
}

func connect(ctx context.Context, t mcp.Transport) (*Client, error) {
	client := mcp.NewClient(clientImpl, nil)
	session, err := client.Connect(ctx, t, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MCP server: %w", err)
	}
	return &Client{session: session}, nil
}

// formatEnvVars converts env map to KEY=VALUE slice
func formatEnvVars(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for key, value := range env {
		result = append(result, fmt.Sprintf("%s=%s", key, value))
	}
	return result
}

// ListTools collects the server's tools as descriptors.
func (c *Client) ListTools(ctx context.Context) ([]tool.Descriptor, error) {
	var descs []tool.Descriptor
	for t, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("failed to list tools: %w", err)
		}
		descs = append(descs, tool.Descriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: schemaMap(t.InputSchema),
		})
	}
	return descs, nil
}

// CallTool executes a tool and decodes the envelope from its text content.
func (c *Client) CallTool(ctx context.Context, call tool.Call) (*tool.Result, error) {
	args := map[string]any(call.Arguments)
	if args == nil {
		args = map[string]any{}
	}
	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      call.Name,
		Arguments: args,
	})
	if err != nil {
		return nil, fmt.Errorf("call tool request failed: %w", err)
	}

	text := contentText(result.Content)
	envelope, err := DecodeEnvelope(text)
	if err != nil {
		// Not one of our servers: keep the text as the outcome.
		if result.IsError {
			return tool.Failure(tool.KindCollaborator, text), nil
		}
		return tool.OK(text), nil
	}
	return envelope, nil
}

// Close shuts down the client and session
func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

// contentText joins the text blocks of a result
func contentText(content []mcp.Content) string {
	var parts []string
	for _, item := range content {
		switch c := item.(type) {
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.ImageContent:
			parts = append(parts, fmt.Sprintf("[Image: %s]", c.MIMEType))
		default:
			if data, err := json.Marshal(item); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// schemaMap converts an SDK input schema into a plain map
func schemaMap(schema any) map[string]any {
	empty := map[string]any{"type": "object", "properties": map[string]any{}}
	if schema == nil {
		return empty
	}
	if m, ok := schema.(map[string]any); ok {
		return m
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return empty
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return empty
	}
	return m
}
