package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"prodmcp/internal/tool"
)

// NewSDKServer exposes every registered tool through the MCP go-sdk server.
// Results carry the same content block as the line protocol.
func NewSDKServer(d *tool.Dispatcher, info ServerInfo) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{
		Name:    info.Name,
		Version: info.Version,
	}, nil)

	for _, desc := range d.Registry().Descriptors() {
		srv.AddTool(&mcp.Tool{
			Name:        desc.Name,
			Description: desc.Description,
			InputSchema: desc.InputSchema,
		}, sdkHandler(d, desc.Name))
	}
	return srv
}

func sdkHandler(d *tool.Dispatcher, name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		if req.Params != nil {
			raw = req.Params.Arguments
		}
		args, err := tool.DecodeArgs(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}

		result, err := NewCallResult(d.Execute(ctx, name, args))
		if err != nil {
			return nil, err
		}
		content := make([]mcp.Content, 0, len(result.Content))
		for _, c := range result.Content {
			content = append(content, &mcp.TextContent{Text: c.Text})
		}
		return &mcp.CallToolResult{Content: content, IsError: result.IsError}, nil
	}
}

// ServeSDKStdio runs srv over the process's stdin and stdout until the
// client disconnects or ctx is done.
func ServeSDKStdio(ctx context.Context, srv *mcp.Server) error {
	return srv.Run(ctx, &mcp.StdioTransport{})
}

// SDKHandler serves srv over streamable HTTP.
func SDKHandler(srv *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return srv
	}, nil)
}
