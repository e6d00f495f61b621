package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"prodmcp/internal/tool"
)

// DefaultTimeout bounds a single request to the tool server.
const DefaultTimeout = 10 * time.Second

// Client calls a tool server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Info fetches the discovery document.
func (c *Client) Info(ctx context.Context) (Info, error) {
	var info Info
	err := c.do(ctx, http.MethodGet, "/", nil, &info)
	return info, err
}

// ListTools fetches the advertised tool descriptors.
func (c *Client) ListTools(ctx context.Context) ([]tool.Descriptor, error) {
	var out struct {
		Tools []tool.Descriptor `json:"tools"`
	}
	if err := c.do(ctx, http.MethodGet, "/tools", nil, &out); err != nil {
		return nil, err
	}
	return out.Tools, nil
}

// CallTool invokes a tool. Transport failures are reported as a failed
// result rather than an error so the caller can show them to the user.
func (c *Client) CallTool(ctx context.Context, call tool.Call) (*tool.Result, error) {
	args := call.Arguments
	if args == nil {
		args = tool.Args{}
	}
	body, err := json.Marshal(map[string]any{"name": call.Name, "arguments": args})
	if err != nil {
		return nil, fmt.Errorf("encode call: %w", err)
	}

	var result tool.Result
	if err := c.do(ctx, http.MethodPost, "/tools/call", body, &result); err != nil {
		return tool.Failure(tool.KindCollaborator, fmt.Sprintf("cannot reach tool server: %v", err)), nil
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		if json.Unmarshal(data, &e) == nil && e.Detail != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Detail)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
