// Package mcp serves the tool registry over JSON-RPC: a newline-delimited
// stdio protocol and the MCP go-sdk server, plus matching clients.
package mcp

import (
	"encoding/json"

	"prodmcp/internal/tool"
)

// ProtocolVersion is reported by initialize.
const ProtocolVersion = "2024-11-05"

// JSON-RPC error codes
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Method names
const (
	MethodInitialize = "initialize"
	MethodPing       = "ping"
	MethodToolsList  = "tools/list"
	MethodToolsCall  = "tools/call"
)

// Request is one inbound frame.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is one outbound frame. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// ServerInfo names the server in initialize responses.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is returned by initialize.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
}

// ToolsListResult is returned by tools/list.
type ToolsListResult struct {
	Tools []tool.Descriptor `json:"tools"`
}

// CallParams are the params of tools/call.
type CallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Content is a single content block.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is returned by tools/call. The envelope travels as indented
// JSON text in a single content block.
type CallResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError"`
}

var nullID = json.RawMessage("null")

// NewCallResult wraps an envelope as tools/call content.
func NewCallResult(r *tool.Result) (*CallResult, error) {
	text, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return &CallResult{
		Content: []Content{{Type: "text", Text: string(text)}},
		IsError: !r.Success,
	}, nil
}

// DecodeEnvelope recovers the envelope from tools/call content.
func DecodeEnvelope(text string) (*tool.Result, error) {
	var r tool.Result
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, err
	}
	return &r, nil
}
