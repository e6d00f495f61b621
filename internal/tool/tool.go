package tool

import (
	"context"
	"time"
)

// Tool defines the interface that all tools must implement
type Tool interface {
	// Name returns the unique identifier for this tool
	Name() string

	// Description returns a brief description of what this tool does
	Description() string

	// Schema describes the tool's parameters
	Schema() Schema

	// Execute runs the tool with the given arguments. A returned *Error is
	// reported with its kind; any other error is treated as a collaborator
	// failure.
	Execute(ctx context.Context, args Args) (*Result, error)
}

// Param is a single named tool parameter.
type Param struct {
	Name        string
	Type        string // "string", "integer", "number" or "boolean"
	Description string
	Required    bool
}

// Schema is the ordered parameter list of a tool.
type Schema struct {
	Params []Param
}

// JSONSchema renders the parameters as a JSON Schema object.
func (s Schema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.Params))
	required := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		properties[p.Name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Descriptor is the discovery view of a tool.
type Descriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// Result is the envelope every tool invocation returns. Result is set only
// on success and Error only on failure.
type Result struct {
	Success    bool      `json:"success"`
	Result     any       `json:"result,omitempty"`
	Count      *int      `json:"count,omitempty"`
	Message    string    `json:"message,omitempty"`
	Expression string    `json:"expression,omitempty"`
	Error      string    `json:"error,omitempty"`
	Kind       ErrorKind `json:"-"`
}

// OK returns a success envelope carrying v.
func OK(v any) *Result {
	return &Result{Success: true, Result: v}
}

// Counted returns a success envelope for a result set of length n.
func Counted(v any, n int) *Result {
	return &Result{Success: true, Result: v, Count: &n}
}

// Failure returns a failure envelope with the given kind and message.
func Failure(kind ErrorKind, message string) *Result {
	return &Result{Success: false, Error: message, Kind: kind}
}

// Call is a request to run one tool.
type Call struct {
	Name      string `json:"tool"`
	Arguments Args   `json:"arguments"`
}

// CallResult records a dispatched call and its timing.
type CallResult struct {
	ToolName  string
	Arguments Args
	Result    *Result
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the call took.
func (c *CallResult) Duration() time.Duration {
	return c.EndTime.Sub(c.StartTime)
}
