// Package extract recovers a structured tool call from free-form model text.
package extract

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"prodmcp/internal/tool"
)

// Strategy identifies which heuristic produced a match.
type Strategy int

const (
	// StrategyWhole parses the entire trimmed text as one object.
	StrategyWhole Strategy = iota + 1
	// StrategyPattern finds an object mentioning "tool" with at most one
	// level of nested braces.
	StrategyPattern
	// StrategyBraces parses the span from the first '{' to the last '}'.
	StrategyBraces
)

func (s Strategy) String() string {
	switch s {
	case StrategyWhole:
		return "whole"
	case StrategyPattern:
		return "pattern"
	case StrategyBraces:
		return "braces"
	default:
		return "none"
	}
}

// Match is a recovered call together with the strategy that found it.
type Match struct {
	Call     tool.Call
	Strategy Strategy
}

var toolObjectPattern = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*"tool"[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)

// Extract tries each strategy in order and returns the first call found.
// ok is false when the text holds no usable tool call.
func Extract(text string) (Match, bool) {
	if call, ok := parseCall(strings.TrimSpace(text)); ok {
		return Match{Call: call, Strategy: StrategyWhole}, true
	}

	for _, candidate := range toolObjectPattern.FindAllString(text, -1) {
		if call, ok := parseCall(candidate); ok {
			return Match{Call: call, Strategy: StrategyPattern}, true
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if call, ok := parseCall(text[start : end+1]); ok {
			return Match{Call: call, Strategy: StrategyBraces}, true
		}
	}

	return Match{}, false
}

// parseCall accepts a JSON object with a string "tool" member and an
// optional object "arguments" member. Any other shape is not a call, so the
// next strategy runs and, failing all, the text is treated as prose.
func parseCall(candidate string) (tool.Call, bool) {
	if candidate == "" || candidate[0] != '{' {
		return tool.Call{}, false
	}
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()
	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return tool.Call{}, false
	}
	// Trailing data means the candidate was not a single object.
	if _, err := dec.Token(); err != io.EOF {
		return tool.Call{}, false
	}

	rawName, ok := obj["tool"]
	if !ok {
		return tool.Call{}, false
	}
	var name string
	if err := json.Unmarshal(rawName, &name); err != nil {
		return tool.Call{}, false
	}

	args := tool.Args{}
	if rawArgs, ok := obj["arguments"]; ok {
		trimmed := bytes.TrimSpace(rawArgs)
		if !bytes.Equal(trimmed, []byte("null")) && (len(trimmed) == 0 || trimmed[0] != '{') {
			return tool.Call{}, false
		}
		decoded, err := tool.DecodeArgs(rawArgs)
		if err != nil {
			return tool.Call{}, false
		}
		args = decoded
	}
	return tool.Call{Name: name, Arguments: args}, true
}
