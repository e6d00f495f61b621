package handlers

import (
	"context"
	"fmt"

	"prodmcp/internal/hook"
)

// DenyHandler refuses calls to a configured set of tools.
type DenyHandler struct {
	tools map[string]bool
}

// NewDenyHandler creates a handler that denies every tool in names.
func NewDenyHandler(names []string) *DenyHandler {
	tools := make(map[string]bool, len(names))
	for _, n := range names {
		tools[n] = true
	}
	return &DenyHandler{tools: tools}
}

func (h *DenyHandler) Name() string {
	return "deny_tools"
}

func (h *DenyHandler) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.BeforeToolExecution}
}

func (h *DenyHandler) Priority() int {
	return 100
}

func (h *DenyHandler) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	if h.tools[data.ToolName] {
		return hook.DenyFeedback(fmt.Sprintf("tool %s is disabled by configuration", data.ToolName)), nil
	}
	return hook.AllowFeedback(), nil
}
