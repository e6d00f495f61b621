package handlers

import (
	"context"
	"fmt"
	"time"

	"prodmcp/internal/hook"
	"prodmcp/internal/logger"
)

// AuditHandler logs every tool call and its outcome.
type AuditHandler struct {
	logger *logger.Logger
}

func NewAuditHandler(l *logger.Logger) *AuditHandler {
	return &AuditHandler{logger: l}
}

func (h *AuditHandler) Name() string {
	return "audit"
}

func (h *AuditHandler) Points() []hook.HookPoint {
	return []hook.HookPoint{hook.BeforeToolExecution, hook.AfterToolExecution}
}

// Priority is low so the audit line reflects calls that passed other handlers.
func (h *AuditHandler) Priority() int {
	return 0
}

func (h *AuditHandler) Handle(ctx context.Context, data *hook.HookData) (*hook.Feedback, error) {
	switch data.Point {
	case hook.BeforeToolExecution:
		h.logger.Info("audit: call %s args=%s", data.ToolName, formatArgs(data.Get("arguments")))
	case hook.AfterToolExecution:
		duration, _ := data.Get("duration").(time.Duration)
		if data.GetBool("success") {
			h.logger.Info("audit: %s succeeded in %s", data.ToolName, duration.Round(time.Microsecond))
		} else {
			h.logger.Warn("audit: %s failed in %s: %s", data.ToolName, duration.Round(time.Microsecond), data.GetString("error"))
		}
	}
	return hook.AllowFeedback(), nil
}

func formatArgs(v any) string {
	if v == nil {
		return "{}"
	}
	return fmt.Sprintf("%v", v)
}
