package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"prodmcp/internal/hook"
	"prodmcp/internal/logger"
)

// Dispatcher runs calls against the registry. It never returns an error:
// every failure, including panics inside a tool, becomes a failure Result.
type Dispatcher struct {
	registry    *Registry
	hookManager *hook.Manager
	logger      *logger.Logger
	tracer      trace.Tracer
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		logger:   logger.NewLogger(io.Discard, logger.LevelError),
		tracer:   otel.Tracer("prodmcp/tool"),
	}
}

// SetHookManager sets the hook manager for tool execution hooks
func (d *Dispatcher) SetHookManager(manager *hook.Manager) {
	d.hookManager = manager
}

// SetLogger sets the logger used for call and result tracing.
func (d *Dispatcher) SetLogger(l *logger.Logger) {
	if l != nil {
		d.logger = l
	}
}

// Registry returns the registry the dispatcher serves.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Execute runs the named tool and returns its envelope.
func (d *Dispatcher) Execute(ctx context.Context, name string, args Args) *Result {
	return d.Dispatch(ctx, Call{Name: name, Arguments: args}).Result
}

// Dispatch runs a single call and records timing.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) *CallResult {
	startTime := time.Now()
	if call.Arguments == nil {
		call.Arguments = Args{}
	}

	ctx, span := d.tracer.Start(ctx, "tool.execute",
		trace.WithAttributes(attribute.String("tool.name", call.Name)))
	defer span.End()

	d.logger.ToolCall(call.Name, encodeArgs(call.Arguments))

	result := d.run(ctx, call)

	span.SetAttributes(attribute.Bool("tool.success", result.Success))
	if !result.Success {
		span.SetAttributes(attribute.String("tool.error_kind", string(result.Kind)))
		span.SetStatus(codes.Error, result.Error)
	}

	endTime := time.Now()
	d.logger.ToolResult(call.Name, result.Success, summarize(result), endTime.Sub(startTime))

	return &CallResult{
		ToolName:  call.Name,
		Arguments: call.Arguments,
		Result:    result,
		StartTime: startTime,
		EndTime:   endTime,
	}
}

func (d *Dispatcher) run(ctx context.Context, call Call) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool %s panicked: %v", call.Name, r)
			result = Failure(KindCollaborator, fmt.Sprintf("tool execution error: %v", r))
		}
	}()

	t, err := d.registry.Get(call.Name)
	if err != nil {
		return Failure(KindUnknownTool, "unknown tool: "+call.Name)
	}

	if err := d.registry.CheckArgs(call.Name, call.Arguments); err != nil {
		d.logger.Debug("arguments for %s do not match schema: %v", call.Name, err)
	}

	// Trigger before tool execution hook
	if d.hookManager != nil {
		hookData := hook.NewHookData(hook.BeforeToolExecution, call.Name).
			Set("arguments", map[string]any(call.Arguments))

		feedback, err := d.hookManager.Trigger(ctx, hookData)
		if err != nil {
			return Failure(KindCollaborator, fmt.Sprintf("tool execution error: hook error: %v", err))
		}
		if !feedback.Allow {
			return Failure(KindDenied, "tool execution denied: "+feedback.Message)
		}
	}

	startTime := time.Now()
	result, err = t.Execute(ctx, call.Arguments)
	switch {
	case err != nil:
		result = failureFromError(err)
	case result == nil:
		result = Failure(KindCollaborator, "tool execution error: tool returned no result")
	}

	// Trigger after tool execution hook
	if d.hookManager != nil {
		hookData := hook.NewHookData(hook.AfterToolExecution, call.Name).
			Set("arguments", map[string]any(call.Arguments)).
			Set("success", result.Success).
			Set("error", result.Error).
			Set("duration", time.Since(startTime))

		// After hooks don't block, just trigger
		_, _ = d.hookManager.Trigger(ctx, hookData)
	}

	return result
}

func encodeArgs(args Args) string {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", map[string]any(args))
	}
	return string(b)
}

func summarize(r *Result) string {
	if !r.Success {
		return r.Error
	}
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Sprintf("%v", r.Result)
	}
	return string(b)
}
