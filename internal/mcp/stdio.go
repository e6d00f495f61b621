package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"prodmcp/internal/lineio"
	"prodmcp/internal/logger"
	"prodmcp/internal/tool"
)

// LineServer answers newline-delimited JSON-RPC requests. Each non-blank
// input line yields exactly one output line, written before the next line
// is read.
type LineServer struct {
	dispatcher *tool.Dispatcher
	info       ServerInfo
	logger     *logger.Logger
}

func NewLineServer(d *tool.Dispatcher, info ServerInfo, l *logger.Logger) *LineServer {
	if l == nil {
		l = logger.NewLogger(io.Discard, logger.LevelError)
	}
	return &LineServer{dispatcher: d, info: info, logger: l}
}

// Serve reads requests from r until EOF or ctx is done. Cancellation is
// honoured while waiting for input.
func (s *LineServer) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := lineio.NewReader(r)
	for {
		line, readErr := reader.ReadLine(ctx)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if len(bytes.TrimSpace(line)) > 0 {
			out := s.HandleLine(ctx, line)
			if _, err := w.Write(append(out, '\n')); err != nil {
				return fmt.Errorf("failed to write response: %w", err)
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to read request: %w", readErr)
		}
	}
}

// HandleLine processes one request line and returns the encoded response
// without a trailing newline.
func (s *LineServer) HandleLine(ctx context.Context, line []byte) []byte {
	start := time.Now()
	resp := s.handle(ctx, line)

	out, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode response: %v", err)
		out, _ = json.Marshal(errorResponse(resp.ID, CodeInternalError, "internal error: "+err.Error()))
	}
	s.logger.Debug("handled request in %s", time.Since(start).Round(time.Microsecond))
	return out
}

func (s *LineServer) handle(ctx context.Context, line []byte) (resp *Response) {
	trimmed := bytes.TrimSpace(line)
	if bytes.Equal(trimmed, []byte("null")) {
		return errorResponse(nil, CodeInternalError, "internal error: request must be a JSON object")
	}

	var req Request
	if err := json.Unmarshal(trimmed, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			// Valid JSON that is not a request object.
			return errorResponse(nil, CodeInternalError, "internal error: "+err.Error())
		}
		return errorResponse(nil, CodeParseError, "parse error: "+err.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic while handling %s: %v", req.Method, r)
			resp = errorResponse(req.ID, CodeInternalError, fmt.Sprintf("internal error: %v", r))
		}
	}()

	s.logger.Debug("request %s id=%s", req.Method, string(req.ID))

	switch req.Method {
	case MethodInitialize:
		return resultResponse(req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    map[string]any{"tools": map[string]any{}},
			ServerInfo:      s.info,
		})
	case MethodPing:
		return resultResponse(req.ID, map[string]any{})
	case MethodToolsList:
		return resultResponse(req.ID, ToolsListResult{Tools: s.dispatcher.Registry().Descriptors()})
	case MethodToolsCall:
		return s.handleCall(ctx, req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *LineServer) handleCall(ctx context.Context, req Request) *Response {
	var params CallParams
	if len(bytes.TrimSpace(req.Params)) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInvalidParams, "invalid params: "+err.Error())
		}
	}

	var envelope *tool.Result
	if params.Name == "" {
		envelope = tool.Failure(tool.KindValidation, "tool name not specified")
	} else {
		args, err := tool.DecodeArgs(params.Arguments)
		if err != nil {
			return errorResponse(req.ID, CodeInvalidParams, "invalid params: "+err.Error())
		}
		envelope = s.dispatcher.Execute(ctx, params.Name, args)
	}

	result, err := NewCallResult(envelope)
	if err != nil {
		return errorResponse(req.ID, CodeInternalError, "internal error: "+err.Error())
	}
	return resultResponse(req.ID, result)
}

func resultResponse(id json.RawMessage, result any) *Response {
	return &Response{JSONRPC: "2.0", ID: normalizeID(id), Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: normalizeID(id), Error: &RPCError{Code: code, Message: message}}
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return nullID
	}
	return id
}
