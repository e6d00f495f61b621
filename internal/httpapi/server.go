// Package httpapi exposes the tool dispatcher over plain HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"prodmcp/internal/logger"
	"prodmcp/internal/tool"
)

const (
	// RequestIDHeader carries the per-request identifier.
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Options configure a Server.
type Options struct {
	Name    string
	Version string
	// MCPHandler, when set, is mounted at /mcp.
	MCPHandler http.Handler
	Logger     *logger.Logger
}

// Info is the discovery document served at GET /.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// CallRequest is the body of POST /tools/call.
type CallRequest struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Server serves discovery, listing and invocation endpoints.
type Server struct {
	dispatcher *tool.Dispatcher
	opts       Options
	logger     *logger.Logger
	handler    http.Handler
}

func NewServer(d *tool.Dispatcher, opts Options) *Server {
	l := opts.Logger
	if l == nil {
		l = logger.NewLogger(io.Discard, logger.LevelError)
	}
	s := &Server{dispatcher: d, opts: opts, logger: l}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("GET /tools", s.handleTools)
	mux.HandleFunc("POST /tools/call", s.handleCall)
	if opts.MCPHandler != nil {
		mux.Handle("/mcp", opts.MCPHandler)
	}

	s.handler = otelhttp.NewHandler(s.withRequestID(s.withRecover(mux)), "prodmcp.http")
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info("HTTP server listening on %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Info{Name: s.opts.Name, Version: s.opts.Version, Status: "running"})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tools": s.dispatcher.Registry().Descriptors()})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read body: %v", err))
		return
	}

	var req CallRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusInternalServerError, "invalid request body: name is required")
		return
	}
	args, err := tool.DecodeArgs(req.Arguments)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	result := s.dispatcher.Execute(r.Context(), req.Name, args)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("%s %s [%s] %s", r.Method, r.URL.Path, id, time.Since(start).Round(time.Microsecond))
	})
}

func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, fmt.Sprint(rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{Detail: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}
