package transport

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

const (
	// shutdownTimeout is how long to wait for graceful shutdown
	shutdownTimeout = 5 * time.Second
)

// StdioTransport runs a tool server as a child process and talks to it over
// its stdin and stdout. The child's stderr is forwarded to the parent's.
type StdioTransport struct {
	cancel context.CancelFunc
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
}

// NewStdioTransport prepares the child process; Start launches it.
// env entries are added to the current environment.
func NewStdioTransport(ctx context.Context, command string, args []string, env map[string]string) (*StdioTransport, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = os.Environ()
	for key, value := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	// The server logs to stderr; keep it visible instead of buffering it.
	cmd.Stderr = os.Stderr

	return &StdioTransport{
		cancel: cancel,
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
	}, nil
}

// Start initiates the transport by starting the child process
func (t *StdioTransport) Start() error {
	if err := t.cmd.Start(); err != nil {
		t.cancel()
		return fmt.Errorf("failed to start tool server: %w", err)
	}
	return nil
}

// Reader returns the child's stdout
func (t *StdioTransport) Reader() io.ReadCloser {
	return t.stdout
}

// Writer returns the child's stdin
func (t *StdioTransport) Writer() io.WriteCloser {
	return t.stdin
}

// Close closes the child's stdin so the server sees EOF and exits, and
// kills it if it has not exited within shutdownTimeout.
func (t *StdioTransport) Close() error {
	if t.stdin != nil {
		t.stdin.Close()
	}
	defer t.cancel()

	// Wait for process to exit gracefully (with timeout)
	done := make(chan error, 1)
	go func() {
		done <- t.cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil && err.Error() != "signal: killed" {
			return fmt.Errorf("tool server exited with error: %w", err)
		}
		return nil

	case <-time.After(shutdownTimeout):
		if t.cmd.Process != nil {
			if err := t.cmd.Process.Kill(); err != nil {
				return fmt.Errorf("failed to kill process: %w", err)
			}
		}
		<-done
		return nil
	}
}
