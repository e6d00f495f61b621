// Package transport carries newline-delimited protocol frames between a
// client and a tool server process.
package transport

import "io"

// Transport defines the byte streams a line client talks over
type Transport interface {
	// Reader returns the stream of response lines from the server
	Reader() io.ReadCloser

	// Writer returns the stream request lines are written to
	Writer() io.WriteCloser

	// Close terminates the transport and cleans up resources
	Close() error

	// Start initiates the transport (spawns the process for stdio)
	Start() error
}
