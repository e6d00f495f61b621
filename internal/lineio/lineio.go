// Package lineio reads newline-terminated input without blocking
// cancellation.
package lineio

import (
	"bufio"
	"context"
	"io"
)

type result struct {
	line []byte
	err  error
}

// Reader reads one line at a time. A read abandoned by a cancelled context
// stays pending and is returned by the next ReadLine. Not safe for
// concurrent use.
type Reader struct {
	br      *bufio.Reader
	results chan result
	pending bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{
		br:      bufio.NewReader(r),
		results: make(chan result, 1),
	}
}

// ReadLine returns the next line including its '\n', or the final
// unterminated line together with io.EOF. It returns ctx.Err() as soon as
// ctx is done, even while the underlying reader is blocked.
func (r *Reader) ReadLine(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.pending {
		r.pending = true
		go func() {
			line, err := r.br.ReadBytes('\n')
			r.results <- result{line: line, err: err}
		}()
	}

	select {
	case res := <-r.results:
		r.pending = false
		return res.line, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
