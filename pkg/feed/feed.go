// Package feed drains byte sources into a writer, typically a ring buffer
// that keeps only the newest bytes.
package feed

import (
	"context"
	"io"
)

const DefaultChunkSize = 32 * 1024

type Source interface {
	// Drain writes everything the source yields into w and returns the
	// number of bytes written.
	Drain(ctx context.Context, w io.Writer) (int64, error)
}

func chunkSize(n int) int {
	if n <= 0 {
		return DefaultChunkSize
	}
	return n
}

// write forwards p to w and reports a short write as an error.
func write(w io.Writer, p []byte) (int, error) {
	n, err := w.Write(p)
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}
