package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Reader feeds an arbitrary io.Reader until it reports io.EOF. Reads happen
// on a separate goroutine so cancellation stops the drain even while a Read
// is blocked. On cancellation the source is closed if it is an io.Closer;
// otherwise the blocked Read is abandoned and its result discarded.
type Reader struct {
	r io.Reader

	ChunkSize int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

type readResult struct {
	n   int
	err error
}

func (s *Reader) Drain(ctx context.Context, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	buffer := make([]byte, chunkSize(s.ChunkSize))
	results := make(chan readResult)
	next := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)

	// buffer is only touched by this goroutine between a receive on next
	// and the following send on results
	go func() {
		for {
			n, err := s.r.Read(buffer)
			select {
			case results <- readResult{n, err}:
			case <-stop:
				return
			}
			if err != nil {
				return
			}
			select {
			case <-next:
			case <-stop:
				return
			}
		}
	}()

	var total int64

	for {
		select {
		case <-ctx.Done():
			if closer, ok := s.r.(io.Closer); ok {
				_ = closer.Close()
			}
			return total, ctx.Err()

		case res := <-results:
			if res.n > 0 {
				written, err := write(w, buffer[:res.n])
				total += int64(written)
				if err != nil {
					return total, fmt.Errorf("unable to write reader feed: %w", err)
				}
			}

			if errors.Is(res.err, io.EOF) {
				return total, nil
			}
			if res.err != nil {
				return total, fmt.Errorf("unable to read: %w", res.err)
			}

			next <- struct{}{}
		}
	}
}
