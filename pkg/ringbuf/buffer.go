// Package ringbuf implements a fixed-capacity byte ring buffer that
// overwrites its oldest bytes when a push does not fit.
package ringbuf

import (
	"fmt"
	"slices"
)

// RingBuffer is a FIFO of at most Capacity() bytes. It is not safe for
// concurrent use.
type RingBuffer struct {
	data  []byte
	start int
	size  int
}

// New creates an empty buffer holding at most capacity bytes. A zero
// capacity is valid and yields a buffer that discards everything pushed.
// A negative capacity panics with an error matching ErrOutOfRange.
func New(capacity int) *RingBuffer {
	if capacity < 0 {
		panic(fmt.Errorf("%w: negative capacity %d", ErrOutOfRange, capacity))
	}
	return &RingBuffer{
		data: make([]byte, capacity),
	}
}

func (r *RingBuffer) Capacity() int {
	return len(r.data)
}

// ReadAvailable returns the number of bytes that can be peeked or skipped.
func (r *RingBuffer) ReadAvailable() int {
	return r.size
}

// WriteAvailable returns the number of bytes that can be pushed before the
// oldest contents start being overwritten.
func (r *RingBuffer) WriteAvailable() int {
	return len(r.data) - r.size
}

// Peek returns the oldest n bytes without consuming them. The slice aliases
// the buffer's storage and is only valid until the next mutating call.
// Peek panics with an *OutOfRangeError if n exceeds ReadAvailable().
func (r *RingBuffer) Peek(n int) []byte {
	r.check(opPeek, n)

	if r.start+n > len(r.data) {
		r.makeContiguous()
	}
	return r.data[r.start : r.start+n : r.start+n]
}

// Skip discards the oldest n bytes. It panics with an *OutOfRangeError if n
// exceeds ReadAvailable().
func (r *RingBuffer) Skip(n int) {
	r.check(opSkip, n)
	r.advance(n)
}

// Push appends b. When b does not fit, the oldest bytes are dropped to make
// room; when b alone is at least Capacity() bytes long, only its tail is kept.
// b is never retained.
func (r *RingBuffer) Push(b []byte) {
	m := len(b)
	leeway := r.WriteAvailable()

	switch {
	case m <= leeway:
	case m >= len(r.data):
		r.start, r.size = 0, 0
		b = b[m-len(r.data):]
	default:
		r.advance(m - leeway)
	}

	r.append(b)
}

func (r *RingBuffer) check(op string, n int) {
	if n < 0 || n > r.size {
		panic(&OutOfRangeError{Op: op, N: n, Available: r.size})
	}
}

// advance drops n bytes from the front; n <= r.size.
func (r *RingBuffer) advance(n int) {
	r.size -= n
	if r.size == 0 {
		r.start = 0
		return
	}
	r.start = (r.start + n) % len(r.data)
}

// append copies b behind the current contents; len(b) <= WriteAvailable().
func (r *RingBuffer) append(b []byte) {
	if len(b) == 0 {
		return
	}

	end := (r.start + r.size) % len(r.data)
	n := copy(r.data[end:], b)
	copy(r.data, b[n:])
	r.size += len(b)
}

// segments returns the oldest n bytes as at most two runs of storage.
func (r *RingBuffer) segments(n int) (head, tail []byte) {
	if r.start+n <= len(r.data) {
		return r.data[r.start : r.start+n], nil
	}
	head = r.data[r.start:]
	return head, r.data[:n-len(head)]
}

// makeContiguous rotates the storage so the contents begin at index 0.
func (r *RingBuffer) makeContiguous() {
	slices.Reverse(r.data[:r.start])
	slices.Reverse(r.data[r.start:])
	slices.Reverse(r.data)
	r.start = 0
}
