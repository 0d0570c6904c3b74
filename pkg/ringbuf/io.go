package ringbuf

import "io"

var (
	_ io.Writer   = (*RingBuffer)(nil)
	_ io.Reader   = (*RingBuffer)(nil)
	_ io.WriterTo = (*RingBuffer)(nil)
)

// Write pushes p and always reports len(p) bytes written. Overflow is not an
// error; the oldest bytes are overwritten instead.
func (r *RingBuffer) Write(p []byte) (int, error) {
	r.Push(p)
	return len(p), nil
}

// Read copies up to len(p) of the oldest bytes into p and consumes them.
// It returns io.EOF when the buffer is empty.
func (r *RingBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.size == 0 {
		return 0, io.EOF
	}

	n := min(len(p), r.size)
	head, tail := r.segments(n)
	copy(p, head)
	copy(p[len(head):], tail)
	r.advance(n)
	return n, nil
}

// WriteTo drains the buffer into w. Bytes accepted by w are consumed even
// when w returns an error.
func (r *RingBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for r.size > 0 {
		head, _ := r.segments(r.size)

		n, err := w.Write(head)
		if n > 0 {
			r.advance(n)
			total += int64(n)
		}
		if err != nil {
			return total, err
		}
		if n < len(head) {
			return total, io.ErrShortWrite
		}
	}

	return total, nil
}
