package ringbuf

import (
	"errors"
	"fmt"
)

const (
	opPeek = "peek"
	opSkip = "skip"
)

// ErrOutOfRange matches every contract-violation panic raised by this package.
var ErrOutOfRange = errors.New("ringbuf: out of range")

// OutOfRangeError is the panic value of Peek and Skip when asked for more
// bytes than are readable.
type OutOfRangeError struct {
	Op        string
	N         int
	Available int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("ringbuf: cannot %s %d bytes, %d available", e.Op, e.N, e.Available)
}

func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}
