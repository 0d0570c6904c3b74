// Package handle exposes ring buffers to callers that hold an opaque handle
// across independent calls instead of a pointer.
package handle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Supportfactory/ringbuf/pkg/ringbuf"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handle names a live buffer inside a Registry.
type Handle = uuid.UUID

// ErrInvalidHandle is returned for handles that were never created or are
// already destroyed.
var ErrInvalidHandle = errors.New("invalid ring buffer handle")

// Registry owns the buffers behind handles. The handle table is safe for
// concurrent use; operations on a single handle are not and must be
// serialized by the caller.
type Registry struct {
	logger *zap.Logger

	mu      sync.RWMutex
	buffers map[Handle]*ringbuf.RingBuffer
}

func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		logger:  logger,
		buffers: make(map[Handle]*ringbuf.RingBuffer),
	}
}

// Create allocates a buffer of the given capacity and returns its handle.
func (r *Registry) Create(capacity int) Handle {
	rb := ringbuf.New(capacity)
	h := uuid.Must(uuid.NewV7())

	r.mu.Lock()
	r.buffers[h] = rb
	r.mu.Unlock()

	r.logger.Debug("ring buffer created", zap.Stringer("handle", h), zap.Int("capacity", capacity))
	return h
}

func (r *Registry) Readable(h Handle) (int, error) {
	rb, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	return rb.ReadAvailable(), nil
}

func (r *Registry) Writable(h Handle) (int, error) {
	rb, err := r.lookup(h)
	if err != nil {
		return 0, err
	}
	return rb.WriteAvailable(), nil
}

// Peek returns a view of the oldest n bytes, valid until the next Push, Skip
// or Destroy on h. Asking for more than Readable(h) panics.
func (r *Registry) Peek(h Handle, n int) ([]byte, error) {
	rb, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	return rb.Peek(n), nil
}

// Skip discards the oldest n bytes. Asking for more than Readable(h) panics.
func (r *Registry) Skip(h Handle, n int) error {
	rb, err := r.lookup(h)
	if err != nil {
		return err
	}
	rb.Skip(n)
	return nil
}

func (r *Registry) Push(h Handle, b []byte) error {
	rb, err := r.lookup(h)
	if err != nil {
		return err
	}
	rb.Push(b)
	return nil
}

// Destroy releases the buffer. The handle is invalid afterwards.
func (r *Registry) Destroy(h Handle) error {
	r.mu.Lock()
	rb, ok := r.buffers[h]
	delete(r.buffers, h)
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("destroy %s: %w", h, ErrInvalidHandle)
	}

	r.logger.Debug("ring buffer destroyed",
		zap.Stringer("handle", h),
		zap.Int("capacity", rb.Capacity()),
		zap.Int("discarded", rb.ReadAvailable()))
	return nil
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buffers)
}

func (r *Registry) lookup(h Handle) (*ringbuf.RingBuffer, error) {
	r.mu.RLock()
	rb, ok := r.buffers[h]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s: %w", h, ErrInvalidHandle)
	}
	return rb, nil
}
