package buffer

import (
	"errors"
	"fmt"
)

// ErrLimitExceeded is returned when a growth request exceeds the buffer limit.
var ErrLimitExceeded = errors.New("buffer: growth limit exceeded")

// Element is the set of sample representations a Buffer can hold.
type Element interface {
	~byte | ~int16 | ~int32 | ~float32 | ~float64
}

// Buffer wraps a slice with reuse-friendly semantics.
// Capacity grows monotonically; Resize only moves the logical length.
type Buffer[T Element] struct {
	samples []T
	limit   int
}

// New returns a zero-filled Buffer of the given length.
func New[T Element](length int) *Buffer[T] {
	if length < 0 {
		length = 0
	}
	return &Buffer[T]{samples: make([]T, length)}
}

// FromSlice wraps an existing slice without copying.
// Mutations to the slice are visible through the Buffer and vice versa.
func FromSlice[T Element](s []T) *Buffer[T] {
	return &Buffer[T]{samples: s}
}

// Samples returns the slice up to the logical length.
func (b *Buffer[T]) Samples() []T {
	return b.samples
}

// Len returns the current logical length.
func (b *Buffer[T]) Len() int {
	return len(b.samples)
}

// Cap returns the current capacity of the backing slice.
func (b *Buffer[T]) Cap() int {
	return cap(b.samples)
}

// Limit returns the maximum capacity in elements, 0 meaning unbounded.
func (b *Buffer[T]) Limit() int {
	return b.limit
}

// SetLimit bounds future growth to n elements. n <= 0 removes the bound.
// Existing capacity is kept even when it is above the new limit.
func (b *Buffer[T]) SetLimit(n int) {
	if n < 0 {
		n = 0
	}
	b.limit = n
}

// Grow ensures capacity is at least n, preserving existing data.
// If the current capacity is already >= n this is a no-op.
func (b *Buffer[T]) Grow(n int) error {
	if n <= cap(b.samples) {
		return nil
	}
	if b.limit > 0 && n > b.limit {
		return fmt.Errorf("%w: need %d elements, limit %d", ErrLimitExceeded, n, b.limit)
	}
	grown := make([]T, len(b.samples), n)
	copy(grown, b.samples)
	b.samples = grown
	return nil
}

// Resize sets the logical length to n, growing the backing array when
// needed. Elements beyond the previous length are zeroed. On error the
// buffer is left unchanged.
func (b *Buffer[T]) Resize(n int) error {
	if n < 0 {
		n = 0
	}
	if err := b.Grow(n); err != nil {
		return err
	}
	oldLen := len(b.samples)
	b.samples = b.samples[:n]
	// Zero any newly exposed elements that may have stale data from
	// previous use of the backing array.
	if n > oldLen {
		clear(b.samples[oldLen:])
	}
	return nil
}

// Zero sets all samples up to the logical length to 0.
func (b *Buffer[T]) Zero() {
	clear(b.samples)
}

// Release drops the backing array. The buffer can be grown again afterwards.
func (b *Buffer[T]) Release() {
	b.samples = nil
}
