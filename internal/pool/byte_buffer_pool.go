// Package pool provides a pooled, amortized-growth byte buffer used by the
// growing-buffer Stream implementation (stream.NewBufferStream).
package pool

import (
	"io"
	"sync"
)

// BufferInitialSize is the size of a freshly allocated ByteBuffer, matching
// the growing-buffer stream factory described by the sdlog wire spec: it
// starts at 16 bytes and doubles from there.
const (
	BufferInitialSize = 16
	// BufferMaxThreshold is the largest buffer capacity retained in the pool;
	// oversized buffers (e.g. from one very large log session) are discarded
	// on Put instead of bloating the pool for everyone else.
	BufferMaxThreshold = 1024 * 1024 // 1MiB
)

// ByteBuffer is a growable byte slice wrapper with an amortized doubling
// growth strategy, a bare-bones stand-in for bytes.Buffer that exposes its
// internal slice directly (Stream's growing-buffer variant is documented to
// expose its internal pointer+size read-only).
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified initial capacity.
func NewByteBuffer(initialSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, initialSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// Slice returns a slice of the buffer from start to end.
// Panics if the indices are out of bounds.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("Slice: invalid indices")
	}

	return bb.B[start:end]
}

// Grow ensures the buffer can hold requiredBytes more bytes without
// reallocating, doubling capacity (starting from BufferInitialSize) until
// the requirement is met. Matches the growing-buffer Stream factory's
// documented "starts at 16 bytes, doubling" policy.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	newCap := cap(bb.B)
	if newCap == 0 {
		newCap = BufferInitialSize
	}
	for newCap-len(bb.B) < requiredBytes {
		newCap *= 2
	}

	newBuf := make([]byte, len(bb.B), newCap)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
// Satisfies io.Writer so a ByteBuffer can back stream.Writer.Write directly.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Pool is a pool of ByteBuffers to minimize allocations across successive
// Writer sessions that use the growing-buffer Stream.
//
// It uses sync.Pool internally to manage the buffers.
type Pool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewPool creates a new Pool with buffers of the specified initial size.
func NewPool(initialSize int, maxThreshold int) *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(initialSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (p *Pool) Get() *ByteBuffer {
	bb, _ := p.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (p *Pool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if p.maxThreshold > 0 && cap(bb.B) > p.maxThreshold {
		// Discard overly large buffers to prevent memory bloat.
		return
	}

	bb.Reset()
	p.pool.Put(bb)
}

var defaultPool = NewPool(BufferInitialSize, BufferMaxThreshold)

// Get retrieves a ByteBuffer from the default pool.
func Get() *ByteBuffer {
	return defaultPool.Get()
}

// Put returns a ByteBuffer to the default pool.
func Put(bb *ByteBuffer) {
	defaultPool.Put(bb)
}
