package pool

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(64)

	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 64, cap(bb.B))
}

func TestByteBuffer_Bytes(t *testing.T) {
	bb := NewByteBuffer(BufferInitialSize)
	bb.MustWrite([]byte("hello"))

	assert.Equal(t, []byte("hello"), bb.Bytes())
}

func TestByteBuffer_Reset(t *testing.T) {
	bb := NewByteBuffer(BufferInitialSize)
	bb.MustWrite([]byte("some data"))
	originalCap := cap(bb.B)

	bb.Reset()

	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, originalCap, cap(bb.B), "reset should preserve capacity")
}

func TestByteBuffer_MustWrite_GrowsPastInitialSize(t *testing.T) {
	bb := NewByteBuffer(BufferInitialSize)

	bb.MustWrite([]byte("hello"))
	bb.MustWrite([]byte(" world, this line is longer than sixteen bytes"))

	assert.Equal(t, "hello world, this line is longer than sixteen bytes", string(bb.Bytes()))
}

func TestByteBuffer_Grow_Doubling(t *testing.T) {
	bb := NewByteBuffer(BufferInitialSize)
	require.Equal(t, BufferInitialSize, cap(bb.B))

	bb.Grow(BufferInitialSize + 1)

	// Doubling from 16 must land on a power-of-two multiple of 16 that fits.
	assert.Equal(t, BufferInitialSize*2, cap(bb.B))
}

func TestByteBuffer_Grow_SufficientCapacity(t *testing.T) {
	bb := NewByteBuffer(256)
	bb.Grow(100)

	assert.Equal(t, 256, cap(bb.B), "should not reallocate when capacity is sufficient")
}

func TestByteBuffer_Grow_PreservesData(t *testing.T) {
	bb := NewByteBuffer(BufferInitialSize)
	bb.MustWrite([]byte("important data that must be preserved"))

	bb.Grow(1024)

	assert.Equal(t, "important data that must be preserved", string(bb.Bytes()))
}

func TestByteBuffer_Slice_PanicsOutOfBounds(t *testing.T) {
	bb := NewByteBuffer(16)

	assert.Panics(t, func() { bb.Slice(-1, 2) })
	assert.Panics(t, func() { bb.Slice(10, 100) })
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(BufferInitialSize)
	bb.MustWrite([]byte("test data"))

	var buf bytes.Buffer
	n, err := bb.WriteTo(&buf)

	require.NoError(t, err)
	assert.Equal(t, int64(9), n)
	assert.Equal(t, "test data", buf.String())
}

func TestPool_GetPut(t *testing.T) {
	bb := Get()
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())

	bb.MustWrite([]byte("data"))
	Put(bb)

	bb2 := Get()
	assert.Equal(t, 0, bb2.Len(), "buffer from pool should be reset")
	Put(bb2)
}

func TestPool_Put_NilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Put(nil)
	})
}

func TestPool_DiscardsOversizedBuffers(t *testing.T) {
	p := NewPool(16, 128)

	bb := p.Get()
	bb.Grow(1024)
	require.Greater(t, cap(bb.B), 128)

	p.Put(bb)

	bb2 := p.Get()
	assert.LessOrEqual(t, cap(bb2.B), 128, "oversized buffer should not be retained")
}

func TestPool_ConcurrentAccess(t *testing.T) {
	const goroutines = 32
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bb := Get()
				bb.MustWrite([]byte("data"))
				Put(bb)
			}
		}()
	}

	wg.Wait()
}
