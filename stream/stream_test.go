package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStream_WriteAndFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.sdlog")

	s, err := NewFileStream(path, 0o644)
	require.NoError(t, err)

	require.NoError(t, s.BeginSession())
	n, err := s.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.NoError(t, s.Flush())
	require.NoError(t, s.EndSession())
	require.NoError(t, s.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestFileStream_OpenError(t *testing.T) {
	_, err := NewFileStream(filepath.Join(t.TempDir(), "nope", "deeper", "out.sdlog"), 0o644)
	require.Error(t, err)
}

func TestBufferStream_GrowsAndExposesBytes(t *testing.T) {
	s := NewBufferStreamWithBytes()

	payload := make([]byte, 100)
	for i := range payload {
		payload[i] = byte(i)
	}

	n, err := s.Write(payload)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, s.Bytes())
}

func TestBufferStream_WithInitialSize(t *testing.T) {
	s := NewBufferStream(WithInitialSize(256)).(BufferStream) //nolint:forcetypeassert
	n, err := s.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestBufferStream_WithPooledBuffer_ReturnsBufferOnClose(t *testing.T) {
	s := NewBufferStream(WithPooledBuffer())
	_, err := s.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Nil(t, s.(*bufferStream).buf) //nolint:forcetypeassert
}

func TestBufferStream_MultipleWritesAccumulate(t *testing.T) {
	s := NewBufferStreamWithBytes()

	_, err := s.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = s.Write([]byte("def"))
	require.NoError(t, err)

	assert.Equal(t, []byte("abcdef"), s.Bytes())
}

func TestNullStream_DiscardsAndAlwaysSucceeds(t *testing.T) {
	s := NewNullStream()

	require.NoError(t, s.BeginSession())
	n, err := s.Write(make([]byte, 4096))
	require.NoError(t, err)
	assert.Equal(t, 4096, n)
	require.NoError(t, s.Flush())
	require.NoError(t, s.EndSession())
	require.NoError(t, s.Close())
}

func TestFileReader_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.sdlog")
	require.NoError(t, os.WriteFile(path, []byte("payload"), 0o644))

	r, err := NewFileReader(path)
	require.NoError(t, err)
	defer r.Close()

	buf := make([]byte, 7)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []byte("payload"), buf)
}

func TestFileReader_OpenError(t *testing.T) {
	_, err := NewFileReader(filepath.Join(t.TempDir(), "missing.sdlog"))
	require.Error(t, err)
}

// shortWriteStream wraps a Writer and truncates every Write to at most
// maxChunk bytes, simulating a real sink (a pipe, a slow disk) that
// legitimately underwrites without erroring. Used to exercise callers that
// must retry against the Stream contract's documented underwrite behavior.
type shortWriteStream struct {
	Writer
	maxChunk int
}

func (s *shortWriteStream) Write(p []byte) (int, error) {
	if len(p) > s.maxChunk {
		p = p[:s.maxChunk]
	}

	return s.Writer.Write(p)
}

func TestShortWriteStream_UnderwritesWithoutError(t *testing.T) {
	inner := NewBufferStreamWithBytes()
	s := &shortWriteStream{Writer: inner, maxChunk: 3}

	n, err := s.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	written := n
	for written < 10 {
		n, err := s.Write([]byte("0123456789")[written:])
		require.NoError(t, err)
		require.Greater(t, n, 0)
		written += n
	}

	assert.Equal(t, []byte("0123456789"), inner.Bytes())
}
