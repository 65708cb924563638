package stream

import (
	"os"

	"github.com/ntamas-sdlog/sdlog/internal/options"
	"github.com/ntamas-sdlog/sdlog/internal/pool"
)

// Writer is the output-side Stream contract (spec §6): a session-bracketed
// byte sink. Write may legally write fewer bytes than requested without
// returning an error ("underwrite"); callers (writer.Writer) retry.
type Writer interface {
	// BeginSession marks the start of a write session, called once by the
	// first Writer.Write/WriteEncoded in a session.
	BeginSession() error

	// Write writes p to the sink. It may return n < len(p) with a nil error
	// (a legal underwrite); the caller is responsible for retrying.
	Write(p []byte) (int, error)

	// Flush pushes any buffered bytes to their final destination.
	Flush() error

	// EndSession marks the end of a write session.
	EndSession() error

	// Close releases any resources held by the stream. Safe to call more
	// than once.
	Close() error
}

// Reader is the input-side Stream contract (spec §6). Its only consumer in
// this module is cmd/sdlogtool dump, which reads a whole file through it;
// there is no record decoder built on it (spec §1).
type Reader interface {
	// Read reads into p. A successful call may return 0 bytes without error
	// (non-blocking sources are legal). EOF is reported as io.EOF.
	Read(p []byte) (int, error)

	// Close releases any resources held by the stream.
	Close() error
}

// fileStream wraps an *os.File as a Writer. Session brackets are no-ops:
// files need no begin/end framing beyond the bytes written between them.
type fileStream struct {
	f *os.File
}

// NewFileStream opens (creating/truncating) path and returns a Writer backed
// by it.
func NewFileStream(path string, perm os.FileMode) (Writer, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, err
	}

	return &fileStream{f: f}, nil
}

func (s *fileStream) BeginSession() error { return nil }
func (s *fileStream) Write(p []byte) (int, error) {
	return s.f.Write(p)
}
func (s *fileStream) Flush() error      { return s.f.Sync() }
func (s *fileStream) EndSession() error { return nil }
func (s *fileStream) Close() error      { return s.f.Close() }

// bufferStream is a growing in-memory Writer, backed by a pooled
// amortized-growth buffer (internal/pool.ByteBuffer), starting at 16 bytes
// and doubling, matching the growing-buffer factory described in spec §6.
type bufferStream struct {
	buf    *pool.ByteBuffer
	pooled bool
}

// BufferStreamOption configures NewBufferStream.
type BufferStreamOption = options.Option[*bufferStream]

// WithInitialSize overrides the buffer's starting capacity (default
// pool.BufferInitialSize == 16).
func WithInitialSize(n int) BufferStreamOption {
	return options.NoError(func(s *bufferStream) {
		s.buf = pool.NewByteBuffer(n)
	})
}

// WithPooledBuffer draws the initial buffer from the shared pool and returns
// it on Close, instead of allocating a dedicated buffer. Useful for
// short-lived Writer sessions created in a hot loop.
func WithPooledBuffer() BufferStreamOption {
	return options.NoError(func(s *bufferStream) {
		s.buf = pool.Get()
		s.pooled = true
	})
}

// NewBufferStream creates a growing in-memory Writer.
func NewBufferStream(opts ...BufferStreamOption) Writer {
	s := &bufferStream{buf: pool.NewByteBuffer(pool.BufferInitialSize)}
	_ = options.Apply(s, opts...)

	return s
}

func (s *bufferStream) BeginSession() error { return nil }
func (s *bufferStream) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}
func (s *bufferStream) Flush() error      { return nil }
func (s *bufferStream) EndSession() error { return nil }
func (s *bufferStream) Close() error {
	if s.pooled {
		pool.Put(s.buf)
		s.buf = nil
	}

	return nil
}

// Bytes returns a read-only view of the buffer's internal storage, valid
// until the next Write or Close.
func (s *bufferStream) Bytes() []byte {
	if s.buf == nil {
		return nil
	}

	return s.buf.Bytes()
}

// BufferStream is the interface satisfied by the value NewBufferStream
// returns, for callers that need Bytes(); callers that only need the Writer
// contract can keep using the Writer return value directly.
type BufferStream interface {
	Writer
	Bytes() []byte
}

var _ BufferStream = (*bufferStream)(nil)

// NewBufferStreamWithBytes is a convenience constructor for callers that
// want Bytes() without a type assertion.
func NewBufferStreamWithBytes(opts ...BufferStreamOption) BufferStream {
	return NewBufferStream(opts...).(BufferStream) //nolint:forcetypeassert
}

// nullStream discards everything written to it and always succeeds.
type nullStream struct {
	written int
}

// NewNullStream creates a Writer that discards all bytes, for scenarios
// (benchmarks, call-sequencing tests) that only care
// that the Writer/Stream contract was honored, not the resulting bytes.
func NewNullStream() Writer {
	return &nullStream{}
}

func (s *nullStream) BeginSession() error { return nil }
func (s *nullStream) Write(p []byte) (int, error) {
	s.written += len(p)
	return len(p), nil
}
func (s *nullStream) Flush() error      { return nil }
func (s *nullStream) EndSession() error { return nil }
func (s *nullStream) Close() error      { return nil }

// fileReader wraps an *os.File as a Reader.
type fileReader struct {
	f *os.File
}

// NewFileReader opens path for reading.
func NewFileReader(path string) (Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return &fileReader{f: f}, nil
}

// Read preserves the source format's documented quirk (spec §9): a
// zero-byte read that coincides with EOF reports io.EOF; a short read that
// delivers bytes alongside EOF reports success and defers EOF to the next
// call. os.File.Read on Linux already implements exactly this contract, so
// fileReader is a thin pass-through rather than reimplementing it.
func (r *fileReader) Read(p []byte) (int, error) {
	return r.f.Read(p)
}

func (r *fileReader) Close() error { return r.f.Close() }
