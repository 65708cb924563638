// Package sdlog implements the ArduPilot self-describing binary log format:
// a flat stream of framed records, each tagged by a message ID whose column
// layout is announced once via a FMT meta-record before first use.
//
// The three subpackages a caller ordinarily touches directly are
// typecode (the wire type codec), logformat (MessageFormat/ColumnFormat
// schema construction), and writer (the append-only Writer). This file
// collects the common construction paths into single calls.
package sdlog

import (
	"github.com/ntamas-sdlog/sdlog/stream"
	"github.com/ntamas-sdlog/sdlog/writer"
)

// NewFileWriter opens (creating/truncating) path and returns a Writer that
// appends records to it.
func NewFileWriter(path string, opts ...writer.Option) (*writer.Writer, error) {
	s, err := stream.NewFileStream(path, 0o644)
	if err != nil {
		return nil, err
	}

	return writer.New(s, opts...), nil
}

// NewBufferWriter returns a Writer backed by a growing in-memory buffer.
// Callers that need the accumulated bytes should build the stream directly
// with stream.NewBufferStreamWithBytes and pass it to writer.New instead.
func NewBufferWriter(opts ...writer.Option) *writer.Writer {
	return writer.New(stream.NewBufferStream(), opts...)
}

// NewWriter wraps an arbitrary stream.Writer in a Writer.
func NewWriter(s stream.Writer, opts ...writer.Option) *writer.Writer {
	return writer.New(s, opts...)
}
