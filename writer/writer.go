package writer

import (
	"fmt"

	"github.com/ntamas-sdlog/sdlog/errs"
	"github.com/ntamas-sdlog/sdlog/internal/options"
	"github.com/ntamas-sdlog/sdlog/logformat"
	"github.com/ntamas-sdlog/sdlog/record"
	"github.com/ntamas-sdlog/sdlog/stream"
	"github.com/ntamas-sdlog/sdlog/typecode"
)

// FMTMessageID is the reserved message ID of the self-describing FMT record:
// every other MessageFormat is announced once, before its first use, by
// writing a FMT record that describes it.
const FMTMessageID uint8 = 128

// NewFMTMessageFormat builds the canonical layout of the FMT meta-record:
// Type (the announced message's ID), Length (its total record size),
// Name (its type name), Format (its column type-code string), and Columns
// (its comma-joined column names). Exported so tools that read an sdlog
// stream without a prior schema (cmd/sdlogtool dump) can decode FMT records
// using the exact layout the Writer emits.
func NewFMTMessageFormat() (*logformat.MessageFormat, error) {
	f, err := logformat.NewMessageFormat(FMTMessageID, "FMT")
	if err != nil {
		return nil, err
	}

	if err := f.AddColumns("Type,Length,Name,Format,Columns", "BBnNZ", "----"); err != nil {
		return nil, err
	}

	return f, nil
}

// state tracks the Writer's position in the READY -> ACTIVE -> CLOSED
// lifecycle (spec §4.5). ended is a sub-state of CLOSED-adjacent behavior:
// the session has been explicitly terminated but the underlying Stream
// handle is still open, so Close can still release it.
type state uint8

const (
	stateReady state = iota
	stateActive
	stateEnded
	stateClosed
)

// Writer serializes MessageFormat/Value pairs into framed records and
// writes them to a Stream, announcing each distinct MessageFormat with a
// FMT record before its first use.
type Writer struct {
	stream stream.Writer

	scratch [record.MaxMessageLength]byte
	fmtBuf  [record.MaxMessageLength]byte

	st state

	// announced is keyed by message ID and compared by pointer identity: a
	// second *logformat.MessageFormat value used for the same ID (e.g. a
	// schema change mid-session) triggers a fresh FMT announcement, exactly
	// as a brand-new ID would.
	announced map[uint8]*logformat.MessageFormat

	fmtFormat *logformat.MessageFormat
}

// Option configures a Writer at construction time.
type Option = options.Option[*Writer]

// WithExpectedFormatCount pre-sizes the internal announcement-tracking map
// for sessions known in advance to use a particular number of distinct
// MessageFormats, avoiding incremental map growth.
func WithExpectedFormatCount(n int) Option {
	return options.NoError(func(w *Writer) {
		w.announced = make(map[uint8]*logformat.MessageFormat, n)
	})
}

// New creates a Writer over s. The underlying Stream's session is not
// started until the first Write or WriteEncoded call.
func New(s stream.Writer, opts ...Option) *Writer {
	fmtFormat, err := NewFMTMessageFormat()
	if err != nil {
		// Unreachable: the FMT layout is fixed and always valid.
		panic(err)
	}

	w := &Writer{
		stream:    s,
		announced: make(map[uint8]*logformat.MessageFormat),
		fmtFormat: fmtFormat,
	}
	_ = options.Apply(w, opts...)

	return w
}

// Write encodes one record for format with values and appends it to the
// stream, first emitting a FMT announcement if format has not yet been (or
// a different *MessageFormat for the same ID has been) written in this
// session.
func (w *Writer) Write(format *logformat.MessageFormat, values ...typecode.Value) error {
	if err := w.ensureActive(); err != nil {
		return err
	}

	if err := w.announce(format); err != nil {
		return err
	}

	n, err := record.Encode(format, w.scratch[:], values)
	if err != nil {
		return err
	}

	return w.writeAll(w.scratch[:n])
}

// WriteEncoded appends a record the caller has already framed (via
// record.Encode or otherwise) verbatim, still performing the same
// FMT-announcement bookkeeping as Write for format.
func (w *Writer) WriteEncoded(format *logformat.MessageFormat, payload []byte) error {
	if err := w.ensureActive(); err != nil {
		return err
	}

	if err := w.announce(format); err != nil {
		return err
	}

	return w.writeAll(payload)
}

// WriteBatch writes one record per row, in order, stopping at the first
// error. Every row must supply exactly format.ColumnCount() values.
func (w *Writer) WriteBatch(format *logformat.MessageFormat, rows [][]typecode.Value) error {
	for i, row := range rows {
		if err := w.Write(format, row...); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}

	return nil
}

// Flush pushes any buffered bytes through to the underlying Stream.
func (w *Writer) Flush() error {
	if w.st == stateClosed {
		return errs.ErrClosed
	}

	return w.stream.Flush()
}

// End terminates the current write session. It is idempotent: calling End
// more than once is a no-op returning nil. Calling it on a Writer that
// never had an active session is also a no-op and leaves the Writer in
// READY, so a later first Write still opens a session normally. The
// underlying Stream is not closed; Close does that.
func (w *Writer) End() error {
	switch w.st {
	case stateClosed:
		return errs.ErrClosed
	case stateEnded, stateReady:
		return nil
	default: // stateActive
		w.st = stateEnded
		return w.stream.EndSession()
	}
}

// Close ends the session if still active and releases the underlying
// Stream. Safe to call more than once.
func (w *Writer) Close() error {
	if w.st == stateClosed {
		return nil
	}

	endErr := w.End()
	w.st = stateClosed

	closeErr := w.stream.Close()
	if endErr != nil {
		return endErr
	}

	return closeErr
}

// ensureActive transitions READY -> ACTIVE on first use, starting the
// underlying Stream's session, and rejects calls made after End or Close.
func (w *Writer) ensureActive() error {
	switch w.st {
	case stateClosed:
		return errs.ErrClosed
	case stateEnded:
		return errs.ErrNoSession
	case stateReady:
		if err := w.stream.BeginSession(); err != nil {
			return err
		}
		w.st = stateActive
	}

	return nil
}

// announce writes a FMT record for format if it has not yet been announced
// under its ID, or if a different *MessageFormat value is now in use for
// that ID.
func (w *Writer) announce(format *logformat.MessageFormat) error {
	if w.announced[format.ID()] == format {
		return nil
	}

	length := 3 + int(format.Size())
	if length > 255 {
		length = 255
	}

	values := []typecode.Value{
		typecode.Uint64V(uint64(format.ID())),
		typecode.Uint64V(uint64(length)),
		typecode.StringV(format.Type()),
		typecode.StringV(format.FormatString()),
		typecode.StringV(format.ColumnNames(",")),
	}

	n, err := record.Encode(w.fmtFormat, w.fmtBuf[:], values)
	if err != nil {
		return fmt.Errorf("announcing format %q: %w", format.Type(), err)
	}

	if err := w.writeAll(w.fmtBuf[:n]); err != nil {
		return fmt.Errorf("announcing format %q: %w", format.Type(), err)
	}

	w.announced[format.ID()] = format

	return nil
}

// writeAll retries Stream.Write until p is fully written, tolerating legal
// underwrites. A zero-progress, no-error write is treated as a stuck
// Stream and reported as errs.ErrShortWrite rather than looping forever.
func (w *Writer) writeAll(p []byte) error {
	for len(p) > 0 {
		n, err := w.stream.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.ErrShortWrite
		}

		p = p[n:]
	}

	return nil
}
