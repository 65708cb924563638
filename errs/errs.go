// Package errs defines the sentinel errors and stable error-code enumeration
// shared by every sdlog package. Fallible operations wrap one of these
// sentinels with fmt.Errorf("%w: ...", errs.ErrXxx, ...) so callers can use
// errors.Is to classify a failure without parsing a message string.
package errs

import "errors"

// Code is the stable, numerically ordered error-code enumeration used by
// Code.String(). The ordering matches the source format's error table and
// must not be reordered, since some callers persist the numeric value.
type Code uint8

const (
	CodeSuccess Code = iota
	CodeFailure
	CodeNoMemory
	CodeInvalidArgument
	CodeLimitExceeded
	CodeReadError
	CodeWriteError
	CodeIOError
	CodeUnimplemented
	CodeEOF
)

// String returns the human-readable name of the error code, falling back to
// "FAILURE" for any value outside the known range.
func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "SUCCESS"
	case CodeFailure:
		return "FAILURE"
	case CodeNoMemory:
		return "ENOMEM"
	case CodeInvalidArgument:
		return "EINVAL"
	case CodeLimitExceeded:
		return "ELIMIT"
	case CodeReadError:
		return "EREAD"
	case CodeWriteError:
		return "EWRITE"
	case CodeIOError:
		return "EIO"
	case CodeUnimplemented:
		return "UNIMPLEMENTED"
	case CodeEOF:
		return "EOF"
	default:
		return "FAILURE"
	}
}

// Sentinel errors. Wrap with fmt.Errorf("%w: detail", ErrXxx) at the call
// site to attach context; never swallow and replace with a new error.
var (
	// ErrInvalidType is returned when a TypeCode byte is outside the closed
	// set the codec understands.
	ErrInvalidType = errors.New("sdlog: invalid type code")

	// ErrUnimplemented is returned when encoding/decoding a TypeCode that is
	// reserved but has no encoding defined (the 'a' array type).
	ErrUnimplemented = errors.New("sdlog: type code not implemented")

	// ErrTypeNameTooLong is returned when a MessageFormat type name exceeds
	// 4 ASCII bytes.
	ErrTypeNameTooLong = errors.New("sdlog: message type name longer than 4 bytes")

	// ErrColumnLimit is returned when a MessageFormat column count would
	// exceed 255.
	ErrColumnLimit = errors.New("sdlog: column count exceeds 255")

	// ErrCapacityLimit is returned when a MessageFormat's column capacity
	// would overflow the uint8 growth ceiling.
	ErrCapacityLimit = errors.New("sdlog: column capacity exceeds 255")

	// ErrFormatTooLarge is returned when a MessageFormat's total encoded
	// size would push a future record above the 256-byte scratch buffer.
	ErrFormatTooLarge = errors.New("sdlog: message format size exceeds 256 bytes including header")

	// ErrBufferTooSmall is returned when a destination buffer passed to
	// record.Encode cannot hold the framed record.
	ErrBufferTooSmall = errors.New("sdlog: destination buffer too small for record")

	// ErrValueKindMismatch is returned when a value popped from the caller's
	// value list does not match the column's declared TypeCode kind.
	ErrValueKindMismatch = errors.New("sdlog: value kind does not match column type")

	// ErrValueCountMismatch is returned when the caller supplies a different
	// number of values than the format has columns.
	ErrValueCountMismatch = errors.New("sdlog: value count does not match column count")

	// ErrNoSession is returned by Writer.Write and Writer.WriteEncoded once
	// End has terminated the session.
	ErrNoSession = errors.New("sdlog: writer has no open session")

	// ErrClosed is returned when a Writer is used after Close.
	ErrClosed = errors.New("sdlog: writer or stream already closed")

	// ErrShortWrite is returned when a Stream's write loop cannot make any
	// forward progress (zero bytes written, no error) and would otherwise
	// spin forever.
	ErrShortWrite = errors.New("sdlog: stream write made no progress")

	// ErrUnknownColumn names the out-of-range column index case.
	// MessageFormat.Column reports that case with a false bool and does not
	// return this error; it is listed here for completeness of the table in §7.
	ErrUnknownColumn = errors.New("sdlog: column index out of range")
)
