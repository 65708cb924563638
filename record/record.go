package record

import (
	"fmt"

	"github.com/ntamas-sdlog/sdlog/errs"
	"github.com/ntamas-sdlog/sdlog/logformat"
	"github.com/ntamas-sdlog/sdlog/typecode"
)

// MaxMessageLength is the largest byte size a single encoded record may
// occupy, matching logformat.MaxRecordSize. Every Writer scratch buffer is
// sized to this constant.
const MaxMessageLength = logformat.MaxRecordSize

// SyncByte1 and SyncByte2 are the two-byte sync header that begins every
// record, together forming the little-endian uint16 0x95A3.
const (
	SyncByte1 byte = 0xA3
	SyncByte2 byte = 0x95
)

// Encode writes one framed record for format into dst:
//
//	0xA3 0x95 <id> <column_0> <column_1> ... <column_n-1>
//
// Values are consumed positionally, one per column, in the order the
// columns were added to format. It returns the number of bytes written,
// which equals 3 + format.Size() on success.
//
// dst must have length (not just capacity) of at least 3 + format.Size();
// Encode never allocates and never grows dst. Mismatched value count
// returns errs.ErrValueCountMismatch; a value incompatible with its
// column's type returns errs.ErrValueKindMismatch (propagated from
// typecode.Encode); encoding a column of the reserved array type returns
// errs.ErrUnimplemented.
func Encode(format *logformat.MessageFormat, dst []byte, values []typecode.Value) (int, error) {
	columnCount := format.ColumnCount()
	if len(values) != columnCount {
		return 0, fmt.Errorf("%w: format %q has %d columns, got %d values",
			errs.ErrValueCountMismatch, format.Type(), columnCount, len(values))
	}

	total := 3 + int(format.Size())
	if len(dst) < total {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, total, len(dst))
	}

	dst[0] = SyncByte1
	dst[1] = SyncByte2
	dst[2] = format.ID()

	offset := 3
	for i := 0; i < columnCount; i++ {
		col, _ := format.Column(i)
		n, err := typecode.Encode(col.Type, dst[offset:], values[i])
		if err != nil {
			return 0, fmt.Errorf("column %d (%s): %w", i, col.Name, err)
		}
		offset += n
	}

	return offset, nil
}
