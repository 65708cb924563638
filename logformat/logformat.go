// Package logformat implements ColumnFormat and MessageFormat: the
// self-describing schema model for one sdlog record type (spec §3, §4.2,
// §4.3). A MessageFormat is built once by the caller, handed to writer.Writer
// for the life of a session, and never mutated concurrently with a write.
package logformat

import (
	"fmt"
	"strings"

	"github.com/ntamas-sdlog/sdlog/errs"
	"github.com/ntamas-sdlog/sdlog/typecode"
)

// MaxTypeNameLen is the maximum length, in ASCII bytes, of a MessageFormat
// type name before zero-padding to its fixed 4-byte wire field.
const MaxTypeNameLen = 4

// MaxColumns is the hard ceiling on the number of columns a MessageFormat
// may hold, so that the column count always fits in a uint8.
const MaxColumns = 255

// MaxRecordSize is the largest total record size (3-byte header + payload)
// a MessageFormat may describe, matching the writer's fixed scratch buffer
// (record.MaxMessageLength). The TODO in the source format ("do not allow
// total size of message format to grow beyond 256") is enforced here rather
// than left as dead comment, per spec §9's resolution of that open question.
const MaxRecordSize = 256

const initialColumnCapacity = 4

// noUnit is the sentinel byte meaning "no unit" for a column (spec §3).
const noUnit byte = '-'

// ColumnFormat is one named, typed, unit-tagged field within a MessageFormat.
type ColumnFormat struct {
	Name string
	Type typecode.Code
	Unit byte
}

// NewColumnFormat validates typeCode against the TypeCodec table and
// returns a ColumnFormat. unit == 0 is normalized to noUnit ('-').
func NewColumnFormat(name string, typeCode typecode.Code, unit byte) (ColumnFormat, error) {
	if typecode.Size(typeCode) == 0 {
		return ColumnFormat{}, fmt.Errorf("%w: column %q has type %q", errs.ErrInvalidType, name, typeCode)
	}
	if unit == 0 {
		unit = noUnit
	}

	return ColumnFormat{Name: name, Type: typeCode, Unit: unit}, nil
}

// Size returns the column's wire size in bytes.
func (c ColumnFormat) Size() int {
	return typecode.Size(c.Type)
}

// MessageFormat is an ordered list of columns identified by a numeric ID
// (1..255) and a <=4-char type name.
type MessageFormat struct {
	id      uint8
	typ     string
	columns []ColumnFormat
}

// NewMessageFormat constructs a MessageFormat with no columns. typeName must
// be at most MaxTypeNameLen ASCII bytes.
func NewMessageFormat(id uint8, typeName string) (*MessageFormat, error) {
	if len(typeName) > MaxTypeNameLen {
		return nil, fmt.Errorf("%w: %q is %d bytes", errs.ErrTypeNameTooLong, typeName, len(typeName))
	}

	return &MessageFormat{
		id:      id,
		typ:     typeName,
		columns: make([]ColumnFormat, 0, initialColumnCapacity),
	}, nil
}

// ID returns the message type ID.
func (m *MessageFormat) ID() uint8 { return m.id }

// Type returns the (unpadded) type name.
func (m *MessageFormat) Type() string { return m.typ }

// ColumnCount returns the number of columns currently defined.
func (m *MessageFormat) ColumnCount() int { return len(m.columns) }

// Column returns the column at index i, or false if i is out of range.
func (m *MessageFormat) Column(i int) (ColumnFormat, bool) {
	if i < 0 || i >= len(m.columns) {
		return ColumnFormat{}, false
	}

	return m.columns[i], true
}

// Columns returns a copy of the column slice, safe for the caller to range
// over without aliasing MessageFormat's internal storage.
func (m *MessageFormat) Columns() []ColumnFormat {
	out := make([]ColumnFormat, len(m.columns))
	copy(out, m.columns)

	return out
}

// Size returns the total encoded payload size: the sum of every column's
// wire size.
func (m *MessageFormat) Size() uint16 {
	var total int
	for _, c := range m.columns {
		total += c.Size()
	}

	return uint16(total) //nolint:gosec // bounded by MaxRecordSize enforcement in AddColumn
}

// FormatString returns a freshly built string whose characters are the
// column type codes, in order.
func (m *MessageFormat) FormatString() string {
	var sb strings.Builder
	sb.Grow(len(m.columns))
	for _, c := range m.columns {
		sb.WriteByte(byte(c.Type))
	}

	return sb.String()
}

// ColumnNames returns a freshly built string of column names joined by sep.
func (m *MessageFormat) ColumnNames(sep string) string {
	names := make([]string, len(m.columns))
	for i, c := range m.columns {
		names[i] = c.Name
	}

	return strings.Join(names, sep)
}

// AddColumn appends one column to the format.
//
// Returns errs.ErrInvalidType for an unrecognized type code,
// errs.ErrColumnLimit / errs.ErrCapacityLimit at the 255-column ceiling, and
// errs.ErrFormatTooLarge if the new total record size (3 + Size()) would
// exceed MaxRecordSize.
func (m *MessageFormat) AddColumn(name string, typeCode typecode.Code, unit byte) error {
	col, err := NewColumnFormat(name, typeCode, unit)
	if err != nil {
		return err
	}

	if len(m.columns) >= MaxColumns {
		return fmt.Errorf("%w: message %q already has %d columns", errs.ErrColumnLimit, m.typ, len(m.columns))
	}

	if cap(m.columns) == MaxColumns && len(m.columns) == cap(m.columns) {
		return fmt.Errorf("%w: message %q column capacity exhausted", errs.ErrCapacityLimit, m.typ)
	}

	newSize := int(m.Size()) + col.Size()
	if newSize+3 > MaxRecordSize {
		return fmt.Errorf("%w: message %q would be %d bytes", errs.ErrFormatTooLarge, m.typ, newSize+3)
	}

	if len(m.columns) == cap(m.columns) {
		m.growCapacity()
	}

	m.columns = append(m.columns, col)

	return nil
}

// growCapacity grows the backing column slice using the capacity schedule
// described by spec §4.3: doubling while under 32, then +16 steps, capped
// at MaxColumns. It is a deliberate, observable growth function rather than
// relying on Go's append() default growth heuristic, since the schedule is
// part of the documented contract.
func (m *MessageFormat) growCapacity() {
	cur := cap(m.columns)
	var next int
	switch {
	case cur == 0:
		next = initialColumnCapacity
	case cur < 32:
		next = cur * 2
		if next > 32 {
			next = 32
		}
	default:
		next = cur + 16
	}
	if next > MaxColumns {
		next = MaxColumns
	}

	grown := make([]ColumnFormat, len(m.columns), next)
	copy(grown, m.columns)
	m.columns = grown
}

// AddColumns is the batch form of AddColumn.
//
// names is a comma-separated list of column names; types is a character
// sequence whose length determines the column count; units is a character
// sequence aligned to types (columns beyond len(units) receive noUnit).
// Once names is exhausted, the final name absorbs the remainder (the
// "reached-end-of-names latch" from spec §4.3).
//
// AddColumns is explicitly NOT transactional: columns added before a
// failing one remain on the MessageFormat. Callers wanting all-or-nothing
// semantics must build a new MessageFormat and discard it on error.
func (m *MessageFormat) AddColumns(names string, types string, units string) error {
	nameParts := strings.Split(names, ",")

	for i, t := range types {
		var name string
		switch {
		case i < len(nameParts)-1:
			name = nameParts[i]
		case len(nameParts) > 0:
			// reached-end-of-names latch: the final name part absorbs the
			// remainder of the type sequence.
			name = nameParts[len(nameParts)-1]
		}

		unit := byte(noUnit)
		if i < len(units) {
			unit = units[i]
		}

		if err := m.AddColumn(name, typecode.Code(t), unit); err != nil {
			return err
		}
	}

	return nil
}
