// Package typecode implements the TypeCodec: the closed set of single-byte
// wire type codes used by the ArduPilot self-describing log format, their
// wire sizes, and the encode/decode rules for each.
//
// Multi-byte scalars are always little-endian; floats are encoded by
// reinterpreting their IEEE-754 bit pattern as an unsigned integer of
// matching width and storing that little-endian, mirroring the approach
// endian.EndianEngine already takes for raw numeric encoding elsewhere in
// this module.
package typecode

import (
	"fmt"
	"math"

	"github.com/ntamas-sdlog/sdlog/endian"
	"github.com/ntamas-sdlog/sdlog/errs"
)

// Code is one ASCII character drawn from the closed TypeCode set.
type Code byte

// The closed set of TypeCodes and their wire semantics.
const (
	Int8    Code = 'b' // signed 8-bit integer
	Uint8   Code = 'B' // unsigned 8-bit integer
	Mode    Code = 'M' // flight-mode enum, stored as unsigned 8-bit
	Int16   Code = 'h' // signed 16-bit integer, little-endian
	Uint16  Code = 'H' // unsigned 16-bit integer, little-endian
	Fixed16 Code = 'c' // signed 16-bit x 0.01
	UFixed16 Code = 'C' // unsigned 16-bit x 0.01
	Int32   Code = 'i' // signed 32-bit integer, little-endian
	Uint32  Code = 'I' // unsigned 32-bit integer, little-endian
	Fixed32 Code = 'e' // signed 32-bit x 0.01
	UFixed32 Code = 'E' // unsigned 32-bit x 0.01
	LatLon  Code = 'L' // signed 32-bit x 1e-7, geodetic coordinate
	Int64   Code = 'q' // signed 64-bit integer, little-endian
	Uint64  Code = 'Q' // unsigned 64-bit integer, little-endian
	Float32 Code = 'f' // IEEE-754 binary32, little-endian
	Float64 Code = 'd' // IEEE-754 binary64, little-endian
	Name4   Code = 'n' // zero-padded ASCII, truncated to 4 bytes
	Name16  Code = 'N' // zero-padded ASCII, truncated to 16 bytes
	Name64  Code = 'Z' // zero-padded ASCII, truncated to 64 bytes
	Array   Code = 'a' // array of 32 x int16; reserved, not implemented
)

// Fixed-point scale factors used by the c/C/e/E/L codes.
const (
	scale100   = 100.0
	scale1e7   = 1e7
)

// Size returns the wire size in bytes of code, or 0 if code is not a
// recognized TypeCode. ColumnFormat construction uses a 0 result to reject
// invalid columns (spec §4.1).
func Size(code Code) int {
	switch code {
	case Int8, Uint8, Mode:
		return 1
	case Int16, Uint16, Fixed16, UFixed16:
		return 2
	case Int32, Uint32, Fixed32, UFixed32, LatLon, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	case Name4:
		return 4
	case Name16:
		return 16
	case Name64:
		return 64
	case Array:
		return 64
	default:
		return 0
	}
}

// Kind identifies which union arm a Value holds.
type Kind uint8

const (
	KindInt Kind = iota
	KindUint
	KindFloat32
	KindFloat64
	KindString
)

// Value is the heterogeneous value sum type consumed by record.Encode, one
// per MessageFormat column, in column order. Widths narrower than the
// carried representation are narrowed on encode (e.g. Int64V(5) encoded
// against an Int8 column truncates to a single byte).
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f32  float32
	f64  float64
	s    string
}

// Int64V wraps a signed integer value.
func Int64V(v int64) Value { return Value{kind: KindInt, i: v} }

// Uint64V wraps an unsigned integer value.
func Uint64V(v uint64) Value { return Value{kind: KindUint, u: v} }

// Float32V wraps a single-precision float value.
func Float32V(v float32) Value { return Value{kind: KindFloat32, f32: v} }

// Float64V wraps a double-precision float value.
func Float64V(v float64) Value { return Value{kind: KindFloat64, f64: v} }

// StringV wraps a string value, used by the n/N/Z name codes.
func StringV(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports which union arm the value holds.
func (v Value) Kind() Kind { return v.kind }

// Int returns the value's signed integer representation, widening from
// whichever arm is actually held. Zero if Kind is KindString.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.i
	case KindUint:
		return int64(v.u)
	case KindFloat32:
		return int64(v.f32)
	case KindFloat64:
		return int64(v.f64)
	default:
		return 0
	}
}

// Uint returns the value's unsigned integer representation, widening from
// whichever arm is actually held. Zero if Kind is KindString.
func (v Value) Uint() uint64 {
	switch v.kind {
	case KindUint:
		return v.u
	case KindInt:
		return uint64(v.i)
	case KindFloat32:
		return uint64(v.f32)
	case KindFloat64:
		return uint64(v.f64)
	default:
		return 0
	}
}

// Float64 returns the value's double-precision representation, widening
// from whichever numeric arm is actually held. Zero if Kind is KindString.
func (v Value) Float64() float64 {
	switch v.kind {
	case KindFloat64:
		return v.f64
	case KindFloat32:
		return float64(v.f32)
	case KindInt:
		return float64(v.i)
	case KindUint:
		return float64(v.u)
	default:
		return 0
	}
}

// Float32 returns the value's single-precision representation. Zero if Kind
// is KindString.
func (v Value) Float32() float32 { return float32(v.Float64()) }

// String returns the value's string representation if Kind is KindString,
// else an empty string.
func (v Value) String() string {
	if v.kind != KindString {
		return ""
	}

	return v.s
}

var littleEndian = endian.GetLittleEndianEngine()

// Encode writes the wire representation of v for code into dst, which must
// be at least Size(code) bytes. It returns the number of bytes written.
//
// Encoding an Array code returns errs.ErrUnimplemented. Encoding any other
// unrecognized code returns errs.ErrInvalidType. A value whose Kind is
// incompatible with code returns errs.ErrValueKindMismatch.
func Encode(code Code, dst []byte, v Value) (int, error) {
	size := Size(code)
	if size == 0 {
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidType, code)
	}
	if code == Array {
		return 0, fmt.Errorf("%w: array type code 'a'", errs.ErrUnimplemented)
	}
	if len(dst) < size {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, size, len(dst))
	}

	switch code {
	case Int8:
		iv, err := asInt(v, code)
		if err != nil {
			return 0, err
		}
		dst[0] = byte(int8(iv))
	case Uint8, Mode:
		uv, err := asUint(v, code)
		if err != nil {
			return 0, err
		}
		dst[0] = byte(uint8(uv))
	case Int16:
		iv, err := asInt(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint16(dst, uint16(int16(iv)))
	case Uint16:
		uv, err := asUint(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint16(dst, uint16(uv))
	case Fixed16:
		fv, err := asFloat(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint16(dst, uint16(int16(math.Round(fv*scale100))))
	case UFixed16:
		fv, err := asFloat(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint16(dst, uint16(math.Round(fv*scale100)))
	case Int32:
		iv, err := asInt(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint32(dst, uint32(int32(iv)))
	case Uint32:
		uv, err := asUint(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint32(dst, uint32(uv))
	case Fixed32:
		fv, err := asFloat(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint32(dst, uint32(int32(math.Round(fv*scale100))))
	case UFixed32:
		fv, err := asFloat(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint32(dst, uint32(math.Round(fv*scale100)))
	case LatLon:
		fv, err := asFloat(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint32(dst, uint32(int32(math.Round(fv*scale1e7))))
	case Int64:
		iv, err := asInt(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint64(dst, uint64(iv))
	case Uint64:
		uv, err := asUint(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint64(dst, uv)
	case Float32:
		f32, err := asF32(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint32(dst, math.Float32bits(f32))
	case Float64:
		fv, err := asFloat(v, code)
		if err != nil {
			return 0, err
		}
		littleEndian.PutUint64(dst, math.Float64bits(fv))
	case Name4, Name16, Name64:
		sv, err := asString(v, code)
		if err != nil {
			return 0, err
		}
		encodeZeroPaddedString(dst, sv)
	default:
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidType, code)
	}

	return size, nil
}

// Decode reads the wire representation of code from src (which must be at
// least Size(code) bytes) and returns the decoded Value.
//
// Decoding an Array code returns errs.ErrUnimplemented.
func Decode(code Code, src []byte) (Value, error) {
	size := Size(code)
	if size == 0 {
		return Value{}, fmt.Errorf("%w: %q", errs.ErrInvalidType, code)
	}
	if code == Array {
		return Value{}, fmt.Errorf("%w: array type code 'a'", errs.ErrUnimplemented)
	}
	if len(src) < size {
		return Value{}, fmt.Errorf("%w: need %d bytes, have %d", errs.ErrBufferTooSmall, size, len(src))
	}

	switch code {
	case Int8:
		return Int64V(int64(int8(src[0]))), nil
	case Uint8, Mode:
		return Uint64V(uint64(src[0])), nil
	case Int16:
		return Int64V(int64(int16(littleEndian.Uint16(src)))), nil
	case Uint16:
		return Uint64V(uint64(littleEndian.Uint16(src))), nil
	case Fixed16:
		return Float64V(float64(int16(littleEndian.Uint16(src))) / scale100), nil
	case UFixed16:
		return Float64V(float64(littleEndian.Uint16(src)) / scale100), nil
	case Int32:
		return Int64V(int64(int32(littleEndian.Uint32(src)))), nil
	case Uint32:
		return Uint64V(uint64(littleEndian.Uint32(src))), nil
	case Fixed32:
		return Float64V(float64(int32(littleEndian.Uint32(src))) / scale100), nil
	case UFixed32:
		return Float64V(float64(littleEndian.Uint32(src)) / scale100), nil
	case LatLon:
		return Float64V(float64(int32(littleEndian.Uint32(src))) / scale1e7), nil
	case Int64:
		return Int64V(int64(littleEndian.Uint64(src))), nil
	case Uint64:
		return Uint64V(littleEndian.Uint64(src)), nil
	case Float32:
		return Float32V(math.Float32frombits(littleEndian.Uint32(src))), nil
	case Float64:
		return Float64V(math.Float64frombits(littleEndian.Uint64(src))), nil
	case Name4, Name16, Name64:
		return StringV(decodeZeroPaddedString(src[:size])), nil
	default:
		return Value{}, fmt.Errorf("%w: %q", errs.ErrInvalidType, code)
	}
}

// encodeZeroPaddedString zero-fills dst then copies s into it, truncating at
// len(dst). No terminator is written if s fills the field exactly.
func encodeZeroPaddedString(dst []byte, s string) {
	clear(dst)
	copy(dst, s)
}

// decodeZeroPaddedString trims trailing zero bytes from a fixed-width field.
func decodeZeroPaddedString(src []byte) string {
	end := len(src)
	for end > 0 && src[end-1] == 0 {
		end--
	}

	return string(src[:end])
}

func asInt(v Value, code Code) (int64, error) {
	switch v.kind {
	case KindInt:
		return v.i, nil
	case KindUint:
		return int64(v.u), nil
	default:
		return 0, fmt.Errorf("%w: column type %q needs an integer value", errs.ErrValueKindMismatch, code)
	}
}

func asUint(v Value, code Code) (uint64, error) {
	switch v.kind {
	case KindUint:
		return v.u, nil
	case KindInt:
		return uint64(v.i), nil
	default:
		return 0, fmt.Errorf("%w: column type %q needs an integer value", errs.ErrValueKindMismatch, code)
	}
}

func asFloat(v Value, code Code) (float64, error) {
	switch v.kind {
	case KindFloat64:
		return v.f64, nil
	case KindFloat32:
		return float64(v.f32), nil
	case KindInt:
		return float64(v.i), nil
	case KindUint:
		return float64(v.u), nil
	default:
		return 0, fmt.Errorf("%w: column type %q needs a numeric value", errs.ErrValueKindMismatch, code)
	}
}

func asF32(v Value, code Code) (float32, error) {
	switch v.kind {
	case KindFloat32:
		return v.f32, nil
	case KindFloat64:
		return float32(v.f64), nil
	default:
		return 0, fmt.Errorf("%w: column type %q needs a float value", errs.ErrValueKindMismatch, code)
	}
}

func asString(v Value, code Code) (string, error) {
	if v.kind != KindString {
		return "", fmt.Errorf("%w: column type %q needs a string value", errs.ErrValueKindMismatch, code)
	}

	return v.s, nil
}
