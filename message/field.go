// Package message implements the Fudge Message Model: an ordered multimap
// of Field values with typed accessors, taxonomy-driven name resolution,
// and both mutable and immutable variants, plus the lazy Encoded Message
// that materializes fields on demand from a stream.Reader.
package message

import (
	"encoding/binary"
	"math"

	"github.com/fudgemsg/fudge-go/errs"
	"github.com/fudgemsg/fudge-go/wire"
)

// Field is one entry in a Message: an optional name, an optional ordinal,
// a wire type, and a decoded Go value. Exactly one of name/ordinal may be
// absent, but never both name and ordinal at once in typical use, though
// the wire format permits a field to carry neither (positional list/set
// elements).
//
// The decoded value's Go type depends on WireType:
//
//	Indicator              -> nil
//	Boolean                -> bool
//	Byte                   -> int8
//	Short                   -> int16
//	Int                     -> int32
//	Long                    -> int64
//	Float                   -> float32
//	Double                  -> float64
//	String                  -> string
//	ByteArray / fixed-width -> []byte
//	ShortArray/IntArray/... -> []int16 / []int32 / []int64 / []float32 / []float64
//	Date / Time / DateTime  -> wire.Date / wire.Time / wire.DateTime
//	SubMessage              -> *Message (*EncodedMessage in a lazy EncodedMessage)
//	unregistered (user) ids -> wire.UnknownValue
type Field struct {
	name       string
	hasName    bool
	ordinal    int16
	hasOrdinal bool
	wireType   wire.Type
	value      any
}

// FieldName implements wire.FieldSizer.
func (f Field) FieldName() (string, bool) { return f.name, f.hasName }

// FieldOrdinal implements wire.FieldSizer.
func (f Field) FieldOrdinal() (int16, bool) { return f.ordinal, f.hasOrdinal }

// FieldWireType implements wire.FieldSizer.
func (f Field) FieldWireType() wire.Type { return f.wireType }

// FieldPayloadLen implements wire.FieldSizer.
func (f Field) FieldPayloadLen() int { return len(f.Payload()) }

// Name returns the field's name and whether it has one.
func (f Field) Name() (string, bool) { return f.name, f.hasName }

// Ordinal returns the field's ordinal and whether it has one.
func (f Field) Ordinal() (int16, bool) { return f.ordinal, f.hasOrdinal }

// WireType returns the field's wire type id.
func (f Field) WireType() wire.Type { return f.wireType }

// Value returns the field's decoded Go value, per the type table on Field.
func (f Field) Value() any { return f.value }

// Named returns a copy of f with name set and ordinal cleared.
func (f Field) Named(name string) Field {
	f.name, f.hasName = name, true
	f.ordinal, f.hasOrdinal = 0, false
	return f
}

// WithOrdinal returns a copy of f with ordinal set, keeping any name.
func (f Field) WithOrdinal(ordinal int16) Field {
	f.ordinal, f.hasOrdinal = ordinal, true
	return f
}

// WithName returns a copy of f with name set, keeping any ordinal.
func (f Field) WithName(name string) Field {
	f.name, f.hasName = name, true
	return f
}

// clearName returns a copy of f with the name removed. Used when a
// taxonomy resolves name -> ordinal and the caller chooses substitution.
func (f Field) clearName() Field {
	f.name, f.hasName = "", false
	return f
}

// replaceValue returns a copy of f with its decoded value swapped for v,
// keeping name/ordinal/wireType. Used when Materialize collapses a nested
// *EncodedMessage into a plain *Message.
func (f Field) replaceValue(v any) Field {
	f.value = v
	return f
}

func newField(t wire.Type, v any) Field {
	return Field{wireType: t, value: v}
}

// NewIndicator creates an INDICATOR field: a marker with no payload, used
// for a null collection element.
func NewIndicator() Field { return newField(wire.TypeIndicator, nil) }

// NewBool creates a BOOLEAN field.
func NewBool(v bool) Field { return newField(wire.TypeBoolean, v) }

// NewByte creates a BYTE field.
func NewByte(v int8) Field { return newField(wire.TypeByte, v) }

// NewShort creates a SHORT field.
func NewShort(v int16) Field { return newField(wire.TypeShort, v) }

// NewInt creates an INT field.
func NewInt(v int32) Field { return newField(wire.TypeInt, v) }

// NewLong creates a LONG field.
func NewLong(v int64) Field { return newField(wire.TypeLong, v) }

// NewReducedInt creates an integer field using the narrowest standard
// integer wire type that contains v (BYTE, SHORT, INT or LONG), per the
// field reducer rule.
func NewReducedInt(v int64) Field {
	t := wire.ReduceInt(v)
	switch t {
	case wire.TypeByte:
		return NewByte(int8(v))
	case wire.TypeShort:
		return NewShort(int16(v))
	case wire.TypeInt:
		return NewInt(int32(v))
	default:
		return NewLong(v)
	}
}

// NewFloat creates a FLOAT field.
func NewFloat(v float32) Field { return newField(wire.TypeFloat, v) }

// NewDouble creates a DOUBLE field.
func NewDouble(v float64) Field { return newField(wire.TypeDouble, v) }

// NewString creates a STRING field.
func NewString(v string) Field { return newField(wire.TypeString, v) }

// NewByteArray creates a byte-array field, narrowed to the matching
// fixed-length wire type (TypeByteArray4 .. TypeByteArray512) when len(v)
// exactly matches one, else the variable-size BYTE_ARRAY type.
func NewByteArray(v []byte) Field {
	return newField(wire.ReduceByteArray(len(v)), append([]byte(nil), v...))
}

// NewShortArray creates a SHORT_ARRAY field.
func NewShortArray(v []int16) Field { return newField(wire.TypeShortArray, append([]int16(nil), v...)) }

// NewIntArray creates an INT_ARRAY field.
func NewIntArray(v []int32) Field { return newField(wire.TypeIntArray, append([]int32(nil), v...)) }

// NewLongArray creates a LONG_ARRAY field.
func NewLongArray(v []int64) Field { return newField(wire.TypeLongArray, append([]int64(nil), v...)) }

// NewFloatArray creates a FLOAT_ARRAY field.
func NewFloatArray(v []float32) Field {
	return newField(wire.TypeFloatArray, append([]float32(nil), v...))
}

// NewDoubleArray creates a DOUBLE_ARRAY field.
func NewDoubleArray(v []float64) Field {
	return newField(wire.TypeDoubleArray, append([]float64(nil), v...))
}

// NewDate creates a DATE field.
func NewDate(v wire.Date) Field { return newField(wire.TypeDate, v) }

// NewTime creates a TIME field.
func NewTime(v wire.Time) Field { return newField(wire.TypeTime, v) }

// NewDateTime creates a DATETIME field.
func NewDateTime(v wire.DateTime) Field { return newField(wire.TypeDateTime, v) }

// NewSubMessage creates a SUB_MESSAGE field wrapping m.
func NewSubMessage(m *Message) Field { return newField(wire.TypeSubMessage, m) }

// NewUnknown creates a field carrying an opaque payload under a wire type
// id this process has no registration for, preserving it for round-trip
// without interpreting it.
func NewUnknown(typeID wire.Type, payload []byte) Field {
	return newField(typeID, wire.UnknownValue{TypeID: typeID, Bytes: append([]byte(nil), payload...)})
}

// Payload encodes the field's value into its big-endian wire payload
// bytes, per the type table on Field. It does not include the prefix
// byte, type id, ordinal, name or length-class bytes.
//
// A DATETIME value is checked against its accuracy-consistency invariant
// (§4.11, wire.DateTime.Validate) before packing; a field built with an
// inconsistent accuracy/seconds/nanos combination panics here rather than
// silently encoding bytes that would fail to round-trip.
func (f Field) Payload() []byte {
	switch v := f.value.(type) {
	case nil:
		return nil
	case bool:
		if v {
			return []byte{1}
		}
		return []byte{0}
	case int8:
		return []byte{byte(v)}
	case int16:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(v))
		return b[:]
	case int32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v))
		return b[:]
	case int64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v))
		return b[:]
	case float32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
		return b[:]
	case float64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
		return b[:]
	case string:
		return []byte(v)
	case []byte:
		return v
	case []int16:
		b := make([]byte, 2*len(v))
		for i, e := range v {
			binary.BigEndian.PutUint16(b[i*2:], uint16(e))
		}
		return b
	case []int32:
		b := make([]byte, 4*len(v))
		for i, e := range v {
			binary.BigEndian.PutUint32(b[i*4:], uint32(e))
		}
		return b
	case []int64:
		b := make([]byte, 8*len(v))
		for i, e := range v {
			binary.BigEndian.PutUint64(b[i*8:], uint64(e))
		}
		return b
	case []float32:
		b := make([]byte, 4*len(v))
		for i, e := range v {
			binary.BigEndian.PutUint32(b[i*4:], math.Float32bits(e))
		}
		return b
	case []float64:
		b := make([]byte, 8*len(v))
		for i, e := range v {
			binary.BigEndian.PutUint64(b[i*8:], math.Float64bits(e))
		}
		return b
	case wire.Date:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v.Pack()))
		return b[:]
	case wire.Time:
		b := v.Pack()
		return b[:]
	case wire.DateTime:
		if err := v.Validate(); err != nil {
			panic("message: invalid DateTime field: " + err.Error())
		}
		b := v.Pack()
		return b[:]
	case *Message:
		return v.encodeFields()
	case *EncodedMessage:
		m, err := v.Materialize()
		if err != nil {
			panic("message: failed to materialize lazy sub-message for encoding: " + err.Error())
		}
		return m.encodeFields()
	case wire.UnknownValue:
		return v.Bytes
	default:
		panic("message: field holds an unrecognized value type")
	}
}

// decodeValue builds the decoded Go value for a field given its wire type
// and raw payload bytes, the inverse of Payload. payload must already be
// exactly the value's bytes (no prefix/header bytes).
func decodeValue(t wire.Type, payload []byte) (any, error) {
	switch t {
	case wire.TypeIndicator:
		return nil, nil
	case wire.TypeBoolean:
		if len(payload) != 1 {
			return nil, errs.ErrTruncated
		}
		return payload[0] != 0, nil
	case wire.TypeByte:
		if len(payload) != 1 {
			return nil, errs.ErrTruncated
		}
		return int8(payload[0]), nil
	case wire.TypeShort:
		if len(payload) != 2 {
			return nil, errs.ErrTruncated
		}
		return int16(binary.BigEndian.Uint16(payload)), nil
	case wire.TypeInt:
		if len(payload) != 4 {
			return nil, errs.ErrTruncated
		}
		return int32(binary.BigEndian.Uint32(payload)), nil
	case wire.TypeLong:
		if len(payload) != 8 {
			return nil, errs.ErrTruncated
		}
		return int64(binary.BigEndian.Uint64(payload)), nil
	case wire.TypeFloat:
		if len(payload) != 4 {
			return nil, errs.ErrTruncated
		}
		return math.Float32frombits(binary.BigEndian.Uint32(payload)), nil
	case wire.TypeDouble:
		if len(payload) != 8 {
			return nil, errs.ErrTruncated
		}
		return math.Float64frombits(binary.BigEndian.Uint64(payload)), nil
	case wire.TypeString:
		return string(payload), nil
	case wire.TypeByteArray:
		return append([]byte(nil), payload...), nil
	case wire.TypeShortArray:
		return decodeShortArray(payload)
	case wire.TypeIntArray:
		return decodeIntArray(payload)
	case wire.TypeLongArray:
		return decodeLongArray(payload)
	case wire.TypeFloatArray:
		return decodeFloatArray(payload)
	case wire.TypeDoubleArray:
		return decodeDoubleArray(payload)
	case wire.TypeDate:
		if len(payload) != 4 {
			return nil, errs.ErrTruncated
		}
		return wire.ParseDate(int32(binary.BigEndian.Uint32(payload))), nil
	case wire.TypeTime:
		if len(payload) != 8 {
			return nil, errs.ErrTruncated
		}
		var b [8]byte
		copy(b[:], payload)
		return wire.ParseTime(b), nil
	case wire.TypeDateTime:
		if len(payload) != 12 {
			return nil, errs.ErrTruncated
		}
		var b [12]byte
		copy(b[:], payload)
		return wire.ParseDateTime(b), nil
	default:
		if n, ok := t.FixedByteArrayLength(); ok {
			if len(payload) != n {
				return nil, errs.ErrTruncated
			}
			return append([]byte(nil), payload...), nil
		}
		if t == wire.TypeSubMessage {
			// Sub-messages are materialized by the caller (Reader state
			// machine), never decoded from a flat payload slice.
			return nil, errs.ErrUnregisteredType
		}

		return wire.UnknownValue{TypeID: t, Bytes: append([]byte(nil), payload...)}, nil
	}
}

func decodeShortArray(payload []byte) (any, error) {
	if len(payload)%2 != 0 {
		return nil, errs.ErrTruncated
	}
	out := make([]int16, len(payload)/2)
	for i := range out {
		out[i] = int16(binary.BigEndian.Uint16(payload[i*2:]))
	}
	return out, nil
}

func decodeIntArray(payload []byte) (any, error) {
	if len(payload)%4 != 0 {
		return nil, errs.ErrTruncated
	}
	out := make([]int32, len(payload)/4)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(payload[i*4:]))
	}
	return out, nil
}

func decodeLongArray(payload []byte) (any, error) {
	if len(payload)%8 != 0 {
		return nil, errs.ErrTruncated
	}
	out := make([]int64, len(payload)/8)
	for i := range out {
		out[i] = int64(binary.BigEndian.Uint64(payload[i*8:]))
	}
	return out, nil
}

func decodeFloatArray(payload []byte) (any, error) {
	if len(payload)%4 != 0 {
		return nil, errs.ErrTruncated
	}
	out := make([]float32, len(payload)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.BigEndian.Uint32(payload[i*4:]))
	}
	return out, nil
}

func decodeDoubleArray(payload []byte) (any, error) {
	if len(payload)%8 != 0 {
		return nil, errs.ErrTruncated
	}
	out := make([]float64, len(payload)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.BigEndian.Uint64(payload[i*8:]))
	}
	return out, nil
}
