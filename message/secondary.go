package message

import (
	"github.com/fudgemsg/fudge-go/dispatch"
)

// NewSecondary builds a Field for an application value whose Go type is
// registered in reg as a secondary type (spec.md §4.10): the value is
// down-converted to its primary wire representation via reg before a
// standard Field constructor builds the wire payload. If v's Go type is
// not registered, NewSecondary falls back to the primary-type
// constructors directly, covering the common case where every value
// passed through reg is already a primary type.
func NewSecondary(reg *dispatch.Registry, v any) (Field, bool, error) {
	primary, _, ok, err := reg.ToPrimary(v)
	if err != nil {
		return Field{}, false, err
	}
	if !ok {
		f, ok := fieldFromPrimary(v)
		return f, ok, nil
	}

	f, ok := fieldFromPrimary(primary)
	return f, ok, nil
}

// fieldFromPrimary builds a Field from a Go value already in one of the
// primary wire representations (the types listed on Field's doc comment).
func fieldFromPrimary(v any) (Field, bool) {
	switch p := v.(type) {
	case bool:
		return NewBool(p), true
	case int8:
		return NewByte(p), true
	case int16:
		return NewShort(p), true
	case int32:
		return NewInt(p), true
	case int64:
		return NewLong(p), true
	case float32:
		return NewFloat(p), true
	case float64:
		return NewDouble(p), true
	case string:
		return NewString(p), true
	case []byte:
		return NewByteArray(p), true
	default:
		return Field{}, false
	}
}

// GetSecondary decodes the first field named n back into the Go type
// registered for sample's type in reg, via reg.FromPrimary. The field's
// primary wire value is passed through unchanged if no secondary type is
// registered for sample's type.
func (m *Message) GetSecondary(reg *dispatch.Registry, n string, sample any) (any, bool) {
	f, ok := m.ByName(n)
	if !ok {
		return nil, false
	}

	v, err := reg.FromPrimary(sample, f.value)
	if err != nil {
		return nil, false
	}

	return v, true
}
