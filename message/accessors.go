package message

import "github.com/fudgemsg/fudge-go/wire"

// asInt64 widens any standard integer-typed field value to int64, for the
// Type Dictionary's numeric conversion fallback used by the typed
// accessors below.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}

// asFloat64 widens a FLOAT or DOUBLE field value to float64.
func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// GetBool returns the first BOOLEAN field named n.
func (m *Message) GetBool(n string) (bool, bool) {
	f, ok := m.ByName(n)
	if !ok || f.wireType != wire.TypeBoolean {
		return false, false
	}

	return f.value.(bool), true
}

// GetByte returns the first field named n whose value is a BYTE, or,
// failing that, any integer-typed field named n that fits in int8.
func (m *Message) GetByte(n string) (int8, bool) {
	f, ok := m.ByName(n)
	if !ok {
		return 0, false
	}
	if f.wireType == wire.TypeByte {
		return f.value.(int8), true
	}

	v, ok := asInt64(f.value)
	if !ok || v < -128 || v > 127 {
		return 0, false
	}

	return int8(v), true
}

// GetShort returns the first field named n whose value is a SHORT, or,
// failing that, any narrower/wider integer-typed field named n that fits
// in int16.
func (m *Message) GetShort(n string) (int16, bool) {
	f, ok := m.ByName(n)
	if !ok {
		return 0, false
	}
	if f.wireType == wire.TypeShort {
		return f.value.(int16), true
	}

	v, ok := asInt64(f.value)
	if !ok || v < -32768 || v > 32767 {
		return 0, false
	}

	return int16(v), true
}

// GetInt returns the first field named n whose value is an INT, or,
// failing that, any other integer-typed field named n that fits in int32.
func (m *Message) GetInt(n string) (int32, bool) {
	f, ok := m.ByName(n)
	if !ok {
		return 0, false
	}
	if f.wireType == wire.TypeInt {
		return f.value.(int32), true
	}

	v, ok := asInt64(f.value)
	if !ok || v < -2147483648 || v > 2147483647 {
		return 0, false
	}

	return int32(v), true
}

// GetLong returns the first field named n whose value is any standard
// integer wire type, widened to int64.
func (m *Message) GetLong(n string) (int64, bool) {
	f, ok := m.ByName(n)
	if !ok {
		return 0, false
	}

	return asInt64(f.value)
}

// GetFloat returns the first field named n whose value is a FLOAT, or a
// DOUBLE field named n narrowed to float32.
func (m *Message) GetFloat(n string) (float32, bool) {
	f, ok := m.ByName(n)
	if !ok {
		return 0, false
	}
	if f.wireType == wire.TypeFloat {
		return f.value.(float32), true
	}
	if v, ok := asFloat64(f.value); ok {
		return float32(v), true
	}

	return 0, false
}

// GetDouble returns the first field named n whose value is a FLOAT or
// DOUBLE, widened to float64.
func (m *Message) GetDouble(n string) (float64, bool) {
	f, ok := m.ByName(n)
	if !ok {
		return 0, false
	}

	return asFloat64(f.value)
}

// GetString returns the first STRING field named n.
func (m *Message) GetString(n string) (string, bool) {
	f, ok := m.ByName(n)
	if !ok || f.wireType != wire.TypeString {
		return "", false
	}

	return f.value.(string), true
}

// GetByteArray returns the first field named n whose value is a byte
// array, fixed-length or variable.
func (m *Message) GetByteArray(n string) ([]byte, bool) {
	f, ok := m.ByName(n)
	if !ok {
		return nil, false
	}

	b, ok := f.value.([]byte)
	return b, ok
}

// GetSubMessage returns the first SUB_MESSAGE field named n, forcing a
// lazy nested EncodedMessage to fully materialize if necessary.
func (m *Message) GetSubMessage(n string) (*Message, bool) {
	f, ok := m.ByName(n)
	if !ok || f.wireType != wire.TypeSubMessage {
		return nil, false
	}

	switch v := f.value.(type) {
	case *Message:
		return v, true
	case *EncodedMessage:
		sub, err := v.Materialize()
		return sub, err == nil
	default:
		return nil, false
	}
}

// GetDate returns the first DATE field named n.
func (m *Message) GetDate(n string) (wire.Date, bool) {
	f, ok := m.ByName(n)
	if !ok || f.wireType != wire.TypeDate {
		return wire.Date{}, false
	}

	return f.value.(wire.Date), true
}

// GetTime returns the first TIME field named n.
func (m *Message) GetTime(n string) (wire.Time, bool) {
	f, ok := m.ByName(n)
	if !ok || f.wireType != wire.TypeTime {
		return wire.Time{}, false
	}

	return f.value.(wire.Time), true
}

// GetDateTime returns the first DATETIME field named n.
func (m *Message) GetDateTime(n string) (wire.DateTime, bool) {
	f, ok := m.ByName(n)
	if !ok || f.wireType != wire.TypeDateTime {
		return wire.DateTime{}, false
	}

	return f.value.(wire.DateTime), true
}
