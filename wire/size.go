package wire

// FieldSizer is the minimal view of a field the size calculator needs: just
// enough to compute its exact encoded byte count without touching the
// field's actual value representation. message.Field implements this
// directly, which keeps the wire package free of a dependency on the
// message package.
//
// FieldName and FieldOrdinal must already reflect whatever taxonomy
// substitution will actually happen on the wire: this package has no notion
// of a taxonomy, so a caller that writes through a stream.Writer with an
// active taxonomy must resolve the same name→ordinal substitution before
// sizing, and present FieldSizer with the post-substitution shape. Since
// substitution is deterministic given a taxonomy (always applied when
// resolvable), a sizer and a stream.Writer sharing the same taxonomy always
// agree on the final byte count, even though neither calls into the other.
type FieldSizer interface {
	FieldName() (string, bool)
	FieldOrdinal() (int16, bool)
	FieldWireType() Type
	// FieldPayloadLen is the exact byte length of the value payload. For
	// fixed-size wire types this is ignored (the registry's fixed size is
	// used instead); for variable-size types (including unknown/user
	// types) it must already reflect the final, possibly compressed,
	// payload bytes.
	FieldPayloadLen() int
}

// arrayElemSize returns the per-element width of a standard array wire
// type, for callers that compute FieldPayloadLen from an element count
// (via ArrayPayloadLen) before calling FieldSize/MessageSize.
var arrayElemSize = map[Type]int{
	TypeShortArray:  2,
	TypeIntArray:    4,
	TypeLongArray:   8,
	TypeFloatArray:  4,
	TypeDoubleArray: 8,
}

// ArrayPayloadLen returns count*elementWidth for a standard array wire
// type, and whether t is one of them.
func ArrayPayloadLen(t Type, count int) (int, bool) {
	w, ok := arrayElemSize[t]
	if !ok {
		return 0, false
	}

	return w * count, true
}

// ValueSize returns the number of payload bytes a value of wire type t
// occupies on the wire. For fixed-size standard types this is the
// registry's fixed size; for variable-size and unknown/user types it is
// payloadLen, which the caller must already have computed exactly.
func ValueSize(t Type, payloadLen int) int {
	if n, ok := FixedSize(t); ok {
		return n
	}

	return payloadLen
}

// FieldSize computes the exact encoded byte size of a single field:
//
//	2 (prefix byte + type id byte)
//	+ 2 if an ordinal is present
//	+ 1 + len(name) if a name is present
//	+ the length-class width, if the wire type is variable-size
//	+ the value payload size
func FieldSize(f FieldSizer) int {
	size := 2 // prefix + type id

	if _, ok := f.FieldOrdinal(); ok {
		size += 2
	}

	if name, ok := f.FieldName(); ok {
		size += 1 + len(name)
	}

	t := f.FieldWireType()
	payloadLen := f.FieldPayloadLen()

	if IsVariable(t) {
		size += ChooseVarClass(payloadLen).LengthClassSize()
	}

	size += ValueSize(t, payloadLen)

	return size
}

// MessageSize sums FieldSize over every field, in iteration order.
func MessageSize(fields []FieldSizer) int {
	total := 0
	for _, f := range fields {
		total += FieldSize(f)
	}

	return total
}

// EnvelopeHeaderSize is the fixed 8-byte envelope header: directives (1),
// schemaVersion (1), taxonomyId (2), totalEnvelopeSize (4).
const EnvelopeHeaderSize = 8

// EnvelopeSize computes the full on-wire size of an envelope: the 8-byte
// header plus the message body.
func EnvelopeSize(fields []FieldSizer) int {
	return EnvelopeHeaderSize + MessageSize(fields)
}
