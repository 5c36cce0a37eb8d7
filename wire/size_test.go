package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testField is a minimal FieldSizer for exercising the size calculator in
// isolation, without depending on the message package.
type testField struct {
	name       string
	hasName    bool
	ordinal    int16
	hasOrdinal bool
	wireType   Type
	payloadLen int
}

func (f testField) FieldName() (string, bool)   { return f.name, f.hasName }
func (f testField) FieldOrdinal() (int16, bool)  { return f.ordinal, f.hasOrdinal }
func (f testField) FieldWireType() Type          { return f.wireType }
func (f testField) FieldPayloadLen() int         { return f.payloadLen }

func TestFieldSizeBoolean(t *testing.T) {
	// S2: one boolean field named "b"=true, no taxonomy, no ordinal.
	f := testField{name: "b", hasName: true, wireType: TypeBoolean}
	require.Equal(t, 2+1+1+1, FieldSize(f)) // prefix+type, namelen+name, value
}

func TestFieldSizeOrdinalInt(t *testing.T) {
	// S3: ordinal 42, INT value, no name.
	f := testField{ordinal: 42, hasOrdinal: true, wireType: TypeInt}
	require.Equal(t, 2+2+4, FieldSize(f))
}

func TestFieldSizeFixedByteArray(t *testing.T) {
	// S4: fixed byte array of length 4, no name/ordinal.
	f := testField{wireType: TypeByteArray4, payloadLen: 4}
	require.Equal(t, 2+4, FieldSize(f))
}

func TestFieldSizeVariableNarrowness(t *testing.T) {
	small := testField{wireType: TypeString, payloadLen: 10}
	require.Equal(t, 2+1+10, FieldSize(small))

	big := testField{wireType: TypeString, payloadLen: 70000}
	require.Equal(t, 2+4+70000, FieldSize(big))
}

func TestMessageAndEnvelopeSizeExactness(t *testing.T) {
	fields := []FieldSizer{
		testField{name: "b", hasName: true, wireType: TypeBoolean},
		testField{ordinal: 42, hasOrdinal: true, wireType: TypeInt},
	}

	wantMsg := FieldSize(fields[0]) + FieldSize(fields[1])
	require.Equal(t, wantMsg, MessageSize(fields))
	require.Equal(t, EnvelopeHeaderSize+wantMsg, EnvelopeSize(fields))
}

func TestUnknownTypeTreatedAsVariable(t *testing.T) {
	f := testField{wireType: Type(200), payloadLen: 3}
	require.Equal(t, 2+1+3, FieldSize(f))
}
