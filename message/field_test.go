package message

import (
	"testing"

	"github.com/fudgemsg/fudge-go/wire"
	"github.com/stretchr/testify/require"
)

func TestFieldPayloadRoundTrip(t *testing.T) {
	cases := []Field{
		NewBool(true),
		NewByte(-7),
		NewShort(1234),
		NewInt(-99999),
		NewLong(1 << 40),
		NewFloat(3.5),
		NewDouble(2.718281828),
		NewString("hello"),
		NewByteArray([]byte{0xDE, 0xAD, 0xBE, 0xEF}),
		NewShortArray([]int16{1, 2, 3}),
		NewIntArray([]int32{10, 20, 30}),
		NewLongArray([]int64{100, 200}),
		NewFloatArray([]float32{1.5, 2.5}),
		NewDoubleArray([]float64{1.25, 2.25}),
	}

	for _, f := range cases {
		payload := f.Payload()
		got, err := decodeValue(f.WireType(), payload)
		require.NoError(t, err)
		require.Equal(t, f.Value(), got)
	}
}

func TestNewByteArrayPicksFixedLengthType(t *testing.T) {
	f := NewByteArray(make([]byte, 16))
	require.Equal(t, wire.TypeByteArray16, f.WireType())

	f2 := NewByteArray(make([]byte, 17))
	require.Equal(t, wire.TypeByteArray, f2.WireType())
}

func TestNewReducedIntNarrows(t *testing.T) {
	require.Equal(t, wire.TypeByte, NewReducedInt(5).WireType())
	require.Equal(t, wire.TypeShort, NewReducedInt(1000).WireType())
	require.Equal(t, wire.TypeInt, NewReducedInt(100000).WireType())
	require.Equal(t, wire.TypeLong, NewReducedInt(1<<40).WireType())
}

func TestNamedAndWithOrdinalAreExclusiveByDefault(t *testing.T) {
	f := NewInt(7).WithOrdinal(3)
	name, hasName := f.Name()
	require.Empty(t, name)
	require.False(t, hasName)
	ordinal, hasOrdinal := f.Ordinal()
	require.True(t, hasOrdinal)
	require.Equal(t, int16(3), ordinal)

	named := f.Named("count")
	_, hasOrdinal = named.Ordinal()
	require.False(t, hasOrdinal)
	gotName, hasName := named.Name()
	require.True(t, hasName)
	require.Equal(t, "count", gotName)
}

func TestDateTimeFieldPayloadValidatesAccuracy(t *testing.T) {
	date, err := wire.NewDate(2024, 3, 15)
	require.NoError(t, err)

	valid := NewDateTime(wire.DateTime{
		Date: date,
		Time: wire.Time{Accuracy: wire.AccuracySecond, Seconds: 3600},
	})
	require.NotPanics(t, func() { valid.Payload() })

	// YEAR accuracy requires seconds/nanos to be zero (§4.11); a field
	// built violating that invariant is rejected at encode time rather
	// than silently emitting bytes that wouldn't round-trip.
	invalid := NewDateTime(wire.DateTime{
		Date: date,
		Time: wire.Time{Accuracy: wire.AccuracyYear, Seconds: 3600},
	})
	require.Panics(t, func() { invalid.Payload() })
}

func TestNewUnknownRoundTrips(t *testing.T) {
	f := NewUnknown(wire.Type(200), []byte{1, 2, 3})
	require.Equal(t, []byte{1, 2, 3}, f.Payload())
	v, ok := f.Value().(wire.UnknownValue)
	require.True(t, ok)
	require.Equal(t, wire.Type(200), v.TypeID)
}
