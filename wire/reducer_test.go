package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReduceIntNarrowness(t *testing.T) {
	cases := []struct {
		v    int64
		want Type
	}{
		{0, TypeByte},
		{-128, TypeByte},
		{127, TypeByte},
		{-129, TypeShort},
		{128, TypeShort},
		{32767, TypeShort},
		{-32769, TypeInt},
		{32768, TypeInt},
		{math.MaxInt32, TypeInt},
		{math.MinInt32, TypeInt},
		{math.MaxInt32 + 1, TypeLong},
		{math.MinInt32 - 1, TypeLong},
		{math.MaxInt64, TypeLong},
	}

	for _, c := range cases {
		got := ReduceInt(c.v)
		require.Equalf(t, c.want, got, "v=%d", c.v)
	}
}

func TestReduceByteArray(t *testing.T) {
	require.Equal(t, TypeByteArray4, ReduceByteArray(4))
	require.Equal(t, TypeByteArray512, ReduceByteArray(512))
	require.Equal(t, TypeByteArray, ReduceByteArray(5))
	require.Equal(t, TypeByteArray, ReduceByteArray(0))
	require.Equal(t, TypeByteArray, ReduceByteArray(1000))
}
