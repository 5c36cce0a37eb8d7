package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrefixRoundTrip(t *testing.T) {
	cases := []Prefix{
		{VarClass: VarNone, HasName: false, HasOrdinal: false},
		{VarClass: VarNone, HasName: true, HasOrdinal: false},
		{VarClass: VarNone, HasName: false, HasOrdinal: true},
		{VarClass: VarNone, HasName: true, HasOrdinal: true},
		{VarClass: Var1, HasName: false, HasOrdinal: false},
		{VarClass: Var2, HasName: true, HasOrdinal: false},
		{VarClass: Var4, HasName: false, HasOrdinal: true},
		{VarClass: Var4, HasName: true, HasOrdinal: true},
	}

	for _, c := range cases {
		b := c.Pack()
		got, err := UnpackPrefix(b)
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestUnpackPrefixRejectsReservedBits(t *testing.T) {
	_, err := UnpackPrefix(0x01) // R bit set
	require.Error(t, err)

	_, err = UnpackPrefix(0x08) // P bit set
	require.Error(t, err)
}

func TestUnpackPrefixRejectsNonOneHotVarClass(t *testing.T) {
	// 0b011 (3) is not one of {000, 001, 010, 100}.
	b := byte(0b011) << prefixVarShift
	_, err := UnpackPrefix(b)
	require.Error(t, err)
}

func TestChooseVarClassNarrowness(t *testing.T) {
	cases := []struct {
		length int
		want   VarClass
	}{
		{0, Var1},
		{1, Var1},
		{255, Var1},
		{256, Var2},
		{32767, Var2},
		{32768, Var4},
		{1 << 20, Var4},
	}

	for _, c := range cases {
		got := ChooseVarClass(c.length)
		require.Equalf(t, c.want, got, "length=%d", c.length)
		require.GreaterOrEqual(t, (1<<(8*got.LengthClassSize()))-1, c.length)
	}
}
