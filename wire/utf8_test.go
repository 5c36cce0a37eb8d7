package wire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateName(t *testing.T) {
	require.NoError(t, ValidateName("ok"))
	require.NoError(t, ValidateName(strings.Repeat("a", MaxNameLength)))
	require.Error(t, ValidateName(strings.Repeat("a", MaxNameLength+1)))
	require.Error(t, ValidateName(string([]byte{0xff, 0xfe})))
}

func TestAppendAndReadName(t *testing.T) {
	buf := AppendName(nil, "hello")
	require.Equal(t, []byte{5, 'h', 'e', 'l', 'l', 'o'}, buf)

	s, next, err := ReadString(buf, 1, 5)
	require.NoError(t, err)
	require.Equal(t, "hello", s)
	require.Equal(t, 6, next)
}

func TestReadStringOverrun(t *testing.T) {
	_, _, err := ReadString([]byte{1, 2}, 0, 10)
	require.Error(t, err)
}
