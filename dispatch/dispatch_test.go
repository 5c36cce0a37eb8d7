package dispatch

import (
	"testing"
	"time"

	"github.com/fudgemsg/fudge-go/wire"
	"github.com/stretchr/testify/require"
)

func TestRegistryRoundTripsDuration(t *testing.T) {
	r := New()
	r.Register(time.Duration(0), wire.TypeLong,
		func(v any) (any, error) { return int64(v.(time.Duration)), nil },
		func(v any) (any, error) { return time.Duration(v.(int64)), nil },
	)

	primary, primaryType, ok, err := r.ToPrimary(5 * time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, wire.TypeLong, primaryType)
	require.Equal(t, int64(5*time.Second), primary)

	back, err := r.FromPrimary(time.Duration(0), primary)
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, back)
}

func TestRegistryUnregisteredTypePassesThrough(t *testing.T) {
	r := New()
	v, _, ok, err := r.ToPrimary(42)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 42, v)
}
