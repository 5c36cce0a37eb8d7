package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)
	require.NotNil(t, bb)
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, 1024, bb.Cap())
}

func TestByteBufferMustWriteAndReset(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.Bytes())

	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.GreaterOrEqual(t, bb.Cap(), 5, "Reset must retain the grown capacity")
}

func TestByteBufferSliceBounds(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte{1, 2, 3, 4})

	got := bb.Slice(1, 3)
	assert.Equal(t, []byte{2, 3}, got)

	assert.Panics(t, func() { bb.Slice(-1, 2) })
	assert.Panics(t, func() { bb.Slice(2, 1) })
	assert.Panics(t, func() { bb.Slice(0, bb.Cap()+1) })
}

func TestByteBufferSetLength(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.SetLength(4)
	assert.Equal(t, 4, bb.Len())
	assert.Panics(t, func() { bb.SetLength(-1) })
	assert.Panics(t, func() { bb.SetLength(bb.Cap() + 1) })
}

func TestByteBufferGrowNoopWhenCapacitySufficient(t *testing.T) {
	bb := NewByteBuffer(16)
	before := bb.Cap()
	bb.Grow(8)
	assert.Equal(t, before, bb.Cap())
}

func TestByteBufferGrowReallocates(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{1, 2, 3, 4})
	bb.Grow(EnvelopeBufferDefaultSize * 5)
	assert.GreaterOrEqual(t, bb.Cap(), 4+EnvelopeBufferDefaultSize*5)
	assert.Equal(t, []byte{1, 2, 3, 4}, bb.Bytes())
}

func TestByteBufferWriteAndWriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	n, err := bb.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var out bytes.Buffer
	written, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(3), written)
	assert.Equal(t, "abc", out.String())
}

func TestByteBufferPoolGetPutResets(t *testing.T) {
	p := NewByteBufferPool(16, 64)
	bb := p.Get()
	bb.MustWrite([]byte("xyz"))
	p.Put(bb)

	bb2 := p.Get()
	assert.Equal(t, 0, bb2.Len(), "pooled buffer must come back reset")
}

func TestByteBufferPoolDiscardsOversizedBuffers(t *testing.T) {
	p := NewByteBufferPool(4, 8)
	bb := NewByteBuffer(4)
	bb.Grow(100)
	p.Put(bb) // exceeds maxThreshold, must be discarded silently

	p.Put(nil) // must not panic
}

func TestDefaultPoolsRoundTrip(t *testing.T) {
	eb := GetEnvelopeBuffer()
	eb.MustWrite([]byte("envelope"))
	PutEnvelopeBuffer(eb)

	sb := GetStreamBuffer()
	sb.MustWrite([]byte("stream"))
	PutStreamBuffer(sb)

	PutEnvelopeBuffer(nil)
	PutStreamBuffer(nil)
}
