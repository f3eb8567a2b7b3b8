package pool

import (
	"bytes"
	"errors"
	"sync"
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

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	bb.MustWrite([]byte(" world"))

	require.Equal(t, []byte("hello world"), bb.Bytes())

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, bb.Cap(), 11)
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte{0xB5, 0xEE, 0x9C, 0x72})

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(4), n)
	require.Equal(t, bb.Bytes(), out.Bytes())
}

type errorWriter struct{}

func (errorWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestByteBuffer_WriteTo_Error(t *testing.T) {
	bb := NewByteBuffer(16)
	bb.MustWrite([]byte("data"))

	_, err := bb.WriteTo(errorWriter{})
	require.Error(t, err)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("Sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		require.Equal(t, 100, bb.Cap())
	})

	t.Run("Small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		bb.MustWrite(make([]byte, 10))
		bb.Grow(20)
		require.Equal(t, 10+BOCBufferDefaultSize, bb.Cap())
	})

	t.Run("Large buffer grows by a quarter", func(t *testing.T) {
		size := 8 * BOCBufferDefaultSize
		bb := NewByteBuffer(size)
		bb.MustWrite(make([]byte, size))
		bb.Grow(1)
		require.Equal(t, size+size/4, bb.Cap())
	})

	t.Run("Preserves data", func(t *testing.T) {
		bb := NewByteBuffer(2)
		bb.MustWrite([]byte{1, 2})
		bb.Grow(BOCBufferDefaultSize * 2)
		require.Equal(t, []byte{1, 2}, bb.Bytes())
		require.GreaterOrEqual(t, bb.Cap()-bb.Len(), BOCBufferDefaultSize*2)
	})
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(64, 128)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Equal(t, 64, bb.Cap())
	bb.MustWrite([]byte("abc"))
	p.Put(bb)

	bb = p.Get()
	require.Equal(t, 0, bb.Len())

	p.Put(nil)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(16, 32)

	big := NewByteBuffer(64)
	big.MustWrite([]byte("oversized"))
	p.Put(big)

	for range 4 {
		bb := p.Get()
		require.LessOrEqual(t, bb.Cap(), 32)
	}
}

func TestDefaultPools(t *testing.T) {
	boc := GetBOCBuffer()
	require.Equal(t, 0, boc.Len())
	boc.MustWrite([]byte("boc"))
	PutBOCBuffer(boc)

	arc := GetArchiveBuffer()
	require.Equal(t, 0, arc.Len())
	PutArchiveBuffer(arc)
}

func TestPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bb := GetBOCBuffer()
			bb.MustWrite([]byte("cell"))
			require.Equal(t, 4, bb.Len())
			PutBOCBuffer(bb)
		}()
	}
	wg.Wait()
}

func BenchmarkPool_GetWritePut(b *testing.B) {
	data := make([]byte, 256)
	for b.Loop() {
		bb := GetBOCBuffer()
		bb.MustWrite(data)
		PutBOCBuffer(bb)
	}
}
