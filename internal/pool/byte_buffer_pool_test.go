package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(64)

	require.Equal(t, 0, bb.Len())
	require.Equal(t, 64, bb.Cap())
}

func TestWrap(t *testing.T) {
	data := []byte{1, 2, 3}
	bb := Wrap(data)

	require.Equal(t, 3, bb.Len())
	require.Equal(t, data, bb.Bytes())
}

func TestByteBuffer_Write(t *testing.T) {
	bb := NewByteBuffer(2)

	n, err := bb.Write([]byte("NBS"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = bb.Write([]byte("!"))
	require.NoError(t, err)
	require.Equal(t, []byte("NBS!"), bb.Bytes())
}

func TestByteBuffer_WriteAt(t *testing.T) {
	t.Run("overwrite in place", func(t *testing.T) {
		bb := Wrap([]byte{1, 2, 3, 4})
		bb.WriteAt(1, []byte{9, 9})
		require.Equal(t, []byte{1, 9, 9, 4}, bb.Bytes())
	})

	t.Run("overwrite and extend", func(t *testing.T) {
		bb := Wrap([]byte{1, 2})
		bb.WriteAt(1, []byte{7, 8, 9})
		require.Equal(t, []byte{1, 7, 8, 9}, bb.Bytes())
	})

	t.Run("append at end", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.WriteAt(0, []byte{5})
		bb.WriteAt(1, []byte{6})
		require.Equal(t, []byte{5, 6}, bb.Bytes())
	})

	t.Run("offset past end panics", func(t *testing.T) {
		bb := NewByteBuffer(0)
		require.Panics(t, func() { bb.WriteAt(1, []byte{1}) })
	})
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := Wrap([]byte("layer"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, "layer", out.String())

	_, err = bb.WriteTo(failingWriter{})
	require.Error(t, err)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		require.Equal(t, 100, bb.Cap())
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(0)
		bb.Grow(1)
		require.Equal(t, SongBufferDefaultSize, bb.Cap())
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		bb := NewByteBuffer(smallBufferGrowThreshold * 2)
		bb.B = bb.B[:cap(bb.B)]
		bb.Grow(1)
		require.Equal(t, smallBufferGrowThreshold*2+smallBufferGrowThreshold/2, bb.Cap())
	})

	t.Run("preserves data", func(t *testing.T) {
		bb := Wrap([]byte{1, 2, 3})
		bb.Grow(SongBufferDefaultSize * 2)
		require.Equal(t, []byte{1, 2, 3}, bb.Bytes())
		require.GreaterOrEqual(t, bb.Cap()-bb.Len(), SongBufferDefaultSize*2)
	})
}

func TestSongBufferPool(t *testing.T) {
	bb := GetSongBuffer()
	require.NotNil(t, bb)
	require.Equal(t, 0, bb.Len())

	_, _ = bb.Write([]byte("tick"))
	PutSongBuffer(bb)

	again := GetSongBuffer()
	require.Equal(t, 0, again.Len())
	PutSongBuffer(again)

	PutSongBuffer(nil)
}

func TestPackBufferPool(t *testing.T) {
	bb := GetPackBuffer()
	require.NotNil(t, bb)
	require.GreaterOrEqual(t, bb.Cap(), PackBufferDefaultSize)
	PutPackBuffer(bb)
}

func TestByteBufferPool_MaxThreshold(t *testing.T) {
	p := NewByteBufferPool(8, 16)

	big := NewByteBuffer(32)
	p.Put(big)

	got := p.Get()
	require.NotSame(t, big, got)
}

func TestByteBufferPool_ConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				bb := GetSongBuffer()
				_, _ = bb.Write([]byte{1, 2, 3})
				PutSongBuffer(bb)
			}
		}()
	}
	wg.Wait()
}
