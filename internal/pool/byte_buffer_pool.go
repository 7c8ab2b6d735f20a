package pool

import (
	"io"
	"sync"
)

// Default sizes of the pooled buffers.
const (
	SongBufferDefaultSize     = 1024 * 4        // 4KiB, a typical NBS file
	SongBufferMaxThreshold    = 1024 * 256      // 256KiB
	PackBufferDefaultSize     = 1024 * 64       // 64KiB
	PackBufferMaxThreshold    = 1024 * 1024 * 8 // 8MiB
	smallBufferGrowThreshold  = 4 * SongBufferDefaultSize
	largeBufferGrowthDivisor  = 4
)

// ByteBuffer is a growable byte slice used as the backing store of cursors and encoders.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Wrap returns a ByteBuffer that uses data as its contents without copying.
func Wrap(data []byte) *ByteBuffer {
	return &ByteBuffer{B: data}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by SongBufferDefaultSize, larger ones by 25% of their capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	if cap(bb.B)-len(bb.B) >= requiredBytes {
		return
	}

	growBy := SongBufferDefaultSize
	if cap(bb.B) > smallBufferGrowThreshold {
		growBy = cap(bb.B) / largeBufferGrowthDivisor
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// WriteAt copies data into the buffer starting at offset, extending the buffer
// when the write runs past its end. Offset must not exceed Len.
func (bb *ByteBuffer) WriteAt(offset int, data []byte) {
	if offset < 0 || offset > len(bb.B) {
		panic("WriteAt: offset out of range")
	}

	end := offset + len(data)
	if end > len(bb.B) {
		bb.Grow(end - len(bb.B))
		bb.B = bb.B[:end]
	}
	copy(bb.B[offset:end], data)
}

// Write appends data to the buffer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a sync.Pool of ByteBuffers.
//
// Buffers that grew beyond maxThreshold are dropped on Put instead of being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of defaultSize capacity.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}
	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	songDefaultPool = NewByteBufferPool(SongBufferDefaultSize, SongBufferMaxThreshold)
	packDefaultPool = NewByteBufferPool(PackBufferDefaultSize, PackBufferMaxThreshold)
)

// GetSongBuffer retrieves a buffer sized for a single encoded song.
func GetSongBuffer() *ByteBuffer {
	return songDefaultPool.Get()
}

// PutSongBuffer returns a buffer obtained from GetSongBuffer.
func PutSongBuffer(bb *ByteBuffer) {
	songDefaultPool.Put(bb)
}

// GetPackBuffer retrieves a buffer sized for a song pack.
func GetPackBuffer() *ByteBuffer {
	return packDefaultPool.Get()
}

// PutPackBuffer returns a buffer obtained from GetPackBuffer.
func PutPackBuffer(bb *ByteBuffer) {
	packDefaultPool.Put(bb)
}
