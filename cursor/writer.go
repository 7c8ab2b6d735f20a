package cursor

import (
	"fmt"
	"math"

	"github.com/OakLoaf/NoteBlockLib/errs"
)

func (c *Cursor) put(b []byte) {
	c.buf.WriteAt(c.pos, b)
	c.pos += len(b)
}

// WriteBytes writes b at the position.
func (c *Cursor) WriteBytes(b []byte) {
	c.put(b)
}

// WriteUint8 writes one byte at the position.
func (c *Cursor) WriteUint8(v uint8) {
	c.put([]byte{v})
}

// WriteInt8 writes v as one byte at the position.
func (c *Cursor) WriteInt8(v int8) {
	c.WriteUint8(uint8(v)) //nolint:gosec
}

// WriteBool writes 1 for true and 0 for false.
func (c *Cursor) WriteBool(v bool) {
	if v {
		c.WriteUint8(1)
		return
	}
	c.WriteUint8(0)
}

// WriteUint16 writes v at the position in the cursor's byte order.
func (c *Cursor) WriteUint16(v uint16) {
	var b [2]byte
	c.engine.PutUint16(b[:], v)
	c.put(b[:])
}

// WriteInt16 writes v at the position in the cursor's byte order.
func (c *Cursor) WriteInt16(v int16) {
	c.WriteUint16(uint16(v)) //nolint:gosec
}

// WriteUint32 writes v at the position in the cursor's byte order.
func (c *Cursor) WriteUint32(v uint32) {
	var b [4]byte
	c.engine.PutUint32(b[:], v)
	c.put(b[:])
}

// WriteInt32 writes v at the position in the cursor's byte order.
func (c *Cursor) WriteInt32(v int32) {
	c.WriteUint32(uint32(v)) //nolint:gosec
}

// WriteUint64 writes v at the position in the cursor's byte order.
func (c *Cursor) WriteUint64(v uint64) {
	var b [8]byte
	c.engine.PutUint64(b[:], v)
	c.put(b[:])
}

// WriteInt64 writes v at the position in the cursor's byte order.
func (c *Cursor) WriteInt64(v int64) {
	c.WriteUint64(uint64(v)) //nolint:gosec
}

// WriteFloat32 writes the IEEE 754 bits of v at the position.
func (c *Cursor) WriteFloat32(v float32) {
	c.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes the IEEE 754 bits of v at the position.
func (c *Cursor) WriteFloat64(v float64) {
	c.WriteUint64(math.Float64bits(v))
}

// WriteString writes s as UTF-8 prefixed by its signed 32-bit byte length.
func (c *Cursor) WriteString(s string) {
	c.WriteInt32(int32(len(s))) //nolint:gosec
	c.put([]byte(s))
}

// WriteCString writes s followed by a NUL byte. s must not contain NUL.
func (c *Cursor) WriteCString(s string) {
	c.put(append([]byte(s), 0))
}

// WriteVarUint writes v as a variable-length quantity.
func (c *Cursor) WriteVarUint(v uint32) error {
	if v >= 1<<(7*MaxVarUintLength) {
		return fmt.Errorf("%w: %d", errs.ErrVarIntTooLong, v)
	}

	var b [MaxVarUintLength]byte
	i := len(b) - 1
	b[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		b[i] = byte(v&0x7F) | 0x80
	}
	c.put(b[i:])

	return nil
}
