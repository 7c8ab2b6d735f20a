// Package cursor provides the bounds-checked byte cursor every codec is built on.
//
// A Cursor wraps a byte buffer with a movable position. Reads consume exactly
// the width of the value and fail with errs.ErrTruncatedInput when fewer bytes
// remain; a failed read leaves the position untouched. Writes overwrite at the
// position and grow the buffer when they run past its end.
//
//	c := cursor.New(data)
//	version, err := c.ReadUint8()
//	if err != nil {
//	    return err
//	}
//
// Byte order is little-endian unless WithEndian says otherwise. Text is read
// as UTF-8; byte runs that are not valid UTF-8 are decoded with the fallback
// charset (Windows-1252 by default), which is what older note-block editors wrote.
//
// A Cursor is not safe for concurrent use.
package cursor

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/OakLoaf/NoteBlockLib/endian"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/internal/options"
	"github.com/OakLoaf/NoteBlockLib/internal/pool"
)

// MaxVarUintLength is the maximum number of bytes of a variable-length quantity.
const MaxVarUintLength = 4

// Cursor reads and writes fixed-width values at a movable position.
type Cursor struct {
	buf     *pool.ByteBuffer
	pos     int
	engine  endian.EndianEngine
	charset encoding.Encoding
	pooled  bool
}

// Option configures a Cursor.
type Option = options.Option[*Cursor]

// WithEndian sets the byte order of multi-byte values.
func WithEndian(engine endian.EndianEngine) Option {
	return options.NoError(func(c *Cursor) {
		c.engine = engine
	})
}

// WithCharset sets the encoding used for text that is not valid UTF-8.
// A nil charset replaces invalid bytes with U+FFFD instead.
func WithCharset(charset encoding.Encoding) Option {
	return options.NoError(func(c *Cursor) {
		c.charset = charset
	})
}

// New returns a cursor positioned at the start of data.
//
// The cursor reads data in place; writes may modify it.
func New(data []byte, opts ...Option) *Cursor {
	c := &Cursor{
		buf:     pool.Wrap(data),
		engine:  endian.GetLittleEndianEngine(),
		charset: charmap.Windows1252,
	}
	_ = options.Apply(c, opts...)

	return c
}

// NewWriter returns an empty cursor backed by a pooled buffer.
//
// Call Release once the written bytes have been copied out.
func NewWriter(opts ...Option) *Cursor {
	c := New(nil, opts...)
	c.buf = pool.GetSongBuffer()
	c.pooled = true

	return c
}

// Release returns a pooled buffer. The cursor must not be used afterwards.
func (c *Cursor) Release() {
	if c.pooled && c.buf != nil {
		pool.PutSongBuffer(c.buf)
	}
	c.buf = nil
	c.pooled = false
}

// Bytes returns the whole buffer. The slice is shared with the cursor.
func (c *Cursor) Bytes() []byte {
	return c.buf.Bytes()
}

// Len returns the buffer length.
func (c *Cursor) Len() int {
	return c.buf.Len()
}

// Pos returns the current position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Remaining returns the number of bytes after the position.
func (c *Cursor) Remaining() int {
	return c.buf.Len() - c.pos
}

// Seek moves the position to an absolute offset in [0, Len].
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > c.buf.Len() {
		return fmt.Errorf("%w: seek to %d outside buffer of %d bytes", errs.ErrTruncatedInput, pos, c.buf.Len())
	}
	c.pos = pos

	return nil
}

// take consumes n bytes or fails without moving.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d at offset %d", errs.ErrNegativeLength, n, c.pos)
	}
	if c.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncatedInput, n, c.pos, c.Remaining())
	}
	b := c.buf.B[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// Peek returns the next n bytes without consuming them.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 || c.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncatedInput, n, c.pos, c.Remaining())
	}

	return c.buf.B[c.pos : c.pos+n], nil
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

// ReadBytes returns a copy of the next n bytes.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}

	return append([]byte(nil), b...), nil
}

// ReadUint8 reads one byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadInt8 reads one byte as a signed integer.
func (c *Cursor) ReadInt8() (int8, error) {
	v, err := c.ReadUint8()
	return int8(v), err //nolint:gosec
}

// ReadBool reads one byte; any non-zero value is true.
func (c *Cursor) ReadBool() (bool, error) {
	v, err := c.ReadUint8()
	return v != 0, err
}

// ReadUint16 reads an unsigned 16-bit integer in the cursor's byte order.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint16(b), nil
}

// ReadInt16 reads a signed 16-bit integer in the cursor's byte order.
func (c *Cursor) ReadInt16() (int16, error) {
	v, err := c.ReadUint16()
	return int16(v), err //nolint:gosec
}

// ReadUint32 reads an unsigned 32-bit integer in the cursor's byte order.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint32(b), nil
}

// ReadInt32 reads a signed 32-bit integer in the cursor's byte order.
func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err //nolint:gosec
}

// ReadUint64 reads an unsigned 64-bit integer in the cursor's byte order.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint64(b), nil
}

// ReadInt64 reads a signed 64-bit integer in the cursor's byte order.
func (c *Cursor) ReadInt64() (int64, error) {
	v, err := c.ReadUint64()
	return int64(v), err //nolint:gosec
}

// ReadFloat32 reads an IEEE 754 single-precision value.
func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadFloat64 reads an IEEE 754 double-precision value.
func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	return math.Float64frombits(v), err
}

// ReadString reads text prefixed by a signed 32-bit byte length.
func (c *Cursor) ReadString() (string, error) {
	start := c.pos
	n, err := c.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		c.pos = start
		return "", fmt.Errorf("%w: string length %d at offset %d", errs.ErrNegativeLength, n, start)
	}
	b, err := c.take(int(n))
	if err != nil {
		c.pos = start
		return "", err
	}

	return c.decodeText(b), nil
}

// ReadCString reads NUL-terminated text and consumes the terminator.
func (c *Cursor) ReadCString() (string, error) {
	rest := c.buf.B[c.pos:]
	for i, b := range rest {
		if b == 0 {
			text := c.decodeText(rest[:i])
			c.pos += i + 1

			return text, nil
		}
	}

	return "", fmt.Errorf("%w: unterminated string at offset %d", errs.ErrTruncatedInput, c.pos)
}

// ReadVarUint reads a variable-length quantity: 7 bits per byte, most
// significant group first, high bit set on every byte but the last.
func (c *Cursor) ReadVarUint() (uint32, error) {
	var v uint32
	for i := 0; i < MaxVarUintLength; i++ {
		if c.Remaining() <= i {
			return 0, fmt.Errorf("%w: variable-length quantity at offset %d", errs.ErrTruncatedInput, c.pos)
		}
		b := c.buf.B[c.pos+i]
		v = v<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			c.pos += i + 1
			return v, nil
		}
	}

	return 0, fmt.Errorf("%w at offset %d", errs.ErrVarIntTooLong, c.pos)
}

func (c *Cursor) decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	if c.charset != nil {
		if decoded, err := c.charset.NewDecoder().Bytes(b); err == nil {
			return string(decoded)
		}
	}

	return strings.ToValidUTF8(string(b), "\uFFFD")
}
