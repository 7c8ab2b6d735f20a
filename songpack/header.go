package songpack

import (
	"fmt"

	"github.com/OakLoaf/NoteBlockLib/compress"
	"github.com/OakLoaf/NoteBlockLib/endian"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/format"
)

const (
	Magic          = "NBPK"
	Version        = 1
	HeaderSize     = 16
	IndexEntrySize = 32

	// FlagIDCollision is set when two names in the pack share an id.
	FlagIDCollision uint16 = 0x0001
)

var engine = endian.GetLittleEndianEngine()

// Header is the fixed-size section at the start of a pack.
type Header struct {
	Version     uint8                  // byte offset 4
	Compression format.CompressionType // byte offset 5
	Flags       uint16                 // byte offset 6-7
	Count       uint32                 // byte offset 8-11
	NamesOffset uint32                 // byte offset 12-15
}

// HasCollision reports whether readers must match names instead of ids.
func (h *Header) HasCollision() bool {
	return h.Flags&FlagIDCollision != 0
}

// Parse parses the header from exactly HeaderSize bytes.
//
// Returns:
//   - error: errs.ErrInvalidMagic, errs.ErrInvalidVersion or errs.ErrUnknownCompression
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: header is %d bytes", errs.ErrTruncatedInput, len(data))
	}
	if string(data[0:4]) != Magic {
		return fmt.Errorf("%w: %q", errs.ErrInvalidMagic, data[0:4])
	}

	h.Version = data[4]
	h.Compression = format.CompressionType(data[5])
	h.Flags = engine.Uint16(data[6:8])
	h.Count = engine.Uint32(data[8:12])
	h.NamesOffset = engine.Uint32(data[12:16])

	if h.Version != Version {
		return fmt.Errorf("%w: pack version %d", errs.ErrInvalidVersion, h.Version)
	}
	if _, err := compress.GetCodec(h.Compression); err != nil {
		return err
	}

	return nil
}

// Bytes serializes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b[0:4], Magic)
	b[4] = h.Version
	b[5] = uint8(h.Compression)
	engine.PutUint16(b[6:8], h.Flags)
	engine.PutUint32(b[8:12], h.Count)
	engine.PutUint32(b[12:16], h.NamesOffset)

	return b
}

// IndexEntry locates one song's payload.
type IndexEntry struct {
	// ID is the xxHash64 of the song name.
	ID uint64
	// Checksum covers the raw, uncompressed bytes.
	Checksum uint32
	// Offset is relative to the start of the payload section.
	Offset uint32
	// CompressedLength is the stored payload size.
	CompressedLength uint32
	// RawLength is the size after decompression.
	RawLength uint32
	Format    format.Format
}

// Parse parses an entry from exactly IndexEntrySize bytes.
func (e *IndexEntry) Parse(data []byte) error {
	if len(data) != IndexEntrySize {
		return fmt.Errorf("%w: index entry is %d bytes", errs.ErrTruncatedInput, len(data))
	}

	e.ID = engine.Uint64(data[0:8])
	e.Checksum = engine.Uint32(data[8:12])
	e.Offset = engine.Uint32(data[12:16])
	e.CompressedLength = engine.Uint32(data[16:20])
	e.RawLength = engine.Uint32(data[20:24])
	e.Format = format.Format(data[24])

	if !e.Format.IsValid() {
		return fmt.Errorf("%w: format tag 0x%02x", errs.ErrInvalidIndex, data[24])
	}

	return nil
}

// Bytes serializes the entry; reserved bytes are zero.
func (e *IndexEntry) Bytes() []byte {
	b := make([]byte, IndexEntrySize)
	engine.PutUint64(b[0:8], e.ID)
	engine.PutUint32(b[8:12], e.Checksum)
	engine.PutUint32(b[12:16], e.Offset)
	engine.PutUint32(b[16:20], e.CompressedLength)
	engine.PutUint32(b[20:24], e.RawLength)
	b[24] = uint8(e.Format)

	return b
}
