package songpack

import (
	"fmt"
	"iter"

	noteblocklib "github.com/OakLoaf/NoteBlockLib"
	"github.com/OakLoaf/NoteBlockLib/compress"
	"github.com/OakLoaf/NoteBlockLib/cursor"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/internal/hash"
	"github.com/OakLoaf/NoteBlockLib/model"
)

// Pack is a read-only view over pack bytes. It is safe for concurrent use.
type Pack struct {
	Header Header

	names    []string
	entries  []IndexEntry
	byID     map[uint64]int
	byName   map[string]int
	payloads []byte
	codec    compress.Codec
}

// Open parses the header, names and index of a pack.
//
// Payloads are not touched until Raw or Song is called; data must stay
// unmodified while the pack is in use.
//
// Returns:
//   - *Pack: The opened pack
//   - error: errs.ErrTruncatedInput, errs.ErrInvalidMagic, errs.ErrInvalidVersion,
//     errs.ErrUnknownCompression or errs.ErrInvalidIndex
func Open(data []byte) (*Pack, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("songpack: header: %w: %d of %d bytes", errs.ErrTruncatedInput, len(data), HeaderSize)
	}

	p := &Pack{}
	if err := p.Header.Parse(data[:HeaderSize]); err != nil {
		return nil, fmt.Errorf("songpack: header: %w", err)
	}
	p.codec, _ = compress.GetCodec(p.Header.Compression)

	if p.Header.NamesOffset < HeaderSize {
		return nil, fmt.Errorf("songpack: %w: names offset %d inside header", errs.ErrInvalidIndex, p.Header.NamesOffset)
	}
	c := cursor.New(data)
	if err := c.Seek(int(p.Header.NamesOffset)); err != nil {
		return nil, fmt.Errorf("songpack: names: %w", err)
	}
	if err := p.readNames(c); err != nil {
		return nil, fmt.Errorf("songpack: names: %w", err)
	}
	if err := p.readIndex(c); err != nil {
		return nil, fmt.Errorf("songpack: index: %w", err)
	}
	p.payloads = data[c.Pos():]

	for i, e := range p.entries {
		if uint64(e.Offset)+uint64(e.CompressedLength) > uint64(len(p.payloads)) {
			return nil, fmt.Errorf("songpack: payload %q: %w: ends at %d of %d bytes",
				p.names[i], errs.ErrTruncatedInput, uint64(e.Offset)+uint64(e.CompressedLength), len(p.payloads))
		}
	}

	return p, nil
}

func (p *Pack) readNames(c *cursor.Cursor) error {
	count, err := c.ReadUint16()
	if err != nil {
		return err
	}
	if uint32(count) != p.Header.Count {
		return fmt.Errorf("%w: %d names for %d songs", errs.ErrInvalidIndex, count, p.Header.Count)
	}

	p.names = make([]string, 0, count)
	p.byName = make(map[string]int, count)
	for i := range int(count) {
		n, err := c.ReadUint16()
		if err != nil {
			return err
		}
		b, err := c.ReadBytes(int(n))
		if err != nil {
			return err
		}
		name := string(b)
		if name == "" {
			return fmt.Errorf("%w: empty name at %d", errs.ErrInvalidIndex, i)
		}
		if _, ok := p.byName[name]; ok {
			return fmt.Errorf("%w: duplicate name %q", errs.ErrInvalidIndex, name)
		}
		p.byName[name] = i
		p.names = append(p.names, name)
	}

	return nil
}

func (p *Pack) readIndex(c *cursor.Cursor) error {
	p.entries = make([]IndexEntry, len(p.names))
	p.byID = make(map[uint64]int, len(p.names))

	collided := false
	for i, name := range p.names {
		b, err := c.ReadBytes(IndexEntrySize)
		if err != nil {
			return err
		}
		e := &p.entries[i]
		if err := e.Parse(b); err != nil {
			return err
		}
		if e.ID != hash.SongID(name) {
			return fmt.Errorf("%w: id %016x does not match name %q", errs.ErrInvalidIndex, e.ID, name)
		}
		if _, ok := p.byID[e.ID]; ok {
			collided = true
			continue
		}
		p.byID[e.ID] = i
	}
	if collided && !p.Header.HasCollision() {
		return fmt.Errorf("%w: ids collide but the collision flag is not set", errs.ErrInvalidIndex)
	}

	return nil
}

// Len returns the number of songs.
func (p *Pack) Len() int {
	return len(p.names)
}

// Names returns the song names in the order they were added.
func (p *Pack) Names() []string {
	return append([]string(nil), p.names...)
}

// Entries iterates over names and index entries in pack order.
func (p *Pack) Entries() iter.Seq2[string, IndexEntry] {
	return func(yield func(string, IndexEntry) bool) {
		for i, name := range p.names {
			if !yield(name, p.entries[i]) {
				return
			}
		}
	}
}

// Entry returns the index entry stored for name.
func (p *Pack) Entry(name string) (IndexEntry, bool) {
	i, ok := p.lookup(name)
	if !ok {
		return IndexEntry{}, false
	}

	return p.entries[i], true
}

func (p *Pack) lookup(name string) (int, bool) {
	if p.Header.HasCollision() {
		i, ok := p.byName[name]
		return i, ok
	}

	i, ok := p.byID[hash.SongID(name)]
	if !ok || p.names[i] != name {
		return 0, false
	}

	return i, true
}

// Raw returns the decompressed file contents stored under name.
//
// Returns:
//   - []byte: A fresh copy owned by the caller
//   - error: errs.ErrSongNotFound, errs.ErrChecksumMismatch, or
//     errs.ErrMalformedFormat when the payload does not decompress
func (p *Pack) Raw(name string) ([]byte, error) {
	i, ok := p.lookup(name)
	if !ok {
		return nil, fmt.Errorf("songpack: %q: %w", name, errs.ErrSongNotFound)
	}
	e := p.entries[i]

	stored := p.payloads[e.Offset : e.Offset+e.CompressedLength]
	raw, err := p.codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("songpack: decompress %q: %w: %w", name, errs.ErrMalformedFormat, err)
	}
	if uint64(len(raw)) != uint64(e.RawLength) {
		return nil, fmt.Errorf("songpack: %q: %w: %d bytes after decompression, index says %d",
			name, errs.ErrInvalidIndex, len(raw), e.RawLength)
	}
	if hash.Checksum(raw) != e.Checksum {
		return nil, fmt.Errorf("songpack: %q: %w", name, errs.ErrChecksumMismatch)
	}

	// NoOp returns the stored slice itself
	if p.Header.Compression == format.CompressionNone {
		raw = append([]byte(nil), raw...)
	}

	return raw, nil
}

// Song decodes the song stored under name in its recorded format.
//
// The name is passed to the decoder as the file name, so formats without a
// title field are titled after it.
func (p *Pack) Song(name string) (model.Song, error) {
	i, ok := p.lookup(name)
	if !ok {
		return nil, fmt.Errorf("songpack: %q: %w", name, errs.ErrSongNotFound)
	}

	raw, err := p.Raw(name)
	if err != nil {
		return nil, err
	}

	song, err := noteblocklib.Decode(p.entries[i].Format, raw, name)
	if err != nil {
		return nil, fmt.Errorf("songpack: decode %q: %w", name, err)
	}

	return song, nil
}
