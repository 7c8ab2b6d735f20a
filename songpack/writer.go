package songpack

import (
	"fmt"
	"math"
	"slices"

	"github.com/OakLoaf/NoteBlockLib/compress"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/internal/collision"
	"github.com/OakLoaf/NoteBlockLib/internal/hash"
	"github.com/OakLoaf/NoteBlockLib/internal/options"
	"github.com/OakLoaf/NoteBlockLib/internal/pool"
	"github.com/OakLoaf/NoteBlockLib/nbs"
)

// MaxSongs is the largest number of songs a pack can hold.
const MaxSongs = math.MaxUint16

// Writer builds a pack. It is not safe for concurrent use.
type Writer struct {
	compression format.CompressionType
	codec       compress.Codec
	tracker     *collision.Tracker
	entries     []IndexEntry
	payloads    *pool.ByteBuffer
	stats       compress.Stats
	finished    bool
}

// Option configures a Writer.
type Option = options.Option[*Writer]

// WithCompression selects the payload codec. The default is Zstd.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(w *Writer) error {
		codec, err := compress.GetCodec(compression)
		if err != nil {
			return err
		}
		w.compression = compression
		w.codec = codec

		return nil
	})
}

// NewWriter creates an empty pack writer.
//
// Returns:
//   - *Writer: The writer; call Finish to obtain the pack bytes
//   - error: errs.ErrUnknownCompression from WithCompression
func NewWriter(opts ...Option) (*Writer, error) {
	w := &Writer{
		compression: format.CompressionZstd,
		codec:       compress.NewZstdCompressor(),
		tracker:     collision.NewTracker(),
		payloads:    pool.GetPackBuffer(),
	}
	if err := options.Apply(w, opts...); err != nil {
		pool.PutPackBuffer(w.payloads)
		return nil, fmt.Errorf("songpack: %w", err)
	}
	w.stats.Algorithm = w.compression

	return w, nil
}

// Add stores raw, the complete file contents of a song in format f, under name.
//
// The bytes are not decoded; Pack.Song decodes them on demand.
//
// Returns:
//   - error: errs.ErrEmptySongName, errs.ErrDuplicateSongName,
//     errs.ErrPackFinished, errs.ErrUnsupportedFormat for an unknown tag, or
//     errs.ErrUnrepresentable when the pack outgrows its 32-bit offsets
func (w *Writer) Add(name string, f format.Format, raw []byte) error {
	if w.finished {
		return errs.ErrPackFinished
	}
	if !f.IsValid() {
		return fmt.Errorf("songpack: add %q: %w: tag 0x%02x", name, errs.ErrUnsupportedFormat, uint8(f))
	}
	if w.tracker.Count() >= MaxSongs {
		return fmt.Errorf("songpack: add %q: %w: more than %d songs", name, errs.ErrUnrepresentable, MaxSongs)
	}
	if len(name) > math.MaxUint16 {
		return fmt.Errorf("songpack: add: %w: name of %d bytes", errs.ErrUnrepresentable, len(name))
	}
	if uint64(len(raw)) > math.MaxUint32 {
		return fmt.Errorf("songpack: add %q: %w: song of %d bytes", name, errs.ErrUnrepresentable, len(raw))
	}

	compressed, err := w.codec.Compress(raw)
	if err != nil {
		return fmt.Errorf("songpack: compress %q: %w", name, err)
	}

	offset := w.payloads.Len()
	if uint64(offset)+uint64(len(compressed)) > math.MaxUint32 {
		return fmt.Errorf("songpack: add %q: %w: payload section exceeds 4GiB", name, errs.ErrUnrepresentable)
	}

	id := hash.SongID(name)
	if err := w.tracker.Track(name, id); err != nil {
		return fmt.Errorf("songpack: add %q: %w", name, err)
	}

	w.entries = append(w.entries, IndexEntry{
		ID:               id,
		Checksum:         hash.Checksum(raw),
		Offset:           uint32(offset),          //nolint:gosec
		CompressedLength: uint32(len(compressed)), //nolint:gosec
		RawLength:        uint32(len(raw)),        //nolint:gosec
		Format:           f,
	})
	_, _ = w.payloads.Write(compressed)
	w.stats.Add(len(raw), len(compressed))

	return nil
}

// AddSong encodes song as NBS and stores it under name.
func (w *Writer) AddSong(name string, song *nbs.Song, opts ...nbs.EncodeOption) error {
	if w.finished {
		return errs.ErrPackFinished
	}

	raw, err := nbs.Encode(song, opts...)
	if err != nil {
		return fmt.Errorf("songpack: encode %q: %w", name, err)
	}

	return w.Add(name, format.NBS, raw)
}

// Count returns the number of songs added so far.
func (w *Writer) Count() int {
	return len(w.entries)
}

// Stats reports the compression achieved so far.
func (w *Writer) Stats() compress.Stats {
	return w.stats
}

// Finish assembles the pack and releases the writer's buffers.
//
// Any later call to Add, AddSong or Finish returns errs.ErrPackFinished.
func (w *Writer) Finish() ([]byte, error) {
	if w.finished {
		return nil, errs.ErrPackFinished
	}
	w.finished = true
	defer func() {
		pool.PutPackBuffer(w.payloads)
		w.payloads = nil
	}()

	names := w.tracker.Names()
	namesSize := 2
	for _, name := range names {
		namesSize += 2 + len(name)
	}
	indexSize := len(w.entries) * IndexEntrySize

	header := Header{
		Version:     Version,
		Compression: w.compression,
		Count:       uint32(len(w.entries)), //nolint:gosec
		NamesOffset: HeaderSize,
	}
	if w.tracker.HasCollision() {
		header.Flags |= FlagIDCollision
	}

	out := make([]byte, 0, HeaderSize+namesSize+indexSize+w.payloads.Len())
	out = append(out, header.Bytes()...)
	out = engine.AppendUint16(out, uint16(len(names))) //nolint:gosec
	for _, name := range names {
		out = engine.AppendUint16(out, uint16(len(name))) //nolint:gosec
		out = append(out, name...)
	}
	for i := range w.entries {
		out = append(out, w.entries[i].Bytes()...)
	}
	out = append(out, w.payloads.Bytes()...)

	return slices.Clip(out), nil
}
