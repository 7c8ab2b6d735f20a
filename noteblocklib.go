// Package noteblocklib reads and writes note-block music files.
//
// Every supported file format decodes into a format-specific song container
// that exposes one canonical model: a model.View of notes indexed by tick,
// with a title and a tempo in ticks per second. Formats whose layout can be
// reproduced can also be encoded, and a view from any format can be turned
// into a new song of an encodable format.
//
// # Supported Formats
//
//   - NBS: Note Block Studio files, all versions (decode and encode)
//   - MIDI: Standard MIDI Files with metrical timing (decode only)
//   - Future: fixed-record note-block files (decode only)
//
// The TXT and MCSP text formats have format tags but no binary codec here;
// decoding them returns errs.ErrUnsupportedFormat.
//
// # Basic Usage
//
// Converting a MIDI file to NBS:
//
//	import "github.com/OakLoaf/NoteBlockLib"
//
//	song, err := noteblocklib.DecodeMIDI(data, "theme.mid")
//	if err != nil {
//	    return err
//	}
//	nbsSong, err := noteblocklib.CreateFromView(song.View(), format.NBS)
//	if err != nil {
//	    return err
//	}
//	out, err := noteblocklib.Encode(nbsSong)
//
// Iterating notes:
//
//	for tick, notes := range song.View().All() {
//	    for _, n := range notes {
//	        fmt.Printf("%d: %s key %d\n", tick, n.Instrument, n.Key)
//	    }
//	}
//
// # Errors
//
// All errors wrap one of errs.ErrTruncatedInput, errs.ErrMalformedFormat or
// errs.ErrUnsupportedOperation. Decoding never returns a partial song.
//
// # Package Structure
//
// This package wraps the per-format packages nbs, midi and future. Use them
// directly to reach format-specific headers and options. Package songpack
// bundles many songs into one compressed archive, and cmd/nbconv exposes
// both from the command line.
package noteblocklib

import (
	"fmt"

	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/future"
	"github.com/OakLoaf/NoteBlockLib/internal/hash"
	"github.com/OakLoaf/NoteBlockLib/midi"
	"github.com/OakLoaf/NoteBlockLib/model"
	"github.com/OakLoaf/NoteBlockLib/nbs"
)

// DecodeNBS decodes a Note Block Studio file.
//
// Parameters:
//   - data: The complete file contents
//   - fileName: The source name, used for diagnostics only; may be empty
//
// Returns:
//   - *nbs.Song: The decoded song
//   - error: An error wrapping one of the errs kinds
func DecodeNBS(data []byte, fileName string) (*nbs.Song, error) {
	return nbs.Decode(data, fileName)
}

// DecodeMIDI decodes a Standard MIDI File.
//
// Options such as midi.WithProgramMap change how channels map to instruments.
// The title falls back to fileName without extension when track 0 has no name.
func DecodeMIDI(data []byte, fileName string, opts ...midi.DecodeOption) (*midi.Song, error) {
	return midi.Decode(data, fileName, opts...)
}

// DecodeFuture decodes a fixed-record note-block file.
//
// The title is fileName without extension; the format has no title field.
func DecodeFuture(data []byte, fileName string) (*future.Song, error) {
	return future.Decode(data, fileName)
}

// Decode decodes data as the given format.
//
// Parameters:
//   - f: The format of data
//   - data: The complete file contents
//   - fileName: The source name; may be empty
//
// Returns:
//   - model.Song: The decoded song; type-assert to reach format details
//   - error: errs.ErrUnsupportedFormat for formats without a binary codec,
//     otherwise the decoder's error
func Decode(f format.Format, data []byte, fileName string) (model.Song, error) {
	var (
		song model.Song
		err  error
	)
	switch f {
	case format.NBS:
		song, err = DecodeNBS(data, fileName)
	case format.MIDI:
		song, err = DecodeMIDI(data, fileName)
	case format.Future:
		song, err = DecodeFuture(data, fileName)
	default:
		return nil, fmt.Errorf("decode %s: %w", f, errs.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	return song, nil
}

// EncodeNBS encodes a Note Block Studio song.
//
// The view is the source of truth; see nbs.Encode for how notes are laid
// out on layers.
func EncodeNBS(song *nbs.Song, opts ...nbs.EncodeOption) ([]byte, error) {
	return nbs.Encode(song, opts...)
}

// Encode encodes a song in its own format.
//
// Returns errs.ErrDecodeOnly for songs of formats that cannot be written.
func Encode(song model.Song) ([]byte, error) {
	if s, ok := song.(*nbs.Song); ok {
		return EncodeNBS(s)
	}

	return nil, fmt.Errorf("encode %s: %w", song.Format(), errs.ErrDecodeOnly)
}

// CreateFromView builds a new song of format f around view.
//
// The song takes ownership of view. Only NBS songs can be synthesized;
// other formats return errs.ErrNotSynthesizable.
//
// Example:
//
//	song, err := noteblocklib.DecodeFuture(data, "loop.fnbs")
//	if err != nil {
//	    return err
//	}
//	nbsSong, err := noteblocklib.CreateFromView(song.View().Clone(), format.NBS)
func CreateFromView(view *model.View, f format.Format) (model.Song, error) {
	if f != format.NBS {
		return nil, fmt.Errorf("create %s song: %w", f, errs.ErrNotSynthesizable)
	}

	return nbs.NewSongFromView(view), nil
}

// SongID returns the 64-bit identifier a song pack uses for name.
func SongID(name string) uint64 {
	return hash.SongID(name)
}
