package compress

import (
	"fmt"

	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/format"
)

// Compressor compresses one song payload.
//
// The returned slice is owned by the caller. Implementations must not modify
// the input.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
//
// Implementations are safe for concurrent use.
type Decompressor interface {
	// Decompress returns the original bytes, or an error when data is corrupt
	// or was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes the effect of compressing a set of song payloads.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int64
	CompressedSize int64
}

// Add accumulates one payload's sizes.
func (s *Stats) Add(original, compressed int) {
	s.OriginalSize += int64(original)
	s.CompressedSize += int64(compressed)
}

// Ratio returns compressed size / original size, or 0 when nothing was added.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s Stats) SpaceSavings() float64 {
	if s.OriginalSize == 0 {
		return 0.0
	}

	return (1.0 - s.Ratio()) * 100.0
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in codec for compressionType.
//
// Parameters:
//   - compressionType: One of the format.Compression* tags
//
// Returns:
//   - Codec: A codec safe for concurrent use
//   - error: errs.ErrUnknownCompression for unknown tags
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s (0x%02x)", errs.ErrUnknownCompression, compressionType, uint8(compressionType))
}
