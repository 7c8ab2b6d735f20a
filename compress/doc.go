// Package compress provides the payload codecs used by song packs.
//
// Each song stored in a pack is compressed on its own with the pack's codec,
// so a single song can be extracted without touching the others. Four
// algorithms are available:
//
//   - None (format.CompressionNone): payloads are stored as-is
//   - Zstd (format.CompressionZstd): best ratio, good for archives
//   - S2 (format.CompressionS2): fast with a reasonable ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// NBS files are small and repetitive (long runs of zero jumps and default
// layer fields), so Zstd typically shrinks them to a third of their size.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(raw)
//
// # Zstd Implementations
//
// The default build uses the pure-Go klauspost/compress encoder. Building with
// cgo and the gozstd tag switches to valyala/gozstd:
//
//	go build -tags gozstd ./...
//
// Both produce standard Zstandard frames and can read each other's output.
//
// # Thread Safety
//
// All codecs are stateless values backed by sync.Pools and can be shared
// across goroutines.
package compress
