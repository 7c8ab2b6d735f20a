package compress

// ZstdCompressor compresses payloads as Zstandard frames.
//
// The implementation is selected at build time; see the package
// documentation for the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a Zstd codec at the default level.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
