package format

import "strings"

type (
	// Format identifies a song file format.
	Format uint8
	// CompressionType identifies the payload compression of a song pack.
	CompressionType uint8
)

const (
	NBS    Format = 0x1 // NBS is the versioned Note Block Studio binary format.
	MIDI   Format = 0x2 // MIDI is the Standard MIDI File event stream.
	Future Format = 0x3 // Future is the fixed-record note-block binary format.
	MCSP   Format = 0x4 // MCSP is the Minecraft Song Planner text format.
	TXT    Format = 0x5 // TXT is the line-oriented note-block text format.

	CompressionNone CompressionType = 0x1 // CompressionNone stores payloads as-is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (f Format) String() string {
	switch f {
	case NBS:
		return "NBS"
	case MIDI:
		return "MIDI"
	case Future:
		return "Future"
	case MCSP:
		return "MCSP"
	case TXT:
		return "TXT"
	default:
		return "Unknown"
	}
}

// IsValid reports whether f is a known format tag.
func (f Format) IsValid() bool {
	return f >= NBS && f <= TXT
}

// CanEncode reports whether the format layout is invertible.
func (f Format) CanEncode() bool {
	return f == NBS
}

// Extension returns the usual file extension of f, without the dot.
func (f Format) Extension() string {
	switch f {
	case NBS:
		return "nbs"
	case MIDI:
		return "mid"
	case Future:
		return "notebot"
	case MCSP:
		return "mcsp"
	case TXT:
		return "txt"
	default:
		return ""
	}
}

// FromExtension maps a file extension, with or without the leading dot, to
// its format. Matching is case-insensitive and accepts "midi" for MIDI.
func FromExtension(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "nbs":
		return NBS, true
	case "mid", "midi":
		return MIDI, true
	case "notebot":
		return Future, true
	case "mcsp":
		return MCSP, true
	case "txt":
		return TXT, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a case-insensitive name ("none", "zstd", "s2", "lz4") to its type.
func ParseCompression(name string) (CompressionType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, true
	case "zstd":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
