// Package endian provides the byte-order engines used by the cursor package.
//
// Note-block formats (NBS and the fixed-record format) are little-endian,
// Standard MIDI Files are big-endian. Both engines come straight from
// encoding/binary and combine ByteOrder with AppendByteOrder so encoders can
// append without scratch buffers:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint16(buf, 1000)
//
// The returned engines are immutable and safe for concurrent use.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsLittleEndian reports whether engine writes the least significant byte first.
func IsLittleEndian(engine EndianEngine) bool {
	var b [2]byte
	engine.PutUint16(b[:], 0x0102)

	return b[0] == 0x02
}
