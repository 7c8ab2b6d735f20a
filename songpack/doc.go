// Package songpack stores many named songs in one compressed archive.
//
// A pack is what a server plugin or jukebox ships instead of a directory of
// loose files: one blob, one index, and each song compressed on its own so a
// single track can be pulled out without inflating the rest.
//
// # Layout
//
// All integers are little-endian.
//
//	Header (16 bytes)
//	  0-3   magic "NBPK"
//	  4     version (1)
//	  5     compression (format.CompressionType)
//	  6-7   flags (bit 0: two names share an id)
//	  8-11  song count
//	  12-15 names offset
//	Names payload
//	  uint16 count, then per song a uint16 byte length and the UTF-8 name
//	Index (count x 32 bytes, same order as the names)
//	  0-7   xxHash64 of the name
//	  8-11  checksum of the raw bytes
//	  12-15 payload offset, relative to the first payload
//	  16-19 compressed length
//	  20-23 raw length
//	  24    format (format.Format)
//	  25-31 reserved
//	Payloads
//
// # Usage
//
//	w, err := songpack.NewWriter(songpack.WithCompression(format.CompressionZstd))
//	if err != nil {
//	    return err
//	}
//	if err := w.Add("theme.mid", format.MIDI, midiBytes); err != nil {
//	    return err
//	}
//	data, err := w.Finish()
//
//	pack, err := songpack.Open(data)
//	song, err := pack.Song("theme.mid")
//
// Lookups go through the 64-bit name ids. When two names in a pack hash to
// the same id the writer sets the collision flag and readers fall back to
// matching the names themselves.
package songpack
