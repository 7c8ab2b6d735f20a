// Package hash derives song pack identifiers and payload checksums from xxHash64.
package hash

import "github.com/cespare/xxhash/v2"

// SongID computes the xxHash64 of a song name.
func SongID(name string) uint64 {
	return xxhash.Sum64String(name)
}

// Checksum folds the xxHash64 of data into 32 bits.
func Checksum(data []byte) uint32 {
	sum := xxhash.Sum64(data)
	return uint32(sum) ^ uint32(sum>>32) //nolint:gosec
}
