// Package errs defines the sentinel errors returned by the codecs.
//
// Every error returned by a decoder or encoder wraps exactly one of the three
// kinds below, so callers can branch with errors.Is:
//
//	song, err := nbs.Decode(data, "song.nbs")
//	if errors.Is(err, errs.ErrTruncatedInput) {
//	    // file was cut short
//	}
//
// The more specific sentinels wrap their kind, so matching on either works.
package errs

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrTruncatedInput is returned when the buffer ends before a required field.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrMalformedFormat is returned for structurally impossible values.
	ErrMalformedFormat = errors.New("malformed format")
	// ErrUnsupportedOperation is returned when a format cannot perform the requested operation.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Malformed input.
var (
	ErrInvalidVersion    = fmt.Errorf("%w: invalid version", ErrMalformedFormat)
	ErrNegativeJump      = fmt.Errorf("%w: negative jump", ErrMalformedFormat)
	ErrKeyOutOfRange     = fmt.Errorf("%w: key out of range", ErrMalformedFormat)
	ErrUnknownInstrument = fmt.Errorf("%w: unknown instrument", ErrMalformedFormat)
	ErrNegativeLength    = fmt.Errorf("%w: negative length", ErrMalformedFormat)
	ErrVarIntTooLong     = fmt.Errorf("%w: variable-length quantity exceeds 4 bytes", ErrMalformedFormat)
	ErrRunningStatus     = fmt.Errorf("%w: running status without a previous status byte", ErrMalformedFormat)
	ErrInvalidStatus     = fmt.Errorf("%w: invalid status byte", ErrMalformedFormat)
	ErrInvalidChunk      = fmt.Errorf("%w: invalid chunk", ErrMalformedFormat)
	ErrRecordAlignment   = fmt.Errorf("%w: record region is not a multiple of the record size", ErrMalformedFormat)
	ErrDuplicateTick     = fmt.Errorf("%w: duplicate tick", ErrMalformedFormat)
	ErrInvalidMagic      = fmt.Errorf("%w: invalid magic number", ErrMalformedFormat)
	ErrChecksumMismatch  = fmt.Errorf("%w: checksum mismatch", ErrMalformedFormat)
	ErrInvalidIndex      = fmt.Errorf("%w: invalid index entry", ErrMalformedFormat)
)

// Unsupported operations.
var (
	ErrDecodeOnly         = fmt.Errorf("%w: format is decode-only", ErrUnsupportedOperation)
	ErrNotSynthesizable   = fmt.Errorf("%w: format cannot be created from a view", ErrUnsupportedOperation)
	ErrUnsupportedFormat  = fmt.Errorf("%w: format has no binary codec", ErrUnsupportedOperation)
	ErrUnsupportedTiming  = fmt.Errorf("%w: SMPTE time division", ErrUnsupportedOperation)
	ErrUnrepresentable    = fmt.Errorf("%w: value not representable in target version", ErrUnsupportedOperation)
	ErrUnknownCompression = fmt.Errorf("%w: unknown compression", ErrUnsupportedOperation)
)

// Song pack usage errors.
var (
	ErrEmptySongName     = errors.New("song name is empty")
	ErrDuplicateSongName = errors.New("song name already added")
	ErrSongNotFound      = errors.New("song not found")
	ErrPackFinished      = errors.New("pack already finished")
)
