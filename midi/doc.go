// Package midi decodes Standard MIDI Files into note-block songs.
//
// Only metrical time divisions are supported. Channel messages are
// interpreted with gitlab.com/gomidi/midi/v2; the chunk and event framing,
// including running status, is read here so that malformed files fail with
// the errs kinds shared by every codec.
//
// Each note-on becomes one note at its onset tick. Channel 10 is treated as
// percussion and mapped by drum key; other channels map their current
// program through a ProgramMap. Keys are shifted so that A0 is key 0 and
// folded by octaves into the 88-key range.
//
// The format is decode-only.
package midi
