package model

import (
	"fmt"

	"github.com/OakLoaf/NoteBlockLib/format"
)

// Key window playable by a note block without pitch shifting (F#3..F#5).
const (
	KeyWindowLow  = 33
	KeyWindowHigh = 57
)

// Extension carries format-specific note attributes.
//
// Implementations must be comparable value types so that notes can be
// compared with ==.
type Extension interface {
	Format() format.Format
}

// Note is one sounding event.
//
// Key 0 is A0 and 87 is C8. Keys outside the playable window are kept as-is.
type Note struct {
	Instrument InstrumentRef
	Key        int
	Ext        Extension
}

// Equal reports whether n and other have the same instrument, key and extension.
func (n Note) Equal(other Note) bool {
	return n == other
}

// SameSound reports whether n and other share instrument and key,
// ignoring any format extension.
func (n Note) SameSound(other Note) bool {
	return n.Instrument == other.Instrument && n.Key == other.Key
}

// InWindow reports whether the key lies in the playable two-octave window.
func (n Note) InWindow() bool {
	return n.Key >= KeyWindowLow && n.Key <= KeyWindowHigh
}

func (n Note) String() string {
	if n.Ext == nil {
		return fmt.Sprintf("%s@%d", n.Instrument, n.Key)
	}

	return fmt.Sprintf("%s@%d %+v", n.Instrument, n.Key, n.Ext)
}
