package collision

import (
	"github.com/OakLoaf/NoteBlockLib/errs"
)

// Tracker records the song names added to a pack and detects when two
// different names share a 64-bit id.
type Tracker struct {
	names        map[uint64]string // id → first name with that id
	seen         map[string]struct{}
	ordered      []string // insertion order, written to the names payload
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		names: make(map[uint64]string),
		seen:  make(map[string]struct{}),
	}
}

// Track records name under id.
//
// Returns errs.ErrEmptySongName for "" and errs.ErrDuplicateSongName when
// the same name was tracked before. Two different names with the same id
// are not an error; HasCollision reports it and readers then match by name.
func (t *Tracker) Track(name string, id uint64) error {
	if name == "" {
		return errs.ErrEmptySongName
	}
	if _, ok := t.seen[name]; ok {
		return errs.ErrDuplicateSongName
	}

	if _, ok := t.names[id]; ok {
		t.hasCollision = true
	} else {
		t.names[id] = name
	}
	t.seen[name] = struct{}{}
	t.ordered = append(t.ordered, name)

	return nil
}

// HasCollision reports whether two tracked names share an id.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in the order they were added.
func (t *Tracker) Names() []string {
	return t.ordered
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.ordered)
}

// Reset clears the tracker for reuse.
func (t *Tracker) Reset() {
	clear(t.names)
	clear(t.seen)
	t.ordered = t.ordered[:0]
	t.hasCollision = false
}
