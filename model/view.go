package model

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/OakLoaf/NoteBlockLib/errs"
)

// View is the canonical, format-independent form of a song: notes indexed
// by tick, plus title and tempo.
//
// Tempo is in ticks per second. Length is max(tick)+1, or 0 for an empty
// song; it is computed by NewView and RecalculateLength only, so callers
// that mutate notes decide when to refresh it.
//
// Ticks are non-negative. Passing a negative tick to a mutator panics.
// A View is not safe for concurrent mutation.
type View struct {
	Title  string
	Tempo  float32
	Length int

	notes map[int][]Note
}

// TickNotes is one tick of a view with its notes.
type TickNotes struct {
	Tick  int
	Notes []Note
}

// NewView returns a view that owns notes. A nil map yields an empty view.
func NewView(title string, tempo float32, notes map[int][]Note) *View {
	if notes == nil {
		notes = make(map[int][]Note)
	}
	for tick := range notes {
		checkTick(tick)
	}
	v := &View{Title: title, Tempo: tempo, notes: notes}
	v.RecalculateLength()

	return v
}

// BuildTickMap assembles a tick map from entries and rejects repeated ticks.
func BuildTickMap(entries []TickNotes) (map[int][]Note, error) {
	notes := make(map[int][]Note, len(entries))
	for _, e := range entries {
		if e.Tick < 0 {
			return nil, fmt.Errorf("%w: negative tick %d", errs.ErrMalformedFormat, e.Tick)
		}
		if _, ok := notes[e.Tick]; ok {
			return nil, fmt.Errorf("%w: %d", errs.ErrDuplicateTick, e.Tick)
		}
		notes[e.Tick] = e.Notes
	}

	return notes, nil
}

// Notes returns the live tick map.
func (v *View) Notes() map[int][]Note {
	return v.notes
}

// NotesAt returns the notes at tick in attach order, or nil.
func (v *View) NotesAt(tick int) []Note {
	return v.notes[tick]
}

// SetNotesAt replaces the notes at tick.
func (v *View) SetNotesAt(tick int, notes []Note) {
	checkTick(tick)
	v.notes[tick] = notes
}

// AddNote appends n after the notes already at tick.
func (v *View) AddNote(tick int, n Note) {
	checkTick(tick)
	v.notes[tick] = append(v.notes[tick], n)
}

// RemoveTick deletes tick and its notes.
func (v *View) RemoveTick(tick int) {
	delete(v.notes, tick)
}

// Ticks returns the occupied ticks in ascending order.
func (v *View) Ticks() []int {
	return slices.Sorted(maps.Keys(v.notes))
}

// All iterates ticks in ascending order.
func (v *View) All() iter.Seq2[int, []Note] {
	return func(yield func(int, []Note) bool) {
		for _, tick := range v.Ticks() {
			if !yield(tick, v.notes[tick]) {
				return
			}
		}
	}
}

// RecalculateLength sets Length from the highest occupied tick.
func (v *View) RecalculateLength() {
	last := -1
	for tick := range v.notes {
		last = max(last, tick)
	}
	v.Length = last + 1
}

// NoteCount returns the number of notes over all ticks.
func (v *View) NoteCount() int {
	n := 0
	for _, notes := range v.notes {
		n += len(notes)
	}

	return n
}

// Duration returns the playback time of Length ticks at Tempo.
func (v *View) Duration() time.Duration {
	if v.Tempo <= 0 {
		return 0
	}

	return time.Duration(float64(v.Length) / float64(v.Tempo) * float64(time.Second))
}

// Clone returns a deep copy; mutating either view never affects the other.
func (v *View) Clone() *View {
	entries := make([]TickNotes, 0, len(v.notes))
	for tick, notes := range v.All() {
		entries = append(entries, TickNotes{Tick: tick, Notes: slices.Clone(notes)})
	}
	notes, err := BuildTickMap(entries)
	if err != nil {
		panic(fmt.Sprintf("model: clone view: %v", err))
	}

	return &View{Title: v.Title, Tempo: v.Tempo, Length: v.Length, notes: notes}
}

// Equal reports whether both views hold the same title, tempo, length and
// notes, with notes compared in attach order per tick.
func (v *View) Equal(other *View) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Title != other.Title || v.Tempo != other.Tempo || v.Length != other.Length {
		return false
	}
	if len(v.notes) != len(other.notes) {
		return false
	}
	for tick, notes := range v.notes {
		theirs, ok := other.notes[tick]
		if !ok || !slices.Equal(notes, theirs) {
			return false
		}
	}

	return true
}

func checkTick(tick int) {
	if tick < 0 {
		panic(fmt.Sprintf("model: negative tick %d", tick))
	}
}
