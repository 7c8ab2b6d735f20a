package midi

import (
	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/model"
)

// DefaultMicrosPerQuarter is the tempo before the first tempo event (120 BPM).
const DefaultMicrosPerQuarter = 500000

// Header is the MThd chunk.
type Header struct {
	// Format is 0 (single track), 1 (parallel tracks) or 2 (sequential tracks).
	Format uint16
	// TrackCount is the number of MTrk chunks the header announces.
	TrackCount uint16
	// Division is the number of ticks per quarter note.
	Division uint16
}

// TempoChange is a tempo meta event.
type TempoChange struct {
	Tick             int
	MicrosPerQuarter uint32
}

// TicksPerSecond converts the tempo to ticks per second for division.
func (tc TempoChange) TicksPerSecond(division uint16) float32 {
	return float32(1e6 / float64(tc.MicrosPerQuarter) * float64(division))
}

// DroppedNote is a note-on that was never released before its track ended.
type DroppedNote struct {
	Track   int
	Channel uint8
	Key     uint8
	Tick    int
}

// Data is what the decoder keeps besides the notes.
type Data struct {
	// TempoChanges is the tempo map of all tracks in tick order. The view
	// uses only the tempo at tick 0.
	TempoChanges []TempoChange
	// TrackNames holds the first track-name event of each track, "" if none.
	TrackNames []string
	// Dropped lists unreleased notes left out of the view.
	Dropped []DroppedNote
}

// NoteExt holds the MIDI origin of a note.
type NoteExt struct {
	Track    int
	Channel  uint8
	Velocity uint8
}

// Format implements model.Extension.
func (NoteExt) Format() format.Format {
	return format.MIDI
}

// Song is a decoded Standard MIDI File. It cannot be encoded.
type Song struct {
	Header Header
	Data   Data

	fileName string
	view     *model.View
}

var _ model.Song = (*Song)(nil)

func (s *Song) Format() format.Format {
	return format.MIDI
}

func (s *Song) FileName() string {
	return s.fileName
}

func (s *Song) View() *model.View {
	return s.view
}
