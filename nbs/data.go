package nbs

import (
	"github.com/OakLoaf/NoteBlockLib/cursor"
	"github.com/OakLoaf/NoteBlockLib/format"
)

// Defaults for fields absent from older versions.
const (
	DefaultVelocity     uint8 = 100
	DefaultPanning      uint8 = 100 // centered
	DefaultLayerVolume  uint8 = 100
	DefaultLayerPanning uint8 = 100
	DefaultCustomKey    uint8 = 45 // F#4
)

// NoteExt holds the NBS-specific attributes of a note.
type NoteExt struct {
	// Layer is the row the note sits on in the editor.
	Layer int
	// Velocity is the note volume in percent (version 4+).
	Velocity uint8
	// Panning is 0 (left) to 200 (right), 100 is centered (version 4+).
	Panning uint8
	// Pitch is the fine pitch in cents (version 4+).
	Pitch int16
}

// Format implements model.Extension.
func (NoteExt) Format() format.Format {
	return format.NBS
}

// DefaultNoteExt returns the attributes of a note on layer without fine tuning.
func DefaultNoteExt(layer int) NoteExt {
	return NoteExt{Layer: layer, Velocity: DefaultVelocity, Panning: DefaultPanning}
}

// Layer is one editor row.
type Layer struct {
	Name string
	// Locked layers are skipped by the editor's note tools (version 4+).
	Locked bool
	// Volume in percent.
	Volume uint8
	// Panning is 0 (left) to 200 (right), 100 is centered (version 2+).
	Panning uint8
}

// NewLayer returns a layer with default volume and panning.
func NewLayer() Layer {
	return Layer{Volume: DefaultLayerVolume, Panning: DefaultLayerPanning}
}

// CustomInstrument is a sound defined by the song file. Notes refer to it by
// model.Custom(index) where index is its position in Data.CustomInstruments.
type CustomInstrument struct {
	Name      string
	SoundFile string
	// Key is the key the sound file plays at.
	Key      uint8
	PressKey bool
}

// Data is everything of an NBS file after the header except the notes,
// which live in the song's view.
type Data struct {
	Layers            []Layer
	CustomInstruments []CustomInstrument
	// Trailer holds bytes after the custom instrument table, re-emitted verbatim.
	Trailer []byte
}

func (l *Layer) read(c *cursor.Cursor, version uint8) error {
	var err error
	if l.Name, err = c.ReadString(); err != nil {
		return err
	}
	if version >= 4 {
		if l.Locked, err = c.ReadBool(); err != nil {
			return err
		}
	}
	if l.Volume, err = c.ReadUint8(); err != nil {
		return err
	}
	l.Panning = DefaultLayerPanning
	if version >= 2 {
		if l.Panning, err = c.ReadUint8(); err != nil {
			return err
		}
	}

	return nil
}

func (l *Layer) write(c *cursor.Cursor, version uint8) {
	c.WriteString(l.Name)
	if version >= 4 {
		c.WriteBool(l.Locked)
	}
	c.WriteUint8(l.Volume)
	if version >= 2 {
		c.WriteUint8(l.Panning)
	}
}

func (ci *CustomInstrument) read(c *cursor.Cursor) error {
	var err error
	if ci.Name, err = c.ReadString(); err != nil {
		return err
	}
	if ci.SoundFile, err = c.ReadString(); err != nil {
		return err
	}
	if ci.Key, err = c.ReadUint8(); err != nil {
		return err
	}
	ci.PressKey, err = c.ReadBool()

	return err
}

func (ci *CustomInstrument) write(c *cursor.Cursor) {
	c.WriteString(ci.Name)
	c.WriteString(ci.SoundFile)
	c.WriteUint8(ci.Key)
	c.WriteBool(ci.PressKey)
}
