package nbs

import (
	"fmt"

	"github.com/OakLoaf/NoteBlockLib/cursor"
	"github.com/OakLoaf/NoteBlockLib/errs"
)

// Format versions.
const (
	// VersionClassic is the original layout without a version byte.
	VersionClassic uint8 = 0
	// VersionLatest is the newest layout this package reads and writes.
	VersionLatest uint8 = 5

	// ClassicVanillaInstrumentCount is the built-in instrument count of classic files.
	ClassicVanillaInstrumentCount uint8 = 10
	// DefaultTempo is 10 ticks per second, stored times 100.
	DefaultTempo uint16 = 1000
	// DefaultTimeSignature is 4/4.
	DefaultTimeSignature uint8 = 4
)

// Header is the song header of an NBS file.
//
// Fields marked with a version are only present in files of that version
// or newer; older files leave them at their zero value.
type Header struct {
	// Version is 0 for classic files, otherwise 1..VersionLatest.
	Version uint8
	// VanillaInstrumentCount is the number of built-in instruments known to
	// the editor that wrote the file. Instrument ids at or above it are custom.
	VanillaInstrumentCount uint8
	// Length is the song length in ticks (classic and version 3+).
	Length uint16
	// LayerCount is the number of layers, also called the song height.
	LayerCount uint16

	Name           string
	Author         string
	OriginalAuthor string
	Description    string

	// Tempo is ticks per second times 100.
	Tempo            uint16
	AutoSave         bool
	AutoSaveInterval uint8
	TimeSignature    uint8

	MinutesSpent      int32
	LeftClicks        int32
	RightClicks       int32
	NoteBlocksAdded   int32
	NoteBlocksRemoved int32
	SourceFileName    string

	// Loop settings (version 4+).
	Loop          bool
	MaxLoopCount  uint8
	LoopStartTick uint16
}

// NewHeader returns a header for the latest version with editor defaults.
func NewHeader() Header {
	return Header{
		Version:                VersionLatest,
		VanillaInstrumentCount: vanillaCount(VersionLatest),
		Tempo:                  DefaultTempo,
		TimeSignature:          DefaultTimeSignature,
	}
}

// TicksPerSecond returns the tempo as ticks per second.
func (h *Header) TicksPerSecond() float32 {
	return float32(h.Tempo) / 100
}

func (h *Header) read(c *cursor.Cursor) error {
	first, err := c.ReadUint16()
	if err != nil {
		return err
	}

	if first != 0 {
		h.Version = VersionClassic
		h.VanillaInstrumentCount = ClassicVanillaInstrumentCount
		h.Length = first
	} else {
		if h.Version, err = c.ReadUint8(); err != nil {
			return err
		}
		if h.Version == 0 || h.Version > VersionLatest {
			return fmt.Errorf("%w: %d", errs.ErrInvalidVersion, h.Version)
		}
		if h.VanillaInstrumentCount, err = c.ReadUint8(); err != nil {
			return err
		}
		if h.Version >= 3 {
			if h.Length, err = c.ReadUint16(); err != nil {
				return err
			}
		}
	}

	if h.LayerCount, err = c.ReadUint16(); err != nil {
		return err
	}
	for _, s := range []*string{&h.Name, &h.Author, &h.OriginalAuthor, &h.Description} {
		if *s, err = c.ReadString(); err != nil {
			return err
		}
	}
	if h.Tempo, err = c.ReadUint16(); err != nil {
		return err
	}
	if h.AutoSave, err = c.ReadBool(); err != nil {
		return err
	}
	if h.AutoSaveInterval, err = c.ReadUint8(); err != nil {
		return err
	}
	if h.TimeSignature, err = c.ReadUint8(); err != nil {
		return err
	}
	stats := []*int32{&h.MinutesSpent, &h.LeftClicks, &h.RightClicks, &h.NoteBlocksAdded, &h.NoteBlocksRemoved}
	for _, v := range stats {
		if *v, err = c.ReadInt32(); err != nil {
			return err
		}
	}
	if h.SourceFileName, err = c.ReadString(); err != nil {
		return err
	}

	if h.Version >= 4 {
		if h.Loop, err = c.ReadBool(); err != nil {
			return err
		}
		if h.MaxLoopCount, err = c.ReadUint8(); err != nil {
			return err
		}
		if h.LoopStartTick, err = c.ReadUint16(); err != nil {
			return err
		}
	}

	return nil
}

func (h *Header) write(c *cursor.Cursor) {
	if h.Version == VersionClassic {
		// a zero first field would read back as the versioned layout
		c.WriteUint16(max(h.Length, 1))
	} else {
		c.WriteUint16(0)
		c.WriteUint8(h.Version)
		c.WriteUint8(h.VanillaInstrumentCount)
		if h.Version >= 3 {
			c.WriteUint16(h.Length)
		}
	}

	c.WriteUint16(h.LayerCount)
	c.WriteString(h.Name)
	c.WriteString(h.Author)
	c.WriteString(h.OriginalAuthor)
	c.WriteString(h.Description)
	c.WriteUint16(h.Tempo)
	c.WriteBool(h.AutoSave)
	c.WriteUint8(h.AutoSaveInterval)
	c.WriteUint8(h.TimeSignature)
	c.WriteInt32(h.MinutesSpent)
	c.WriteInt32(h.LeftClicks)
	c.WriteInt32(h.RightClicks)
	c.WriteInt32(h.NoteBlocksAdded)
	c.WriteInt32(h.NoteBlocksRemoved)
	c.WriteString(h.SourceFileName)

	if h.Version >= 4 {
		c.WriteBool(h.Loop)
		c.WriteUint8(h.MaxLoopCount)
		c.WriteUint16(h.LoopStartTick)
	}
}

// vanillaCount returns the built-in instrument count an editor of the given
// version writes.
func vanillaCount(version uint8) uint8 {
	if version == VersionClassic {
		return ClassicVanillaInstrumentCount
	}

	return 16
}
