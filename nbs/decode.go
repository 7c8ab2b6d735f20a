package nbs

import (
	"fmt"

	"github.com/OakLoaf/NoteBlockLib/cursor"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/model"
)

// MaxKey is the highest key a note record may carry.
const MaxKey = 127

// Decode parses an NBS file of any version.
//
// Layers and the custom instrument table are optional: files that end after
// the note stream decode with none. Bytes after the custom instrument table
// are kept in Data.Trailer.
//
// Parameters:
//   - data: the complete file
//   - fileName: source name, used only for diagnostics; may be empty
//
// Returns:
//   - *Song: the decoded song, its view built from the note stream
//   - error: wraps errs.ErrTruncatedInput or errs.ErrMalformedFormat
func Decode(data []byte, fileName string) (*Song, error) {
	c := cursor.New(data)
	s := &Song{fileName: fileName}

	if err := s.Header.read(c); err != nil {
		return nil, fmt.Errorf("nbs: decode header: %w", err)
	}

	notes, err := readNotes(c, &s.Header)
	if err != nil {
		return nil, fmt.Errorf("nbs: decode notes: %w", err)
	}

	if c.Remaining() > 0 {
		s.Data.Layers = make([]Layer, s.Header.LayerCount)
		for i := range s.Data.Layers {
			if err := s.Data.Layers[i].read(c, s.Header.Version); err != nil {
				return nil, fmt.Errorf("nbs: decode layer %d: %w", i, err)
			}
		}
	}

	if c.Remaining() > 0 {
		count, err := c.ReadUint8()
		if err != nil {
			return nil, fmt.Errorf("nbs: decode custom instruments: %w", err)
		}
		s.Data.CustomInstruments = make([]CustomInstrument, count)
		for i := range s.Data.CustomInstruments {
			if err := s.Data.CustomInstruments[i].read(c); err != nil {
				return nil, fmt.Errorf("nbs: decode custom instrument %d: %w", i, err)
			}
		}
	}

	if c.Remaining() > 0 {
		s.Data.Trailer, _ = c.ReadBytes(c.Remaining())
	}

	s.view = model.NewView(s.Header.Name, s.Header.TicksPerSecond(), notes)

	return s, nil
}

// readNotes walks the jump-encoded note stream. Both counters start at -1,
// so the first jump lands on the first occupied tick or layer.
func readNotes(c *cursor.Cursor, h *Header) (map[int][]model.Note, error) {
	notes := make(map[int][]model.Note)

	tick := -1
	for {
		jump, err := c.ReadInt16()
		if err != nil {
			return nil, err
		}
		if jump == 0 {
			break
		}
		if jump < 0 {
			return nil, fmt.Errorf("%w: tick jump %d after tick %d", errs.ErrNegativeJump, jump, tick)
		}
		tick += int(jump)

		layer := -1
		for {
			jump, err := c.ReadInt16()
			if err != nil {
				return nil, err
			}
			if jump == 0 {
				break
			}
			if jump < 0 {
				return nil, fmt.Errorf("%w: layer jump %d at tick %d", errs.ErrNegativeJump, jump, tick)
			}
			layer += int(jump)

			note, err := readNote(c, h, layer)
			if err != nil {
				return nil, fmt.Errorf("tick %d layer %d: %w", tick, layer, err)
			}
			notes[tick] = append(notes[tick], note)
		}
	}

	return notes, nil
}

func readNote(c *cursor.Cursor, h *Header, layer int) (model.Note, error) {
	id, err := c.ReadUint8()
	if err != nil {
		return model.Note{}, err
	}
	key, err := c.ReadUint8()
	if err != nil {
		return model.Note{}, err
	}
	if key > MaxKey {
		return model.Note{}, fmt.Errorf("%w: %d", errs.ErrKeyOutOfRange, key)
	}

	ext := DefaultNoteExt(layer)
	if h.Version >= 4 {
		if ext.Velocity, err = c.ReadUint8(); err != nil {
			return model.Note{}, err
		}
		if ext.Panning, err = c.ReadUint8(); err != nil {
			return model.Note{}, err
		}
		if ext.Pitch, err = c.ReadInt16(); err != nil {
			return model.Note{}, err
		}
	}

	ref, err := instrumentRef(id, h.VanillaInstrumentCount)
	if err != nil {
		return model.Note{}, err
	}

	return model.Note{Instrument: ref, Key: int(key), Ext: ext}, nil
}

func instrumentRef(id, vanillaCount uint8) (model.InstrumentRef, error) {
	if id >= vanillaCount {
		return model.Custom(int(id - vanillaCount)), nil
	}
	instrument, ok := model.InstrumentByID(int(id))
	if !ok {
		return model.InstrumentRef{}, fmt.Errorf("%w: id %d", errs.ErrUnknownInstrument, id)
	}

	return model.Vanilla(instrument), nil
}
