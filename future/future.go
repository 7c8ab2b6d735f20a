// Package future decodes the fixed-record note-block format.
//
// A file is a 16-byte little-endian header followed by 6-byte note
// records:
//
//	header:  float32 tempo · uint32 length · uint32 loop start · uint32 flags
//	record:  uint32 tick · uint8 instrument · uint8 key
//
// Instrument ids below 16 are built-in instruments; higher ids refer to
// custom instruments. The format is decode-only.
package future

import (
	"fmt"

	"github.com/OakLoaf/NoteBlockLib/cursor"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/model"
)

const (
	// HeaderSize is the size of the file header in bytes.
	HeaderSize = 16
	// RecordSize is the size of one note record in bytes.
	RecordSize = 6
)

// Header is the file header.
type Header struct {
	// Tempo in ticks per second.
	Tempo         float32
	Length        uint32
	LoopStartTick uint32
	Flags         uint32
}

// Record is one note record as stored.
type Record struct {
	Tick       uint32
	Instrument uint8
	Key        uint8
}

// Data holds the records in file order.
type Data struct {
	Records []Record
}

// Song is a decoded file.
type Song struct {
	Header Header
	Data   Data

	fileName string
	view     *model.View
}

var _ model.Song = (*Song)(nil)

func (s *Song) Format() format.Format {
	return format.Future
}

func (s *Song) FileName() string {
	return s.fileName
}

func (s *Song) View() *model.View {
	return s.view
}

// Decode parses a file.
//
// Notes at the same tick keep their record order. The view's length is the
// header length when that is larger than the length derived from the notes.
func Decode(data []byte, fileName string) (*Song, error) {
	c := cursor.New(data)
	s := &Song{fileName: fileName}

	if err := s.Header.read(c); err != nil {
		return nil, fmt.Errorf("future: decode header: %w", err)
	}

	if rem := c.Remaining() % RecordSize; rem != 0 {
		return nil, fmt.Errorf("future: decode records: %w: %d trailing bytes", errs.ErrRecordAlignment, rem)
	}

	s.Data.Records = make([]Record, c.Remaining()/RecordSize)
	view := model.NewView(model.TitleFromFileName(fileName), s.Header.Tempo, nil)
	for i := range s.Data.Records {
		r := &s.Data.Records[i]
		if err := r.read(c); err != nil {
			return nil, fmt.Errorf("future: decode record %d: %w", i, err)
		}
		view.AddNote(int(r.Tick), model.Note{Instrument: instrumentRef(r.Instrument), Key: int(r.Key)})
	}
	view.RecalculateLength()
	view.Length = max(view.Length, int(s.Header.Length))
	s.view = view

	return s, nil
}

func (h *Header) read(c *cursor.Cursor) error {
	var err error
	if h.Tempo, err = c.ReadFloat32(); err != nil {
		return err
	}
	if h.Length, err = c.ReadUint32(); err != nil {
		return err
	}
	if h.LoopStartTick, err = c.ReadUint32(); err != nil {
		return err
	}
	h.Flags, err = c.ReadUint32()

	return err
}

func (r *Record) read(c *cursor.Cursor) error {
	var err error
	if r.Tick, err = c.ReadUint32(); err != nil {
		return err
	}
	if r.Instrument, err = c.ReadUint8(); err != nil {
		return err
	}
	r.Key, err = c.ReadUint8()

	return err
}

func instrumentRef(id uint8) model.InstrumentRef {
	if id < model.VanillaInstrumentCount {
		return model.Vanilla(model.Instrument(id))
	}

	return model.Custom(int(id) - model.VanillaInstrumentCount)
}
