package nbs

import (
	"fmt"
	"math"

	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/model"
)

// Song is a decoded NBS file.
type Song struct {
	Header Header
	Data   Data

	fileName string
	view     *model.View
}

var _ model.Song = (*Song)(nil)

// NewSongFromView builds a latest-version song around view.
//
// The song takes ownership of view: the header's name, tempo and length are
// taken from it, and the layer count fits the busiest tick. Layers are
// created with default settings.
func NewSongFromView(view *model.View) *Song {
	s := &Song{
		Header: NewHeader(),
		view:   view,
	}
	// out-of-range tempo or length is clamped here and reported again by Encode
	_ = s.syncHeader()

	layers := 0
	for _, notes := range view.All() {
		if placed := placeNotes(notes); len(placed) > 0 {
			layers = max(layers, placed[len(placed)-1].ext.Layer+1)
		}
	}
	layers = min(layers, math.MaxUint16)
	s.Header.LayerCount = uint16(layers) //nolint:gosec
	s.Data.Layers = make([]Layer, layers)
	for i := range s.Data.Layers {
		s.Data.Layers[i] = NewLayer()
	}

	return s
}

func (s *Song) Format() format.Format {
	return format.NBS
}

func (s *Song) FileName() string {
	return s.fileName
}

func (s *Song) View() *model.View {
	return s.view
}

// syncHeader copies name, tempo and length from the view into the header.
// Values that do not fit are clamped and reported.
func (s *Song) syncHeader() error {
	s.Header.Name = s.view.Title

	var err error
	tempo := math.Round(float64(s.view.Tempo) * 100)
	switch {
	case tempo < 0 || math.IsNaN(tempo):
		err = fmt.Errorf("%w: tempo %v", errs.ErrUnrepresentable, s.view.Tempo)
		tempo = 0
	case tempo > math.MaxUint16:
		err = fmt.Errorf("%w: tempo %v", errs.ErrUnrepresentable, s.view.Tempo)
		tempo = math.MaxUint16
	}
	s.Header.Tempo = uint16(tempo)

	length := s.view.Length
	if length > math.MaxUint16 {
		if err == nil {
			err = fmt.Errorf("%w: length %d", errs.ErrUnrepresentable, length)
		}
		length = math.MaxUint16
	}
	s.Header.Length = uint16(max(length, 0)) //nolint:gosec

	return err
}
