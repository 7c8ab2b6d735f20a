package nbs

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/OakLoaf/NoteBlockLib/cursor"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/internal/options"
	"github.com/OakLoaf/NoteBlockLib/model"
)

type encodeConfig struct {
	version    uint8
	versionSet bool
}

// EncodeOption configures Encode.
type EncodeOption = options.Option[*encodeConfig]

// WithVersion writes the file in the given format version instead of the
// song's own. Fields the target version lacks are dropped.
func WithVersion(version uint8) EncodeOption {
	return options.New(func(cfg *encodeConfig) error {
		if version > VersionLatest {
			return fmt.Errorf("%w: %d", errs.ErrInvalidVersion, version)
		}
		cfg.version = version
		cfg.versionSet = true

		return nil
	})
}

// placedNote is a note with the layer it is written on.
type placedNote struct {
	note model.Note
	ext  NoteExt
}

// Encode serializes the song.
//
// The view is the source of truth: the header's name, tempo and length are
// updated from it before writing. Each tick's notes are written on the layer
// named by their NoteExt; notes without one, or whose layer is already taken
// at that tick, go to the lowest free layer.
//
// Returns errs.ErrUnrepresentable when a value does not fit the target
// version, for example an instrument newer than the version's built-in set.
func Encode(s *Song, opts ...EncodeOption) ([]byte, error) {
	cfg := &encodeConfig{version: s.Header.Version}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("nbs: encode: %w", err)
	}

	if err := s.syncHeader(); err != nil {
		return nil, fmt.Errorf("nbs: encode: %w", err)
	}

	h := s.Header
	if cfg.versionSet && cfg.version != h.Version {
		h.Version = cfg.version
		if h.Version == VersionClassic {
			h.VanillaInstrumentCount = ClassicVanillaInstrumentCount
		}
	}
	if h.Version != VersionClassic && h.VanillaInstrumentCount == 0 {
		h.VanillaInstrumentCount = vanillaCount(h.Version)
	}

	ticks := s.view.Ticks()
	layout := make([][]placedNote, len(ticks))
	layerCount := max(int(h.LayerCount), len(s.Data.Layers))
	for i, tick := range ticks {
		layout[i] = placeNotes(s.view.NotesAt(tick))
		if n := len(layout[i]); n > 0 {
			layerCount = max(layerCount, layout[i][n-1].ext.Layer+1)
		}
	}
	if layerCount > math.MaxUint16 {
		return nil, fmt.Errorf("nbs: encode: %w: %d layers", errs.ErrUnrepresentable, layerCount)
	}
	h.LayerCount = uint16(layerCount) //nolint:gosec
	if len(s.Data.CustomInstruments) > math.MaxUint8 {
		return nil, fmt.Errorf("nbs: encode: %w: %d custom instruments", errs.ErrUnrepresentable, len(s.Data.CustomInstruments))
	}

	c := cursor.NewWriter()
	defer c.Release()

	h.write(c)
	if err := writeNotes(c, &h, ticks, layout); err != nil {
		return nil, fmt.Errorf("nbs: encode notes: %w", err)
	}

	for i := range layerCount {
		layer := NewLayer()
		if i < len(s.Data.Layers) {
			layer = s.Data.Layers[i]
		}
		layer.write(c, h.Version)
	}

	c.WriteUint8(uint8(len(s.Data.CustomInstruments))) //nolint:gosec
	for i := range s.Data.CustomInstruments {
		s.Data.CustomInstruments[i].write(c)
	}
	c.WriteBytes(s.Data.Trailer)

	return slices.Clone(c.Bytes()), nil
}

// placeNotes assigns a layer to every note of one tick and orders them by layer.
func placeNotes(notes []model.Note) []placedNote {
	placed := make([]placedNote, len(notes))
	taken := make(map[int]bool, len(notes))
	var pending []int

	for i, n := range notes {
		ext, ok := n.Ext.(NoteExt)
		if ok && ext.Layer >= 0 && !taken[ext.Layer] {
			taken[ext.Layer] = true
			placed[i] = placedNote{note: n, ext: ext}

			continue
		}
		if !ok {
			ext = DefaultNoteExt(0)
		}
		placed[i] = placedNote{note: n, ext: ext}
		pending = append(pending, i)
	}

	free := 0
	for _, i := range pending {
		for taken[free] {
			free++
		}
		taken[free] = true
		placed[i].ext.Layer = free
	}

	slices.SortStableFunc(placed, func(a, b placedNote) int {
		return cmp.Compare(a.ext.Layer, b.ext.Layer)
	})

	return placed
}

func writeNotes(c *cursor.Cursor, h *Header, ticks []int, layout [][]placedNote) error {
	prevTick := -1
	for i, tick := range ticks {
		if len(layout[i]) == 0 {
			continue
		}
		if err := writeJump(c, tick-prevTick); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
		prevTick = tick

		prevLayer := -1
		for _, p := range layout[i] {
			if err := writeJump(c, p.ext.Layer-prevLayer); err != nil {
				return fmt.Errorf("tick %d layer %d: %w", tick, p.ext.Layer, err)
			}
			prevLayer = p.ext.Layer

			if err := writeNote(c, h, p); err != nil {
				return fmt.Errorf("tick %d layer %d: %w", tick, p.ext.Layer, err)
			}
		}
		c.WriteInt16(0)
	}
	c.WriteInt16(0)

	return nil
}

func writeJump(c *cursor.Cursor, jump int) error {
	if jump > math.MaxInt16 {
		return fmt.Errorf("%w: jump of %d", errs.ErrUnrepresentable, jump)
	}
	c.WriteInt16(int16(jump)) //nolint:gosec

	return nil
}

func writeNote(c *cursor.Cursor, h *Header, p placedNote) error {
	id, err := instrumentID(p.note.Instrument, h.VanillaInstrumentCount)
	if err != nil {
		return err
	}
	if p.note.Key < 0 || p.note.Key > MaxKey {
		return fmt.Errorf("%w: key %d", errs.ErrUnrepresentable, p.note.Key)
	}

	c.WriteUint8(id)
	c.WriteUint8(uint8(p.note.Key)) //nolint:gosec
	if h.Version >= 4 {
		c.WriteUint8(p.ext.Velocity)
		c.WriteUint8(p.ext.Panning)
		c.WriteInt16(p.ext.Pitch)
	}

	return nil
}

func instrumentID(ref model.InstrumentRef, vanillaCount uint8) (uint8, error) {
	if id, ok := ref.CustomID(); ok {
		raw := int(vanillaCount) + id
		if id < 0 || raw > math.MaxUint8 {
			return 0, fmt.Errorf("%w: custom instrument %d", errs.ErrUnrepresentable, id)
		}

		return uint8(raw), nil //nolint:gosec
	}

	instrument, _ := ref.Instrument()
	if uint8(instrument) >= vanillaCount {
		return 0, fmt.Errorf("%w: instrument %s needs %d built-in instruments, version has %d",
			errs.ErrUnrepresentable, instrument, instrument+1, vanillaCount)
	}

	return uint8(instrument), nil
}
