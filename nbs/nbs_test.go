package nbs

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OakLoaf/NoteBlockLib/cursor"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/model"
)

// writeFixture writes h followed by body and returns a copy of the bytes.
func writeFixture(h Header, body func(c *cursor.Cursor)) []byte {
	c := cursor.NewWriter()
	defer c.Release()

	h.write(c)
	if body != nil {
		body(c)
	}

	return append([]byte(nil), c.Bytes()...)
}

func headerLen(h Header) int {
	return len(writeFixture(h, nil))
}

func v5Header() Header {
	return Header{
		Version:                5,
		VanillaInstrumentCount: 16,
		Length:                 5,
		LayerCount:             2,
		Name:                   "Ode",
		Author:                 "anon",
		Description:            "test song",
		Tempo:                  1000,
		TimeSignature:          4,
		MinutesSpent:           12,
		Loop:                   true,
		MaxLoopCount:           2,
		LoopStartTick:          1,
	}
}

func TestDecode_Version5(t *testing.T) {
	data := writeFixture(v5Header(), func(c *cursor.Cursor) {
		// tick 0: layer 0 harp, layer 1 custom 0
		c.WriteInt16(1)
		c.WriteInt16(1)
		c.WriteUint8(0)
		c.WriteUint8(45)
		c.WriteUint8(80)
		c.WriteUint8(150)
		c.WriteInt16(-20)
		c.WriteInt16(1)
		c.WriteUint8(16)
		c.WriteUint8(60)
		c.WriteUint8(100)
		c.WriteUint8(100)
		c.WriteInt16(0)
		c.WriteInt16(0)
		// tick 4: layer 1 bell
		c.WriteInt16(4)
		c.WriteInt16(2)
		c.WriteUint8(uint8(model.Bell))
		c.WriteUint8(50)
		c.WriteUint8(100)
		c.WriteUint8(100)
		c.WriteInt16(0)
		c.WriteInt16(0)
		c.WriteInt16(0)
		// layers
		c.WriteString("melody")
		c.WriteBool(true)
		c.WriteUint8(70)
		c.WriteUint8(120)
		c.WriteString("")
		c.WriteBool(false)
		c.WriteUint8(100)
		c.WriteUint8(100)
		// custom instruments
		c.WriteUint8(1)
		c.WriteString("Kazoo")
		c.WriteString("kazoo.ogg")
		c.WriteUint8(45)
		c.WriteBool(true)
	})

	song, err := Decode(data, "ode.nbs")
	require.NoError(t, err)

	require.Equal(t, format.NBS, song.Format())
	require.Equal(t, "ode.nbs", song.FileName())
	require.Equal(t, v5Header(), song.Header)

	require.Equal(t, []Layer{
		{Name: "melody", Locked: true, Volume: 70, Panning: 120},
		{Volume: 100, Panning: 100},
	}, song.Data.Layers)
	require.Equal(t, []CustomInstrument{
		{Name: "Kazoo", SoundFile: "kazoo.ogg", Key: 45, PressKey: true},
	}, song.Data.CustomInstruments)
	require.Empty(t, song.Data.Trailer)

	view := song.View()
	require.Equal(t, "Ode", view.Title)
	require.InDelta(t, 10.0, view.Tempo, 0.0001)
	require.Equal(t, 5, view.Length)
	require.Equal(t, []int{0, 4}, view.Ticks())
	require.Equal(t, []model.Note{
		{Instrument: model.Vanilla(model.Harp), Key: 45, Ext: NoteExt{Layer: 0, Velocity: 80, Panning: 150, Pitch: -20}},
		{Instrument: model.Custom(0), Key: 60, Ext: NoteExt{Layer: 1, Velocity: 100, Panning: 100}},
	}, view.NotesAt(0))
	require.Equal(t, []model.Note{
		{Instrument: model.Vanilla(model.Bell), Key: 50, Ext: NoteExt{Layer: 1, Velocity: 100, Panning: 100}},
	}, view.NotesAt(4))
}

func TestDecode_Classic(t *testing.T) {
	h := Header{
		Version:                VersionClassic,
		VanillaInstrumentCount: ClassicVanillaInstrumentCount,
		Length:                 3,
		LayerCount:             1,
		Name:                   "old",
		Tempo:                  500,
	}

	t.Run("empty custom table", func(t *testing.T) {
		data := writeFixture(h, func(c *cursor.Cursor) {
			c.WriteInt16(3)
			c.WriteInt16(1)
			c.WriteUint8(10) // first custom id in classic files
			c.WriteUint8(33)
			c.WriteInt16(0)
			c.WriteInt16(0)
			c.WriteString("bass")
			c.WriteUint8(90)
			c.WriteUint8(0)
		})

		song, err := Decode(data, "")
		require.NoError(t, err)
		require.Equal(t, VersionClassic, song.Header.Version)
		require.Equal(t, uint16(3), song.Header.Length)
		require.Equal(t, []Layer{{Name: "bass", Volume: 90, Panning: DefaultLayerPanning}}, song.Data.Layers)
		require.Empty(t, song.Data.CustomInstruments)
		require.NotNil(t, song.Data.CustomInstruments)

		view := song.View()
		require.InDelta(t, 5.0, view.Tempo, 0.0001)
		require.Equal(t, 3, view.Length)
		require.Equal(t, []model.Note{
			{Instrument: model.Custom(0), Key: 33, Ext: DefaultNoteExt(0)},
		}, view.NotesAt(2))
	})

	t.Run("ends after notes", func(t *testing.T) {
		data := writeFixture(h, func(c *cursor.Cursor) {
			c.WriteInt16(0)
		})

		song, err := Decode(data, "")
		require.NoError(t, err)
		require.Nil(t, song.Data.Layers)
		require.Nil(t, song.Data.CustomInstruments)
		require.Equal(t, 0, song.View().Length)
	})
}

func TestDecode_Trailer(t *testing.T) {
	h := v5Header()
	h.LayerCount = 0
	data := writeFixture(h, func(c *cursor.Cursor) {
		c.WriteInt16(0)
		c.WriteUint8(0)
		c.WriteBytes([]byte{0xDE, 0xAD})
	})

	song, err := Decode(data, "")
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD}, song.Data.Trailer)

	out, err := Encode(song)
	require.NoError(t, err)
	require.Equal(t, []byte{0xDE, 0xAD}, out[len(out)-2:])
}

func TestDecode_Errors(t *testing.T) {
	noteRecord := func(c *cursor.Cursor, instrument, key uint8) {
		c.WriteUint8(instrument)
		c.WriteUint8(key)
		c.WriteUint8(100)
		c.WriteUint8(100)
		c.WriteInt16(0)
	}

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{
			name: "unknown version",
			data: []byte{0, 0, 6, 16},
			want: errs.ErrInvalidVersion,
		},
		{
			name: "version zero after marker",
			data: []byte{0, 0, 0, 16},
			want: errs.ErrInvalidVersion,
		},
		{
			name: "negative tick jump",
			data: writeFixture(v5Header(), func(c *cursor.Cursor) {
				c.WriteInt16(-3)
			}),
			want: errs.ErrNegativeJump,
		},
		{
			name: "negative layer jump",
			data: writeFixture(v5Header(), func(c *cursor.Cursor) {
				c.WriteInt16(1)
				c.WriteInt16(2)
				noteRecord(c, 0, 45)
				c.WriteInt16(-1)
			}),
			want: errs.ErrNegativeJump,
		},
		{
			name: "key above 127",
			data: writeFixture(v5Header(), func(c *cursor.Cursor) {
				c.WriteInt16(1)
				c.WriteInt16(1)
				noteRecord(c, 0, 200)
			}),
			want: errs.ErrKeyOutOfRange,
		},
		{
			name: "unknown built-in instrument",
			data: func() []byte {
				h := v5Header()
				h.VanillaInstrumentCount = 20
				return writeFixture(h, func(c *cursor.Cursor) {
					c.WriteInt16(1)
					c.WriteInt16(1)
					noteRecord(c, 17, 45)
				})
			}(),
			want: errs.ErrUnknownInstrument,
		},
		{
			name: "missing stream terminator",
			data: writeFixture(v5Header(), func(c *cursor.Cursor) {
				c.WriteInt16(1)
				c.WriteInt16(1)
				noteRecord(c, 0, 45)
			}),
			want: errs.ErrTruncatedInput,
		},
		{
			name: "custom instrument count without entries",
			data: writeFixture(Header{Version: 1, VanillaInstrumentCount: 16}, func(c *cursor.Cursor) {
				c.WriteInt16(0)
				c.WriteUint8(2)
			}),
			want: errs.ErrTruncatedInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song, err := Decode(tt.data, "bad.nbs")
			require.ErrorIs(t, err, tt.want)
			require.Nil(t, song)
		})
	}
}

func TestDecode_TruncatedHeader(t *testing.T) {
	for version := VersionClassic; version <= VersionLatest; version++ {
		h := v5Header()
		h.Version = version
		if version == VersionClassic {
			h.VanillaInstrumentCount = ClassicVanillaInstrumentCount
		}
		data := writeFixture(h, func(c *cursor.Cursor) { c.WriteInt16(0) })
		n := headerLen(h)

		for i := range n + 2 {
			_, err := Decode(data[:i], "")
			require.ErrorIs(t, err, errs.ErrTruncatedInput, "version %d prefix %d", version, i)
		}

		_, err := Decode(data, "")
		require.NoError(t, err, "version %d", version)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	view := model.NewView("Round Trip", 12.5, nil)
	view.AddNote(0, model.Note{Instrument: model.Vanilla(model.Harp), Key: 45})
	view.AddNote(0, model.Note{Instrument: model.Vanilla(model.Bass), Key: 33})
	view.AddNote(0, model.Note{Instrument: model.Custom(0), Key: 50})
	view.AddNote(7, model.Note{Instrument: model.Vanilla(model.Bell), Key: 57})
	view.AddNote(30000, model.Note{Instrument: model.Vanilla(model.Snare), Key: 0})
	view.RecalculateLength()

	for version := VersionClassic; version <= VersionLatest; version++ {
		t.Run(fmt.Sprintf("v%d", version), func(t *testing.T) {
			song := NewSongFromView(view.Clone())
			song.Data.CustomInstruments = []CustomInstrument{{Name: "Kazoo", SoundFile: "kazoo.ogg", Key: 45}}

			first, err := Encode(song, WithVersion(version))
			require.NoError(t, err)

			decoded, err := Decode(first, "")
			require.NoError(t, err)
			require.Equal(t, version, decoded.Header.Version)
			require.Equal(t, view.Length, decoded.View().Length)
			require.Equal(t, view.NoteCount(), decoded.View().NoteCount())
			require.Len(t, decoded.Data.CustomInstruments, 1)

			second, err := Encode(decoded)
			require.NoError(t, err)
			require.Equal(t, first, second)

			again, err := Decode(second, "")
			require.NoError(t, err)
			require.True(t, decoded.View().Equal(again.View()))

			for tick, notes := range view.All() {
				got := again.View().NotesAt(tick)
				require.Len(t, got, len(notes))
				for i := range notes {
					require.True(t, notes[i].SameSound(got[i]), "tick %d note %d", tick, i)
				}
			}
		})
	}
}

func TestEncode_SyncsHeaderFromView(t *testing.T) {
	song := NewSongFromView(model.NewView("before", 10, map[int][]model.Note{
		2: {{Instrument: model.Vanilla(model.Flute), Key: 40}},
	}))
	song.View().Title = "after"
	song.View().Tempo = 20
	song.View().AddNote(9, model.Note{Instrument: model.Vanilla(model.Flute), Key: 41})
	song.View().RecalculateLength()

	out, err := Encode(song)
	require.NoError(t, err)
	require.Equal(t, "after", song.Header.Name)
	require.Equal(t, uint16(2000), song.Header.Tempo)
	require.Equal(t, uint16(10), song.Header.Length)

	decoded, err := Decode(out, "")
	require.NoError(t, err)
	require.Equal(t, "after", decoded.View().Title)
	require.InDelta(t, 20.0, decoded.View().Tempo, 0.0001)
	require.Equal(t, 10, decoded.View().Length)
}

func TestEncode_LayerPlacement(t *testing.T) {
	view := model.NewView("layers", 10, map[int][]model.Note{
		0: {
			{Instrument: model.Vanilla(model.Harp), Key: 1, Ext: DefaultNoteExt(3)},
			{Instrument: model.Vanilla(model.Harp), Key: 2},
			{Instrument: model.Vanilla(model.Harp), Key: 3, Ext: DefaultNoteExt(3)},
			{Instrument: model.Vanilla(model.Harp), Key: 4, Ext: DefaultNoteExt(0)},
		},
	})
	song := NewSongFromView(view)
	require.Equal(t, uint16(4), song.Header.LayerCount)

	out, err := Encode(song)
	require.NoError(t, err)
	decoded, err := Decode(out, "")
	require.NoError(t, err)

	layerOf := map[int]int{}
	for _, n := range decoded.View().NotesAt(0) {
		layerOf[n.Key] = n.Ext.(NoteExt).Layer
	}
	require.Equal(t, map[int]int{1: 3, 2: 1, 3: 2, 4: 0}, layerOf)
	require.Len(t, decoded.Data.Layers, 4)
}

func TestEncode_Unrepresentable(t *testing.T) {
	tests := []struct {
		name    string
		note    model.Note
		version uint8
	}{
		{"instrument newer than classic", model.Note{Instrument: model.Vanilla(model.Pling), Key: 45}, VersionClassic},
		{"key above 127", model.Note{Instrument: model.Vanilla(model.Harp), Key: 128}, VersionLatest},
		{"negative key", model.Note{Instrument: model.Vanilla(model.Harp), Key: -1}, VersionLatest},
		{"custom id overflow", model.Note{Instrument: model.Custom(250), Key: 45}, VersionLatest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := NewSongFromView(model.NewView("x", 10, map[int][]model.Note{0: {tt.note}}))
			_, err := Encode(song, WithVersion(tt.version))
			require.ErrorIs(t, err, errs.ErrUnrepresentable)
			require.ErrorIs(t, err, errs.ErrUnsupportedOperation)
		})
	}

	t.Run("tick gap beyond jump range", func(t *testing.T) {
		song := NewSongFromView(model.NewView("x", 10, map[int][]model.Note{
			0:     {{Key: 1}},
			40000: {{Key: 1}},
		}))
		_, err := Encode(song)
		require.ErrorIs(t, err, errs.ErrUnrepresentable)
	})
}

func TestNewSongFromView_ClampsHeader(t *testing.T) {
	tests := []struct {
		name       string
		tempo      float32
		notes      map[int][]model.Note
		wantTempo  uint16
		wantLength uint16
	}{
		{"tempo too high", 1e6, map[int][]model.Note{0: {{Key: 1}}}, math.MaxUint16, 1},
		{"negative tempo", -5, map[int][]model.Note{0: {{Key: 1}}}, 0, 1},
		{"length too long", 10, map[int][]model.Note{70000: {{Key: 1}}}, 1000, math.MaxUint16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			song := NewSongFromView(model.NewView("x", tt.tempo, tt.notes))
			require.Equal(t, tt.wantTempo, song.Header.Tempo)
			require.Equal(t, tt.wantLength, song.Header.Length)

			_, err := Encode(song)
			require.ErrorIs(t, err, errs.ErrUnrepresentable)
		})
	}
}

func TestEncode_InvalidVersionOption(t *testing.T) {
	song := NewSongFromView(model.NewView("x", 10, nil))
	_, err := Encode(song, WithVersion(VersionLatest+1))
	require.ErrorIs(t, err, errs.ErrInvalidVersion)
}

func TestEncode_ClassicEmptySong(t *testing.T) {
	song := NewSongFromView(model.NewView("empty", 10, nil))
	out, err := Encode(song, WithVersion(VersionClassic))
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0}, out[:2])

	decoded, err := Decode(out, "")
	require.NoError(t, err)
	require.Equal(t, VersionClassic, decoded.Header.Version)
	require.Equal(t, 0, decoded.View().Length)
}

func TestNewSongFromView(t *testing.T) {
	view := model.NewView("made", 7.5, map[int][]model.Note{
		3: {{Key: 1}, {Key: 2}},
	})
	song := NewSongFromView(view)

	require.Same(t, view, song.View())
	require.Empty(t, song.FileName())
	require.Equal(t, VersionLatest, song.Header.Version)
	require.Equal(t, uint8(16), song.Header.VanillaInstrumentCount)
	require.Equal(t, "made", song.Header.Name)
	require.Equal(t, uint16(750), song.Header.Tempo)
	require.Equal(t, uint16(4), song.Header.Length)
	require.Equal(t, uint16(2), song.Header.LayerCount)
	require.Equal(t, []Layer{NewLayer(), NewLayer()}, song.Data.Layers)
}
