package midi

import (
	"cmp"
	"fmt"
	"slices"

	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/OakLoaf/NoteBlockLib/cursor"
	"github.com/OakLoaf/NoteBlockLib/endian"
	"github.com/OakLoaf/NoteBlockLib/errs"
	"github.com/OakLoaf/NoteBlockLib/internal/options"
	"github.com/OakLoaf/NoteBlockLib/model"
)

const (
	chunkHeader = "MThd"
	chunkTrack  = "MTrk"

	statusMeta     = 0xFF
	statusSysEx    = 0xF0
	statusSysExEnd = 0xF7

	metaTrackName  = 0x03
	metaEndOfTrack = 0x2F
	metaTempo      = 0x51

	smpteDivision = 0x8000

	chunkPrefixSize = 8
)

type decodeConfig struct {
	programs ProgramMap
}

// DecodeOption configures Decode.
type DecodeOption = options.Option[*decodeConfig]

// WithProgramMap replaces the program-to-instrument table used for
// non-percussion channels.
func WithProgramMap(programs ProgramMap) DecodeOption {
	return options.NoError(func(cfg *decodeConfig) {
		cfg.programs = programs
	})
}

// pendingNote is a sounding note waiting for its release.
type pendingNote struct {
	tick     int
	seq      int
	velocity uint8
	program  uint8
}

type voice struct {
	channel uint8
	key     uint8
}

// trackNote is a released note with its merge ordering key.
type trackNote struct {
	tick  int
	track int
	seq   int
	note  model.Note
}

type trackState struct {
	index    int
	cfg      *decodeConfig
	data     *Data
	notes    []trackNote
	programs [16]uint8
	pending  map[voice][]pendingNote
	seq      int
}

// Decode parses a Standard MIDI File.
//
// Notes of all tracks are merged by onset tick, then track, then onset
// order within the track. Each note becomes a one-tick event at its onset;
// durations are not kept. Notes still held when their track ends are
// reported in Data.Dropped.
//
// The view's tick is the file's tick and its tempo is the tick rate of the
// tempo in effect at tick 0. Later tempo changes are kept in
// Data.TempoChanges only.
func Decode(data []byte, fileName string, opts ...DecodeOption) (*Song, error) {
	cfg := &decodeConfig{programs: DefaultProgramMap()}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, fmt.Errorf("midi: decode: %w", err)
	}

	c := cursor.New(data, cursor.WithEndian(endian.GetBigEndianEngine()))
	s := &Song{fileName: fileName}

	if err := readHeader(c, &s.Header); err != nil {
		return nil, fmt.Errorf("midi: decode header: %w", err)
	}

	var notes []trackNote
	for track := 0; c.Remaining() > 0; {
		// padding after the announced tracks is too short to be a chunk
		if track >= int(s.Header.TrackCount) && c.Remaining() < chunkPrefixSize {
			break
		}
		id, body, err := readChunk(c)
		if err != nil {
			return nil, fmt.Errorf("midi: decode chunk after track %d: %w", track, err)
		}
		if id != chunkTrack {
			continue
		}

		st := &trackState{
			index:   track,
			cfg:     cfg,
			data:    &s.Data,
			pending: make(map[voice][]pendingNote),
		}
		s.Data.TrackNames = append(s.Data.TrackNames, "")
		if err := st.read(body); err != nil {
			return nil, fmt.Errorf("midi: decode track %d: %w", track, err)
		}
		st.dropPending()
		notes = append(notes, st.notes...)
		track++
	}

	slices.SortStableFunc(notes, func(a, b trackNote) int {
		return cmp.Or(
			cmp.Compare(a.tick, b.tick),
			cmp.Compare(a.track, b.track),
			cmp.Compare(a.seq, b.seq),
		)
	})
	slices.SortStableFunc(s.Data.TempoChanges, func(a, b TempoChange) int {
		return cmp.Compare(a.Tick, b.Tick)
	})

	view := model.NewView(title(s, fileName), s.initialTempo().TicksPerSecond(s.Header.Division), nil)
	for _, n := range notes {
		view.AddNote(n.tick, n.note)
	}
	view.RecalculateLength()
	s.view = view

	return s, nil
}

func readHeader(c *cursor.Cursor, h *Header) error {
	id, body, err := readChunk(c)
	if err != nil {
		return err
	}
	if id != chunkHeader {
		return fmt.Errorf("%w: expected %s, got %q", errs.ErrInvalidChunk, chunkHeader, id)
	}

	hc := cursor.New(body, cursor.WithEndian(endian.GetBigEndianEngine()))
	if h.Format, err = hc.ReadUint16(); err != nil {
		return err
	}
	if h.TrackCount, err = hc.ReadUint16(); err != nil {
		return err
	}
	if h.Division, err = hc.ReadUint16(); err != nil {
		return err
	}
	if h.Division&smpteDivision != 0 {
		return fmt.Errorf("%w: division 0x%04X", errs.ErrUnsupportedTiming, h.Division)
	}
	if h.Division == 0 {
		return fmt.Errorf("%w: zero division", errs.ErrInvalidChunk)
	}

	return nil
}

// readChunk returns the type and body of the next chunk.
func readChunk(c *cursor.Cursor) (string, []byte, error) {
	id, err := c.ReadBytes(4)
	if err != nil {
		return "", nil, err
	}
	length, err := c.ReadUint32()
	if err != nil {
		return "", nil, err
	}
	body, err := c.Peek(int(length))
	if err != nil {
		return "", nil, fmt.Errorf("chunk %q: %w", id, err)
	}
	_ = c.Skip(len(body))

	return string(id), body, nil
}

func (st *trackState) read(body []byte) error {
	c := cursor.New(body, cursor.WithEndian(endian.GetBigEndianEngine()))

	tick := 0
	var running byte
	for c.Remaining() > 0 {
		delta, err := c.ReadVarUint()
		if err != nil {
			return err
		}
		tick += int(delta)

		next, err := c.Peek(1)
		if err != nil {
			return err
		}
		status := next[0]
		if status&0x80 != 0 {
			_ = c.Skip(1)
		}

		switch {
		case status == statusMeta:
			done, err := st.readMeta(c, tick)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		case status == statusSysEx || status == statusSysExEnd:
			if err := skipVarLength(c); err != nil {
				return fmt.Errorf("sysex at tick %d: %w", tick, err)
			}
		case status >= 0xF0:
			return fmt.Errorf("%w: 0x%02X at tick %d", errs.ErrInvalidStatus, status, tick)
		case status&0x80 != 0:
			running = status
			if err := st.readChannelMessage(c, running, tick); err != nil {
				return err
			}
		case running == 0:
			return fmt.Errorf("%w: data byte 0x%02X at tick %d", errs.ErrRunningStatus, status, tick)
		default:
			if err := st.readChannelMessage(c, running, tick); err != nil {
				return err
			}
		}
	}

	return nil
}

// readMeta handles one meta event and reports whether it ended the track.
func (st *trackState) readMeta(c *cursor.Cursor, tick int) (bool, error) {
	typ, err := c.ReadUint8()
	if err != nil {
		return false, err
	}
	length, err := c.ReadVarUint()
	if err != nil {
		return false, err
	}
	payload, err := c.ReadBytes(int(length))
	if err != nil {
		return false, fmt.Errorf("meta 0x%02X at tick %d: %w", typ, tick, err)
	}

	switch typ {
	case metaEndOfTrack:
		return true, nil
	case metaTrackName:
		if st.data.TrackNames[st.index] == "" {
			st.data.TrackNames[st.index] = string(payload)
		}
	case metaTempo:
		if len(payload) != 3 {
			return false, fmt.Errorf("%w: tempo event of %d bytes at tick %d", errs.ErrMalformedFormat, len(payload), tick)
		}
		mpq := uint32(payload[0])<<16 | uint32(payload[1])<<8 | uint32(payload[2])
		if mpq == 0 {
			return false, fmt.Errorf("%w: zero tempo at tick %d", errs.ErrMalformedFormat, tick)
		}
		st.data.TempoChanges = append(st.data.TempoChanges, TempoChange{Tick: tick, MicrosPerQuarter: mpq})
	}

	return false, nil
}

func (st *trackState) readChannelMessage(c *cursor.Cursor, status byte, tick int) error {
	size := 2
	if kind := status & 0xF0; kind == 0xC0 || kind == 0xD0 {
		size = 1
	}
	args, err := c.ReadBytes(size)
	if err != nil {
		return fmt.Errorf("channel message 0x%02X at tick %d: %w", status, tick, err)
	}
	for _, b := range args {
		if b&0x80 != 0 {
			return fmt.Errorf("%w: data byte 0x%02X in message 0x%02X at tick %d", errs.ErrInvalidStatus, b, status, tick)
		}
	}

	msg := gomidi.Message(append([]byte{status}, args...))
	var channel, key, velocity, program uint8
	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		v := voice{channel: channel, key: key}
		st.pending[v] = append(st.pending[v], pendingNote{
			tick:     tick,
			seq:      st.seq,
			velocity: velocity,
			program:  st.programs[channel],
		})
		st.seq++
	case msg.GetNoteEnd(&channel, &key):
		st.release(voice{channel: channel, key: key})
	case msg.GetProgramChange(&channel, &program):
		st.programs[channel] = program
	}

	return nil
}

// release closes the oldest sounding note of v. Releases without a
// sounding note are ignored.
func (st *trackState) release(v voice) {
	queue := st.pending[v]
	if len(queue) == 0 {
		return
	}
	p := queue[0]
	if len(queue) == 1 {
		delete(st.pending, v)
	} else {
		st.pending[v] = queue[1:]
	}

	st.notes = append(st.notes, trackNote{
		tick:  p.tick,
		track: st.index,
		seq:   p.seq,
		note:  st.noteFor(v, p),
	})
}

func (st *trackState) noteFor(v voice, p pendingNote) model.Note {
	ext := NoteExt{Track: st.index, Channel: v.channel, Velocity: p.velocity}
	if v.channel == PercussionChannel {
		return model.Note{
			Instrument: model.Vanilla(percussionInstrument(v.key)),
			Key:        PercussionKey,
			Ext:        ext,
		}
	}

	return model.Note{
		Instrument: model.Vanilla(st.cfg.programs[p.program]),
		Key:        foldKey(v.key),
		Ext:        ext,
	}
}

// dropPending records notes that were never released, in onset order.
func (st *trackState) dropPending() {
	var held []DroppedNote
	var seqs []int
	for v, queue := range st.pending {
		for _, p := range queue {
			held = append(held, DroppedNote{Track: st.index, Channel: v.channel, Key: v.key, Tick: p.tick})
			seqs = append(seqs, p.seq)
		}
	}
	order := make([]int, len(held))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Compare(seqs[a], seqs[b])
	})

	for _, i := range order {
		st.data.Dropped = append(st.data.Dropped, held[i])
	}
	clear(st.pending)
}

func skipVarLength(c *cursor.Cursor) error {
	length, err := c.ReadVarUint()
	if err != nil {
		return err
	}

	return c.Skip(int(length))
}

// initialTempo returns the tempo in effect at tick 0.
func (s *Song) initialTempo() TempoChange {
	tempo := TempoChange{MicrosPerQuarter: DefaultMicrosPerQuarter}
	for _, tc := range s.Data.TempoChanges {
		if tc.Tick > 0 {
			break
		}
		tempo = tc
	}

	return tempo
}

func title(s *Song, fileName string) string {
	if len(s.Data.TrackNames) > 0 && s.Data.TrackNames[0] != "" {
		return s.Data.TrackNames[0]
	}

	return model.TitleFromFileName(fileName)
}
