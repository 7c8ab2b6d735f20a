package midi

import (
	"fmt"

	"github.com/OakLoaf/NoteBlockLib/model"
)

// PercussionChannel is the zero-based General MIDI drum channel (channel 10).
const PercussionChannel = 9

// PercussionKey is the note-block key given to every drum hit.
const PercussionKey = 45

// keyOffset is the MIDI key of A0, note-block key 0.
const keyOffset = 21

// ProgramMap maps each General MIDI program to a built-in instrument.
type ProgramMap [128]model.Instrument

// gmFamilies is the instrument of each block of eight GM programs.
var gmFamilies = [16]model.Instrument{
	model.Harp,       // piano
	model.Bell,       // chromatic percussion
	model.Bit,        // organ
	model.Guitar,     // guitar
	model.Bass,       // bass
	model.Flute,      // strings
	model.Harp,       // ensemble
	model.Didgeridoo, // brass
	model.Flute,      // reed
	model.Flute,      // pipe
	model.Bit,        // synth lead
	model.Pling,      // synth pad
	model.Pling,      // synth effects
	model.Banjo,      // ethnic
	model.Snare,      // percussive
	model.Hat,        // sound effects
}

// DefaultProgramMap returns the General MIDI family table with a few
// programs that have a closer built-in sound.
func DefaultProgramMap() ProgramMap {
	var m ProgramMap
	for program := range m {
		m[program] = gmFamilies[program/8]
	}

	m[12] = model.Xylophone      // marimba
	m[13] = model.Xylophone      // xylophone
	m[14] = model.Chime          // tubular bells
	m[46] = model.Harp           // orchestral harp
	m[47] = model.BassDrum       // timpani
	m[108] = model.IronXylophone // kalimba
	m[112] = model.Bell          // tinkle bell
	m[113] = model.CowBell       // agogo
	m[114] = model.IronXylophone // steel drums
	m[115] = model.Hat           // woodblock
	m[116] = model.BassDrum      // taiko drum
	m[117] = model.BassDrum      // melodic tom

	return m
}

// Set maps program to instrument.
func (m *ProgramMap) Set(program int, instrument model.Instrument) error {
	if program < 0 || program >= len(m) {
		return fmt.Errorf("midi: program %d out of range 0..127", program)
	}
	if !instrument.IsValid() {
		return fmt.Errorf("midi: invalid instrument %d", instrument)
	}
	m[program] = instrument

	return nil
}

// percussionInstrument picks the instrument for a GM drum key.
func percussionInstrument(key uint8) model.Instrument {
	switch key {
	case 35, 36, 41, 43, 45, 47, 48, 50, 60, 61, 62, 63, 64:
		return model.BassDrum // kicks, toms, bongos, congas
	case 38, 40, 49, 51, 52, 55, 57, 59, 65, 66:
		return model.Snare // snares, cymbals, timbales
	case 53, 80, 81:
		return model.Bell // ride bell, triangles
	case 56, 67, 68:
		return model.CowBell
	case 71, 72:
		return model.Flute // whistles
	default:
		return model.Hat
	}
}

// foldKey converts a MIDI key to a note-block key, shifting by whole
// octaves into 0..87.
func foldKey(midiKey uint8) int {
	key := int(midiKey) - keyOffset
	for key < 0 {
		key += 12
	}
	for key > 87 {
		key -= 12
	}

	return key
}
