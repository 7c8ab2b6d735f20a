package model

import (
	"strconv"
	"strings"
)

// Instrument is one of the built-in note-block timbres.
//
// Its value is the instrument id used by the NBS format.
type Instrument uint8

const (
	Harp          Instrument = 0
	Bass          Instrument = 1
	BassDrum      Instrument = 2
	Snare         Instrument = 3
	Hat           Instrument = 4
	Guitar        Instrument = 5
	Flute         Instrument = 6
	Bell          Instrument = 7
	Chime         Instrument = 8
	Xylophone     Instrument = 9
	IronXylophone Instrument = 10
	CowBell       Instrument = 11
	Didgeridoo    Instrument = 12
	Bit           Instrument = 13
	Banjo         Instrument = 14
	Pling         Instrument = 15
)

// VanillaInstrumentCount is the number of built-in instruments.
const VanillaInstrumentCount = 16

var instrumentNames = [VanillaInstrumentCount]string{
	"harp",
	"bass",
	"basedrum",
	"snare",
	"hat",
	"guitar",
	"flute",
	"bell",
	"chime",
	"xylophone",
	"iron_xylophone",
	"cow_bell",
	"didgeridoo",
	"bit",
	"banjo",
	"pling",
}

// IsValid reports whether i is a built-in instrument.
func (i Instrument) IsValid() bool {
	return i < VanillaInstrumentCount
}

// String returns the game's sound name of the instrument.
func (i Instrument) String() string {
	if !i.IsValid() {
		return "instrument(" + strconv.Itoa(int(i)) + ")"
	}

	return instrumentNames[i]
}

// InstrumentByID returns the built-in instrument with the given id.
func InstrumentByID(id int) (Instrument, bool) {
	if id < 0 || id >= VanillaInstrumentCount {
		return 0, false
	}

	return Instrument(id), true //nolint:gosec
}

// InstrumentByName looks up a built-in instrument by sound name.
// Matching ignores case, and "-" or " " are accepted in place of "_".
func InstrumentByName(name string) (Instrument, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer("-", "_", " ", "_").Replace(name)
	for id, n := range instrumentNames {
		if n == name {
			return Instrument(id), true //nolint:gosec
		}
	}
	// common spelling of the misnamed bass drum sound
	if name == "bass_drum" || name == "bassdrum" {
		return BassDrum, true
	}

	return 0, false
}

// InstrumentRef refers to either a built-in instrument or a custom
// instrument defined by the song file.
//
// The zero value refers to Harp.
type InstrumentRef struct {
	custom bool
	id     int
}

// Vanilla returns a reference to a built-in instrument.
func Vanilla(i Instrument) InstrumentRef {
	return InstrumentRef{id: int(i)}
}

// Custom returns a reference to the custom instrument at index id of the
// song's custom instrument table.
func Custom(id int) InstrumentRef {
	return InstrumentRef{custom: true, id: id}
}

// IsCustom reports whether r refers to a custom instrument.
func (r InstrumentRef) IsCustom() bool {
	return r.custom
}

// Instrument returns the built-in instrument, or false for custom references.
func (r InstrumentRef) Instrument() (Instrument, bool) {
	if r.custom {
		return 0, false
	}

	return Instrument(r.id), true //nolint:gosec
}

// CustomID returns the custom instrument index, or false for built-in references.
func (r InstrumentRef) CustomID() (int, bool) {
	if !r.custom {
		return 0, false
	}

	return r.id, true
}

func (r InstrumentRef) String() string {
	if r.custom {
		return "custom#" + strconv.Itoa(r.id)
	}

	return Instrument(r.id).String() //nolint:gosec
}
