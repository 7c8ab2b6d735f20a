// Package model defines the canonical note model shared by every codec.
//
// A decoded file is a Song: a format-specific container that owns the
// parsed header and data of one file and exposes a View. The View is the
// format-independent representation: notes indexed by tick, a title and a
// tempo in ticks per second.
//
//	song, err := nbs.Decode(data, "mario.nbs")
//	if err != nil {
//	    return err
//	}
//	for tick, notes := range song.View().All() {
//	    ...
//	}
package model

import (
	"path"
	"strings"

	"github.com/OakLoaf/NoteBlockLib/format"
)

// Song is a decoded file in one of the supported formats.
type Song interface {
	// Format returns the format the song was decoded from or will be encoded to.
	Format() format.Format
	// FileName returns the source file name, or "" for songs built in memory.
	FileName() string
	// View returns the canonical view. Mutations are visible to later encodes.
	View() *View
}

// TitleFromFileName returns the base name of fileName without its
// extension. Both slash and backslash separate directories.
func TitleFromFileName(fileName string) string {
	base := fileName[strings.LastIndexAny(fileName, `/\`)+1:]

	return strings.TrimSuffix(base, path.Ext(base))
}
