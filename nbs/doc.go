// Package nbs reads and writes Note Block Studio (.nbs) files.
//
// Every published layout is supported, from the classic files without a
// version byte up to VersionLatest. A file is laid out as
//
//	header · note stream · layers · custom instruments · trailer
//
// The note stream is jump-encoded: a tick jump (int16, 0 ends the stream)
// moves to the next occupied tick, then layer jumps (int16, 0 ends the
// tick) move to the next occupied layer, each followed by one note record.
// Layers and custom instruments are optional at the end of the file.
//
// Decoding builds the song's model.View from the note stream. Encoding
// writes the view back, so edits made through View() are kept:
//
//	song, err := nbs.Decode(data, "song.nbs")
//	if err != nil {
//	    return err
//	}
//	song.View().Title = "Renamed"
//	out, err := nbs.Encode(song, nbs.WithVersion(4))
package nbs
