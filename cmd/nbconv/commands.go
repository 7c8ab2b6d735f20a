package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"

	noteblocklib "github.com/OakLoaf/NoteBlockLib"
	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/midi"
	"github.com/OakLoaf/NoteBlockLib/model"
	"github.com/OakLoaf/NoteBlockLib/nbs"
	"github.com/OakLoaf/NoteBlockLib/songpack"
)

// PackExtension marks song pack files.
const PackExtension = ".nbpk"

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func newFlagSet(e *env, name, args string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(e.stdout)
	flags.Usage = func() {
		fmt.Fprintf(e.stdout, "usage: nbconv %s [flags] %s\n", name, args)
		flags.PrintDefaults()
	}

	return flags
}

// formatOf resolves the format of path from override or the file extension.
func formatOf(path, override string) (format.Format, error) {
	ext := override
	if ext == "" {
		ext = filepath.Ext(path)
	}
	f, ok := format.FromExtension(ext)
	if !ok {
		return 0, usageError("cannot tell the format of %q; pass --format", path)
	}

	return f, nil
}

// readSong decodes the song at path, applying the configured program map to
// MIDI files.
func readSong(e *env, path, formatOverride string) (model.Song, error) {
	f, err := formatOf(path, formatOverride)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("decoding", "file", path, "format", f, "bytes", len(data))

	if f != format.MIDI {
		return noteblocklib.Decode(f, data, filepath.Base(path))
	}

	programs, err := e.cfg.Programs()
	if err != nil {
		return nil, err
	}
	song, err := noteblocklib.DecodeMIDI(data, filepath.Base(path), midi.WithProgramMap(programs))
	if err != nil {
		return nil, err
	}
	for _, d := range song.Data.Dropped {
		e.logger.Warn("dropped unreleased note",
			"file", path, "track", d.Track, "channel", d.Channel, "key", d.Key, "tick", d.Tick)
	}

	return song, nil
}

func runInfo(e *env, args []string) error {
	flags := newFlagSet(e, "info", "<song or pack>")
	dump := flags.Bool("dump", false, "dump the decoded headers")
	formatName := flags.String("format", "", "input format extension, overrides the file name")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return usageError("info takes exactly one file")
	}
	path := flags.Arg(0)

	if strings.EqualFold(filepath.Ext(path), PackExtension) {
		return packInfo(e, path)
	}

	song, err := readSong(e, path, *formatName)
	if err != nil {
		return err
	}
	view := song.View()
	fmt.Fprintf(e.stdout, "file:     %s\n", path)
	fmt.Fprintf(e.stdout, "format:   %s\n", song.Format())
	fmt.Fprintf(e.stdout, "title:    %s\n", view.Title)
	fmt.Fprintf(e.stdout, "tempo:    %.2f ticks/s\n", view.Tempo)
	fmt.Fprintf(e.stdout, "length:   %d ticks (%s)\n", view.Length, view.Duration())
	fmt.Fprintf(e.stdout, "notes:    %d\n", view.NoteCount())

	if *dump {
		switch s := song.(type) {
		case *nbs.Song:
			dumper.Fdump(e.stdout, s.Header, s.Data)
		case *midi.Song:
			dumper.Fdump(e.stdout, s.Header, s.Data)
		default:
			dumper.Fdump(e.stdout, song)
		}
	}

	return nil
}

func packInfo(e *env, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	pack, err := songpack.Open(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.stdout, "pack:        %s\n", path)
	fmt.Fprintf(e.stdout, "compression: %s\n", pack.Header.Compression)
	fmt.Fprintf(e.stdout, "songs:       %d\n", pack.Len())
	for name, entry := range pack.Entries() {
		fmt.Fprintf(e.stdout, "  %-32s %-6s %8d -> %8d bytes\n",
			name, entry.Format, entry.RawLength, entry.CompressedLength)
	}

	return nil
}

func runConvert(e *env, args []string) error {
	flags := newFlagSet(e, "convert", "<input> [output.nbs]")
	version := flags.Uint8("nbs-version", uint8(e.cfg.NBSVersion), "NBS version to write (0-5)") //nolint:gosec
	formatName := flags.String("format", "", "input format extension, overrides the file name")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 || flags.NArg() > 2 {
		return usageError("convert takes an input and an optional output file")
	}
	in := flags.Arg(0)
	out := flags.Arg(1)
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + "." + format.NBS.Extension()
	}
	if out == in {
		return usageError("output %q would overwrite the input", out)
	}

	song, err := readSong(e, in, *formatName)
	if err != nil {
		return err
	}

	nbsSong, ok := song.(*nbs.Song)
	if !ok {
		created, err := noteblocklib.CreateFromView(song.View(), format.NBS)
		if err != nil {
			return err
		}
		nbsSong, _ = created.(*nbs.Song)
	}

	data, err := noteblocklib.EncodeNBS(nbsSong, nbs.WithVersion(*version))
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec
		return err
	}
	e.logger.Info("converted",
		"input", in, "from", song.Format(), "output", out, "version", *version, "notes", song.View().NoteCount())

	return nil
}

func runPack(e *env, args []string) error {
	flags := newFlagSet(e, "pack", "<output"+PackExtension+"> <song>...")
	compressionName := flags.String("compression", e.cfg.Compression, "payload compression: none, zstd, s2, lz4")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 2 {
		return usageError("pack takes an output file and at least one song")
	}
	compression, ok := format.ParseCompression(*compressionName)
	if !ok {
		return usageError("unknown compression %q", *compressionName)
	}

	w, err := songpack.NewWriter(songpack.WithCompression(compression))
	if err != nil {
		return err
	}
	out := flags.Arg(0)
	for _, path := range flags.Args()[1:] {
		f, err := formatOf(path, "")
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := w.Add(filepath.Base(path), f, data); err != nil {
			return err
		}
		e.logger.Debug("added", "song", path, "format", f, "bytes", len(data))
	}

	packed, err := w.Finish()
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, packed, 0o644); err != nil { //nolint:gosec
		return err
	}
	stats := w.Stats()
	e.logger.Info("packed",
		"output", out, "songs", w.Count(), "compression", compression,
		"raw", stats.OriginalSize, "stored", stats.CompressedSize,
		"savings", fmt.Sprintf("%.1f%%", stats.SpaceSavings()))

	return nil
}

func runUnpack(e *env, args []string) error {
	flags := newFlagSet(e, "unpack", "<pack"+PackExtension+"> [directory]")
	only := flags.StringSlice("name", nil, "extract only these songs (repeatable)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 || flags.NArg() > 2 {
		return usageError("unpack takes a pack and an optional directory")
	}
	dir := flags.Arg(1)
	if dir == "" {
		dir = "."
	}

	data, err := os.ReadFile(flags.Arg(0))
	if err != nil {
		return err
	}
	pack, err := songpack.Open(data)
	if err != nil {
		return err
	}

	names := *only
	if len(names) == 0 {
		names = pack.Names()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec
		return err
	}

	var errList []error
	for _, name := range names {
		base := filepath.Base(name)
		if base != name || base == "." || base == ".." {
			errList = append(errList, fmt.Errorf("refusing to extract %q outside %s", name, dir))
			continue
		}
		raw, err := pack.Raw(name)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, base), raw, 0o644); err != nil { //nolint:gosec
			errList = append(errList, err)
			continue
		}
		e.logger.Debug("extracted", "song", name, "bytes", len(raw))
	}
	e.logger.Info("unpacked", "pack", flags.Arg(0), "songs", len(names)-len(errList), "directory", dir)

	return errors.Join(errList...)
}
