// Package config loads the YAML settings of the nbconv command.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/midi"
	"github.com/OakLoaf/NoteBlockLib/model"
	"github.com/OakLoaf/NoteBlockLib/nbs"
)

// FileName is looked up under the user config directory when no path is given.
const FileName = "nbconv/config.yml"

//go:embed default.yml
var defaultConfig []byte

// Config holds the settings shared by all nbconv subcommands.
type Config struct {
	LogLevel    string         `yaml:"log_level"`
	NBSVersion  int            `yaml:"nbs_version"`
	Compression string         `yaml:"compression"`
	ProgramMap  map[int]string `yaml:"program_map"`
}

// Default returns the built-in settings.
func Default() Config {
	cfg, err := decode(Config{}, defaultConfig)
	if err != nil {
		panic(fmt.Errorf("config: embedded defaults: %w", err))
	}

	return cfg
}

// Parse reads YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg, err := decode(Default(), data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decode(cfg Config, data []byte) (Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Load reads the file at path. An empty path means the user config file,
// and a missing user config file yields the defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Default(), nil //nolint:nilerr
		}
		path = filepath.Join(dir, FileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}

		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every field without building anything.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.CompressionType(); err != nil {
		return err
	}
	if c.NBSVersion < 0 || c.NBSVersion > int(nbs.VersionLatest) {
		return fmt.Errorf("config: nbs_version %d outside 0..%d", c.NBSVersion, nbs.VersionLatest)
	}
	if _, err := c.Programs(); err != nil {
		return err
	}

	return nil
}

// Level parses log_level ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: log_level: %w", err)
	}

	return level, nil
}

// CompressionType parses compression.
func (c Config) CompressionType() (format.CompressionType, error) {
	compression, ok := format.ParseCompression(c.Compression)
	if !ok {
		return 0, fmt.Errorf("config: unknown compression %q", c.Compression)
	}

	return compression, nil
}

// Programs returns the default program map with program_map applied.
func (c Config) Programs() (midi.ProgramMap, error) {
	programs := midi.DefaultProgramMap()
	for program, name := range c.ProgramMap {
		instrument, ok := model.InstrumentByName(name)
		if !ok {
			return programs, fmt.Errorf("config: program_map[%d]: unknown instrument %q", program, name)
		}
		if err := programs.Set(program, instrument); err != nil {
			return programs, fmt.Errorf("config: program_map[%d]: %w", program, err)
		}
	}

	return programs, nil
}

// EncodeOptions returns the NBS encoder options for nbs_version.
func (c Config) EncodeOptions() []nbs.EncodeOption {
	return []nbs.EncodeOption{nbs.WithVersion(uint8(c.NBSVersion))} //nolint:gosec
}
