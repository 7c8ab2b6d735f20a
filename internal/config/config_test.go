package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OakLoaf/NoteBlockLib/format"
	"github.com/OakLoaf/NoteBlockLib/midi"
	"github.com/OakLoaf/NoteBlockLib/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 5, cfg.NBSVersion)
	require.Equal(t, "zstd", cfg.Compression)
	require.Empty(t, cfg.ProgramMap)
	require.NoError(t, cfg.Validate())

	programs, err := cfg.Programs()
	require.NoError(t, err)
	require.Equal(t, midi.DefaultProgramMap(), programs)
	require.Len(t, cfg.EncodeOptions(), 1)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
log_level: debug
compression: lz4
program_map:
  0: bell
  19: Iron Xylophone
`))
	require.NoError(t, err)
	require.Equal(t, 5, cfg.NBSVersion, "unset keys keep their defaults")

	level, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	compression, err := cfg.CompressionType()
	require.NoError(t, err)
	require.Equal(t, format.CompressionLZ4, compression)

	programs, err := cfg.Programs()
	require.NoError(t, err)
	require.Equal(t, model.Bell, programs[0])
	require.Equal(t, model.IronXylophone, programs[19])
	require.Equal(t, midi.DefaultProgramMap()[1], programs[1])
}

func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "volume: 11\n"},
		{"log level", "log_level: loud\n"},
		{"compression", "compression: rar\n"},
		{"version too new", "nbs_version: 6\n"},
		{"negative version", "nbs_version: -1\n"},
		{"unknown instrument", "program_map:\n  3: kazoo\n"},
		{"program out of range", "program_map:\n  128: harp\n"},
		{"not yaml", "log_level: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(dir, "nbconv.yml")
		require.NoError(t, os.WriteFile(path, []byte("nbs_version: 0\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, 0, cfg.NBSVersion)
	})

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.yml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid file names the path", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yml")
		require.NoError(t, os.WriteFile(path, []byte("compression: rar\n"), 0o600))

		_, err := Load(path)
		require.ErrorContains(t, err, path)
	})

	t.Run("no user config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "empty"))
		t.Setenv("HOME", filepath.Join(dir, "empty"))

		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, Default(), cfg)
	})
}
