package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type encodeConfig struct {
	version  int
	charset  string
	verbose  bool
	lastCall string
}

func (c *encodeConfig) setVersion(v int) error {
	if v < 0 || v > 5 {
		return errors.New("version out of range")
	}
	c.version = v
	c.lastCall = "setVersion"

	return nil
}

func withVersion(v int) Option[*encodeConfig] {
	return New(func(c *encodeConfig) error { return c.setVersion(v) })
}

func withCharset(name string) Option[*encodeConfig] {
	return NoError(func(c *encodeConfig) {
		c.charset = name
		c.lastCall = "withCharset"
	})
}

func TestNew(t *testing.T) {
	cfg := &encodeConfig{}

	t.Run("applies value", func(t *testing.T) {
		require.NoError(t, withVersion(4).apply(cfg))
		require.Equal(t, 4, cfg.version)
	})

	t.Run("propagates error", func(t *testing.T) {
		err := withVersion(9).apply(cfg)
		require.ErrorContains(t, err, "version out of range")
		require.Equal(t, 4, cfg.version)
	})
}

func TestNoError(t *testing.T) {
	cfg := &encodeConfig{}

	require.NoError(t, withCharset("windows-1252").apply(cfg))
	require.Equal(t, "windows-1252", cfg.charset)
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &encodeConfig{}
		err := Apply(cfg,
			withVersion(5),
			withCharset("utf-8"),
			NoError(func(c *encodeConfig) { c.verbose = true }),
		)

		require.NoError(t, err)
		require.Equal(t, 5, cfg.version)
		require.Equal(t, "utf-8", cfg.charset)
		require.True(t, cfg.verbose)
		require.Equal(t, "withCharset", cfg.lastCall)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &encodeConfig{}
		err := Apply(cfg,
			withVersion(3),
			withVersion(-1),
			withCharset("never"),
		)

		require.Error(t, err)
		require.Equal(t, 3, cfg.version)
		require.Empty(t, cfg.charset)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &encodeConfig{}
		require.NoError(t, Apply(cfg))
		require.Equal(t, encodeConfig{}, *cfg)
	})
}
