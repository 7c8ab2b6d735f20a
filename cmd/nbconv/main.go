// Command nbconv inspects, converts and packs note-block songs.
//
// Usage:
//
//	nbconv [--config file] [--verbose] <command> [flags] [args]
//
// Commands:
//
//	info     print a song or pack summary
//	convert  convert any supported song to NBS
//	pack     bundle songs into a compressed pack
//	unpack   extract songs from a pack
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/OakLoaf/NoteBlockLib/internal/config"
)

// errUsage marks errors caused by bad arguments; they exit with status 2.
var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(env *env, args []string) error
}

var commands = []command{
	{"info", "print a song or pack summary", runInfo},
	{"convert", "convert any supported song to NBS", runConvert},
	{"pack", "bundle songs into a compressed pack", runPack},
	{"unpack", "extract songs from a pack", runUnpack},
}

// env is what every command needs.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("nbconv", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SetInterspersed(false)
	configPath := flags.StringP("config", "c", "", "YAML config file (default: user config dir)")
	verbose := flags.BoolP("verbose", "v", false, "log at debug level")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "usage: nbconv [flags] <command> [command flags] [args]")
		fmt.Fprintln(stderr, "\ncommands:")
		for _, c := range commands {
			fmt.Fprintf(stderr, "  %-8s %s\n", c.name, c.summary)
		}
		fmt.Fprintln(stderr, "\nflags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}

		return 2
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "nbconv: %v\n", err)
		return 1
	}

	e := &env{
		cfg:    cfg,
		logger: newLogger(stderr, cfg, *verbose),
		stdout: stdout,
	}

	name := flags.Arg(0)
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(e, flags.Args()[1:]); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return 0
			}
			e.logger.Error(c.name+" failed", "error", err)
			if errors.Is(err, errUsage) {
				return 2
			}

			return 1
		}

		return 0
	}

	fmt.Fprintf(stderr, "nbconv: unknown command %q\n", name)
	flags.Usage()

	return 2
}

// newLogger writes text logs to w at the configured level, or at debug
// level with source locations when verbose is set.
func newLogger(w io.Writer, cfg config.Config, verbose bool) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: verbose,
	}))
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}
