// Package config parses the demo command's flags and environment.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	apperrors "github.com/agbru/nqdm/internal/errors"
)

// EnvPrefix prefixes every environment override, e.g. NQDM_N.
const EnvPrefix = "NQDM_"

// Workload modes, one per progress source constructor.
const (
	ModeCount     = "count"
	ModeSlice     = "slice"
	ModeSeq       = "seq"
	ModeChan      = "chan"
	ModeFunc      = "func"
	ModeUnbounded = "unbounded"
	ModeAuto      = "auto"
)

// Modes lists the accepted --mode values.
var Modes = []string{ModeCount, ModeSlice, ModeSeq, ModeChan, ModeFunc, ModeUnbounded, ModeAuto}

// Output destinations.
const (
	DestStdout = "stdout"
	DestStderr = "stderr"
	DestNone   = "none"
)

// AppConfig is the parsed configuration of one run.
type AppConfig struct {
	// N is the number of items the workload processes.
	N int
	// Mode selects the progress source.
	Mode string
	// Delay is the simulated work per item.
	Delay time.Duration
	// Length declares a total for sources that cannot know it. Zero means
	// no declared length.
	Length int
	// Dest is stdout, stderr or none.
	Dest string
	// Silent suppresses the progress line.
	Silent bool
	// Spinner shows a spinner instead of the bar.
	Spinner bool
	// MetricsAddr, when set, serves Prometheus metrics during the run.
	MetricsAddr string
	// Timeout bounds the whole run.
	Timeout time.Duration
	Verbose bool
	NoColor bool
	// Fill and Head are the bar glyphs.
	Fill string
	Head string
}

// Validate checks semantic constraints the flag parser cannot express.
func (c AppConfig) Validate() error {
	if c.N < 0 {
		return apperrors.NewConfigError("-n must be non-negative, got %d", c.N)
	}
	if !slices.Contains(Modes, c.Mode) {
		return apperrors.NewConfigError("unknown mode %q, expected one of %s", c.Mode, strings.Join(Modes, ", "))
	}
	if c.Delay < 0 {
		return apperrors.NewConfigError("-delay must be non-negative, got %s", c.Delay)
	}
	if c.Length < 0 {
		return apperrors.NewConfigError("-length must be non-negative, got %d", c.Length)
	}
	switch c.Dest {
	case DestStdout, DestStderr, DestNone:
	default:
		return apperrors.NewConfigError("unknown destination %q, expected stdout, stderr or none", c.Dest)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("-timeout must be positive, got %s", c.Timeout)
	}
	if c.Fill == "" || c.Head == "" {
		return apperrors.NewConfigError("bar glyphs must not be empty")
	}
	return nil
}

// ParseConfig parses args into an AppConfig. Flags set on the command line
// win over NQDM_* environment variables, which win over defaults. Usage and
// parse errors are written to errWriter.
func ParseConfig(programName string, args []string, errWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	var config AppConfig
	fs.IntVar(&config.N, "n", 100, "Number of items to process.")
	fs.StringVar(&config.Mode, "mode", ModeCount, fmt.Sprintf("Progress source (%s).", strings.Join(Modes, ", ")))
	fs.DurationVar(&config.Delay, "delay", 20*time.Millisecond, "Simulated work per item.")
	fs.IntVar(&config.Length, "length", 0, "Declared total for sources without one (0 = unknown).")
	fs.StringVar(&config.Dest, "dest", DestStderr, "Progress destination (stdout, stderr, none).")
	fs.BoolVar(&config.Silent, "silent", false, "Suppress the progress line.")
	fs.BoolVar(&config.Silent, "q", false, "Shorthand for -silent.")
	fs.BoolVar(&config.Spinner, "spinner", false, "Show a spinner instead of the bar.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the run.")
	fs.DurationVar(&config.Timeout, "timeout", 5*time.Minute, "Maximum run time.")
	fs.BoolVar(&config.Verbose, "v", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored summary output.")
	fs.StringVar(&config.Fill, "fill", "=", "Bar fill glyph.")
	fs.StringVar(&config.Head, "head", ">", "Bar head glyph.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&config, fs)
	config.Mode = strings.ToLower(config.Mode)
	config.Dest = strings.ToLower(config.Dest)

	if err := config.Validate(); err != nil {
		fmt.Fprintln(errWriter, err)
		return AppConfig{}, err
	}
	return config, nil
}
