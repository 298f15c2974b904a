// Package app wires configuration, logging, metrics and presentation into
// the nqdm demo command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/nqdm"
	"github.com/agbru/nqdm/internal/cli"
	"github.com/agbru/nqdm/internal/config"
	apperrors "github.com/agbru/nqdm/internal/errors"
	"github.com/agbru/nqdm/internal/logging"
	"github.com/agbru/nqdm/internal/metrics"
	"github.com/agbru/nqdm/internal/orchestration"
	"github.com/agbru/nqdm/internal/server"
	"github.com/agbru/nqdm/internal/ui"
)

// Application is one invocation of the demo command.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	Presenter orchestration.ResultPresenter

	zl zerolog.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithPresenter replaces the colored CLI summary.
func WithPresenter(p orchestration.ResultPresenter) AppOption {
	return func(a *Application) { a.Presenter = p }
}

// New parses args (program name first) into an Application.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, Presenter: cli.CLIResultPresenter{}}
	for _, opt := range opts {
		opt(app)
	}

	programName := "nqdm"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	level := zerolog.WarnLevel
	if cfg.Verbose {
		level = zerolog.DebugLevel
	}
	app.zl = zerolog.New(zerolog.ConsoleWriter{Out: errWriter, TimeFormat: "15:04:05", NoColor: cfg.NoColor}).
		Level(level).
		With().Timestamp().Str("component", "nqdm").Logger()
	return app, nil
}

// Run executes the configured workload and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	logger := logging.NewZerologAdapter(a.zl)

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	m := metrics.NewMetrics()
	execOpts := orchestration.Options{Metrics: m, Logger: logger}
	if a.Config.MetricsAddr != "" {
		execOpts.Server = server.New(a.Config.MetricsAddr, m, logger)
	}

	silent := a.Config.Silent
	if a.Config.Spinner && !silent && a.Config.Dest != config.DestNone {
		execOpts.Reporter = cli.NewSpinnerReporter(a.progressWriter(out))
		silent = true
	}

	w := orchestration.Workload{
		Mode:   a.Config.Mode,
		N:      a.Config.N,
		Length: a.Config.Length,
		Delay:  a.Config.Delay,
		Options: []nqdm.Option{
			nqdm.WithSink(a.progressSink(out)),
			nqdm.WithSilent(silent),
			nqdm.WithLogger(a.zl),
			nqdm.WithBarStyle(a.Config.Fill, a.Config.Head),
		},
	}

	res := orchestration.Execute(ctx, w, execOpts)
	if pw := a.progressWriter(out); pw != nil && !silent {
		fmt.Fprintln(pw)
	}
	a.Presenter.PresentResult(res, out)

	if errors.Is(res.Err, context.DeadlineExceeded) {
		res.Err = apperrors.TimeoutError{Operation: a.Config.Mode, Limit: a.Config.Timeout}
	}
	return apperrors.ExitCodeFor(res.Err)
}

// progressWriter resolves the configured destination against the command's
// writers, returning nil for none.
func (a *Application) progressWriter(out io.Writer) io.Writer {
	switch a.Config.Dest {
	case config.DestStdout:
		return out
	case config.DestStderr:
		return a.ErrWriter
	default:
		return nil
	}
}

func (a *Application) progressSink(out io.Writer) nqdm.Sink {
	w := a.progressWriter(out)
	if w == nil {
		return nil
	}
	return nqdm.NewWriterSink(w)
}

// IsHelpError reports whether err comes from -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
