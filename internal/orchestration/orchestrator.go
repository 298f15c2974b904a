package orchestration

import (
	"context"
	"errors"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/nqdm"
	"github.com/agbru/nqdm/internal/config"
	apperrors "github.com/agbru/nqdm/internal/errors"
	"github.com/agbru/nqdm/internal/logging"
	"github.com/agbru/nqdm/internal/metrics"
	"github.com/agbru/nqdm/internal/telemetry"
)

// RunResult is the outcome of one run.
type RunResult struct {
	// Mode is the workload mode.
	Mode string
	// Items is the number of items fully processed.
	Items int
	// Steps is the number of progress steps that reached the callbacks.
	Steps int
	// Last is the final snapshot seen, valid when Steps > 0.
	Last nqdm.Snapshot
	// Duration is the wall time of the workload.
	Duration time.Duration
	// Err is nil on success.
	Err error
}

// Options carries the collaborators of Execute. Every field is optional.
type Options struct {
	Reporter ProgressReporter
	Metrics  *metrics.Metrics
	Server   MetricsServer
	Logger   logging.Logger
}

// ChainCallbacks calls each non-nil callback in order, stopping at the
// first error.
func ChainCallbacks(cbs ...func(nqdm.Snapshot) error) func(nqdm.Snapshot) error {
	cbs = slices.DeleteFunc(slices.Clone(cbs), func(cb func(nqdm.Snapshot) error) bool { return cb == nil })
	return func(s nqdm.Snapshot) error {
		for _, cb := range cbs {
			if err := cb(s); err != nil {
				return err
			}
		}
		return nil
	}
}

// Execute runs w and, when opts.Server is set, the metrics server next to it
// in an errgroup. The server is stopped as soon as the workload ends. A
// server failure cancels the workload and becomes the run error.
func Execute(ctx context.Context, w Workload, opts Options) RunResult {
	if opts.Reporter == nil {
		opts.Reporter = NullProgressReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}

	g, gctx := errgroup.WithContext(ctx)
	serverCtx, stopServer := context.WithCancel(gctx)
	defer stopServer()

	if opts.Server != nil {
		g.Go(func() error { return opts.Server.ListenAndServe(serverCtx) })
	}

	result := RunResult{Mode: w.Mode}
	g.Go(func() error {
		defer stopServer()
		result = runWorkload(gctx, w, opts)
		return nil
	})

	if err := g.Wait(); err != nil {
		opts.Logger.Error("metrics server failed", err)
		result.Err = err
	}
	return result
}

func runWorkload(ctx context.Context, w Workload, opts Options) RunResult {
	result := RunResult{Mode: w.Mode}
	total, hasTotal := w.N, !slices.Contains([]string{config.ModeSeq, config.ModeChan, config.ModeUnbounded}, w.Mode)
	if w.Length > 0 {
		total, hasTotal = w.Length, true
	}
	ctx, span := telemetry.StartRun(ctx, w.Mode, total, hasTotal)

	record := func(s nqdm.Snapshot) error {
		result.Steps++
		result.Last = s
		return nil
	}
	var observe func(nqdm.Snapshot) error
	if opts.Metrics != nil {
		observe = opts.Metrics.Callback()
	}
	callback := ChainCallbacks(record, observe, telemetry.Callback(span), opts.Reporter.Callback())

	opts.Logger.Info("run started",
		logging.String("mode", w.Mode),
		logging.Int("n", w.N),
		logging.Int("length", w.Length))

	opts.Reporter.Start()
	start := time.Now()
	result.Items, result.Err = w.Run(ctx, nqdm.WithCallback(callback))
	result.Duration = time.Since(start)
	opts.Reporter.Stop()

	var cbErr apperrors.CallbackError
	if opts.Metrics != nil && errors.As(result.Err, &cbErr) {
		opts.Metrics.RecordCallbackFailure()
	}
	telemetry.End(span, result.Err)

	if result.Err != nil {
		opts.Logger.Error("run failed", result.Err, logging.Int("items", result.Items))
	} else {
		opts.Logger.Info("run finished",
			logging.Int("items", result.Items),
			logging.Int("steps", result.Steps),
			logging.String("duration", result.Duration.String()))
	}
	return result
}
