package orchestration

import (
	"context"
	"io"

	"github.com/agbru/nqdm"
)

// ProgressReporter observes a run alongside (or instead of) the bar.
type ProgressReporter interface {
	// Start is called once before the first step.
	Start()
	// Callback returns the per-step hook. It must not block.
	Callback() func(nqdm.Snapshot) error
	// Stop is called once after the run, whatever its outcome.
	Stop()
}

// NullProgressReporter ignores every step.
type NullProgressReporter struct{}

// Start implements ProgressReporter.
func (NullProgressReporter) Start() {}

// Callback implements ProgressReporter.
func (NullProgressReporter) Callback() func(nqdm.Snapshot) error {
	return func(nqdm.Snapshot) error { return nil }
}

// Stop implements ProgressReporter.
func (NullProgressReporter) Stop() {}

// ResultPresenter renders the outcome of a run.
type ResultPresenter interface {
	PresentResult(result RunResult, out io.Writer)
}

// MetricsServer serves metrics until its context is done.
type MetricsServer interface {
	ListenAndServe(ctx context.Context) error
}
