package cli

import (
	"io"

	"github.com/agbru/nqdm"
	"github.com/agbru/nqdm/internal/format"
	"github.com/agbru/nqdm/internal/orchestration"
)

// SpinnerReporter shows a spinner whose suffix carries the progress fields,
// for runs where the bar itself is silenced.
type SpinnerReporter struct {
	spinner Spinner
}

var _ orchestration.ProgressReporter = (*SpinnerReporter)(nil)

// NewSpinnerReporter returns a reporter animating on out.
func NewSpinnerReporter(out io.Writer) *SpinnerReporter {
	return &SpinnerReporter{spinner: newSpinner(out)}
}

// Start implements orchestration.ProgressReporter.
func (r *SpinnerReporter) Start() { r.spinner.Start() }

// Stop implements orchestration.ProgressReporter.
func (r *SpinnerReporter) Stop() { r.spinner.Stop() }

// Callback implements orchestration.ProgressReporter.
func (r *SpinnerReporter) Callback() func(nqdm.Snapshot) error {
	return func(s nqdm.Snapshot) error {
		r.spinner.UpdateSuffix(SpinnerSuffix(s))
		return nil
	}
}

// SpinnerSuffix renders the bar-less progress fields: left, time and
// throughput.
func SpinnerSuffix(s nqdm.Snapshot) string {
	return " " + format.Left(s) + " " + format.Time(s) + " " + format.Throughput(s.Throughput)
}
