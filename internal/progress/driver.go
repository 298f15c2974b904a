// Package progress implements the driver that turns every pull on a progress
// source into a rendered status line.
//
// A Driver owns the render state of exactly one progress bar: the start
// timestamp fixed at construction and the item counter. Each Step computes a
// fresh stats.Snapshot, hands it to the optional callback, writes the
// formatted line to the sink and then advances the counter. Nothing runs in
// the background; all work happens inside the caller's Step.
package progress

import (
	"time"

	apperrors "github.com/agbru/nqdm/internal/errors"
	"github.com/agbru/nqdm/internal/format"
	"github.com/agbru/nqdm/internal/logging"
	"github.com/agbru/nqdm/internal/sink"
	"github.com/agbru/nqdm/internal/stats"
)

// DefaultWidth is the line width used when the sink cannot report one.
const DefaultWidth = 24

// Callback observes every step. Returning an error aborts the step.
type Callback func(stats.Snapshot) error

// Config configures a Driver.
type Config struct {
	// Total is the expected number of items, when HasTotal is set.
	Total    int
	HasTotal bool
	// Callback, when non-nil, runs before the line is rendered.
	Callback Callback
	// Silent suppresses rendering; the callback still runs.
	Silent bool
	// Sink receives rendered lines. A nil sink disables rendering.
	Sink sink.Sink
	// Style selects the bar glyphs.
	Style format.BarStyle
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
	// Logger receives debug diagnostics. Defaults to a nop logger.
	Logger logging.Logger
}

// Driver renders progress for one source.
type Driver struct {
	cfg       Config
	startedAt time.Time
	current   int
	width     int
}

// New creates a driver and captures its start time. The sink width is read
// once here.
func New(cfg Config) *Driver {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.HasTotal && cfg.Total < 0 {
		cfg.Total = 0
	}
	d := &Driver{
		cfg:       cfg,
		startedAt: cfg.Clock(),
		width:     DefaultWidth,
	}
	if cfg.Sink != nil {
		if cols := cfg.Sink.Columns(); cols > 0 {
			d.width = cols
		}
	}
	cfg.Logger.Debug("progress driver created",
		logging.Int("total", cfg.Total),
		logging.Bool("has_total", cfg.HasTotal),
		logging.Int("width", d.width),
		logging.Bool("silent", cfg.Silent))
	return d
}

// Current returns the number of completed steps.
func (d *Driver) Current() int { return d.current }

// Total returns the established total, if any.
func (d *Driver) Total() (int, bool) { return d.cfg.Total, d.cfg.HasTotal }

// Width returns the line width used for rendering.
func (d *Driver) Width() int { return d.width }

// StartedAt returns the construction timestamp.
func (d *Driver) StartedAt() time.Time { return d.startedAt }

// EstablishTotal sets the total if none is known yet. Once a total exists it
// never changes.
func (d *Driver) EstablishTotal(total int) {
	if d.cfg.HasTotal {
		return
	}
	if total < 0 {
		total = 0
	}
	d.cfg.Total, d.cfg.HasTotal = total, true
}

// Snapshot computes the statistics for the current step without side
// effects.
func (d *Driver) Snapshot() stats.Snapshot {
	return stats.Compute(d.current, d.cfg.Total, d.cfg.HasTotal, d.cfg.Clock(), d.startedAt)
}

// Step runs one progress step: compute the snapshot, run the callback,
// render, then advance the counter. A callback error aborts the step before
// rendering and leaves the counter unchanged.
func (d *Driver) Step() error {
	snap := d.Snapshot()
	if d.cfg.Callback != nil {
		if err := d.cfg.Callback(snap); err != nil {
			d.cfg.Logger.Debug("progress callback failed", logging.Int("step", d.current), logging.Err(err))
			return apperrors.CallbackError{Step: d.current, Cause: err}
		}
	}
	if !d.cfg.Silent && d.cfg.Sink != nil {
		d.cfg.Sink.Write("\r" + format.Line(snap, d.width, d.cfg.Style))
	}
	d.current++
	return nil
}
