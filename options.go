package nqdm

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/nqdm/internal/format"
	"github.com/agbru/nqdm/internal/logging"
	"github.com/agbru/nqdm/internal/progress"
	"github.com/agbru/nqdm/internal/sink"
)

// Option configures a progress bar.
type Option func(*options)

type options struct {
	length    int
	hasLength bool
	callback  func(Snapshot) error
	silent    bool
	dest      Destination
	sink      Sink
	hasSink   bool
	clock     func() time.Time
	logger    logging.Logger
	style     format.BarStyle
}

// WithLength declares the total when the source cannot tell it.
func WithLength(n int) Option {
	return func(o *options) { o.length, o.hasLength = n, true }
}

// WithCallback runs fn with the statistics of every step, before the line
// is rendered. An error from fn aborts the step and is returned, wrapped in
// a CallbackError, to whoever pulled.
func WithCallback(fn func(Snapshot) error) Option {
	return func(o *options) { o.callback = fn }
}

// WithSilent suppresses rendering. Callbacks still run.
func WithSilent(silent bool) Option {
	return func(o *options) { o.silent = silent }
}

// WithDestination writes to the named standard stream. Unrecognized names
// disable output.
func WithDestination(d Destination) Option {
	return func(o *options) { o.dest = d }
}

// WithSink writes to s, taking precedence over WithDestination. A nil sink
// disables output.
func WithSink(s Sink) Option {
	return func(o *options) { o.sink, o.hasSink = s, true }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithLogger sends debug diagnostics to l.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = logging.NewZerologAdapter(l) }
}

// WithBarStyle draws the bar with the given fill and head glyphs.
func WithBarStyle(fill, head string) Option {
	return func(o *options) { o.style = format.BarStyle{Fill: fill, Head: head} }
}

func newOptions(opts []Option) *options {
	o := &options{
		clock:  time.Now,
		logger: logging.NewNopLogger(),
		style:  format.DefaultBarStyle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// driver builds the progress driver for one source.
func (o *options) driver(kind Kind, total int, hasTotal bool) *progress.Driver {
	out := o.sink
	if !o.hasSink {
		out = sink.ForDestination(o.dest, o.logger)
	}
	var cb progress.Callback
	if o.callback != nil {
		cb = progress.Callback(o.callback)
	}
	o.logger.Debug("progress source classified", logging.String("kind", kind.String()))
	return progress.New(progress.Config{
		Total:    total,
		HasTotal: hasTotal,
		Callback: cb,
		Silent:   o.silent,
		Sink:     out,
		Style:    o.style,
		Clock:    o.clock,
		Logger:   o.logger,
	})
}
