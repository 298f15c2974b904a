package nqdm

import (
	"iter"

	"github.com/agbru/nqdm/internal/progress"
	"github.com/agbru/nqdm/internal/source"
)

// Result is one pull from a Bar. When Done is true Value is the zero value.
type Result[T any] struct {
	Value T
	Done  bool
}

// Bar is a progress-reporting iterator over values of type T. Every call to
// Next emits one progress step, the final exhausting pull included, so a
// source of N items reports N+1 times and the last line reads 100%.
//
// A Bar is not safe for concurrent use.
type Bar[T any] struct {
	kind Kind
	src  source.Stepper[T]
	drv  *progress.Driver
	err  error
}

func newBar[T any](kind Kind, src source.Stepper[T], total int, hasTotal bool, o *options) *Bar[T] {
	return &Bar[T]{kind: kind, src: src, drv: o.driver(kind, total, hasTotal)}
}

// Next reports progress for the current step and then pulls the next value.
// If the progress callback fails, the error is returned and the source is
// not advanced.
func (b *Bar[T]) Next() (Result[T], error) {
	if err := b.drv.Step(); err != nil {
		return Result[T]{}, err
	}
	v, ok := b.src.Next()
	if !ok {
		var zero T
		return Result[T]{Value: zero, Done: true}, nil
	}
	return Result[T]{Value: v}, nil
}

// All returns an iterator over the remaining values for use with range. A
// callback failure ends the loop early; check Err afterwards. Breaking out
// of the loop stops the bar, releasing its source, so later pulls report
// Done for sources that hold resources.
func (b *Bar[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			r, err := b.Next()
			if err != nil {
				b.err = err
				return
			}
			if r.Done {
				return
			}
			if !yield(r.Value) {
				b.Stop()
				return
			}
		}
	}
}

// Err returns the error that stopped the last range over All, if any.
func (b *Bar[T]) Err() error { return b.err }

// Stop releases resources held by the source, such as the coroutine behind
// an iter.Seq. Only needed when abandoning a bar before it is exhausted
// outside of a range over All.
func (b *Bar[T]) Stop() {
	if s, ok := b.src.(source.Stopper); ok {
		s.Stop()
	}
}

// Current returns the number of progress steps emitted so far.
func (b *Bar[T]) Current() int { return b.drv.Current() }

// Total returns the total item count, if one is known.
func (b *Bar[T]) Total() (int, bool) { return b.drv.Total() }

// Kind reports which source variant backs the bar.
func (b *Bar[T]) Kind() Kind { return b.kind }

// Snapshot returns the statistics the next step would report.
func (b *Bar[T]) Snapshot() Snapshot { return b.drv.Snapshot() }

// Count iterates 0..n-1 with a known total of n. Negative counts are
// treated as zero.
func Count(n int, opts ...Option) *Bar[int] {
	c := source.NewCounter(n)
	return newBar[int](KindCount, c, c.Len(), true, newOptions(opts))
}

// Slice iterates over items. The slice length is the total; WithLength is
// ignored.
func Slice[T any](items []T, opts ...Option) *Bar[T] {
	return newBar[T](KindSequence, source.NewSlice(items), len(items), true, newOptions(opts))
}

// Seq iterates over a push-style sequence. The total is unknown unless
// given with WithLength. Call Stop when abandoning the bar early with Next;
// breaking out of a range over All stops it already.
func Seq[T any](seq iter.Seq[T], opts ...Option) *Bar[T] {
	o := newOptions(opts)
	return newBar[T](KindSequence, source.NewPull(seq), o.length, o.hasLength, o)
}

// Iterate wraps a pull-style iterator. The total is unknown unless given
// with WithLength.
func Iterate[T any](it Iterator[T], opts ...Option) *Bar[T] {
	o := newOptions(opts)
	return newBar[T](KindSequence, source.FromIterator(it), o.length, o.hasLength, o)
}

// Chan drains a channel until it is closed. The total is unknown unless
// given with WithLength.
func Chan[T any](ch <-chan T, opts ...Option) *Bar[T] {
	o := newOptions(opts)
	return newBar[T](KindSequence, source.NewChan(ch), o.length, o.hasLength, o)
}

// Ticker is a progress bar with no underlying data. It never finishes on its
// own; the caller decides when to stop advancing it.
type Ticker struct {
	*Bar[struct{}]
}

// Unbounded returns a Ticker. With WithLength(n) for n >= 1 the total is
// n-1, so the n-th Advance reports 100%; otherwise the total is unknown.
func Unbounded(opts ...Option) *Ticker {
	o := newOptions(opts)
	total, hasTotal := 0, false
	if o.hasLength && o.length >= 1 {
		total, hasTotal = o.length-1, true
	}
	return &Ticker{newBar[struct{}](KindUnbounded, source.NewInfinite(), total, hasTotal, o)}
}

// Advance emits one progress step.
func (t *Ticker) Advance() error {
	_, err := t.Next()
	return err
}
