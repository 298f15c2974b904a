package orchestration

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/agbru/nqdm"
	"github.com/agbru/nqdm/internal/config"
	apperrors "github.com/agbru/nqdm/internal/errors"
)

// Workload describes the simulated work of one run.
type Workload struct {
	// Mode selects the progress source, one of config.Modes.
	Mode string
	// N is the number of items.
	N int
	// Length, when positive, declares the total for sources without one.
	Length int
	// Delay is slept per item.
	Delay time.Duration
	// Options configure the progress bar.
	Options []nqdm.Option
}

// options returns the bar options, adding WithLength when declared.
func (w Workload) options(extra ...nqdm.Option) []nqdm.Option {
	opts := slices.Concat(w.Options, extra)
	if w.Length > 0 {
		opts = append(opts, nqdm.WithLength(w.Length))
	}
	return opts
}

// work sleeps for the item delay, returning early when ctx is done.
func (w Workload) work(ctx context.Context) error {
	if w.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(w.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run drives the workload to completion and returns the number of items
// processed.
func (w Workload) Run(ctx context.Context, extra ...nqdm.Option) (int, error) {
	opts := w.options(extra...)
	switch w.Mode {
	case config.ModeCount:
		return drain(ctx, nqdm.Count(w.N, opts...), w.work)
	case config.ModeSlice:
		return drain(ctx, nqdm.Slice(itemsOf(w.N), opts...), w.work)
	case config.ModeSeq:
		bar := nqdm.Seq(seqOf(w.N), opts...)
		defer bar.Stop()
		return drain(ctx, bar, w.work)
	case config.ModeChan:
		return w.runChan(ctx, opts)
	case config.ModeFunc:
		return w.runMap(ctx, opts)
	case config.ModeUnbounded:
		return w.runTicker(ctx, nqdm.Unbounded(opts...))
	case config.ModeAuto:
		return drain(ctx, nqdm.New(w.N, opts...).Bar(), w.work)
	default:
		return 0, apperrors.ValidationError{Field: "mode", Message: "unsupported workload mode " + w.Mode}
	}
}

// runChan feeds the bar from a producer goroutine. A closed channel ends the
// bar normally, so cancellation is checked again once the bar is done.
func (w Workload) runChan(ctx context.Context, opts []nqdm.Option) (int, error) {
	prodCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	n, err := drain(ctx, nqdm.Chan(produce(prodCtx, w.N), opts...), w.work)
	if err == nil {
		err = ctx.Err()
	}
	return n, err
}

func (w Workload) runMap(ctx context.Context, opts []nqdm.Option) (int, error) {
	var workErr error
	out, err := nqdm.Map(itemsOf(w.N), func(i int) int {
		if workErr == nil {
			workErr = w.work(ctx)
		}
		return i
	}, opts...)
	if err != nil {
		return len(out), err
	}
	if workErr != nil {
		return len(out), workErr
	}
	return len(out), nil
}

func (w Workload) runTicker(ctx context.Context, t *nqdm.Ticker) (int, error) {
	for i := range w.N {
		if err := t.Advance(); err != nil {
			return i, err
		}
		if err := w.work(ctx); err != nil {
			return i, err
		}
	}
	return w.N, nil
}

// drain ranges over bar doing one unit of work per value.
func drain[T any](ctx context.Context, bar *nqdm.Bar[T], work func(context.Context) error) (int, error) {
	n := 0
	for range bar.All() {
		if err := work(ctx); err != nil {
			return n, err
		}
		n++
	}
	return n, bar.Err()
}

func itemsOf(n int) []int {
	items := make([]int, max(n, 0))
	for i := range items {
		items[i] = i
	}
	return items
}

func seqOf(n int) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := range n {
			if !yield(i) {
				return
			}
		}
	}
}

// produce sends 0..n-1 on an unbuffered channel, stopping early when ctx is
// done. The channel is closed when the producer exits.
func produce(ctx context.Context, n int) <-chan int {
	ch := make(chan int)
	go func() {
		defer close(ch)
		for i := range n {
			select {
			case ch <- i:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
