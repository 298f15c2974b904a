// Package source normalizes the shapes a progress bar can be built from into
// one pull-based Stepper contract, and classifies dynamically typed inputs
// into the matching Kind.
package source

import (
	"iter"
)

// Kind identifies which progress source variant is active. It is chosen once
// at construction and never re-evaluated.
type Kind int

const (
	// KindUnbounded has no known length and yields placeholders forever.
	KindUnbounded Kind = iota
	// KindCount yields the indices 0..n-1.
	KindCount
	// KindSequence pulls values from a collection or iterator.
	KindSequence
	// KindTransform wraps a function invoked once per external element.
	KindTransform
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindCount:
		return "count"
	case KindSequence:
		return "sequence"
	case KindTransform:
		return "transform"
	default:
		return "unbounded"
	}
}

// Stepper produces one value per pull. ok is false once the source is
// exhausted; the value is then the zero value.
type Stepper[T any] interface {
	Next() (value T, ok bool)
}

// Iterator is any user type with pull semantics.
type Iterator[T any] interface {
	Next() (T, bool)
}

// Stopper is implemented by steppers holding resources that should be
// released when the caller stops pulling early.
type Stopper interface {
	Stop()
}

// Counter yields 0, 1, ..., n-1.
type Counter struct {
	n, i int
}

// NewCounter returns a stepper over n indices. Negative n yields nothing.
func NewCounter(n int) *Counter {
	if n < 0 {
		n = 0
	}
	return &Counter{n: n}
}

// Len returns the number of indices.
func (c *Counter) Len() int { return c.n }

// Next implements Stepper.
func (c *Counter) Next() (int, bool) {
	if c.i >= c.n {
		return 0, false
	}
	v := c.i
	c.i++
	return v, true
}

// Slice yields the elements of a slice in order.
type Slice[T any] struct {
	items []T
	i     int
}

// NewSlice returns a stepper over items.
func NewSlice[T any](items []T) *Slice[T] {
	return &Slice[T]{items: items}
}

// Len returns the slice length.
func (s *Slice[T]) Len() int { return len(s.items) }

// Next implements Stepper.
func (s *Slice[T]) Next() (T, bool) {
	if s.i >= len(s.items) {
		var zero T
		return zero, false
	}
	v := s.items[s.i]
	s.i++
	return v, true
}

// Pull adapts a push-style iter.Seq into a Stepper using iter.Pull.
type Pull[T any] struct {
	next func() (T, bool)
	stop func()
	done bool
}

// NewPull starts pulling from seq. Callers that abandon the sequence before
// it is exhausted should call Stop.
func NewPull[T any](seq iter.Seq[T]) *Pull[T] {
	next, stop := iter.Pull(seq)
	return &Pull[T]{next: next, stop: stop}
}

// Next implements Stepper.
func (p *Pull[T]) Next() (T, bool) {
	if p.done {
		var zero T
		return zero, false
	}
	v, ok := p.next()
	if !ok {
		p.Stop()
	}
	return v, ok
}

// Stop releases the underlying coroutine. It is safe to call more than once.
func (p *Pull[T]) Stop() {
	if p.done {
		return
	}
	p.done = true
	p.stop()
}

// iteratorStepper adapts an Iterator.
type iteratorStepper[T any] struct {
	it Iterator[T]
}

// FromIterator adapts a user iterator.
func FromIterator[T any](it Iterator[T]) Stepper[T] {
	return iteratorStepper[T]{it: it}
}

func (s iteratorStepper[T]) Next() (T, bool) { return s.it.Next() }

// Chan yields values received from a channel until it is closed.
type Chan[T any] struct {
	ch <-chan T
}

// NewChan returns a stepper over ch.
func NewChan[T any](ch <-chan T) *Chan[T] {
	return &Chan[T]{ch: ch}
}

// Next implements Stepper. It blocks until a value arrives or ch closes.
func (c *Chan[T]) Next() (T, bool) {
	v, ok := <-c.ch
	return v, ok
}

// Infinite yields struct{}{} forever.
type Infinite struct{}

// NewInfinite returns an endless stepper.
func NewInfinite() Infinite { return Infinite{} }

// Next implements Stepper.
func (Infinite) Next() (struct{}, bool) { return struct{}{}, true }

// Erase adapts a typed stepper to Stepper[any], forwarding Stop when the
// underlying stepper holds resources.
func Erase[T any](s Stepper[T]) Stepper[any] {
	return erased[T]{s: s}
}

type erased[T any] struct {
	s Stepper[T]
}

func (e erased[T]) Next() (any, bool) {
	v, ok := e.s.Next()
	if !ok {
		return nil, false
	}
	return v, true
}

func (e erased[T]) Stop() {
	if st, ok := e.s.(Stopper); ok {
		st.Stop()
	}
}
