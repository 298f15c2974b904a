package nqdm

import (
	"slices"
)

// Wrap returns a function that reports one progress step and then calls
// fn. The total is unknown unless given with WithLength. A callback failure
// is returned in place of calling fn.
func Wrap[T, U any](fn func(T) U, opts ...Option) func(T) (U, error) {
	o := newOptions(opts)
	drv := o.driver(KindTransform, o.length, o.hasLength)
	return func(v T) (U, error) {
		if err := drv.Step(); err != nil {
			var zero U
			return zero, err
		}
		return fn(v), nil
	}
}

// WrapIndexed is Wrap for callbacks shaped like a map over a slice: the
// element, its index and the whole slice. The total is taken from the
// length of the slice passed on the first call unless one was already set.
func WrapIndexed[T, U any](fn func(T, int, []T) U, opts ...Option) func(T, int, []T) (U, error) {
	o := newOptions(opts)
	drv := o.driver(KindTransform, o.length, o.hasLength)
	return func(v T, i int, all []T) (U, error) {
		if all != nil {
			drv.EstablishTotal(len(all))
		}
		if err := drv.Step(); err != nil {
			var zero U
			return zero, err
		}
		return fn(v, i, all), nil
	}
}

// Map applies fn to every item, reporting one progress step per call with a
// total of len(items). On a callback failure the results computed so far
// are returned with the error.
func Map[T, U any](items []T, fn func(T) U, opts ...Option) ([]U, error) {
	wrapped := Wrap(fn, append(slices.Clip(opts), WithLength(len(items)))...)
	out := make([]U, 0, len(items))
	for _, v := range items {
		u, err := wrapped(v)
		if err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, nil
}
