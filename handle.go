package nqdm

import (
	"reflect"

	apperrors "github.com/agbru/nqdm/internal/errors"
	"github.com/agbru/nqdm/internal/progress"
	"github.com/agbru/nqdm/internal/source"
)

var errorType = reflect.TypeFor[error]()

// Handle is a progress source built from a dynamically typed entity. Count,
// Sequence and Unbounded handles iterate through Bar; Transform handles
// expose a wrapped function through Func.
type Handle struct {
	kind Kind
	bar  *Bar[any]
	fn   any
}

// New classifies entity and builds the matching progress source:
//
//   - a number becomes a Count of that many items, floats rounded up;
//   - a slice, array, string, receive channel, iter.Seq-shaped function or
//     any value with a Next() (T, bool) method becomes a Sequence, using its
//     own length when it has one and WithLength otherwise;
//   - an iter.Seq2-shaped function such as maps.All becomes a Sequence of
//     Pair values;
//   - any other non-variadic function of one to three parameters becomes a
//     Transform;
//   - anything else, nil included, becomes Unbounded.
func New(entity any, opts ...Option) *Handle {
	o := newOptions(opts)
	kind := source.Classify(entity)
	h := &Handle{kind: kind}

	switch kind {
	case KindCount:
		n, _ := source.CountOf(entity)
		c := source.NewCounter(n)
		h.bar = newBar(kind, source.Erase[int](c), c.Len(), true, o)
	case KindSequence:
		st, n, hasLength, _ := source.SequenceOf(entity)
		if !hasLength {
			n, hasLength = o.length, o.hasLength
		}
		h.bar = newBar(kind, st, n, hasLength, o)
	case KindTransform:
		h.fn = wrapFunc(reflect.ValueOf(entity), o)
	default:
		total, hasTotal := 0, false
		if o.hasLength && o.length >= 1 {
			total, hasTotal = o.length-1, true
		}
		h.bar = newBar(kind, source.Erase[struct{}](source.NewInfinite()), total, hasTotal, o)
	}
	return h
}

// Kind reports the classified source variant.
func (h *Handle) Kind() Kind { return h.kind }

// Bar returns the iterator for Count, Sequence and Unbounded handles, and
// nil for Transform handles.
func (h *Handle) Bar() *Bar[any] { return h.bar }

// Func returns the wrapped function of a Transform handle, or nil. The
// wrapper has the same parameters as the original and one extra trailing
// error result carrying callback failures: wrapping func(int) string yields
// func(int) (string, error).
func (h *Handle) Func() any { return h.fn }

// Advance emits one progress step on an iterating handle, discarding the
// pulled value.
func (h *Handle) Advance() error {
	if h.bar == nil {
		return apperrors.ValidationError{Field: "entity", Message: "a transform advances by calling its wrapped function"}
	}
	_, err := h.bar.Next()
	return err
}

// wrapFunc builds func(args...) (results..., error) around fn. When fn takes
// a third slice or array parameter its length establishes the total on the
// first call.
func wrapFunc(fn reflect.Value, o *options) any {
	t := fn.Type()
	in := make([]reflect.Type, t.NumIn())
	for i := range in {
		in[i] = t.In(i)
	}
	out := make([]reflect.Type, t.NumOut()+1)
	for i := range t.NumOut() {
		out[i] = t.Out(i)
	}
	out[len(out)-1] = errorType

	lengthArg := -1
	if t.NumIn() == 3 {
		if k := t.In(2).Kind(); k == reflect.Slice || k == reflect.Array {
			lengthArg = 2
		}
	}

	drv := o.driver(KindTransform, o.length, o.hasLength)
	wrapper := reflect.MakeFunc(reflect.FuncOf(in, out, false), func(args []reflect.Value) []reflect.Value {
		if lengthArg >= 0 {
			establishFromArg(drv, args[lengthArg])
		}
		results := make([]reflect.Value, len(out))
		if err := drv.Step(); err != nil {
			for i := range t.NumOut() {
				results[i] = reflect.Zero(t.Out(i))
			}
			results[len(out)-1] = reflect.ValueOf(&err).Elem()
			return results
		}
		copy(results, fn.Call(args))
		results[len(out)-1] = reflect.Zero(errorType)
		return results
	})
	return wrapper.Interface()
}

func establishFromArg(drv *progress.Driver, v reflect.Value) {
	if v.Kind() == reflect.Slice && v.IsNil() {
		return
	}
	drv.EstablishTotal(v.Len())
}
