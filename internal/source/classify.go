package source

import (
	"math"
	"reflect"
	"unicode/utf8"
)

// Classify picks the progress source variant for a dynamically typed
// entity. The first matching rule wins:
//
//  1. a finite number (any integer or float kind) is a Count;
//  2. anything that can be iterated (slice, array, string, receive channel,
//     iter.Seq- or iter.Seq2-shaped function, a value with a
//     Next() (T, bool) method) is a Sequence;
//  3. a non-variadic function taking one to three parameters is a Transform,
//     whatever its results;
//  4. everything else, nil included, is Unbounded.
func Classify(entity any) Kind {
	if _, ok := CountOf(entity); ok {
		return KindCount
	}
	if isIterable(entity) {
		return KindSequence
	}
	if IsTransform(entity) {
		return KindTransform
	}
	return KindUnbounded
}

// CountOf returns the number of items a numeric entity stands for. Floats
// are rounded up, negative numbers count as zero. ok is false for non-numeric
// values, NaN and infinities.
func CountOf(entity any) (int, bool) {
	v := reflect.ValueOf(entity)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Int() < 0 {
			return 0, true
		}
		return int(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if v.Uint() > math.MaxInt {
			return math.MaxInt, true
		}
		return int(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return clampCount(math.Ceil(f)), true
	default:
		return 0, false
	}
}

func clampCount(f float64) int {
	switch {
	case f <= 0:
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	default:
		return int(f)
	}
}

// IsTransform reports whether entity is a non-nil, non-variadic function with
// one to three parameters. Results are not constrained; the wrapper built for
// a transform keeps them and appends an error.
func IsTransform(entity any) bool {
	v := reflect.ValueOf(entity)
	if v.Kind() != reflect.Func || v.IsNil() {
		return false
	}
	t := v.Type()
	return !t.IsVariadic() && t.NumIn() >= 1 && t.NumIn() <= 3
}

func isIterable(entity any) bool {
	if _, ok := entity.(Iterator[any]); ok {
		return true
	}
	v := reflect.ValueOf(entity)
	if _, ok := nextMethod(v); ok {
		return true
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.String:
		return true
	case reflect.Chan:
		return !v.IsNil() && v.Type().ChanDir()&reflect.RecvDir != 0
	case reflect.Func:
		return !v.IsNil() && (isSeqFunc(v.Type(), 1) || isSeqFunc(v.Type(), 2))
	default:
		return false
	}
}

// isSeqFunc matches func(yield func(...) bool) where yield takes arity
// values: 1 for iter.Seq, 2 for iter.Seq2.
func isSeqFunc(t reflect.Type, arity int) bool {
	if t.NumIn() != 1 || t.NumOut() != 0 {
		return false
	}
	y := t.In(0)
	return y.Kind() == reflect.Func && !y.IsVariadic() && y.NumIn() == arity &&
		y.NumOut() == 1 && y.Out(0).Kind() == reflect.Bool
}

// nextMethod returns the bound Next method of v when it has the pull shape
// Next() (T, bool). Nil pointers and interfaces never match.
func nextMethod(v reflect.Value) (reflect.Value, bool) {
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if k := v.Kind(); (k == reflect.Pointer || k == reflect.Interface) && v.IsNil() {
		return reflect.Value{}, false
	}
	m := v.MethodByName("Next")
	if !m.IsValid() {
		return reflect.Value{}, false
	}
	t := m.Type()
	if t.NumIn() != 0 || t.NumOut() != 2 || t.Out(1).Kind() != reflect.Bool {
		return reflect.Value{}, false
	}
	return m, true
}

// SequenceOf returns a stepper over an iterable entity together with its own
// length when the entity has one. ok is false when entity is not iterable.
func SequenceOf(entity any) (st Stepper[any], length int, hasLength bool, ok bool) {
	if it, isIt := entity.(Iterator[any]); isIt {
		return FromIterator(it), 0, false, true
	}
	if !isIterable(entity) {
		return nil, 0, false, false
	}
	v := reflect.ValueOf(entity)
	if next, isNext := nextMethod(v); isNext {
		return nexter{next: next}, 0, false, true
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		return &indexed{v: v}, v.Len(), true, true
	case reflect.String:
		s := v.String()
		return &indexed{v: reflect.ValueOf([]rune(s))}, utf8.RuneCountInString(s), true, true
	case reflect.Chan:
		return &received{v: v}, 0, false, true
	default:
		if isSeqFunc(v.Type(), 2) {
			return seq2Func(v), 0, false, true
		}
		return seqFunc(v), 0, false, true
	}
}

// Pair is one element pulled from an iter.Seq2-shaped sequence, such as the
// key and value yielded by maps.All.
type Pair struct {
	Key   any
	Value any
}

// nexter pulls through a reflected Next() (T, bool) method.
type nexter struct {
	next reflect.Value
}

func (m nexter) Next() (any, bool) {
	out := m.next.Call(nil)
	if !out[1].Bool() {
		return nil, false
	}
	return out[0].Interface(), true
}

// indexed walks a slice, array or rune slice through reflection.
type indexed struct {
	v reflect.Value
	i int
}

func (s *indexed) Next() (any, bool) {
	if s.i >= s.v.Len() {
		return nil, false
	}
	x := s.v.Index(s.i).Interface()
	s.i++
	return x, true
}

// received pulls from a channel of any element type.
type received struct {
	v reflect.Value
}

func (r *received) Next() (any, bool) {
	x, ok := r.v.Recv()
	if !ok {
		return nil, false
	}
	return x.Interface(), true
}

// seqFunc pulls from an iter.Seq-shaped function of any element type.
func seqFunc(fn reflect.Value) *Pull[any] {
	yieldType := fn.Type().In(0)
	boolType := yieldType.Out(0)
	return NewPull(func(yield func(any) bool) {
		y := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			return []reflect.Value{reflect.ValueOf(yield(args[0].Interface())).Convert(boolType)}
		})
		fn.Call([]reflect.Value{y})
	})
}

// seq2Func pulls Pair values from an iter.Seq2-shaped function.
func seq2Func(fn reflect.Value) *Pull[any] {
	yieldType := fn.Type().In(0)
	boolType := yieldType.Out(0)
	return NewPull(func(yield func(any) bool) {
		y := reflect.MakeFunc(yieldType, func(args []reflect.Value) []reflect.Value {
			p := Pair{Key: args[0].Interface(), Value: args[1].Interface()}
			return []reflect.Value{reflect.ValueOf(yield(p)).Convert(boolType)}
		})
		fn.Call([]reflect.Value{y})
	})
}
