package callkey

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrUnhashableArg reports an argument for which no stable canonical form
// exists. It is returned at call time so the argument is never miscached.
var ErrUnhashableArg = errors.New("argument is not hashable or freezable")

// canonicalize produces the canonical token of a single argument value.
//
// Precedence:
//  1. nil
//  2. fmt.Stringer values keyed by their dynamic type and String() form
//  3. slices and arrays, frozen into an ordered element sequence
//  4. pointers, keyed by identity
//  5. any other comparable value, keyed by dynamic type and value
//
// Maps, funcs and channels have no stable canonical form and are rejected.
func canonicalize(v any) (string, error) {
	return canonToken(v, true)
}

func canonToken(v any, allowFreeze bool) (string, error) {
	if v == nil {
		return "nil", nil
	}
	if s, ok := v.(fmt.Stringer); ok {
		return fmt.Sprintf("%T~%s", v, s.String()), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if !allowFreeze {
			return "", fmt.Errorf("%w: nested sequence of type %T", ErrUnhashableArg, v)
		}
		return freeze(rv)
	case reflect.Map:
		return "", fmt.Errorf("%w: map of type %T", ErrUnhashableArg, v)
	case reflect.Func, reflect.Chan:
		return "", fmt.Errorf("%w: %T", ErrUnhashableArg, v)
	case reflect.Pointer, reflect.UnsafePointer:
		// Identity keying: correct for pure functions over immutable
		// pointer-linked structures.
		return fmt.Sprintf("%T@%x", v, rv.Pointer()), nil
	}
	if !rv.Type().Comparable() {
		return "", fmt.Errorf("%w: %T", ErrUnhashableArg, v)
	}
	return fmt.Sprintf("%T=%v", v, v), nil
}

// freeze renders a sequence as the ordered canonical tokens of its elements.
// The container type is erased, so []int{1,2,3} and [3]int{1,2,3} freeze
// identically.
//
// Freezing is flat-only: it assumes a sequence of already-hashable elements.
// An element that is itself a slice, array or map is rejected rather than
// frozen recursively.
func freeze(rv reflect.Value) (string, error) {
	var b strings.Builder
	b.WriteString("seq[")
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		tok, err := canonToken(rv.Index(i).Interface(), false)
		if err != nil {
			return "", err
		}
		b.WriteString(tok)
	}
	b.WriteByte(']')
	return b.String(), nil
}
