package trampoline

import (
	"github.com/reiterhq/reiter/callkey"
)

// FuncN is a wrapped variadic function accepting positional and named
// arguments, mirroring the untyped surface of the typed Func family. Named
// arguments participate in the Call Key independent of supply order.
type FuncN struct {
	fs *funcState
}

// WrapN wraps a variadic recursive pure function. The body receives the
// positional arguments and a map of named arguments (nil when none were
// supplied).
func WrapN(name string, body func(pos []any, named map[string]any) Step[any], opts ...Option) *FuncN {
	f := &FuncN{fs: newFuncState(name, opts...)}
	f.fs.replay = func(key *callkey.Key) stepCore {
		return body(key.Positional(), key.NamedValues()).core
	}
	return f
}

// Call evaluates the wrapped function, driving deferred recursive calls to
// completion. named may be nil.
func (f *FuncN) Call(named map[string]any, pos ...any) (any, error) {
	key, err := callkey.FromMap(pos, named)
	if err != nil {
		return nil, err
	}
	return call[any](f.fs, key)
}

// Step is the recursion entry used inside bodies.
func (f *FuncN) Step(named map[string]any, pos ...any) Step[any] {
	key, err := callkey.FromMap(pos, named)
	if err != nil {
		return Fail[any](err)
	}
	return Step[any]{core: enter(f.fs, key)}
}

// Name returns the name the function was wrapped under.
func (f *FuncN) Name() string { return f.fs.name }
