package trampoline

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reiterhq/reiter/callkey"
)

func newFuncState(name string, opts ...Option) *funcState {
	fs := &funcState{
		id:     uuid.New().String(),
		name:   name,
		cache:  NewSyncCache(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(fs)
	}
	return fs
}

// Func1 is a wrapped unary function. Call is the client entry; Step is the
// recursion entry used inside function bodies, including the bodies of other
// wrapped functions for mutual recursion.
type Func1[I1, O any] struct {
	fs *funcState
}

// Wrap1 wraps a unary recursive pure function for iterative evaluation with
// memoization. The body receives its argument and returns a Step: Done for a
// base case, Fail to abort, or a combination of recursive Step calls.
func Wrap1[I1, O any](name string, body func(I1) Step[O], opts ...Option) *Func1[I1, O] {
	f := &Func1[I1, O]{fs: newFuncState(name, opts...)}
	f.fs.replay = func(key *callkey.Key) stepCore {
		pos := key.Positional()
		return body(coerce[I1](pos[0])).core
	}
	return f
}

// Call evaluates the wrapped function for i1, driving every deferred
// recursive call to completion without growing the native call stack.
func (f *Func1[I1, O]) Call(i1 I1) (O, error) {
	key, err := callkey.New([]any{i1}, nil)
	if err != nil {
		var zero O
		return zero, err
	}
	return call[O](f.fs, key)
}

// Step is the recursion entry: inside an active evaluation it returns a
// placeholder instead of recursing natively; outside one it behaves like
// Call.
func (f *Func1[I1, O]) Step(i1 I1) Step[O] {
	key, err := callkey.New([]any{i1}, nil)
	if err != nil {
		return Fail[O](err)
	}
	return Step[O]{core: enter(f.fs, key)}
}

// Name returns the name the function was wrapped under.
func (f *Func1[I1, O]) Name() string { return f.fs.name }

// Func2 is a wrapped binary function.
type Func2[I1, I2, O any] struct {
	fs *funcState
}

// Wrap2 wraps a binary recursive pure function.
func Wrap2[I1, I2, O any](name string, body func(I1, I2) Step[O], opts ...Option) *Func2[I1, I2, O] {
	f := &Func2[I1, I2, O]{fs: newFuncState(name, opts...)}
	f.fs.replay = func(key *callkey.Key) stepCore {
		pos := key.Positional()
		return body(coerce[I1](pos[0]), coerce[I2](pos[1])).core
	}
	return f
}

func (f *Func2[I1, I2, O]) Call(i1 I1, i2 I2) (O, error) {
	key, err := callkey.New([]any{i1, i2}, nil)
	if err != nil {
		var zero O
		return zero, err
	}
	return call[O](f.fs, key)
}

func (f *Func2[I1, I2, O]) Step(i1 I1, i2 I2) Step[O] {
	key, err := callkey.New([]any{i1, i2}, nil)
	if err != nil {
		return Fail[O](err)
	}
	return Step[O]{core: enter(f.fs, key)}
}

func (f *Func2[I1, I2, O]) Name() string { return f.fs.name }

// Func3 is a wrapped ternary function.
type Func3[I1, I2, I3, O any] struct {
	fs *funcState
}

// Wrap3 wraps a ternary recursive pure function.
func Wrap3[I1, I2, I3, O any](name string, body func(I1, I2, I3) Step[O], opts ...Option) *Func3[I1, I2, I3, O] {
	f := &Func3[I1, I2, I3, O]{fs: newFuncState(name, opts...)}
	f.fs.replay = func(key *callkey.Key) stepCore {
		pos := key.Positional()
		return body(coerce[I1](pos[0]), coerce[I2](pos[1]), coerce[I3](pos[2])).core
	}
	return f
}

func (f *Func3[I1, I2, I3, O]) Call(i1 I1, i2 I2, i3 I3) (O, error) {
	key, err := callkey.New([]any{i1, i2, i3}, nil)
	if err != nil {
		var zero O
		return zero, err
	}
	return call[O](f.fs, key)
}

func (f *Func3[I1, I2, I3, O]) Step(i1 I1, i2 I2, i3 I3) Step[O] {
	key, err := callkey.New([]any{i1, i2, i3}, nil)
	if err != nil {
		return Fail[O](err)
	}
	return Step[O]{core: enter(f.fs, key)}
}

func (f *Func3[I1, I2, I3, O]) Name() string { return f.fs.name }

// Func4 is a wrapped quaternary function.
type Func4[I1, I2, I3, I4, O any] struct {
	fs *funcState
}

// Wrap4 wraps a quaternary recursive pure function.
func Wrap4[I1, I2, I3, I4, O any](name string, body func(I1, I2, I3, I4) Step[O], opts ...Option) *Func4[I1, I2, I3, I4, O] {
	f := &Func4[I1, I2, I3, I4, O]{fs: newFuncState(name, opts...)}
	f.fs.replay = func(key *callkey.Key) stepCore {
		pos := key.Positional()
		return body(coerce[I1](pos[0]), coerce[I2](pos[1]), coerce[I3](pos[2]), coerce[I4](pos[3])).core
	}
	return f
}

func (f *Func4[I1, I2, I3, I4, O]) Call(i1 I1, i2 I2, i3 I3, i4 I4) (O, error) {
	key, err := callkey.New([]any{i1, i2, i3, i4}, nil)
	if err != nil {
		var zero O
		return zero, err
	}
	return call[O](f.fs, key)
}

func (f *Func4[I1, I2, I3, I4, O]) Step(i1 I1, i2 I2, i3 I3, i4 I4) Step[O] {
	key, err := callkey.New([]any{i1, i2, i3, i4}, nil)
	if err != nil {
		return Fail[O](err)
	}
	return Step[O]{core: enter(f.fs, key)}
}

func (f *Func4[I1, I2, I3, I4, O]) Name() string { return f.fs.name }
