package trampoline

type stepKind uint8

const (
	stepDone stepKind = iota
	stepDeferred
	stepFailed
)

// stepCore is the type-erased payload shared by every Step instantiation.
// Exactly one variant is populated: value for done, item for deferred, err
// for failed.
type stepCore struct {
	kind  stepKind
	value any
	err   error
	item  *workItem
}

// Step is the result of one recursive call: a concrete value, a pending
// placeholder for a call that will be replayed later, or a failure. Bodies
// obtain Steps from the Step method of a wrapped function and combine them
// with Map, Map2, Map3 or Reduce; they never need to distinguish the variants
// themselves.
type Step[T any] struct {
	core stepCore
}

// Done returns a completed Step carrying v.
func Done[T any](v T) Step[T] {
	return Step[T]{core: stepCore{kind: stepDone, value: v}}
}

// Fail returns a failed Step. The error propagates verbatim to the outermost
// caller; nothing is cached for the failing call and the evaluation state is
// fully reset before the error surfaces.
func Fail[T any](err error) Step[T] {
	return Step[T]{core: stepCore{kind: stepFailed, err: err}}
}

// IsDone reports whether the Step carries a concrete value.
func (s Step[T]) IsDone() bool {
	return s.core.kind == stepDone
}

// Err returns the failure carried by the Step, or nil.
func (s Step[T]) Err() error {
	return s.core.err
}

// Value returns the concrete value of a done Step. It panics when the Step
// is not done; bodies should return Steps to the engine rather than unwrap
// them.
func (s Step[T]) Value() T {
	if s.core.kind != stepDone {
		panic("trampoline: Value called on a step that is not done")
	}
	return coerce[T](s.core.value)
}

// coerce narrows a type-erased value, mapping a nil payload to the zero
// value so results like Done[any](nil) round-trip.
func coerce[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// forward picks the core to propagate when not every input is done: the
// first failure wins so errors surface immediately, otherwise the first
// pending placeholder stands in for the whole expression. Which placeholder
// is forwarded does not matter: every dependency discovered during the
// replay was already recorded on the work stack when it was created.
func forward(cores ...stepCore) (stepCore, bool) {
	for _, c := range cores {
		if c.kind == stepFailed {
			return c, true
		}
	}
	for _, c := range cores {
		if c.kind == stepDeferred {
			return c, true
		}
	}
	return stepCore{}, false
}

// Map applies f to a completed Step, and absorbs pending or failed ones.
func Map[A, B any](a Step[A], f func(A) B) Step[B] {
	if c, ok := forward(a.core); ok {
		return Step[B]{core: c}
	}
	return Done(f(coerce[A](a.core.value)))
}

// Map2 applies f once both inputs are complete.
func Map2[A, B, C any](a Step[A], b Step[B], f func(A, B) C) Step[C] {
	if c, ok := forward(a.core, b.core); ok {
		return Step[C]{core: c}
	}
	return Done(f(coerce[A](a.core.value), coerce[B](b.core.value)))
}

// Map3 applies f once all three inputs are complete.
func Map3[A, B, C, D any](a Step[A], b Step[B], c Step[C], f func(A, B, C) D) Step[D] {
	if fc, ok := forward(a.core, b.core, c.core); ok {
		return Step[D]{core: fc}
	}
	return Done(f(coerce[A](a.core.value), coerce[B](b.core.value), coerce[C](c.core.value)))
}

// Reduce folds any number of Steps with f, starting from init. It supports
// bodies with arbitrarily many recursive call sites, such as a search over
// the children of a tree node.
func Reduce[T any](init T, steps []Step[T], f func(T, T) T) Step[T] {
	cores := make([]stepCore, len(steps))
	for i, s := range steps {
		cores[i] = s.core
	}
	if c, ok := forward(cores...); ok {
		return Step[T]{core: c}
	}
	acc := init
	for _, s := range steps {
		acc = f(acc, coerce[T](s.core.value))
	}
	return Done(acc)
}
