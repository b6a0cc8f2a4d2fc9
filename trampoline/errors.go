package trampoline

import (
	"errors"
	"fmt"
)

// ErrResultType reports a cached value whose dynamic type does not match the
// wrapped function's result type. Cache entries are scoped per function, so
// this indicates a Cache implementation returning values it was never given.
var ErrResultType = errors.New("cached result has unexpected type")

// ErrNoProgress reports a replay that returned a pending Step without having
// registered any new dependency on the work stack. That means the body
// returned a placeholder captured outside the current replay, which the
// engine cannot redeem.
var ErrNoProgress = errors.New("replay deferred without discovering a new dependency")

func typedResultError[O any](v any) error {
	var want O
	return fmt.Errorf("%w: got %T, want %T", ErrResultType, v, want)
}
