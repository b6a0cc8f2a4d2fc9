// Package trampoline evaluates recursive pure functions iteratively, so the
// native call stack never grows with the recursion depth, and memoizes their
// results.
//
// Wrapping a function is not just a performance tool. It forces the developer
// to ask:
//
//	→ "Is this function really pure?"
//	→ "Can every recursive call be treated as a value to be redeemed later?"
//
// A wrapped function body never sees the result of a nested recursive call
// directly. Each nested call yields a Step: either an already-known value or
// a pending placeholder for a call that will be replayed later. The body
// combines Steps with Map, Map2, Map3 or Reduce; when any input is still
// pending, the combinator silently forwards the pending tag instead of
// applying the function, so the body always runs to completion and returns
// something the engine can classify as "known" or "not yet known". The shape
// of the expression built from a pending Step is never reconstructed; only
// the tag of the top-level return value is inspected.
//
// The first, client-initiated call on a goroutine installs an execution
// context holding a LIFO work stack, then drains it to a fixed point:
// deferred calls are replayed with their original arguments, newly discovered
// dependencies are pushed on top (depth-first, matching native evaluation
// order), and concrete results are memoized per function. Nested calls made
// while that context is active never recurse natively; they register a
// pending work item and return immediately.
//
// Contract: the wrapped function must
// be pure (deterministic, with no side effects observed by the caller) and
// every argument must be hashable or freezable per the callkey package.
// Results are cached per function and never recomputed for a known key.
//
// WARNING: wrapping an impure function produces incorrect memoized results.
package trampoline
