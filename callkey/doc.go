// Package callkey builds canonical, hashable identities for function calls.
//
// A Key captures the positional and named arguments of one invocation in a
// canonical form, so that two calls with equivalent arguments produce equal
// keys and equal keys hash identically. Keys are the cache and worklist
// identity used by the trampoline package: they are constructed fresh for
// every invocation, immutable afterwards, and retain the original argument
// values so a deferred call can be replayed later.
//
// Canonicalization is best-effort for mutable arguments: a flat slice or
// array of already-hashable elements is frozen into an ordered sequence of
// its elements' canonical forms. Deeply nested mutable structures are NOT
// frozen correctly and are rejected with ErrUnhashableArg rather than being
// silently miscached.
package callkey
