package helper

// GetTypedValueOf2 safely narrows the result of a two-valued getter to the
// expected type T. The result caches used by the trampoline engine are
// type-erased; wrappers use this to recover a typed result without panicking
// when a cache is shared across functions with different result types.
func GetTypedValueOf2[T any](getFn func() (any, bool)) (res T, ok bool) {
	var raw any
	if raw, ok = getFn(); ok {
		res, ok = raw.(T)
	}
	return
}

// MustGetTypedValue2 is the panic-on-failure variant of GetTypedValueOf2.
// Use when a type mismatch should be fatal, e.g. when the cache is known to
// be owned by a single wrapped function.
func MustGetTypedValue2[T any](getFn func() (any, bool)) (T, bool) {
	raw, present := getFn()
	if !present {
		var zero T
		return zero, false
	}
	res, ok := raw.(T)
	if !ok {
		panic("helper: value has unexpected type")
	}
	return res, true
}
