package trampoline_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/reiterhq/reiter/trampoline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nativeFib(n int) int {
	if n <= 1 {
		return n
	}
	return nativeFib(n-1) + nativeFib(n-2)
}

func wrapFib(opts ...trampoline.Option) *trampoline.Func1[int, int] {
	var fib *trampoline.Func1[int, int]
	fib = trampoline.Wrap1("fib", func(n int) trampoline.Step[int] {
		if n <= 1 {
			return trampoline.Done(n)
		}
		return trampoline.Map2(fib.Step(n-1), fib.Step(n-2), func(a, b int) int {
			return a + b
		})
	}, opts...)
	return fib
}

func TestFibMatchesNativeRecursion(t *testing.T) {
	fib := wrapFib()
	for n := 0; n <= 25; n++ {
		got, err := fib.Call(n)
		require.NoError(t, err)
		assert.Equal(t, nativeFib(n), got, "fib(%d)", n)
	}
}

func TestDeepLinearRecursion(t *testing.T) {
	// sum(n) = sum(n-1) + n recursing one key per level. The work stack
	// lives on the heap, so depths that would be reckless for native
	// recursion complete without stack growth.
	const depth = 250_000

	var sum *trampoline.Func1[int, int64]
	sum = trampoline.Wrap1("sum", func(n int) trampoline.Step[int64] {
		if n == 0 {
			return trampoline.Done(int64(0))
		}
		return trampoline.Map(sum.Step(n-1), func(below int64) int64 {
			return below + int64(n)
		})
	})

	got, err := sum.Call(depth)
	require.NoError(t, err)
	assert.Equal(t, int64(depth)*(depth+1)/2, got)
}

func TestMemoizationIdempotence(t *testing.T) {
	replays := 0
	var fib *trampoline.Func1[int, int]
	fib = trampoline.Wrap1("fib", func(n int) trampoline.Step[int] {
		replays++
		if n <= 1 {
			return trampoline.Done(n)
		}
		return trampoline.Map2(fib.Step(n-1), fib.Step(n-2), func(a, b int) int {
			return a + b
		})
	})

	first, err := fib.Call(20)
	require.NoError(t, err)
	after := replays
	assert.Positive(t, after)

	second, err := fib.Call(20)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, after, replays, "second call must replay nothing")

	// A smaller argument is already a resolved subproblem.
	_, err = fib.Call(10)
	require.NoError(t, err)
	assert.Equal(t, after, replays)
}

func TestMutualRecursion(t *testing.T) {
	var nativeF1, nativeF2 func(n int) int
	nativeF1 = func(n int) int {
		if n < 3 {
			return n
		}
		return nativeF1(n-1) + nativeF2(n-2)
	}
	nativeF2 = func(n int) int {
		if n < 3 {
			return n
		}
		return nativeF2(n-1) + nativeF1(n-2)
	}

	var f1, f2 *trampoline.Func1[int, int]
	f1 = trampoline.Wrap1("f1", func(n int) trampoline.Step[int] {
		if n < 3 {
			return trampoline.Done(n)
		}
		return trampoline.Map2(f1.Step(n-1), f2.Step(n-2), func(a, b int) int {
			return a + b
		})
	})
	f2 = trampoline.Wrap1("f2", func(n int) trampoline.Step[int] {
		if n < 3 {
			return trampoline.Done(n)
		}
		return trampoline.Map2(f2.Step(n-1), f1.Step(n-2), func(a, b int) int {
			return a + b
		})
	})

	for n := 0; n <= 10; n++ {
		got, err := f1.Call(n)
		require.NoError(t, err)
		assert.Equal(t, nativeF1(n), got, "f1(%d)", n)

		got, err = f2.Call(n)
		require.NoError(t, err)
		assert.Equal(t, nativeF2(n), got, "f2(%d)", n)
	}
}

func TestErrorPropagationWithCleanState(t *testing.T) {
	boom := errors.New("boom")
	var f *trampoline.Func1[int, int]
	f = trampoline.Wrap1("faulty", func(n int) trampoline.Step[int] {
		if n == 3 {
			return trampoline.Fail[int](boom)
		}
		if n == 0 {
			return trampoline.Done(0)
		}
		return trampoline.Map(f.Step(n-1), func(below int) int {
			return below + 1
		})
	})

	// The failure surfaces from a transitive dependency.
	_, err := f.Call(5)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	// Failures are never cached: the same call fails again.
	_, err = f.Call(5)
	assert.ErrorIs(t, err, boom)

	// The gate was reset: an unrelated input still succeeds.
	got, err := f.Call(2)
	require.NoError(t, err)
	assert.Equal(t, 2, got)
}

func TestPanicLeavesCleanState(t *testing.T) {
	var f *trampoline.Func1[int, int]
	f = trampoline.Wrap1("panicky", func(n int) trampoline.Step[int] {
		if n == 2 {
			panic("kaboom")
		}
		if n == 0 {
			return trampoline.Done(0)
		}
		return trampoline.Map(f.Step(n-1), func(below int) int {
			return below + 1
		})
	})

	assert.Panics(t, func() { _, _ = f.Call(4) })

	got, err := f.Call(1)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestReentrantCallInsideBody(t *testing.T) {
	// Calling Call instead of Step from inside a body is misuse, but it
	// must not corrupt the outer evaluation: the nested call runs against
	// its own context and returns a concrete value.
	var fact *trampoline.Func1[int, int]
	fact = trampoline.Wrap1("fact", func(n int) trampoline.Step[int] {
		if n == 0 {
			return trampoline.Done(1)
		}
		below, err := fact.Call(n - 1)
		if err != nil {
			return trampoline.Fail[int](err)
		}
		return trampoline.Done(below * n)
	})

	got, err := fact.Call(5)
	require.NoError(t, err)
	assert.Equal(t, 120, got)
}

func TestStalePlaceholderRejected(t *testing.T) {
	var leaked trampoline.Step[int]
	var f *trampoline.Func1[int, int]
	f = trampoline.Wrap1("leaky", func(n int) trampoline.Step[int] {
		switch n {
		case 0:
			return trampoline.Done(0)
		case 1:
			s := f.Step(0)
			if !s.IsDone() {
				leaked = s
			}
			return s
		default:
			// A placeholder captured from an earlier evaluation cannot
			// be redeemed in this one.
			return leaked
		}
	})

	_, err := f.Call(1)
	require.NoError(t, err)

	_, err = f.Call(2)
	require.Error(t, err)
	assert.ErrorIs(t, err, trampoline.ErrNoProgress)
}

func TestConcurrentIndependentDrives(t *testing.T) {
	fib := wrapFib()
	want := make(map[int]int)
	for n := 18; n <= 27; n++ {
		want[n] = nativeFib(n)
	}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for n := 18; n <= 27; n++ {
				got, err := fib.Call(n)
				assert.NoError(t, err)
				assert.Equal(t, want[n], got)
			}
		}(g)
	}
	wg.Wait()
}
