package trampoline

import (
	"sync"
	"sync/atomic"
)

// Cache is a per-function result cache, mapping a Call Key's canonical ID to
// the memoized result. Implementations must be safe for concurrent use.
// Writes are idempotent for a pure function, so concurrent goroutines
// computing the same key may both store the same value. Backends are allowed
// to evict; the drive loop never relies on a stored entry for its own
// progress, only for memoization across evaluations.
type Cache interface {
	Load(id string) (any, bool)
	Store(id string, value any)
}

// syncCache is the default unbounded cache. Entries persist for the lifetime
// of the wrapped function and are never overwritten with a different value.
type syncCache struct {
	m sync.Map
}

// NewSyncCache returns an unbounded sync.Map-backed cache.
func NewSyncCache() Cache {
	return &syncCache{}
}

func (c *syncCache) Load(id string) (any, bool) {
	return c.m.Load(id)
}

func (c *syncCache) Store(id string, value any) {
	c.m.LoadOrStore(id, value)
}

// RotatingCache is a bounded cache with dual-map rotation: entries are
// written into the head generation, reads fall back to the previous one, and
// once the head fills up the previous generation is discarded wholesale.
// Eviction is therefore amortized, and reads stay lock-free: the generations
// are held behind atomic pointers, so a concurrent rotation publishes a
// fresh map instead of mutating one a reader may hold.
type RotatingCache struct {
	memos   [2]atomic.Pointer[sync.Map]
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
	mu      sync.Mutex
}

// NewRotatingCache returns a bounded cache retaining between maxSize and
// 2*maxSize entries.
func NewRotatingCache(maxSize uint32) *RotatingCache {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	c := &RotatingCache{maxSize: maxSize}
	c.memos[0].Store(&sync.Map{})
	c.memos[1].Store(&sync.Map{})
	return c
}

func (c *RotatingCache) Load(id string) (any, bool) {
	head := c.headIdx.Load()
	if v, ok := c.memos[head].Load().Load(id); ok {
		return v, true
	}
	return c.memos[1-head].Load().Load(id)
}

func (c *RotatingCache) Store(id string, value any) {
	if c.size.Add(1) > c.maxSize {
		c.rotate()
	}
	c.memos[c.headIdx.Load()].Load().Store(id, value)
}

// rotate retires the previous generation once the head fills up. Any store
// crossing the boundary lands here, not only the one that hit maxSize
// exactly, so concurrent overshoot cannot leave the counter stuck above the
// threshold. The size check repeats under the lock so writers racing on the
// same boundary rotate once, not once each.
func (c *RotatingCache) rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.size.Load() <= c.maxSize {
		return
	}
	head := c.headIdx.Load()
	c.memos[1-head].Store(&sync.Map{})
	c.headIdx.Store(1 - head)
	c.size.Store(1)
}
