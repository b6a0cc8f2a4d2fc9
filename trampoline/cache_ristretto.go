package trampoline

import (
	ristretto "github.com/dgraph-io/ristretto/v2"
)

// RistrettoCache adapts a ristretto cache to the Cache interface, for
// workloads where the memo table must stay within a cost budget and
// admission should favor frequently redeemed keys. Writes are buffered and
// may be dropped by the admission policy; that only costs a recomputation,
// never correctness.
type RistrettoCache struct {
	cache *ristretto.Cache[string, any]
}

// NewRistrettoCache returns a ristretto-backed cache bounded by maxCost,
// with every entry costed at 1.
func NewRistrettoCache(maxCost int64) (*RistrettoCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters: 10 * maxCost,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &RistrettoCache{cache: cache}, nil
}

func (r *RistrettoCache) Load(id string) (any, bool) {
	return r.cache.Get(id)
}

func (r *RistrettoCache) Store(id string, value any) {
	r.cache.Set(id, value, 1)
}

// Wait blocks until buffered writes have been applied. Useful in tests and
// whenever a subsequent Load must observe a prior Store.
func (r *RistrettoCache) Wait() {
	r.cache.Wait()
}

// Close releases the cache's internal goroutines.
func (r *RistrettoCache) Close() {
	r.cache.Close()
}
