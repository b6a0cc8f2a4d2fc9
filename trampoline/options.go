package trampoline

import "go.uber.org/zap"

// Option configures a wrapped function at construction time.
type Option func(*funcState)

// WithLogger routes engine debug events (cache hits, deferrals, replays,
// resolutions) through the given zap logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(fs *funcState) {
		if logger != nil {
			fs.logger = logger
		}
	}
}

// WithCache selects the result cache backend for the wrapped function. The
// default is an unbounded sync.Map cache. One Cache instance may be shared
// across wrapped functions; entries are scoped per function, so equal
// argument lists never collide.
func WithCache(cache Cache) Option {
	return func(fs *funcState) {
		if cache != nil {
			fs.cache = cache
		}
	}
}

// WithCacheSize bounds the memo table with a rotating two-generation cache.
// Shorthand for WithCache(NewRotatingCache(maxSize)).
func WithCacheSize(maxSize uint32) Option {
	return func(fs *funcState) {
		fs.cache = NewRotatingCache(maxSize)
	}
}
