package trampoline

import (
	"sync"

	"github.com/petermattis/goid"
	"go.uber.org/zap"

	"github.com/reiterhq/reiter/callkey"
	"github.com/reiterhq/reiter/shared/helper"
)

// funcState is the evaluation state of one wrapped function: its identity,
// result cache, logger and type-erased replay entry. It is built once by the
// wrap constructor and owned by the returned wrapper value.
type funcState struct {
	id     string
	name   string
	cache  Cache
	logger *zap.Logger
	replay func(key *callkey.Key) stepCore
}

// workItem is a pending placeholder: a call, identified by its owning
// function and Call Key, whose concrete value is not yet known. The owning
// function reference is what lets one work stack serve any number of
// mutually recursive wrapped functions.
type workItem struct {
	fs  *funcState
	key *callkey.Key
}

func (it *workItem) ident() string {
	return cacheID(it.fs, it.key)
}

// cacheID scopes a Call Key to its owning function, so wrapped functions
// sharing one Cache backend never collide on equal argument lists.
func cacheID(fs *funcState, key *callkey.Key) string {
	return fs.id + "\x1f" + key.ID()
}

// execContext is the per-goroutine state of one drive to completion: the
// LIFO work stack, the live placeholder per (function, key), the values
// resolved so far in this drive, and the placeholders spawned by the replay
// currently running. It is never shared across goroutines.
type execContext struct {
	stack    []*workItem
	live     map[string]*workItem
	resolved map[string]any
	spawned  []*workItem
}

// contexts maps a goroutine id to its active execution context. An entry is
// present exactly while an outermost call is draining its work stack on that
// goroutine, so presence doubles as the in-flight gate.
var contexts sync.Map

func currentContext() *execContext {
	if v, ok := contexts.Load(goid.Get()); ok {
		return v.(*execContext)
	}
	return nil
}

// enter is the shared per-call state machine behind the Step methods:
// cache check first, then the in-flight trap, then drive to completion.
func enter(fs *funcState, key *callkey.Key) stepCore {
	if v, ok := fs.cache.Load(cacheID(fs, key)); ok {
		fs.logger.Debug("cache hit",
			zap.String("func", fs.name), zap.Stringer("key", key))
		return stepCore{kind: stepDone, value: v}
	}
	if ctx := currentContext(); ctx != nil {
		if v, ok := ctx.resolved[cacheID(fs, key)]; ok {
			return stepCore{kind: stepDone, value: v}
		}
		return ctx.deferCall(fs, key)
	}
	return drive(fs, key)
}

// deferCall registers a pending work item for (fs, key) and returns the
// placeholder standing in for its value. Within one evaluation a key maps to
// at most one live placeholder; rediscovering it only records another stack
// occurrence, which the drive loop discards as stale once the key resolves.
func (ctx *execContext) deferCall(fs *funcState, key *callkey.Key) stepCore {
	item, ok := ctx.live[cacheID(fs, key)]
	if !ok {
		item = &workItem{fs: fs, key: key}
		ctx.live[item.ident()] = item
	}
	ctx.spawned = append(ctx.spawned, item)
	fs.logger.Debug("deferred",
		zap.String("func", fs.name), zap.Stringer("key", key))
	return stepCore{kind: stepDeferred, item: item}
}

// drive resolves key and every dependency it transitively discovers,
// returning the concrete value for key. It installs a fresh execution
// context for the current goroutine and guarantees on every exit path,
// including failure and panic, that the previous context (usually none)
// is restored, so a later call is never left thinking an evaluation is still
// in flight.
func drive(fs *funcState, key *callkey.Key) stepCore {
	gid := goid.Get()
	prev, reentrant := contexts.Load(gid)

	ctx := &execContext{
		live:     make(map[string]*workItem),
		resolved: make(map[string]any),
	}
	contexts.Store(gid, ctx)
	defer func() {
		if reentrant {
			contexts.Store(gid, prev)
		} else {
			contexts.Delete(gid)
		}
	}()

	root := &workItem{fs: fs, key: key}
	rootID := root.ident()
	ctx.live[rootID] = root
	ctx.stack = append(ctx.stack, root)

	for len(ctx.stack) > 0 {
		item := ctx.stack[len(ctx.stack)-1]
		ctx.stack = ctx.stack[:len(ctx.stack)-1]
		id := item.ident()

		if _, ok := ctx.resolved[id]; ok {
			// Stale occurrence of an already-resolved key.
			continue
		}
		if v, ok := item.fs.cache.Load(id); ok {
			ctx.settle(item, v)
			continue
		}

		ctx.spawned = ctx.spawned[:0]
		res := item.fs.replay(item.key)
		switch res.kind {
		case stepFailed:
			item.fs.logger.Debug("replay failed",
				zap.String("func", item.fs.name),
				zap.Stringer("key", item.key),
				zap.Error(res.err))
			return res
		case stepDeferred:
			if len(ctx.spawned) == 0 {
				return stepCore{kind: stepFailed, err: ErrNoProgress}
			}
			// The item stays unresolved: retry it after its dependencies.
			// The most recently discovered dependency lands on top of the
			// stack, giving depth-first resolution order.
			ctx.stack = append(ctx.stack, item)
			ctx.stack = append(ctx.stack, ctx.spawned...)
		default:
			item.fs.logger.Debug("resolved",
				zap.String("func", item.fs.name),
				zap.Stringer("key", item.key))
			ctx.settle(item, res.value)
			item.fs.cache.Store(id, res.value)
		}
	}

	return stepCore{kind: stepDone, value: ctx.resolved[rootID]}
}

// settle records a concrete value for item within this drive and retires its
// placeholder.
func (ctx *execContext) settle(item *workItem, v any) {
	ctx.resolved[item.ident()] = v
	delete(ctx.live, item.ident())
}

// call is the typed client entry shared by the Call methods: cache check,
// then an isolated drive. A drive started while another is active on the
// same goroutine (a body calling Call instead of Step) runs against its own
// context and cannot corrupt the outer one.
func call[O any](fs *funcState, key *callkey.Key) (O, error) {
	var zero O
	core := enterIsolated(fs, key)
	if core.kind == stepFailed {
		return zero, core.err
	}
	if core.value == nil {
		return zero, nil
	}
	out, ok := helper.GetTypedValueOf2[O](func() (any, bool) {
		return core.value, true
	})
	if !ok {
		return zero, typedResultError[O](core.value)
	}
	return out, nil
}

func enterIsolated(fs *funcState, key *callkey.Key) stepCore {
	if v, ok := fs.cache.Load(cacheID(fs, key)); ok {
		fs.logger.Debug("cache hit",
			zap.String("func", fs.name), zap.Stringer("key", key))
		return stepCore{kind: stepDone, value: v}
	}
	return drive(fs, key)
}
