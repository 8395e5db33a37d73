package methodcache

import (
	"context"

	"github.com/goliatone/go-tinycache/tinycache"
)

// Cached is the accessor family produced by Register for one operation: the
// cached call, the raw uncached call, the derived key, a cache probe, and
// invalidation. All five delegate to the single raw implementation supplied
// at registration.
type Cached[A, V any] struct {
	op  string
	reg *Registry
	raw func(ctx context.Context, arg A) (V, error)
	cfg Config[A]
}

// Op returns the registered operation name.
func (c *Cached[A, V]) Op() string {
	return c.op
}

// Get is the cached accessor. When the skip predicate fires or the runtime
// level is below the operation's minimum it calls the raw implementation
// directly; otherwise it fetches through the owner's store under the derived
// key.
func (c *Cached[A, V]) Get(ctx context.Context, arg A) (V, error) {
	if c.skip(arg) {
		return c.raw(ctx, arg)
	}
	return tinycache.Fetch(ctx, c.reg.Store(), c.Key(arg), func(ctx context.Context) (V, error) {
		return c.raw(ctx, arg)
	})
}

// Raw always recomputes, bypassing the cache entirely.
func (c *Cached[A, V]) Raw(ctx context.Context, arg A) (V, error) {
	return c.raw(ctx, arg)
}

// Key returns the cache key Get would use for arg. Exposed for debugging
// and tests.
func (c *Cached[A, V]) Key(arg A) string {
	return c.op + tinycache.KeySeparator + c.cfg.CacheKey(arg)
}

// Cached reports whether a valid cached value currently exists for arg,
// without computing anything.
func (c *Cached[A, V]) Cached(arg A) bool {
	return c.reg.Store().Valid(c.Key(arg))
}

// Invalidate removes the cached entry for arg and reports whether one was
// removed.
func (c *Cached[A, V]) Invalidate(arg A) bool {
	return c.reg.Store().Delete(c.Key(arg))
}

func (c *Cached[A, V]) skip(arg A) bool {
	if c.cfg.SkipWhen != nil && c.cfg.SkipWhen(c.op, arg) {
		return true
	}
	return !c.reg.Store().CurrentLevel().Permits(c.cfg.Level)
}
