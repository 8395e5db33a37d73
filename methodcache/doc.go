// Package methodcache turns plain operations into cache-backed accessor
// families without the operation's own logic needing cache awareness.
//
// # Overview
//
// Registering an operation produces a typed Cached[A, V] wrapper exposing
// five accessors, all delegating to the one raw implementation:
//
//   - Get: the cached call; fetch-or-compute through the owner's store
//   - Raw: the original uncached call, always recomputing
//   - Key: the derived cache key for given arguments
//   - Cached: probe for a valid cached value without computing
//   - Invalidate: remove the cached entry for given arguments
//
// # Basic Usage
//
//	reg := methodcache.NewRegistry(
//		tinycache.WithLevelSource(owner.CacheLevel),
//	)
//
//	balance, err := methodcache.Register(reg, "balance", owner.fetchBalance,
//		methodcache.Config[string]{
//			CacheKey: func(accountID string) string { return accountID },
//			Level:    tinycache.LevelSome,
//			TTL:      time.Minute,
//		})
//
//	v, err := balance.Get(ctx, "acct-1")   // cached
//	v, err = balance.Raw(ctx, "acct-1")    // always recomputes
//	ok := balance.Cached("acct-1")         // probe
//	balance.Invalidate("acct-1")
//
// # Skip Semantics
//
// A call bypasses the cache when the config's SkipWhen predicate returns
// true for it, or when the registry's runtime level is below the operation's
// configured minimum. Both degrade to a direct raw call; neither is an
// error.
//
// # Registration
//
// Registration is idempotent per operation name: re-registering returns the
// existing accessors, so configuration can be re-applied safely. An invalid
// config (nil CacheKey, negative TTL, out-of-range level) fails at
// registration, never at call time.
//
// Each Registry lazily owns exactly one tinycache.Store, created on first
// cache access and configured from the registered operations' level and TTL
// settings.
package methodcache
