// Package tinycache implements a tiered, time-bounded memoization store.
//
// # Overview
//
// The package exports three pieces:
//
//   - Store: a per-owner mapping from string cache keys to entries, with
//     read, write, fetch-or-compute, invalidation, and cleanup operations
//   - Level: an ordered cache level policy (none < some < all) that lets a
//     runtime selectively disable caching for less trusted data
//   - Keyer: deterministic cache key derivation from an operation name and
//     its arguments
//
// Each cacheable owner creates exactly one Store; stores are never shared
// across owners. The Store caches only in local process memory for the
// lifetime of its owner.
//
// # Basic Usage
//
//	store := tinycache.NewStore(
//		tinycache.WithKeyConfig("balance", tinycache.KeyConfig{
//			Level: tinycache.LevelSome,
//			TTL:   time.Minute,
//		}),
//	)
//
//	value, err := tinycache.Fetch(ctx, store, "balance::acct-1",
//		func(ctx context.Context) (int, error) {
//			return fetchBalance(ctx, "acct-1")
//		})
//
// The first call computes and caches; calls within the TTL window return the
// cached value without recomputing. After expiry the next call recomputes
// and overwrites.
//
// # Cache Levels
//
// Every key carries a configured minimum level, LevelNone by default. The
// effective level of a write is the per-call override, else the runtime's
// bound level source, else LevelAll. When the effective level is below the
// key's minimum the write degrades to a no-op that still returns the value:
// callers always get a correct result, the cache just stays cold.
//
// # Expiry and Cleanup
//
// Read returns stored values regardless of expiry; only Valid and
// FetchOrCompute consult freshness. Cleanup sweeps expired entries by
// nulling their payload while keeping the record, so Exists semantics are
// unaffected and memory held by stale values is released.
//
// # Concurrency
//
// Stores are safe for concurrent use. Concurrent misses on one key collapse
// into a single compute; hits never block on an in-flight compute. A compute
// failure propagates to every caller of that flight and leaves the store
// unchanged.
//
// # See Also
//
// The methodcache package wraps whole operations into cached accessor
// families on top of a Store.
package tinycache
