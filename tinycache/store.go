package tinycache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the time-to-live applied when neither the caller nor the
// key configuration specifies one.
const DefaultTTL = 365 * 24 * time.Hour

// ErrInvalidResultType is returned by Fetch when a cached value cannot be
// converted to the requested type.
var ErrInvalidResultType = errors.New("tinycache: cached value has invalid type")

// KeyConfig holds the per-key policy a Store consults on writes.
type KeyConfig struct {
	// Level is the minimum effective level required for this key to be
	// cached. Below it, writes silently degrade to no-ops.
	Level Level

	// TTL is the default time-to-live for this key. Zero falls back to
	// DefaultTTL.
	TTL time.Duration
}

// ComputeFn fetches an authoritative value on a cache miss. It may perform
// network I/O; cancellation and timeouts are its own responsibility.
type ComputeFn func(ctx context.Context) (any, error)

// Store maps string cache keys to entries and applies TTL and level policy.
// A Store is exclusively owned by the object that created it and must not be
// shared across owners.
//
// Reads on valid entries are cheap; concurrent misses on the same key are
// collapsed so the compute function runs once per flight. Clear and Cleanup
// exclude all other operations while they run.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	keys    map[string]KeyConfig
	levelFn func() Level
	now     func() time.Time
	group   singleflight.Group
}

// StoreOption configures a Store at construction.
type StoreOption func(*Store)

// WithBackend injects an alternate storage backend.
func WithBackend(b Backend) StoreOption {
	return func(s *Store) { s.backend = b }
}

// WithKeyConfig registers the policy for a key or key prefix (the segment
// before the first key separator).
func WithKeyConfig(name string, cfg KeyConfig) StoreOption {
	return func(s *Store) { s.keys[name] = cfg }
}

// WithLevelSource binds the runtime's current cache level as the default
// effective level for writes. When absent, LevelAll is assumed.
func WithLevelSource(fn func() Level) StoreOption {
	return func(s *Store) { s.levelFn = fn }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(fn func() time.Time) StoreOption {
	return func(s *Store) { s.now = fn }
}

// NewStore creates a Store backed by in-process memory unless WithBackend
// says otherwise.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		keys: make(map[string]KeyConfig),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.backend == nil {
		s.backend = NewMemoryBackend()
	}
	return s
}

// Configure sets the policy for a key or key prefix after construction.
// Later writes under matching keys pick up the new policy; existing entries
// are untouched.
func (s *Store) Configure(name string, cfg KeyConfig) {
	s.mu.Lock()
	s.keys[name] = cfg
	s.mu.Unlock()
}

// CurrentLevel returns the effective runtime level: the bound level source
// if one exists, otherwise LevelAll.
func (s *Store) CurrentLevel() Level {
	if s.levelFn != nil {
		return s.levelFn()
	}
	return LevelAll
}

// writeOptions carries per-call overrides for Write and FetchOrCompute.
type writeOptions struct {
	ttl      time.Duration
	ttlSet   bool
	noExpiry bool
	level    Level
	levelSet bool
}

// WriteOption overrides TTL or level for a single write.
type WriteOption func(*writeOptions)

// WithTTL sets an explicit time-to-live for this write.
func WithTTL(d time.Duration) WriteOption {
	return func(o *writeOptions) {
		o.ttl = d
		o.ttlSet = true
	}
}

// WithNoExpiry marks the written entry as non-expiring.
func WithNoExpiry() WriteOption {
	return func(o *writeOptions) { o.noExpiry = true }
}

// WithLevel sets the effective level for this call, overriding the runtime
// level source.
func WithLevel(l Level) WriteOption {
	return func(o *writeOptions) {
		o.level = l
		o.levelSet = true
	}
}

// Read returns the stored value for key regardless of expiry. Callers that
// need freshness use FetchOrCompute. The second return is false when the key
// is unknown.
func (s *Store) Read(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ent, ok := s.backend.Get(key)
	if !ok {
		return nil, false
	}
	return ent.Value, true
}

// Write stores value under key and returns value, so call sites can treat
// the write as transparent. The effective TTL is the explicit option, else
// the key's configured TTL, else DefaultTTL. The effective level is the
// explicit option, else the runtime level; if it is below the key's
// configured minimum the write is a no-op that still returns value.
func (s *Store) Write(key string, value any, opts ...WriteOption) any {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := s.configFor(key)
	level := s.CurrentLevel()
	if o.levelSet {
		level = o.level
	}
	if !level.Permits(cfg.Level) {
		return value
	}

	ttl := DefaultTTL
	if cfg.TTL > 0 {
		ttl = cfg.TTL
	}
	if o.ttlSet {
		ttl = o.ttl
	}

	now := s.now()
	ent := &Entry{Value: value, WrittenAt: now}
	if !o.noExpiry {
		ent.ExpiresAt = now.Add(ttl)
	}
	s.backend.Set(key, ent)
	return value
}

// Exists reports whether key has an entry, expired or not.
func (s *Store) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.backend.Get(key)
	return ok
}

// Valid reports whether key has an unexpired entry.
func (s *Store) Valid(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.readValid(key)
	return ok
}

// readValid returns the value for key when the entry exists and is fresh.
// Callers hold at least a read lock.
func (s *Store) readValid(key string) (any, bool) {
	ent, ok := s.backend.Get(key)
	if !ok || ent.Expired(s.now()) {
		return nil, false
	}
	return ent.Value, true
}

// FetchOrCompute returns the cached value for key when it is valid;
// otherwise it runs compute once, writes the result under the same TTL and
// level rules as Write, and returns it. A compute error propagates
// unmodified and leaves the store untouched for that key.
//
// Concurrent misses on the same key share a single in-flight compute; hits
// never wait on a flight.
func (s *Store) FetchOrCompute(ctx context.Context, key string, compute ComputeFn, opts ...WriteOption) (any, error) {
	s.mu.RLock()
	v, ok := s.readValid(key)
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		// A concurrent flight may have filled the key while we queued.
		s.mu.RLock()
		v, ok := s.readValid(key)
		s.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		return s.Write(key, v, opts...), nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes the entry for key and reports whether one was removed.
func (s *Store) Delete(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend.Delete(key)
}

// Clear drops every entry unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend.Clear()
}

// Cleanup sweeps expired entries, nulling their payload while retaining the
// record. Key existence is unchanged: Exists still reports true for swept
// keys, Valid reports false. This bounds memory held by stale large values
// without disturbing callers that probe for key presence.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for _, key := range s.backend.Keys() {
		ent, ok := s.backend.Get(key)
		if !ok || !ent.Expired(now) || ent.Value == nil {
			continue
		}
		s.backend.Set(key, &Entry{
			WrittenAt: ent.WrittenAt,
			ExpiresAt: ent.ExpiresAt,
		})
	}
}

// configFor resolves the policy for key: an exact match first, then the
// key's operation prefix (the segment before the first separator). Holds at
// least a read lock.
func (s *Store) configFor(key string) KeyConfig {
	if cfg, ok := s.keys[key]; ok {
		return cfg
	}
	if i := strings.Index(key, KeySeparator); i >= 0 {
		if cfg, ok := s.keys[key[:i]]; ok {
			return cfg
		}
	}
	return KeyConfig{}
}

// Fetch is the type-safe wrapper over Store.FetchOrCompute. It converts the
// stored value to T, returning ErrInvalidResultType when a prior write under
// the same key holds an incompatible type.
func Fetch[T any](ctx context.Context, s *Store, key string, compute func(ctx context.Context) (T, error), opts ...WriteOption) (T, error) {
	result, err := s.FetchOrCompute(ctx, key, func(ctx context.Context) (any, error) {
		return compute(ctx)
	}, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	if result == nil {
		// A nil interface converts to the zero value of any T, including
		// nil interfaces and nil pointers.
		var zero T
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		var zero T
		return zero, ErrInvalidResultType
	}
	return typed, nil
}
