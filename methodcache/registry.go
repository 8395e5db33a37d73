package methodcache

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-tinycache/tinycache"
)

// Registry collects the cached operations of one owner and binds them to a
// single lazily created store. Create one Registry per owner instance;
// registries, like stores, are never shared across owners.
type Registry struct {
	mu        sync.Mutex
	accessors map[string]any
	storeOpts []tinycache.StoreOption
	store     *tinycache.Store
}

// NewRegistry creates a Registry. Store options (backend, level source,
// clock) apply to the store created on first cache access. Binding the
// owner's current cache level via tinycache.WithLevelSource makes it the
// runtime override for every registered operation.
func NewRegistry(opts ...tinycache.StoreOption) *Registry {
	return &Registry{
		accessors: make(map[string]any),
		storeOpts: opts,
	}
}

// Store returns the owner's store, creating it on first use with the
// per-operation configuration collected so far. Operations registered after
// the store exists are configured directly on it.
func (r *Registry) Store() *tinycache.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storeLocked()
}

func (r *Registry) storeLocked() *tinycache.Store {
	if r.store == nil {
		r.store = tinycache.NewStore(r.storeOpts...)
	}
	return r.store
}

// Register wraps raw as a cached accessor family under op. Registration is
// idempotent: a second call for the same op returns the existing accessors
// unchanged, so re-applying configuration never double-wraps an operation.
// An invalid config is a registration-time error.
//
// Since Go methods cannot have type parameters, this is a package-level
// function taking the Registry as its first argument.
func Register[A, V any](r *Registry, op string, raw func(ctx context.Context, arg A) (V, error), cfg Config[A]) (*Cached[A, V], error) {
	if op == "" {
		return nil, fmt.Errorf("methodcache: operation name is required")
	}
	if raw == nil {
		return nil, fmt.Errorf("methodcache: %s: raw implementation is required", op)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("methodcache: %s: invalid config: %w", op, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.accessors[op]; ok {
		cached, ok := existing.(*Cached[A, V])
		if !ok {
			return nil, fmt.Errorf("methodcache: %s: already registered with a different signature", op)
		}
		return cached, nil
	}

	keyCfg := tinycache.KeyConfig{Level: cfg.Level, TTL: cfg.TTL}
	if r.store != nil {
		r.store.Configure(op, keyCfg)
	} else {
		r.storeOpts = append(r.storeOpts, tinycache.WithKeyConfig(op, keyCfg))
	}

	cached := &Cached[A, V]{op: op, reg: r, raw: raw, cfg: cfg}
	r.accessors[op] = cached
	return cached, nil
}
