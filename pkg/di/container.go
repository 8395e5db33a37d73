package di

import (
	"github.com/goliatone/go-tinycache/client"
	"github.com/goliatone/go-tinycache/internal/cacheinfra"
	"github.com/goliatone/go-tinycache/methodcache"
	"github.com/goliatone/go-tinycache/tinycache"
)

// Container provides dependency injection for cache related components. It
// holds the shared backend configuration and key serializer, and provides
// factory methods that wire per-owner stores: each factory call produces a
// fresh store and backend, since stores are never shared across owners.
type Container struct {
	config cacheinfra.Config
	keyer  tinycache.Keyer
}

// NewContainer creates a DI container with the provided backend
// configuration.
func NewContainer(config cacheinfra.Config) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Container{
		config: config,
		keyer:  tinycache.NewDefaultKeyer(),
	}, nil
}

// NewContainerWithDefaults creates a DI container using default
// configuration. Convenience constructor for typical use cases.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(cacheinfra.DefaultConfig())
}

// Keyer returns the shared key serializer instance.
func (c *Container) Keyer() tinycache.Keyer {
	return c.keyer
}

// Config returns a copy of the backend configuration used by this
// container. Useful for debugging and monitoring.
func (c *Container) Config() cacheinfra.Config {
	return c.config
}

// NewStore creates a store backed by a fresh capacity-bounded backend.
// Additional options (key config, level source, clock) are applied on top.
func (c *Container) NewStore(opts ...tinycache.StoreOption) (*tinycache.Store, error) {
	backend, err := cacheinfra.NewSturdycBackend(c.config)
	if err != nil {
		return nil, err
	}
	storeOpts := append([]tinycache.StoreOption{tinycache.WithBackend(backend)}, opts...)
	return tinycache.NewStore(storeOpts...), nil
}

// NewRegistry creates a per-owner registry whose lazily created store uses
// a fresh capacity-bounded backend.
func (c *Container) NewRegistry(opts ...tinycache.StoreOption) (*methodcache.Registry, error) {
	backend, err := cacheinfra.NewSturdycBackend(c.config)
	if err != nil {
		return nil, err
	}
	storeOpts := append([]tinycache.StoreOption{tinycache.WithBackend(backend)}, opts...)
	return methodcache.NewRegistry(storeOpts...), nil
}

// NewStateEventCache wires a room state cache over api with a
// capacity-bounded backend.
func (c *Container) NewStateEventCache(api client.API, roomID string, opts ...tinycache.StoreOption) (*client.StateEventCache, error) {
	backend, err := cacheinfra.NewSturdycBackend(c.config)
	if err != nil {
		return nil, err
	}
	storeOpts := append([]tinycache.StoreOption{tinycache.WithBackend(backend)}, opts...)
	return client.NewStateEventCache(api, roomID, storeOpts...), nil
}

// NewAccountDataCache wires an account data cache over api with a
// capacity-bounded backend.
func (c *Container) NewAccountDataCache(api client.API, userID string, opts ...tinycache.StoreOption) (*client.AccountDataCache, error) {
	backend, err := cacheinfra.NewSturdycBackend(c.config)
	if err != nil {
		return nil, err
	}
	storeOpts := append([]tinycache.StoreOption{tinycache.WithBackend(backend)}, opts...)
	return client.NewAccountDataCache(api, userID, storeOpts...), nil
}
