package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-tinycache/tinycache"
)

// Config holds the settings for the sturdyc-backed storage backend.
type Config struct {
	// Capacity defines the maximum number of entries the backend can hold.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of storage shards for concurrent
	// access. Higher values improve concurrency at a memory cost.
	// Must be greater than 0.
	NumShards int

	// Retention is how long the backend keeps a record before evicting it,
	// independent of the store's logical TTLs. It bounds how long expired
	// husks stay readable, so it should comfortably exceed the longest
	// logical TTL in use. Must be greater than 0.
	Retention time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the backend reaches capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the backend checks for evictable
	// entries. Zero uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with defaults suitable for most owners.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		Retention:          2 * tinycache.DefaultTTL,
		EvictionPercentage: 10,
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.Retention <= 0 {
		return &ConfigError{Field: "Retention", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// sturdycBackend stores entries in a sturdyc client. Sturdyc contributes
// sharded storage and capacity-based eviction; all expiry and level policy
// stays in the tinycache store, which is why entries go in with the flat
// Retention rather than their logical TTL.
type sturdycBackend struct {
	client *sturdyc.Client[*tinycache.Entry]
}

// NewSturdycBackend creates a capacity-bounded backend for a tinycache
// store. It validates the configuration and initializes the underlying
// sturdyc client.
func NewSturdycBackend(cfg Config) (tinycache.Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var options []sturdyc.Option
	if cfg.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(cfg.EvictionInterval))
	}

	client := sturdyc.New[*tinycache.Entry](
		cfg.Capacity,
		cfg.NumShards,
		cfg.Retention,
		cfg.EvictionPercentage,
		options...,
	)

	return &sturdycBackend{client: client}, nil
}

func (b *sturdycBackend) Get(key string) (*tinycache.Entry, bool) {
	return b.client.Get(key)
}

func (b *sturdycBackend) Set(key string, e *tinycache.Entry) {
	b.client.Set(key, e)
}

func (b *sturdycBackend) Delete(key string) bool {
	_, existed := b.client.Get(key)
	b.client.Delete(key)
	return existed
}

func (b *sturdycBackend) Keys() []string {
	return b.client.ScanKeys()
}

func (b *sturdycBackend) Clear() {
	for _, key := range b.client.ScanKeys() {
		b.client.Delete(key)
	}
}
