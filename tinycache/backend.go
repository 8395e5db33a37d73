package tinycache

import (
	"github.com/puzpuzpuz/xsync/v3"
)

// Backend is the storage a Store delegates to. Implementations must be safe
// for concurrent use; all expiry and level policy stays in the Store, so a
// backend is a plain key/entry mapping.
//
// The default backend keeps entries in process memory. Alternate backends
// (e.g. a sharded, capacity-bounded one) are injected per Store via
// WithBackend.
type Backend interface {
	// Get returns the entry for key, or (nil, false) if key is unknown.
	Get(key string) (*Entry, bool)

	// Set stores an entry under key, replacing any prior entry.
	Set(key string, e *Entry)

	// Delete removes the entry for key and reports whether one existed.
	Delete(key string) bool

	// Keys returns a snapshot of all stored keys.
	Keys() []string

	// Clear drops every entry.
	Clear()
}

// memoryBackend is the default in-process backend.
type memoryBackend struct {
	entries *xsync.MapOf[string, *Entry]
}

// NewMemoryBackend returns an unbounded in-memory Backend.
func NewMemoryBackend() Backend {
	return &memoryBackend{entries: xsync.NewMapOf[string, *Entry]()}
}

func (b *memoryBackend) Get(key string) (*Entry, bool) {
	return b.entries.Load(key)
}

func (b *memoryBackend) Set(key string, e *Entry) {
	b.entries.Store(key, e)
}

func (b *memoryBackend) Delete(key string) bool {
	_, existed := b.entries.LoadAndDelete(key)
	return existed
}

func (b *memoryBackend) Keys() []string {
	keys := make([]string, 0, b.entries.Size())
	b.entries.Range(func(k string, _ *Entry) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

func (b *memoryBackend) Clear() {
	b.entries.Clear()
}
