package client

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound is returned by an API when the requested resource does not
// exist on the server. Cache consumers translate it into an empty value
// before the result reaches the cache; every other failure propagates.
var ErrNotFound = errors.New("client: resource not found")

// API is the network boundary the caches fetch through. Implementations
// resolve resource paths against a homeserver; transport, auth, and retry
// behavior all live behind this interface.
type API interface {
	// Get fetches a resource. Returns ErrNotFound (possibly wrapped) when
	// the resource does not exist.
	Get(ctx context.Context, resource string, params map[string]string) (json.RawMessage, error)

	// Set writes a resource.
	Set(ctx context.Context, resource string, params map[string]string, value json.RawMessage) error
}

// emptyObject is the default value a not-found resource collapses to.
var emptyObject = json.RawMessage("{}")

// fetchOrEmpty runs a Get and maps ErrNotFound to the empty object so the
// absence of a resource is cacheable like any other value.
func fetchOrEmpty(ctx context.Context, api API, resource string, params map[string]string) (json.RawMessage, error) {
	raw, err := api.Get(ctx, resource, params)
	if errors.Is(err, ErrNotFound) {
		return emptyObject, nil
	}
	return raw, err
}
