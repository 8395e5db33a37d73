package client

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/goliatone/go-tinycache/tinycache"
)

// StateEventCache caches the state events of one room. Reads go
// fetch-or-compute through the cache; sends write through so a successful
// remote write immediately refreshes the cached copy.
//
// State events are keyed by event type and state key and are fairly static,
// so they cache at LevelSome: any runtime that allows partial caching keeps
// them.
type StateEventCache struct {
	api    API
	roomID string
	store  *tinycache.Store
	keyer  tinycache.Keyer
}

// NewStateEventCache creates the cache for roomID. Extra store options
// (backend, level source, clock) are applied after the state key policy.
func NewStateEventCache(api API, roomID string, opts ...tinycache.StoreOption) *StateEventCache {
	storeOpts := append([]tinycache.StoreOption{
		tinycache.WithKeyConfig("state", tinycache.KeyConfig{Level: tinycache.LevelSome}),
	}, opts...)

	return &StateEventCache{
		api:    api,
		roomID: roomID,
		store:  tinycache.NewStore(storeOpts...),
		keyer:  tinycache.NewDefaultKeyer(),
	}
}

// State returns the content of the state event with the given type and
// state key, fetching from the server on a cache miss. A missing event
// resolves to an empty object rather than an error.
func (c *StateEventCache) State(ctx context.Context, eventType, stateKey string) (json.RawMessage, error) {
	key := c.keyer.Key("state", c.roomID, eventType, stateKey)
	return tinycache.Fetch(ctx, c.store, key, func(ctx context.Context) (json.RawMessage, error) {
		return fetchOrEmpty(ctx, c.api, c.stateResource(eventType, stateKey), nil)
	})
}

// SendState writes a state event to the server and, on success, writes the
// content through to the cache so subsequent reads see it without another
// round trip.
func (c *StateEventCache) SendState(ctx context.Context, eventType, stateKey string, content json.RawMessage) error {
	params := map[string]string{"txn_id": uuid.NewString()}
	if err := c.api.Set(ctx, c.stateResource(eventType, stateKey), params, content); err != nil {
		return err
	}
	c.store.Write(c.keyer.Key("state", c.roomID, eventType, stateKey), content)
	return nil
}

// Invalidate drops the cached state event and reports whether an entry was
// removed.
func (c *StateEventCache) Invalidate(eventType, stateKey string) bool {
	return c.store.Delete(c.keyer.Key("state", c.roomID, eventType, stateKey))
}

// Clear drops every cached state event for the room.
func (c *StateEventCache) Clear() {
	c.store.Clear()
}

func (c *StateEventCache) stateResource(eventType, stateKey string) string {
	return "rooms/" + c.roomID + "/state/" + eventType + "/" + stateKey
}
