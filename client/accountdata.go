package client

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/goliatone/go-tinycache/tinycache"
)

// AccountDataCache caches per-account data for one user. Account data
// changes behind the client's back more often than room state, so it is
// configured at LevelAll: it caches only when the runtime allows full
// caching, and degrades to direct fetches as soon as the level drops.
type AccountDataCache struct {
	api    API
	userID string
	store  *tinycache.Store
	keyer  tinycache.Keyer
}

// NewAccountDataCache creates the cache for userID.
func NewAccountDataCache(api API, userID string, opts ...tinycache.StoreOption) *AccountDataCache {
	storeOpts := append([]tinycache.StoreOption{
		tinycache.WithKeyConfig("account_data", tinycache.KeyConfig{Level: tinycache.LevelAll}),
	}, opts...)

	return &AccountDataCache{
		api:    api,
		userID: userID,
		store:  tinycache.NewStore(storeOpts...),
		keyer:  tinycache.NewDefaultKeyer(),
	}
}

// AccountData returns the account data of the given type, fetching from the
// server on a miss. Missing data resolves to an empty object.
func (c *AccountDataCache) AccountData(ctx context.Context, dataType string) (json.RawMessage, error) {
	return c.data(ctx, dataType, "", c.accountResource(dataType))
}

// RoomAccountData returns per-room account data of the given type.
func (c *AccountDataCache) RoomAccountData(ctx context.Context, roomID, dataType string) (json.RawMessage, error) {
	return c.data(ctx, dataType, roomID, c.roomResource(roomID, dataType))
}

// SetAccountData writes account data to the server and writes through to
// the cache on success.
func (c *AccountDataCache) SetAccountData(ctx context.Context, dataType string, content json.RawMessage) error {
	return c.set(ctx, dataType, "", c.accountResource(dataType), content)
}

// SetRoomAccountData writes per-room account data and writes through on
// success.
func (c *AccountDataCache) SetRoomAccountData(ctx context.Context, roomID, dataType string, content json.RawMessage) error {
	return c.set(ctx, dataType, roomID, c.roomResource(roomID, dataType), content)
}

// Invalidate drops the cached account data of the given type. An empty
// roomID targets global account data.
func (c *AccountDataCache) Invalidate(roomID, dataType string) bool {
	return c.store.Delete(c.key(dataType, roomID))
}

func (c *AccountDataCache) data(ctx context.Context, dataType, roomID, resource string) (json.RawMessage, error) {
	return tinycache.Fetch(ctx, c.store, c.key(dataType, roomID), func(ctx context.Context) (json.RawMessage, error) {
		return fetchOrEmpty(ctx, c.api, resource, nil)
	})
}

func (c *AccountDataCache) set(ctx context.Context, dataType, roomID, resource string, content json.RawMessage) error {
	params := map[string]string{"txn_id": uuid.NewString()}
	if err := c.api.Set(ctx, resource, params, content); err != nil {
		return err
	}
	c.store.Write(c.key(dataType, roomID), content)
	return nil
}

func (c *AccountDataCache) key(dataType, roomID string) string {
	if roomID == "" {
		return c.keyer.Key("account_data", c.userID, dataType)
	}
	return c.keyer.Key("account_data", c.userID, roomID, dataType)
}

func (c *AccountDataCache) accountResource(dataType string) string {
	return "user/" + c.userID + "/account_data/" + dataType
}

func (c *AccountDataCache) roomResource(roomID, dataType string) string {
	return "user/" + c.userID + "/rooms/" + roomID + "/account_data/" + dataType
}
