package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/goliatone/go-tinycache/client"
	"github.com/goliatone/go-tinycache/pkg/testsupport"
	"github.com/goliatone/go-tinycache/tinycache"
)

func TestAccountDataCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	api := testsupport.NewFakeAPI()
	api.Seed("user/@u/account_data/m.direct", json.RawMessage(`{"@a":["!r"]}`))

	cache := client.NewAccountDataCache(api, "@u")

	for i := 0; i < 3; i++ {
		got, err := cache.AccountData(ctx, "m.direct")
		if err != nil {
			t.Fatalf("AccountData: %v", err)
		}
		if !bytes.Equal(got, []byte(`{"@a":["!r"]}`)) {
			t.Fatalf("AccountData = %s", got)
		}
	}
	if calls := api.GetCalls("user/@u/account_data/m.direct"); calls != 1 {
		t.Errorf("API fetched %d times, want 1", calls)
	}
}

func TestAccountDataCache_MissingResolvesEmpty(t *testing.T) {
	ctx := context.Background()
	api := testsupport.NewFakeAPI()
	cache := client.NewAccountDataCache(api, "@u")

	got, err := cache.AccountData(ctx, "m.push_rules")
	if err != nil {
		t.Fatalf("AccountData on missing type: %v", err)
	}
	if !bytes.Equal(got, []byte("{}")) {
		t.Errorf("AccountData = %s, want {}", got)
	}
}

func TestAccountDataCache_RoomScopedKeysAreDistinct(t *testing.T) {
	ctx := context.Background()
	api := testsupport.NewFakeAPI()
	api.Seed("user/@u/account_data/m.tag", json.RawMessage(`{"scope":"global"}`))
	api.Seed("user/@u/rooms/!r/account_data/m.tag", json.RawMessage(`{"scope":"room"}`))

	cache := client.NewAccountDataCache(api, "@u")

	global, err := cache.AccountData(ctx, "m.tag")
	if err != nil {
		t.Fatal(err)
	}
	room, err := cache.RoomAccountData(ctx, "!r", "m.tag")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(global, room) {
		t.Error("global and room-scoped data collided in the cache")
	}
}

func TestAccountDataCache_SetWritesThrough(t *testing.T) {
	ctx := context.Background()
	api := testsupport.NewFakeAPI()
	cache := client.NewAccountDataCache(api, "@u")

	content := json.RawMessage(`{"dark":true}`)
	if err := cache.SetAccountData(ctx, "m.theme", content); err != nil {
		t.Fatalf("SetAccountData: %v", err)
	}

	got, err := cache.AccountData(ctx, "m.theme")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("AccountData = %s, want %s", got, content)
	}
	if calls := api.GetCalls("user/@u/account_data/m.theme"); calls != 0 {
		t.Errorf("API fetched %d times after write-through, want 0", calls)
	}
}

func TestAccountDataCache_RequiresFullCaching(t *testing.T) {
	ctx := context.Background()
	api := testsupport.NewFakeAPI()
	api.Seed("user/@u/account_data/m.direct", json.RawMessage(`{}`))

	// Account data is gated at LevelAll; a partial-caching runtime always
	// refetches it.
	cache := client.NewAccountDataCache(api, "@u",
		tinycache.WithLevelSource(func() tinycache.Level { return tinycache.LevelSome }),
	)

	cache.AccountData(ctx, "m.direct")
	cache.AccountData(ctx, "m.direct")
	if calls := api.GetCalls("user/@u/account_data/m.direct"); calls != 2 {
		t.Errorf("API fetched %d times at level some, want 2", calls)
	}
}

func TestAccountDataCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	api := testsupport.NewFakeAPI()
	api.Seed("user/@u/account_data/m.direct", json.RawMessage(`{"v":1}`))

	cache := client.NewAccountDataCache(api, "@u")
	cache.AccountData(ctx, "m.direct")

	if !cache.Invalidate("", "m.direct") {
		t.Error("Invalidate of cached data returned false")
	}
	cache.AccountData(ctx, "m.direct")
	if calls := api.GetCalls("user/@u/account_data/m.direct"); calls != 2 {
		t.Errorf("API fetched %d times after invalidation, want 2", calls)
	}
}
