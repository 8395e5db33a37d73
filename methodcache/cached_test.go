package methodcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-tinycache/tinycache"
)

// balanceSource is a stand-in owner: a mutable value with a call counter so
// tests can observe recomputation.
type balanceSource struct {
	value int
	calls int
}

func (b *balanceSource) fetch(_ context.Context, accountID string) (int, error) {
	b.calls++
	return b.value, nil
}

func balanceConfig() Config[string] {
	return Config[string]{
		CacheKey: func(accountID string) string { return accountID },
		Level:    tinycache.LevelSome,
		TTL:      60 * time.Second,
	}
}

func TestRegister_InvalidConfig(t *testing.T) {
	reg := NewRegistry()
	src := &balanceSource{}

	_, err := Register(reg, "balance", src.fetch, Config[string]{})
	if err == nil {
		t.Fatal("registration accepted a nil CacheKey")
	}

	_, err = Register[string, int](reg, "balance", nil, balanceConfig())
	if err == nil {
		t.Fatal("registration accepted a nil raw implementation")
	}

	_, err = Register(reg, "", src.fetch, balanceConfig())
	if err == nil {
		t.Fatal("registration accepted an empty operation name")
	}
}

func TestRegister_Idempotent(t *testing.T) {
	reg := NewRegistry()
	src := &balanceSource{value: 100}

	first, err := Register(reg, "balance", src.fetch, balanceConfig())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	second, err := Register(reg, "balance", src.fetch, balanceConfig())
	if err != nil {
		t.Fatalf("re-Register: %v", err)
	}
	if first != second {
		t.Error("re-registration produced a new accessor set")
	}

	// No double wrapping: one call computes once through either handle.
	ctx := context.Background()
	if _, err := first.Get(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := second.Get(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	if src.calls != 1 {
		t.Errorf("raw ran %d times, want 1", src.calls)
	}
}

func TestRegister_ConflictingSignature(t *testing.T) {
	reg := NewRegistry()
	src := &balanceSource{}

	if _, err := Register(reg, "balance", src.fetch, balanceConfig()); err != nil {
		t.Fatal(err)
	}

	_, err := Register(reg, "balance",
		func(_ context.Context, id int) (string, error) { return "", nil },
		Config[int]{CacheKey: func(id int) string { return "x" }})
	if err == nil {
		t.Error("re-registration with a different signature did not fail")
	}
}

func TestCached_AccessorFamily(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	src := &balanceSource{value: 100}

	balance, err := Register(reg, "balance", src.fetch, balanceConfig())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Key accessor exposes the derived key.
	if got := balance.Key("A"); got != "balance::A" {
		t.Errorf("Key = %q, want balance::A", got)
	}

	// Probe before anything is cached.
	if balance.Cached("A") {
		t.Error("Cached reported true before first call")
	}

	// Cached accessor computes once, then serves hits.
	if v, err := balance.Get(ctx, "A"); err != nil || v != 100 {
		t.Fatalf("Get = (%v, %v), want (100, nil)", v, err)
	}
	src.value = 150
	if v, _ := balance.Get(ctx, "A"); v != 100 {
		t.Errorf("Get = %v, want cached 100", v)
	}
	if src.calls != 1 {
		t.Errorf("raw ran %d times, want 1", src.calls)
	}
	if !balance.Cached("A") {
		t.Error("Cached reported false after a hit was stored")
	}

	// Raw accessor always recomputes and does not disturb the cache.
	if v, _ := balance.Raw(ctx, "A"); v != 150 {
		t.Errorf("Raw = %v, want 150", v)
	}
	if v, _ := balance.Get(ctx, "A"); v != 100 {
		t.Errorf("Get after Raw = %v, want cached 100", v)
	}

	// Invalidate accessor removes the entry; the next Get recomputes.
	if !balance.Invalidate("A") {
		t.Error("Invalidate of cached entry returned false")
	}
	if balance.Cached("A") {
		t.Error("Cached reported true after Invalidate")
	}
	if v, _ := balance.Get(ctx, "A"); v != 150 {
		t.Errorf("Get after Invalidate = %v, want recomputed 150", v)
	}
}

func TestCached_DistinctArgumentsDistinctKeys(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	src := &balanceSource{value: 1}

	balance, err := Register(reg, "balance", src.fetch, balanceConfig())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := balance.Get(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := balance.Get(ctx, "B"); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("raw ran %d times for two distinct args, want 2", src.calls)
	}
}

func TestCached_SkipPredicate(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	src := &balanceSource{value: 7}

	cfg := balanceConfig()
	cfg.SkipWhen = func(op string, accountID string) bool {
		return accountID == "volatile"
	}

	balance, err := Register(reg, "balance", src.fetch, cfg)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if v, err := balance.Get(ctx, "volatile"); err != nil || v != 7 {
			t.Fatalf("Get = (%v, %v), want (7, nil)", v, err)
		}
	}
	if src.calls != 3 {
		t.Errorf("raw ran %d times with skip predicate, want 3", src.calls)
	}
	if balance.Cached("volatile") {
		t.Error("skipped call left a cached entry")
	}
}

func TestCached_RuntimeLevelBelowMinimum(t *testing.T) {
	ctx := context.Background()
	level := tinycache.LevelNone
	reg := NewRegistry(tinycache.WithLevelSource(func() tinycache.Level { return level }))
	src := &balanceSource{value: 9}

	balance, err := Register(reg, "balance", src.fetch, balanceConfig())
	if err != nil {
		t.Fatal(err)
	}

	// Below the operation's LevelSome minimum: every call recomputes.
	for i := 0; i < 2; i++ {
		if v, err := balance.Get(ctx, "A"); err != nil || v != 9 {
			t.Fatalf("Get = (%v, %v), want (9, nil)", v, err)
		}
	}
	if src.calls != 2 {
		t.Errorf("raw ran %d times at level none, want 2", src.calls)
	}

	// Raising the level re-enables caching without re-registration.
	level = tinycache.LevelSome
	balance.Get(ctx, "A")
	balance.Get(ctx, "A")
	if src.calls != 3 {
		t.Errorf("raw ran %d times after level raise, want 3", src.calls)
	}
}

func TestCached_TTLExpiryRecomputes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(tinycache.WithClock(func() time.Time { return now }))
	src := &balanceSource{value: 100}

	balance, err := Register(reg, "balance", src.fetch, balanceConfig())
	if err != nil {
		t.Fatal(err)
	}

	balance.Get(ctx, "A")
	src.value = 150

	now = now.Add(30 * time.Second)
	if v, _ := balance.Get(ctx, "A"); v != 100 {
		t.Errorf("t=30: %v, want cached 100", v)
	}

	now = now.Add(31 * time.Second)
	if v, _ := balance.Get(ctx, "A"); v != 150 {
		t.Errorf("t=61: %v, want recomputed 150", v)
	}
}

func TestCached_RawErrorPropagates(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry()
	boom := errors.New("backend down")

	op, err := Register(reg, "flaky",
		func(_ context.Context, id string) (int, error) { return 0, boom },
		Config[string]{CacheKey: func(id string) string { return id }})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := op.Get(ctx, "A"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if op.Cached("A") {
		t.Error("failed compute left a cached entry")
	}
}
