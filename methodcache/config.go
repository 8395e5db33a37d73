package methodcache

import (
	"reflect"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-tinycache/tinycache"
)

// Config describes how one operation is cached. It is created once at
// registration time and never mutated afterwards.
type Config[A any] struct {
	// CacheKey maps the call argument to the argument portion of the cache
	// key. Required. It must be pure and deterministic for identical
	// arguments; the framework cannot detect a violation and will silently
	// serve wrong values if it happens.
	CacheKey func(arg A) string

	// Level is the minimum cache level required for this operation to be
	// cached. The default, LevelNone, means "cache whenever any caching is
	// enabled".
	Level tinycache.Level

	// TTL is the default time-to-live for this operation. Zero falls back
	// to tinycache.DefaultTTL.
	TTL time.Duration

	// SkipWhen, when non-nil and true for a call, bypasses caching for
	// that call entirely.
	SkipWhen func(op string, arg A) bool
}

// Validate reports configuration errors. Called at registration so an
// invalid config fails at setup time, never at call time.
func (c Config[A]) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CacheKey, validation.By(requiredFn)),
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
		validation.Field(&c.Level, validation.Min(tinycache.LevelNone), validation.Max(tinycache.LevelAll)),
	)
}

// requiredFn rejects nil function values; ozzo's Required treats any func
// as non-empty, so the check needs reflection.
func requiredFn(value any) error {
	v := reflect.ValueOf(value)
	if !v.IsValid() || (v.Kind() == reflect.Func && v.IsNil()) {
		return validation.ErrRequired
	}
	return nil
}
