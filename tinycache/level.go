package tinycache

import "fmt"

// Level is the cache level policy: a coarse, totally ordered switch that
// gates which keys may be cached. A runtime can lower its level to disable
// caching for less trusted or less stable data while keeping it for cheap,
// static data.
type Level int

const (
	// LevelNone permits nothing to be cached.
	LevelNone Level = iota

	// LevelSome permits keys whose configured minimum is LevelNone or
	// LevelSome. Used for data that is cheap to cache but may go stale.
	LevelSome

	// LevelAll permits every key. This is the default when no runtime
	// override is configured.
	LevelAll
)

// String returns the textual form used in configuration.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelSome:
		return "some"
	case LevelAll:
		return "all"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel converts a configuration string into a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "none":
		return LevelNone, nil
	case "some":
		return LevelSome, nil
	case "all":
		return LevelAll, nil
	}
	return LevelNone, fmt.Errorf("tinycache: unknown cache level %q", s)
}

// Permits reports whether an operation gated by min is allowed when the
// effective level is l. A key's configured minimum and the effective level
// compare by the total order none < some < all.
func (l Level) Permits(min Level) bool {
	return l >= min
}
