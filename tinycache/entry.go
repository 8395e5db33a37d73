package tinycache

import "time"

// Entry is a single cached record. Entries are written wholesale; an
// existing entry is never mutated in place, only replaced.
type Entry struct {
	// Value is the cached payload. Cleanup nulls this field on expired
	// entries while retaining the record itself.
	Value any

	// WrittenAt is when the entry was stored.
	WrittenAt time.Time

	// ExpiresAt is the absolute expiry instant. The zero time means the
	// entry never expires.
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its expiry instant at now.
// Non-expiring entries are never expired.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}
