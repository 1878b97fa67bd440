package cache

import (
	"time"
)

// Entry represents a cached rate-calendar page.
type Entry struct {
	// Data is the JSON-encoded page.
	Data []byte `json:"data"`

	// CachedAt is when the page was stored.
	CachedAt time.Time `json:"cached_at"`

	// ExpiresAt is when the entry becomes stale.
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the entry has passed its expiry time.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.ExpiresAt)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
