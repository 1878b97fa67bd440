// Package ratelimit implements backend request-budget tracking and request
// gating. It monitors the X-RateLimit-Remaining and X-RateLimit-Reset
// response headers so a fleet of clients stops before exhausting the
// backend's quota for the property-management API.
package ratelimit

import (
	"time"
)

// Redis keys for rate limit state storage.
const (
	RedisKeyRemaining      = "ratecal:rate_limit:remaining"
	RedisKeyResetTimestamp = "ratecal:rate_limit:reset_timestamp"
	RedisKeyLastUpdate     = "ratecal:rate_limit:last_update"
)

// Thresholds for rate limit decisions.
const (
	// ThresholdCritical blocks all requests when the remaining budget falls
	// below this value, leaving headroom for in-flight requests to land.
	ThresholdCritical = 5

	// ThresholdWarning applies throttling when the remaining budget falls
	// below this value, slowing the request rate before it becomes critical.
	ThresholdWarning = 20

	// ThresholdHealthy indicates normal operation. At or above this value no
	// restrictions apply.
	ThresholdHealthy = 50
)

// State represents the backend request budget as last reported by the
// backend. The state is shared across all client instances via Redis.
type State struct {
	// Remaining is the number of requests left in the current quota window.
	// Extracted from the X-RateLimit-Remaining header.
	Remaining int `json:"remaining"`

	// ResetAt is the timestamp when the quota window resets.
	// Calculated from the X-RateLimit-Reset header (seconds until reset).
	ResetAt time.Time `json:"reset_at"`

	// LastUpdate is the timestamp when this state was last updated.
	// Used to detect stale state.
	LastUpdate time.Time `json:"last_update"`

	// IsHealthy indicates whether the budget is in a healthy state.
	// True when Remaining >= ThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than the given duration.
func (s *State) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked because the
// budget is nearly exhausted.
func (s *State) NeedsCriticalBlock() bool {
	return s.Remaining < ThresholdCritical
}

// NeedsThrottling returns true if requests should be throttled because the
// budget is below the warning threshold.
func (s *State) NeedsThrottling() bool {
	return s.Remaining < ThresholdWarning && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the quota window resets.
// Returns 0 if the reset time has already passed.
func (s *State) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field based on the current budget.
func (s *State) UpdateHealth() {
	s.IsHealthy = s.Remaining >= ThresholdHealthy
}
