// Package ratelimit paces analytics API requests per seller Client-Id.
// The seller API throttles analytics queries per Client-Id and answers 429
// when a caller goes too fast; a Tracker spaces requests out by a minimum
// interval and honours Retry-After on 429 responses. With Redis the pacing is
// shared by every process that uses the same Client-Id.
package ratelimit

import (
	"time"
)

// RedisKeyPrefix namespaces the pacing keys. The full key is
// "<prefix>:<client_id>:next_request".
const RedisKeyPrefix = "ozon:rate_limit"

// State is a snapshot of the pacing state for one Client-Id.
type State struct {
	// ClientID is the seller the state belongs to.
	ClientID string `json:"client_id"`

	// Interval is the configured minimum spacing between requests.
	Interval time.Duration `json:"interval"`

	// NextAllowedAt is the earliest time the next request may be sent.
	NextAllowedAt time.Time `json:"next_allowed_at"`
}

// WaitDuration returns how long a caller must wait before sending a request.
// Returns 0 when a request may be sent now.
func (s *State) WaitDuration() time.Duration {
	d := time.Until(s.NextAllowedAt)
	if d < 0 {
		return 0
	}
	return d
}

// IsThrottled reports whether a request sent now would violate the pacing.
func (s *State) IsThrottled() bool {
	return s.WaitDuration() > 0
}

func redisKey(clientID string) string {
	return RedisKeyPrefix + ":" + clientID + ":next_request"
}
