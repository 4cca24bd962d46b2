package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Prometheus metrics for request pacing.
var (
	rateLimitWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ozon_rate_limit_waits_total",
		Help: "Total number of requests delayed by request pacing",
	})

	rateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ozon_rate_limit_wait_seconds",
		Help:    "Time spent waiting for a request slot",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60},
	})

	rateLimitResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ozon_rate_limit_responses_total",
		Help: "Total number of 429 responses received from the analytics API",
	})
)

// defaultRetryAfter applies when a 429 carries no usable Retry-After header.
const defaultRetryAfter = 60 * time.Second

// Tracker gates requests so that consecutive requests for one Client-Id are at
// least Interval apart. A nil Redis client keeps the state in process.
type Tracker struct {
	redis    *redis.Client
	clientID string
	interval time.Duration
	logger   zerolog.Logger

	mu   sync.Mutex
	next time.Time
}

// NewTracker creates a new pacing tracker. A zero interval disables pacing
// but 429 responses still block until Retry-After has passed.
func NewTracker(redisClient *redis.Client, clientID string, interval time.Duration, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:    redisClient,
		clientID: clientID,
		interval: interval,
		logger:   logger,
	}
}

// GetState returns the current pacing state.
func (t *Tracker) GetState(ctx context.Context) (*State, error) {
	state := &State{ClientID: t.clientID, Interval: t.interval}

	if t.redis == nil {
		t.mu.Lock()
		state.NextAllowedAt = t.next
		t.mu.Unlock()
		return state, nil
	}

	pttl, err := t.redis.PTTL(ctx, redisKey(t.clientID)).Result()
	if err != nil {
		return nil, fmt.Errorf("get next request slot: %w", err)
	}
	// -2 (missing key) and -1 (no expiry) both mean no reservation in force
	if pttl > 0 {
		state.NextAllowedAt = time.Now().Add(pttl)
	}
	return state, nil
}

// Wait blocks until a request slot is available and reserves it.
func (t *Tracker) Wait(ctx context.Context) error {
	start := time.Now()
	waited := false

	for {
		wait, err := t.reserve(ctx)
		if err != nil {
			return err
		}
		if wait <= 0 {
			break
		}

		waited = true
		t.logger.Debug().
			Str("client_id", t.clientID).
			Dur("wait", wait).
			Msg("Waiting for request slot")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if waited {
		rateLimitWaitsTotal.Inc()
		rateLimitWaitSeconds.Observe(time.Since(start).Seconds())
	}
	return nil
}

// reserve tries to claim the next slot. It returns 0 on success or the time
// to wait before trying again.
func (t *Tracker) reserve(ctx context.Context) (time.Duration, error) {
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()

		now := time.Now()
		if wait := t.next.Sub(now); wait > 0 {
			return wait, nil
		}
		t.next = now.Add(t.interval)
		return 0, nil
	}

	key := redisKey(t.clientID)

	if t.interval <= 0 {
		// Only a 429 block can be in force
		pttl, err := t.redis.PTTL(ctx, key).Result()
		if err != nil {
			return 0, fmt.Errorf("get next request slot: %w", err)
		}
		if pttl > 0 {
			return pttl, nil
		}
		return 0, nil
	}

	ok, err := t.redis.SetNX(ctx, key, time.Now().UnixMilli(), t.interval).Result()
	if err != nil {
		return 0, fmt.Errorf("reserve request slot: %w", err)
	}
	if ok {
		return 0, nil
	}

	pttl, err := t.redis.PTTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("get next request slot: %w", err)
	}
	if pttl <= 0 {
		// Key expired between SETNX and PTTL; try again right away
		return time.Millisecond, nil
	}
	return pttl, nil
}

// UpdateFromResponse blocks further requests after a 429 until the
// Retry-After delay has elapsed. Other statuses are ignored.
func (t *Tracker) UpdateFromResponse(ctx context.Context, statusCode int, headers http.Header) error {
	if statusCode != http.StatusTooManyRequests {
		return nil
	}
	rateLimitResponsesTotal.Inc()

	delay := parseRetryAfter(headers.Get("Retry-After"))

	t.logger.Warn().
		Str("client_id", t.clientID).
		Dur("retry_after", delay).
		Msg("Analytics API rate limit hit - blocking requests")

	return t.block(ctx, delay)
}

func (t *Tracker) block(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if t.redis == nil {
		t.mu.Lock()
		defer t.mu.Unlock()
		if until := time.Now().Add(delay); until.After(t.next) {
			t.next = until
		}
		return nil
	}

	if err := t.redis.Set(ctx, redisKey(t.clientID), time.Now().UnixMilli(), delay).Err(); err != nil {
		return fmt.Errorf("store rate limit block in redis: %w", err)
	}
	return nil
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return defaultRetryAfter
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
		return 0
	}
	return defaultRetryAfter
}
