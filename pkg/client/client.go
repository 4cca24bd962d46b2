// Package client provides the HTTP client for the Ozon seller API with
// request pacing, optional page caching and error classification.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/ozon-abcxyz/pkg/cache"
	"github.com/Sternrassler/ozon-abcxyz/pkg/logging"
	"github.com/Sternrassler/ozon-abcxyz/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production seller API host.
const DefaultBaseURL = "https://api-seller.ozon.ru"

// Authentication headers required on every seller API request.
const (
	HeaderClientID = "Client-Id"
	HeaderAPIKey   = "Api-Key"
)

// maxErrorBody bounds how much of an error response is kept for the error message.
const maxErrorBody = 4 << 10

// Prometheus metrics for API client operations.
var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ozon_api_requests_total",
		Help: "Total seller API requests by method and status",
	}, []string{"method", "status"})

	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ozon_api_request_duration_seconds",
		Help:    "Seller API request duration in seconds by method",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"method"})

	apiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ozon_api_errors_total",
		Help: "Total seller API errors by class",
	}, []string{"class"})
)

// Client is the seller API client. It holds no state shared between
// instances; every run builds its own.
type Client struct {
	httpClient  *http.Client
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the seller API, without trailing slash.
	BaseURL string

	// ClientID is sent as the Client-Id header (REQUIRED).
	ClientID string

	// APIKey is sent as the Api-Key header (REQUIRED).
	APIKey string

	// Timeout bounds a single HTTP request, including reading the body.
	Timeout time.Duration

	// MinRequestInterval spaces consecutive requests for ClientID. Zero disables pacing.
	MinRequestInterval time.Duration

	// Retry controls retries of server, rate limit and network failures.
	// The default makes a single attempt.
	Retry RetryConfig

	// Redis enables the page cache and shares pacing state across processes. Optional.
	Redis *redis.Client

	// CacheTTL is the page cache lifetime when Redis is set.
	CacheTTL time.Duration
}

// DefaultConfig returns a configuration with production defaults for the given credentials.
func DefaultConfig(clientID, apiKey string) Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		ClientID: clientID,
		APIKey:   apiKey,
		Timeout:  30 * time.Second,
		Retry:    DefaultRetryConfig(),
		CacheTTL: cache.DefaultTTL,
	}
}

// New creates a new seller API client.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client id is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	logger := logging.NewLogger("analytics-client")

	c := &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: ratelimit.NewTracker(cfg.Redis, cfg.ClientID, cfg.MinRequestInterval, logger),
		config:      cfg,
		logger:      logger,
	}

	if cfg.Redis != nil {
		c.cache = cache.NewManager(cfg.Redis, cfg.CacheTTL)
	}

	return c, nil
}

// Do sends one request with authentication headers and request pacing.
// HTTP statuses >= 400 and network failures are returned as *TransportError;
// on error the response body is already closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	method := req.URL.Path

	startTime := time.Now()
	defer func() {
		apiRequestDuration.WithLabelValues(method).Observe(time.Since(startTime).Seconds())
	}()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for request slot: %w", err)
	}

	req.Header.Set(HeaderClientID, c.config.ClientID)
	req.Header.Set(HeaderAPIKey, c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().
		Str("endpoint", method).
		Str("method", req.Method).
		Msg("Executing seller API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		apiRequestsTotal.WithLabelValues(method, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", method).Msg("HTTP request failed")
		return nil, &TransportError{
			Method:     method,
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}

	apiRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()

	if err := c.rateLimiter.UpdateFromResponse(ctx, resp.StatusCode, resp.Header); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to update rate limit state")
	}

	if resp.StatusCode >= 400 {
		errClass := classifyStatus(resp.StatusCode)
		apiErrorsTotal.WithLabelValues(string(errClass)).Inc()

		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()

		c.logger.Warn().
			Str("endpoint", method).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Seller API request error")

		return nil, &TransportError{
			Method:     method,
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    errorMessage(resp.Status, body),
		}
	}

	return resp, nil
}

// Post sends payload as JSON to the given API method and returns the raw
// response body. Responses are served from and written to the page cache
// when Redis is configured.
func (c *Client) Post(ctx context.Context, method string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	cacheKey := cache.CacheKey{
		Method:   method,
		ClientID: c.config.ClientID,
		Body:     body,
	}

	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			c.logger.Debug().Str("endpoint", method).Str("key", cacheKey.String()).Msg("Page cache hit")
			return entry.Data, nil
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Err(err).Str("endpoint", method).Msg("Cache get error")
		}
	}

	var data []byte
	err = retryWithBackoff(ctx, c.config.Retry, c.logger, func() (ErrorClass, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+method, bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}

		resp, err := c.Do(req)
		if err != nil {
			var te *TransportError
			if errors.As(err, &te) {
				return te.ErrorClass, err
			}
			return "", err
		}
		defer resp.Body.Close()

		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return ErrorClassNetwork, &TransportError{
				Method:     method,
				StatusCode: resp.StatusCode,
				ErrorClass: ErrorClassNetwork,
				Message:    "read response body",
				Err:        err,
			}
		}
		return "", nil
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, cacheKey, data); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", method).Msg("Failed to cache response")
		} else {
			c.logger.Debug().Str("endpoint", method).Dur("ttl", c.cache.TTL()).Msg("Page cached")
		}
	}

	return data, nil
}

// errorMessage prefers the API's own {"message": ...} over the status line.
func errorMessage(status string, body []byte) string {
	var apiErr struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
		return apiErr.Message
	}
	return status
}

// ClientID returns the seller Client-Id the client authenticates as.
func (c *Client) ClientID() string {
	return c.config.ClientID
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
