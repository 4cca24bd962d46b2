//go:build integration

package client

import (
	"context"
	"testing"

	"github.com/Sternrassler/ozon-abcxyz/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisContainer creates a Redis container for integration testing.
func setupRedisContainer(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestIntegration_PageCache(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)
	defer cleanup()

	mock := testutil.NewMockAnalyticsAPI()
	defer mock.Close()
	mock.SetPageSizes(3)

	cfg := DefaultConfig("12345", "key")
	cfg.BaseURL = mock.URL()
	cfg.Redis = redisClient

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx := context.Background()
	payload := map[string]any{"date_from": "2024-01-01", "limit": 1000, "offset": 0}

	first, err := c.Post(ctx, testutil.AnalyticsPath, payload)
	if err != nil {
		t.Fatalf("first Post() failed: %v", err)
	}
	second, err := c.Post(ctx, testutil.AnalyticsPath, payload)
	if err != nil {
		t.Fatalf("second Post() failed: %v", err)
	}

	if mock.GetRequestCount() != 1 {
		t.Errorf("Expected second call served from cache, got %d API requests", mock.GetRequestCount())
	}
	if string(first) != string(second) {
		t.Error("Cached body differs from the original response")
	}

	// A different offset is a different page
	payload["offset"] = 1000
	if _, err := c.Post(ctx, testutil.AnalyticsPath, payload); err != nil {
		t.Fatalf("third Post() failed: %v", err)
	}
	if mock.GetRequestCount() != 2 {
		t.Errorf("Expected a new request for a new offset, got %d API requests", mock.GetRequestCount())
	}
}

func TestIntegration_ErrorsNotCached(t *testing.T) {
	redisClient, cleanup := setupRedisContainer(t)
	defer cleanup()

	mock := testutil.NewMockAnalyticsAPI()
	defer mock.Close()
	mock.QueueResponses(testutil.NewErrorResponse(500, "boom"))

	cfg := DefaultConfig("12345", "key")
	cfg.BaseURL = mock.URL()
	cfg.Redis = redisClient

	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	ctx := context.Background()
	payload := map[string]any{"offset": 0}

	if _, err := c.Post(ctx, testutil.AnalyticsPath, payload); err == nil {
		t.Fatal("Expected first Post() to fail")
	}
	if _, err := c.Post(ctx, testutil.AnalyticsPath, payload); err != nil {
		t.Fatalf("Expected second Post() to reach the API and succeed: %v", err)
	}
	if mock.GetRequestCount() != 2 {
		t.Errorf("Expected 2 API requests, got %d", mock.GetRequestCount())
	}
}
