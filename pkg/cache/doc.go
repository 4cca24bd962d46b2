// Package cache stores analytics API page responses in Redis.
//
// A report over a fixed date range is deterministic: every page request is
// identified by the Client-Id, the API method and the JSON request body (which
// carries the date range and offset). Caching those bodies lets a report be
// re-rendered, or re-run after a failure mid-pagination, without hitting the
// seller API again.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient, time.Hour)
//
//	key := cache.CacheKey{
//		Method:   "/v1/analytics/data",
//		ClientID: "12345",
//		Body:     body,
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API, then
//		_ = manager.Put(ctx, key, respBody)
//	}
//
// The API key is never part of a cache key.
//
// # Metrics
//
//   - ozon_page_cache_hits_total
//   - ozon_page_cache_misses_total
//   - ozon_page_cache_written_bytes_total
//   - ozon_page_cache_errors_total{operation}
package cache
