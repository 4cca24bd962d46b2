// Package metrics exposes the Prometheus registry shared by the report packages.
// All metrics are defined in their respective packages (client, cache,
// ratelimit, pagination, pipeline) to keep them next to the code that
// updates them and to avoid circular dependencies.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all metrics use.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back everything registered on Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registered metrics in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// API Client Metrics (pkg/client):
//   - ozon_api_requests_total{method, status} (Counter): Requests by API method and HTTP status
//   - ozon_api_request_duration_seconds{method} (Histogram): Request duration by API method
//   - ozon_api_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//   - ozon_api_retries_total{error_class} (Counter): Retry attempts by error class
//   - ozon_api_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - ozon_api_retry_exhausted_total{error_class} (Counter): Requests that exhausted max attempts
//
// Request Pacing Metrics (pkg/ratelimit):
//   - ozon_rate_limit_waits_total (Counter): Requests that waited for a slot
//   - ozon_rate_limit_wait_seconds (Histogram): Time spent waiting for a slot
//   - ozon_rate_limit_responses_total (Counter): 429 responses received
//
// Page Cache Metrics (pkg/cache):
//   - ozon_page_cache_hits_total (Counter): Pages served from Redis
//   - ozon_page_cache_misses_total (Counter): Pages not in Redis
//   - ozon_page_cache_written_bytes_total (Counter): Bytes written to Redis
//   - ozon_page_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pagination Metrics (pkg/pagination):
//   - ozon_pagination_pages_fetched_total (Counter): Pages fetched
//   - ozon_pagination_page_rows (Histogram): Rows per page
//
// Report Metrics (pkg/pipeline):
//   - ozon_report_runs_total{result} (Counter): Runs by result (success, validate, fetch, classify)
//   - ozon_report_run_duration_seconds (Histogram): Duration of successful runs
//   - ozon_report_skus_classified_total{class} (Counter): SKUs by combined ABC/XYZ class
//   - ozon_report_computation_warnings_total (Counter): SKUs with an undefined coefficient of variation
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(ozon_page_cache_hits_total[5m])) /
//   (sum(rate(ozon_page_cache_hits_total[5m])) + sum(rate(ozon_page_cache_misses_total[5m])))
//
//   # Failed Runs by Stage
//   sum by (result) (increase(ozon_report_runs_total{result!="success"}[1h]))
//
//   # Request Error Rate
//   rate(ozon_api_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(ozon_api_request_duration_seconds_bucket[5m]))
//
//   # Share of Z-class SKUs
//   sum(ozon_report_skus_classified_total{class=~".Z"}) / sum(ozon_report_skus_classified_total)
