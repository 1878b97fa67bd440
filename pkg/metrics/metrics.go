// Package metrics provides the centralized Prometheus metrics registry for the
// rate-calendar client. All metrics are defined in their respective packages
// (client, cache, ratelimit) to maintain modularity and avoid circular
// dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the rate-calendar client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - ratecal_requests_total{outcome} (Counter): Fetches by outcome (success, error, cache_hit)
//   - ratecal_request_duration_seconds{outcome} (Histogram): Fetch duration by outcome
//   - ratecal_errors_total{kind} (Counter): Errors by kind (network, decode, validation)
//   - ratecal_coalesced_requests_total (Counter): Fetches answered by an in-flight identical request
//
// Retry Metrics (pkg/client):
//   - ratecal_retries_total{kind} (Counter): Retry attempts by error kind
//   - ratecal_retry_backoff_seconds{kind} (Histogram): Backoff duration by error kind
//   - ratecal_retry_exhausted_total{kind} (Counter): Operations that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - ratecal_cache_hits_total{layer} (Counter): Cache hits by layer (memory, redis)
//   - ratecal_cache_misses_total (Counter): Cache misses
//   - ratecal_cache_errors_total{operation} (Counter): Cache operation errors (get, set, delete)
//   - ratecal_cache_entries{layer} (Gauge): Current number of cached pages
//
// Rate Limit Metrics (pkg/ratelimit):
//   - ratecal_rate_limit_remaining (Gauge): Requests remaining in the current quota window
//   - ratecal_rate_limit_blocks_total (Counter): Requests blocked at critical quota level
//   - ratecal_rate_limit_throttles_total (Counter): Requests throttled at low quota level
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(ratecal_cache_hits_total[5m])) /
//   (sum(rate(ratecal_cache_hits_total[5m])) + sum(rate(ratecal_cache_misses_total[5m])))
//
//   # Coalescing Effectiveness
//   rate(ratecal_coalesced_requests_total[5m]) / rate(ratecal_requests_total[5m])
//
//   # Request Error Rate by Kind
//   rate(ratecal_errors_total[5m])
//
//   # P95 Fetch Latency
//   histogram_quantile(0.95, rate(ratecal_request_duration_seconds_bucket[5m]))
//
//   # Quota Pressure
//   ratecal_rate_limit_remaining < 20
