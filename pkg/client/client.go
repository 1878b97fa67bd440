// Package client provides the core rate-calendar HTTP client with TTL
// caching, single-flight request coalescing, and error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rategrid/rate-calendar-client/pkg/cache"
	"github.com/rategrid/rate-calendar-client/pkg/calendar"
	"github.com/rategrid/rate-calendar-client/pkg/ratelimit"
)

// Prometheus metrics for rate-calendar client operations.
var (
	ratecalRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratecal_requests_total",
		Help: "Total rate-calendar fetches by property and outcome",
	}, []string{"outcome"})

	ratecalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ratecal_request_duration_seconds",
		Help:    "Rate-calendar fetch duration in seconds by outcome",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"outcome"})

	ratecalErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratecal_errors_total",
		Help: "Total rate-calendar errors by kind",
	}, []string{"kind"})

	ratecalCoalescedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ratecal_coalesced_requests_total",
		Help: "Fetches answered by an already in-flight identical request",
	})
)

// assessmentPath is the rate-calendar endpoint, relative to the backend URL.
const assessmentPath = "/api/v1/property/%d/rate-calendar/assessment"

// Client fetches paginated rate-calendar pages from the backend.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	limiter    *ratelimit.Tracker
	flight     *flightGroup
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BackendURL is the base URL of the property-management backend
	// (e.g. "https://pms.example.com"). Required.
	BackendURL string

	// Redis is an optional client for the shared page cache and backend
	// quota state. When nil, pages are cached in process memory and quota
	// gating is disabled.
	Redis *redis.Client

	// UserAgent identifies this client to the backend.
	UserAgent string

	// Timeout bounds each fetch, including coalesced waiters.
	Timeout time.Duration

	// CacheTTL is how long a fetched page may be served without a fresh
	// request. Zero selects the cache package default (120s).
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(backendURL string) Config {
	return Config{
		BackendURL: backendURL,
		UserAgent:  "rate-calendar-client/0.1.0",
		Timeout:    15 * time.Second,
		CacheTTL:   cache.DefaultTTL,
	}
}

// New creates a new rate-calendar client.
func New(cfg Config) (*Client, error) {
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("backend URL is required")
	}
	if _, err := url.Parse(cfg.BackendURL); err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	logger := log.With().Str("component", "ratecal-client").Logger()

	var store cache.Store
	var limiter *ratelimit.Tracker
	if cfg.Redis != nil {
		store = cache.NewRedisStore(cfg.Redis)
		limiter = ratelimit.NewTracker(cfg.Redis, logger)
	} else {
		store = cache.NewMemoryStore()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache:   cache.NewManager(store, cfg.CacheTTL),
		limiter: limiter,
		flight:  newFlightGroup(),
		config:  cfg,
		logger:  logger,
	}, nil
}

// FetchPage fetches one page of the rate calendar for query. An empty
// cursor requests the first page; otherwise cursor must be a NextCursor
// returned by a prior call for the same query.
//
// Identical concurrent calls are coalesced into one network request, and a
// page fetched within the cache TTL is served without a network call. The
// returned error is always one of the three kinds: network (recoverable by
// caller retry), decode, or validation.
func (c *Client) FetchPage(ctx context.Context, query calendar.Query, cursor string) (*calendar.Page, error) {
	startTime := time.Now()
	outcome := "success"
	defer func() {
		ratecalRequestsTotal.WithLabelValues(outcome).Inc()
		ratecalRequestDuration.WithLabelValues(outcome).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: validate the request before spending a network call
	if err := query.Validate(); err != nil {
		outcome = "invalid"
		ratecalErrorsTotal.WithLabelValues(string(ErrorKindValidation)).Inc()
		return nil, ValidationError("invalid query", err)
	}

	key := cache.KeyForQuery(query, cursor)

	// Step 2: serve from cache when a fresh identical page exists
	page, err := c.cache.GetPage(ctx, key)
	if err == nil {
		outcome = "cache_hit"
		c.logger.Debug().
			Int64("property_id", query.PropertyID).
			Str("cursor", cursor).
			Msg("Serving page from cache")
		return page, nil
	}
	if err != cache.ErrCacheMiss {
		c.logger.Warn().Err(err).
			Int64("property_id", query.PropertyID).
			Msg("Cache get error")
	}

	// Step 3: coalesce with any identical in-flight fetch
	page, err, shared := c.flight.Do(ctx, key.String(), func() (*calendar.Page, error) {
		return c.fetchRemote(ctx, query, cursor, key)
	})
	if shared {
		ratecalCoalescedTotal.Inc()
	}
	if err != nil {
		outcome = "error"
		if kind := KindOf(err); kind != "" {
			ratecalErrorsTotal.WithLabelValues(string(kind)).Inc()
			return nil, err
		}
		// A waiter's context ended before the shared call finished.
		ratecalErrorsTotal.WithLabelValues(string(ErrorKindNetwork)).Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NetworkError("timeout", errors.Join(ErrTimeout, err))
		}
		return nil, NetworkError("request cancelled", err)
	}

	return page, nil
}

// fetchRemote performs the underlying network fetch for one page.
// Exactly one fetchRemote runs per in-flight key.
func (c *Client) fetchRemote(ctx context.Context, query calendar.Query, cursor string, key cache.Key) (*calendar.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	// Gate on the shared backend quota when tracking is enabled
	if c.limiter != nil {
		allowed, err := c.limiter.ShouldAllowRequest(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("Rate limit check failed")
			return nil, NetworkError("rate limit check failed", err)
		}
		if !allowed {
			c.logger.Warn().
				Int64("property_id", query.PropertyID).
				Msg("Request blocked by quota gate")
			return nil, NetworkError(ErrBlocked.Error(), ErrBlocked)
		}
	}

	req, err := c.buildRequest(ctx, query, cursor)
	if err != nil {
		return nil, ValidationError("build request", err)
	}

	c.logger.Debug().
		Int64("property_id", query.PropertyID).
		Str("start_date", query.StartDate.String()).
		Str("end_date", query.EndDate.String()).
		Str("cursor", cursor).
		Msg("Fetching rate-calendar page")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn().Err(err).
				Int64("property_id", query.PropertyID).
				Msg("Rate-calendar fetch timed out")
			return nil, NetworkError("timeout", errors.Join(ErrTimeout, err))
		}
		c.logger.Error().Err(err).
			Int64("property_id", query.PropertyID).
			Msg("Rate-calendar fetch failed")
		return nil, NetworkError("request failed", err)
	}
	defer resp.Body.Close()

	// Update the shared quota state from response headers
	if c.limiter != nil {
		if err := c.limiter.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update quota state from headers")
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.statusError(query, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NetworkError("read response body", err)
	}

	var page calendar.Page
	if err := json.Unmarshal(body, &page); err != nil {
		c.logger.Warn().Err(err).
			Int64("property_id", query.PropertyID).
			Msg("Rate-calendar response body not decodable")
		return nil, DecodeError("malformed response body", err)
	}

	// An invalid page must never be merged or cached
	if err := calendar.ValidatePage(query, &page); err != nil {
		c.logger.Warn().Err(err).
			Int64("property_id", query.PropertyID).
			Msg("Rate-calendar response violates invariants")
		return nil, ValidationError("invalid page", err)
	}

	if err := c.cache.SetPage(ctx, key, &page); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to cache page")
	} else {
		c.logger.Debug().
			Int64("property_id", query.PropertyID).
			Str("cursor", cursor).
			Str("next_cursor", page.NextCursor).
			Int("room_categories", len(page.RoomCategories)).
			Msg("Cached rate-calendar page")
	}

	return &page, nil
}

// buildRequest assembles the GET request for one page.
func (c *Client) buildRequest(ctx context.Context, query calendar.Query, cursor string) (*http.Request, error) {
	endpoint := fmt.Sprintf(c.config.BackendURL+assessmentPath, query.PropertyID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	params := req.URL.Query()
	params.Set("start_date", query.StartDate.String())
	params.Set("end_date", query.EndDate.String())
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	if fields := query.FieldsParam(); fields != "" {
		params.Set("fields", fields)
	}
	req.URL.RawQuery = params.Encode()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// statusError maps a non-200 response onto the error taxonomy: 5xx is a
// backend failure the caller may retry (network kind), 4xx means this
// request can never succeed unchanged (validation kind).
func (c *Client) statusError(query calendar.Query, resp *http.Response) error {
	// Bound the diagnostic read; error bodies are small.
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

	c.logger.Warn().
		Int64("property_id", query.PropertyID).
		Int("status", resp.StatusCode).
		Str("body", string(snippet)).
		Msg("Rate-calendar backend returned error status")

	e := &Error{
		StatusCode: resp.StatusCode,
		Message:    resp.Status,
	}
	if resp.StatusCode >= 500 {
		e.Kind = ErrorKindNetwork
	} else {
		e.Kind = ErrorKindValidation
	}
	return e
}

// isTimeout reports whether a transport error was caused by a deadline.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Cache returns the page cache manager (for testing and cache tooling).
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close releases client resources. The Redis client, when provided, is
// owned by the caller and is not closed here.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
