package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for caller-side retry.
var (
	ratecalRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratecal_retries_total",
		Help: "Total number of retry attempts by error kind",
	}, []string{"kind"})

	ratecalRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ratecal_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error kind",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"kind"})

	ratecalRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ratecal_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error kind",
	}, []string{"kind"})
)

// Common errors returned by Retry.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = fmt.Errorf("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = fmt.Errorf("context cancelled")
)

// RetryConfig holds the configuration for caller-side retry.
//
// The client itself issues no implicit retries: a FetchPage failure is
// returned as-is. Retry is the policy helper for callers that want the
// conventional backoff treatment of network-kind failures.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first).
	MaxAttempts int

	// InitialBackoff is the initial backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Retry executes fn with exponential backoff on retryable failures.
// Decode- and validation-kind errors are returned immediately: repeating
// the identical request cannot change their outcome. Jitter (±20%) is
// applied to each backoff to avoid thundering-herd refetches.
func Retry(ctx context.Context, config RetryConfig, fn func(ctx context.Context) error) error {
	if config.MaxAttempts <= 0 {
		config = DefaultRetryConfig()
	}

	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			if attempt > 1 {
				log.Info().
					Int("attempt", attempt).
					Msg("Fetch succeeded after retry")
			}
			return nil
		}

		lastErr = err
		kind := KindOf(err)

		if !Retryable(err) {
			return lastErr
		}

		// If this was the last attempt, don't wait
		if attempt >= config.MaxAttempts {
			break
		}

		ratecalRetriesTotal.WithLabelValues(string(kind)).Inc()

		// Add jitter (±20% randomness)
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		ratecalRetryBackoffSeconds.WithLabelValues(string(kind)).Observe(jitter.Seconds())

		log.Debug().
			Str("kind", string(kind)).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying fetch after backoff")

		select {
		case <-ctx.Done():
			log.Warn().
				Str("kind", string(kind)).
				Int("attempt", attempt).
				Msg("Context cancelled during retry backoff")
			return fmt.Errorf("%w: %v", ErrContextCancelled, ctx.Err())
		case <-time.After(jitter):
		}

		backoff = time.Duration(float64(backoff) * config.BackoffMultiplier)
		if backoff > config.MaxBackoff {
			backoff = config.MaxBackoff
		}
	}

	kind := KindOf(lastErr)
	ratecalRetryExhaustedTotal.WithLabelValues(string(kind)).Inc()
	log.Warn().
		Str("kind", string(kind)).
		Int("max_attempts", config.MaxAttempts).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %v", ErrRetryExhausted, config.MaxAttempts, lastErr)
}
