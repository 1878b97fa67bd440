// Command calendar-proxy exposes the rate-calendar client as a small HTTP
// service: it forwards assessment requests to the backend through the caching
// client and serves health and Prometheus metrics endpoints.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rategrid/rate-calendar-client/pkg/calendar"
	"github.com/rategrid/rate-calendar-client/pkg/client"
	"github.com/rategrid/rate-calendar-client/pkg/logging"
	"github.com/rategrid/rate-calendar-client/pkg/pagination"
)

const assessmentPrefix = "/api/v1/property/"

func main() {
	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "") == "true",
		Output: os.Stderr,
	})

	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		logger.Fatal().Msg("BACKEND_URL is required")
	}
	redisURL := getEnv("REDIS_URL", "")
	port := getEnv("PORT", "8080")
	userAgent := getEnv("USER_AGENT", "calendar-proxy/0.1.0")

	cfg := client.DefaultConfig(backendURL)
	cfg.UserAgent = userAgent

	var redisClient *redis.Client
	if redisURL != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr: redisURL,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("redis_url", redisURL).Msg("Connected to Redis")
		cfg.Redis = redisClient
	}

	calClient, err := client.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create rate-calendar client")
	}
	defer calClient.Close()

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/ready", readyHandler(redisClient))
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc(assessmentPrefix, assessmentHandler(calClient, logger))

	addr := ":" + port
	logger.Info().
		Str("addr", addr).
		Str("backend_url", backendURL).
		Str("user_agent", userAgent).
		Msg("Starting calendar proxy")

	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports readiness. Without Redis the proxy is always ready;
// with Redis it must be reachable.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// assessmentHandler serves rate-calendar assessment requests through the
// caching client. With all=true the full cursor walk is performed and the
// concatenated categories are returned; otherwise a single page is fetched
// and its next_cursor passed through.
func assessmentHandler(calClient *client.Client, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseAssessmentRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		if r.URL.Query().Get("all") == "true" {
			paginator := pagination.NewPaginator(calClient, pagination.DefaultConfig())
			categories, err := paginator.FetchAll(ctx, query)
			if err != nil {
				writeFetchError(w, logger, err)
				return
			}
			writeJSON(w, logger, calendar.Page{RoomCategories: categories})
			return
		}

		page, err := calClient.FetchPage(ctx, query, r.URL.Query().Get("cursor"))
		if err != nil {
			writeFetchError(w, logger, err)
			return
		}
		writeJSON(w, logger, page)
	}
}

// parseAssessmentRequest extracts the calendar query from a request path of
// the form /api/v1/property/{id}/rate-calendar/assessment.
func parseAssessmentRequest(r *http.Request) (calendar.Query, error) {
	rest, ok := strings.CutPrefix(r.URL.Path, assessmentPrefix)
	if !ok {
		return calendar.Query{}, fmt.Errorf("unknown path")
	}
	idStr, tail, ok := strings.Cut(rest, "/")
	if !ok || tail != "rate-calendar/assessment" {
		return calendar.Query{}, fmt.Errorf("unknown path")
	}
	propertyID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return calendar.Query{}, fmt.Errorf("invalid property id %q", idStr)
	}

	params := r.URL.Query()
	startDate, err := calendar.ParseDate(params.Get("start_date"))
	if err != nil {
		return calendar.Query{}, fmt.Errorf("invalid start_date: %v", err)
	}
	endDate, err := calendar.ParseDate(params.Get("end_date"))
	if err != nil {
		return calendar.Query{}, fmt.Errorf("invalid end_date: %v", err)
	}

	var fields []string
	if raw := params.Get("fields"); raw != "" {
		fields = strings.Split(raw, ",")
	}

	return calendar.Query{
		PropertyID: propertyID,
		StartDate:  startDate,
		EndDate:    endDate,
		Fields:     fields,
	}, nil
}

// writeFetchError maps the client error taxonomy onto HTTP statuses.
func writeFetchError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	status := http.StatusBadGateway
	if client.IsValidation(err) {
		status = http.StatusBadRequest
	}
	logger.Warn().Err(err).Int("status", status).Msg("Assessment request failed")
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to write response")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
