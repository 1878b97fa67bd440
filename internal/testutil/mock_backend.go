// Package testutil provides testing utilities for the rate-calendar client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"time"

	"github.com/rategrid/rate-calendar-client/pkg/calendar"
)

// MockResponse defines the behavior for a mock backend response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockBackend is a configurable mock property-management backend serving
// cursor-paginated rate-calendar responses.
type MockBackend struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	pages    map[string]map[string]MockResponse // path -> cursor -> response

	// Tracking
	RequestCount int
	LastQuery    url.Values
	LastHeader   http.Header
}

// NewMockBackend creates a new mock backend server.
func NewMockBackend() *MockBackend {
	mock := &MockBackend{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		pages:    make(map[string]map[string]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = r.URL.Query()
		mock.LastHeader = r.Header.Clone()
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockBackend) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBackend) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockBackend) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastQuery = nil
	m.LastHeader = nil
}

// AssessmentPath returns the rate-calendar endpoint path for a property.
func AssessmentPath(propertyID int64) string {
	return fmt.Sprintf("/api/v1/property/%d/rate-calendar/assessment", propertyID)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockBackend) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path, regardless of cursor.
func (m *MockBackend) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetPage registers the response served for one cursor of a property's
// pagination run. Cursor "" is the first page.
func (m *MockBackend) SetPage(propertyID int64, cursor string, resp MockResponse) {
	path := AssessmentPath(propertyID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pages[path] == nil {
		m.pages[path] = make(map[string]MockResponse)
	}
	m.pages[path][cursor] = resp
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockBackend) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// defaultHandler serves registered cursor pages, or 404 for unknown paths.
func (m *MockBackend) defaultHandler(w http.ResponseWriter, r *http.Request) {
	cursor := r.URL.Query().Get("cursor")

	m.mu.RLock()
	pages, pathKnown := m.pages[r.URL.Path]
	var resp MockResponse
	var cursorKnown bool
	if pathKnown {
		resp, cursorKnown = pages[cursor]
	}
	m.mu.RUnlock()

	if !pathKnown {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "property not found"}`))
		return
	}
	if !cursorKnown {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "unknown cursor"}`))
		return
	}

	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewPageResponse creates a standard 200 OK page response with quota headers.
func NewPageResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"X-RateLimit-Remaining": "100",
			"X-RateLimit-Reset":     "60",
			"Content-Type":          "application/json; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewBadRequestResponse creates a 400 Bad Request response.
func NewBadRequestResponse(message string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadRequest,
		Body:       fmt.Sprintf(`{"error": %q}`, message),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// PageJSON builds a valid page body: one room category per id, each
// carrying daily inventory and one rate plan covering [start, end].
func PageJSON(start, end calendar.Date, categoryIDs []int64, nextCursor string) string {
	page := calendar.Page{NextCursor: nextCursor}

	for _, id := range categoryIDs {
		category := calendar.RoomCategoryCalendar{
			ID:        id,
			Name:      fmt.Sprintf("Room Category %d", id),
			Occupancy: 2,
		}
		plan := calendar.RatePlanCalendar{
			ID:   id*1000 + 1,
			Name: "Best Available Rate",
		}

		days := start.DaysUntil(end)
		for i := 0; i <= days; i++ {
			date := start.AddDays(i)
			category.InventoryCalendar = append(category.InventoryCalendar, calendar.RoomInventory{
				ID:        id*100000 + int64(i),
				Date:      date,
				Available: 5,
				Status:    true,
				Booked:    2,
			})
			plan.Calendar = append(plan.Calendar, calendar.RateCalendarEntry{
				ID:                  id*200000 + int64(i),
				Date:                date,
				Rate:                119.00,
				MinLengthOfStay:     1,
				ReservationDeadline: 0,
			})
		}

		category.RatePlans = []calendar.RatePlanCalendar{plan}
		page.RoomCategories = append(page.RoomCategories, category)
	}

	data, err := json.Marshal(&page)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// SeedMarchCalendar registers the canonical three-page March run for a
// property: days 1-10 with cursor "11", days 11-20 with cursor "21", and
// days 21-31 ending the run. Together the pages cover 31 distinct dates
// with no gaps or overlaps.
func SeedMarchCalendar(m *MockBackend, propertyID int64) {
	m.SetPage(propertyID, "", NewPageResponse(PageJSON(
		calendar.MustParseDate("2025-03-01"), calendar.MustParseDate("2025-03-10"), []int64{1}, "11")))
	m.SetPage(propertyID, "11", NewPageResponse(PageJSON(
		calendar.MustParseDate("2025-03-11"), calendar.MustParseDate("2025-03-20"), []int64{2}, "21")))
	m.SetPage(propertyID, "21", NewPageResponse(PageJSON(
		calendar.MustParseDate("2025-03-21"), calendar.MustParseDate("2025-03-31"), []int64{3}, "")))
}
