// Package calendar defines the rate-calendar wire model: the query sent to
// the backend and the paginated page of room-category rate and availability
// data it returns, plus the invariant checks a page must pass before it may
// be merged into an accumulated result.
package calendar

import (
	"fmt"
	"strings"
)

// Query identifies one rate-calendar request: a property and a date range.
// A Query is immutable per fetch call; the pagination cursor travels
// separately so one Query can span a whole pagination run.
type Query struct {
	// PropertyID is the property to fetch the calendar for. Must be positive.
	PropertyID int64

	// StartDate is the first day of the requested range (inclusive).
	StartDate Date

	// EndDate is the last day of the requested range (inclusive).
	EndDate Date

	// Fields is an optional comma-joined projection hint forwarded to the
	// backend. It never affects correctness, only response size.
	Fields []string
}

// Validate checks the query constraints before any network call is made.
func (q Query) Validate() error {
	if q.PropertyID <= 0 {
		return fmt.Errorf("property_id must be positive (got %d)", q.PropertyID)
	}
	if q.StartDate.IsZero() || q.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required")
	}
	if q.StartDate.After(q.EndDate) {
		return fmt.Errorf("start_date %s is after end_date %s", q.StartDate, q.EndDate)
	}
	return nil
}

// FieldsParam returns the comma-separated fields projection, or "" when no
// projection was requested.
func (q Query) FieldsParam() string {
	return strings.Join(q.Fields, ",")
}

// Page is one page of a paginated rate-calendar response.
type Page struct {
	// RoomCategories is the ordered slice of categories in this page.
	// Category IDs are unique within a page.
	RoomCategories []RoomCategoryCalendar `json:"room_categories"`

	// NextCursor is the opaque token for the next page. Empty means the
	// pagination run is complete.
	NextCursor string `json:"next_cursor,omitempty"`
}

// HasMore reports whether another page follows this one.
func (p *Page) HasMore() bool {
	return p.NextCursor != ""
}

// RoomCategoryCalendar is the calendar data for one room category:
// per-day inventory plus the calendars of its rate plans.
type RoomCategoryCalendar struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Occupancy         int                `json:"occupancy"`
	InventoryCalendar []RoomInventory    `json:"inventory_calendar"`
	RatePlans         []RatePlanCalendar `json:"rate_plans"`
}

// RoomInventory is the availability of a room category on one day.
type RoomInventory struct {
	ID        int64 `json:"id"`
	Date      Date  `json:"date"`
	Available int   `json:"available"`
	Status    bool  `json:"status"`
	Booked    int   `json:"booked"`
}

// RatePlanCalendar is one rate plan with its per-day rate entries.
type RatePlanCalendar struct {
	ID       int64               `json:"id"`
	Name     string              `json:"name"`
	Calendar []RateCalendarEntry `json:"calendar"`
}

// RateCalendarEntry is the rate and booking restrictions for one day.
type RateCalendarEntry struct {
	ID                  int64   `json:"id"`
	Date                Date    `json:"date"`
	Rate                float64 `json:"rate"`
	MinLengthOfStay     int     `json:"min_length_of_stay"`
	ReservationDeadline int     `json:"reservation_deadline"`
}
