package cache

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rategrid/rate-calendar-client/pkg/calendar"
)

// Key identifies one cached rate-calendar page. The key covers the full
// request tuple including the pagination cursor: two requests that differ
// only in cursor are different pages and must never share an entry.
type Key struct {
	// PropertyID is the property the page belongs to.
	PropertyID int64

	// StartDate and EndDate are the requested range (inclusive).
	StartDate calendar.Date
	EndDate   calendar.Date

	// Cursor is the opaque pagination token ("" for the first page).
	Cursor string

	// Fields is the projection hint. A different projection is a different
	// response body, so it is part of the key.
	Fields []string
}

// KeyForQuery builds the cache key for a query/cursor pair.
func KeyForQuery(q calendar.Query, cursor string) Key {
	return Key{
		PropertyID: q.PropertyID,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Cursor:     cursor,
		Fields:     q.Fields,
	}
}

// String generates a deterministic cache key string.
// Format: ratecal:property=42:start=2025-03-01:end=2025-03-31:cursor=11:fields=a,b
//
// The cursor part is omitted for first-page requests and the fields part is
// omitted when no projection was requested.
func (k Key) String() string {
	parts := []string{
		"ratecal",
		fmt.Sprintf("property=%d", k.PropertyID),
		fmt.Sprintf("start=%s", k.StartDate),
		fmt.Sprintf("end=%s", k.EndDate),
	}

	if k.Cursor != "" {
		parts = append(parts, fmt.Sprintf("cursor=%s", k.Cursor))
	}

	if len(k.Fields) > 0 {
		fields := make([]string, len(k.Fields))
		copy(fields, k.Fields)
		sort.Strings(fields)
		parts = append(parts, fmt.Sprintf("fields=%s", strings.Join(fields, ",")))
	}

	return strings.Join(parts, ":")
}
