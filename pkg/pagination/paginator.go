package pagination

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rategrid/rate-calendar-client/pkg/calendar"
	"github.com/rategrid/rate-calendar-client/pkg/client"
)

// Config holds paginator configuration.
type Config struct {
	// MaxPages bounds a single pagination run. A backend that keeps issuing
	// fresh cursors past this bound is treated as misbehaving.
	MaxPages int
}

// DefaultConfig returns safe default configuration.
func DefaultConfig() Config {
	return Config{
		MaxPages: 1000,
	}
}

// PageFetcher is the single-page fetch contract the paginator drives.
// *client.Client implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, query calendar.Query, cursor string) (*calendar.Page, error)
}

// Paginator walks a cursor-paginated rate calendar page by page.
type Paginator struct {
	fetcher PageFetcher
	config  Config
}

// NewPaginator creates a new paginator.
func NewPaginator(fetcher PageFetcher, config Config) *Paginator {
	if config.MaxPages <= 0 {
		config.MaxPages = 1000
	}
	return &Paginator{
		fetcher: fetcher,
		config:  config,
	}
}

// Each fetches pages sequentially, following each page's NextCursor until a
// page carries none, and invokes fn for every page in fetch order. Cursor
// pagination is inherently sequential: each request needs the cursor from
// the previous response.
//
// A backend returning a cursor already seen in this run would loop forever;
// that is detected and fails the run with a validation-kind error instead.
func (p *Paginator) Each(ctx context.Context, query calendar.Query, fn func(pageNum int, page *calendar.Page) error) error {
	if err := query.Validate(); err != nil {
		return client.ValidationError("invalid query", err)
	}

	seen := make(map[string]struct{})
	cursor := ""

	for pageNum := 1; ; pageNum++ {
		if pageNum > p.config.MaxPages {
			return client.ValidationError("pagination run exceeded page bound", nil)
		}

		page, err := p.fetcher.FetchPage(ctx, query, cursor)
		if err != nil {
			return err
		}

		if err := fn(pageNum, page); err != nil {
			return err
		}

		if !page.HasMore() {
			return nil
		}

		next := page.NextCursor
		if _, dup := seen[next]; dup || next == cursor {
			log.Warn().
				Int64("property_id", query.PropertyID).
				Str("cursor", next).
				Int("page", pageNum).
				Msg("Backend repeated a pagination cursor")
			return client.ValidationError(client.ErrCursorLoop.Error(), client.ErrCursorLoop)
		}
		seen[next] = struct{}{}
		cursor = next
	}
}

// FetchAll runs a full pagination and concatenates the room categories of
// every page in fetch order. Category IDs must stay unique across the whole
// run; a duplicate fails with a validation-kind error and nothing is
// returned.
func (p *Paginator) FetchAll(ctx context.Context, query calendar.Query) ([]calendar.RoomCategoryCalendar, error) {
	start := time.Now()

	var categories []calendar.RoomCategoryCalendar
	seenIDs := make(map[int64]struct{})
	pages := 0

	err := p.Each(ctx, query, func(pageNum int, page *calendar.Page) error {
		pages = pageNum
		for _, rc := range page.RoomCategories {
			if _, dup := seenIDs[rc.ID]; dup {
				return client.ValidationError("duplicate room category id across pages", nil)
			}
			seenIDs[rc.ID] = struct{}{}
			categories = append(categories, rc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int64("property_id", query.PropertyID).
		Int("pages", pages).
		Int("room_categories", len(categories)).
		Dur("duration", time.Since(start)).
		Msg("Pagination run complete")

	return categories, nil
}
