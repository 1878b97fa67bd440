package pagination

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/rategrid/rate-calendar-client/pkg/calendar"
)

// ErrSuperseded is returned to a load whose result was discarded because a
// newer load started for the same consumer before it finished.
var ErrSuperseded = errors.New("load superseded by newer request")

// Result is the outcome of one completed pagination run.
type Result struct {
	// Query is the parameter set the run was started with.
	Query calendar.Query

	// RoomCategories is the concatenation of all pages in fetch order.
	RoomCategories []calendar.RoomCategoryCalendar

	// Generation is the run's position in the loader's request sequence.
	Generation uint64
}

// Loader runs pagination for a single consumer with last-request-wins
// semantics: starting a new load cancels the previous run, and a run that
// finishes after being superseded has its result discarded. This keeps a
// consumer that changes parameters mid-flight (a new property or date
// range) from ever observing data for the old parameter set.
type Loader struct {
	paginator *Paginator

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewLoader creates a loader on top of a page fetcher.
func NewLoader(fetcher PageFetcher, config Config) *Loader {
	return &Loader{
		paginator: NewPaginator(fetcher, config),
	}
}

// Load runs a full pagination for query. If another Load starts before this
// one completes, this run is cancelled and returns ErrSuperseded.
func (l *Loader) Load(ctx context.Context, query calendar.Query) (*Result, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	defer cancel()

	categories, err := l.paginator.FetchAll(runCtx, query)

	// The most recent parameter set always wins: a stale run's outcome is
	// discarded even when it fetched successfully.
	if l.isStale(gen) {
		log.Debug().
			Int64("property_id", query.PropertyID).
			Uint64("generation", gen).
			Msg("Discarding superseded pagination run")
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	return &Result{
		Query:          query,
		RoomCategories: categories,
		Generation:     gen,
	}, nil
}

// Generation returns the sequence number of the most recent load.
func (l *Loader) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

func (l *Loader) isStale(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen != l.gen
}
