package pagination

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rategrid/rate-calendar-client/pkg/calendar"
)

// gatedFetcher delegates to an inner fetcher but holds back the first
// run's final-page fetch until released or that run is cancelled. It lets
// a test finish a run "successfully" only after a newer run has started.
type gatedFetcher struct {
	inner   *stubFetcher
	release chan struct{}
	started atomic.Int32

	mu       sync.Mutex
	firstCtx context.Context
}

func (g *gatedFetcher) FetchPage(ctx context.Context, query calendar.Query, cursor string) (*calendar.Page, error) {
	g.mu.Lock()
	if g.firstCtx == nil {
		g.firstCtx = ctx
	}
	isFirstRun := ctx == g.firstCtx
	g.mu.Unlock()

	g.started.Add(1)
	page, err := g.inner.FetchPage(ctx, query, cursor)
	if err != nil {
		return nil, err
	}
	if !page.HasMore() && isFirstRun {
		select {
		case <-g.release:
		case <-ctx.Done():
			// Cancelled by a newer run; return the page anyway so this run
			// completes and its staleness check decides the outcome.
		}
	}
	return page, nil
}

func TestLoader_Load(t *testing.T) {
	loader := NewLoader(marchFetcher(), DefaultConfig())

	result, err := loader.Load(context.Background(), marchQuery())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(result.RoomCategories) != 3 {
		t.Errorf("RoomCategories = %d, want 3", len(result.RoomCategories))
	}
	if result.Generation != 1 {
		t.Errorf("Generation = %d, want 1", result.Generation)
	}
	if result.Query.PropertyID != 42 {
		t.Errorf("Query.PropertyID = %d, want 42", result.Query.PropertyID)
	}
}

func TestLoader_LastRequestWins(t *testing.T) {
	// The first run blocks inside its first fetch until its context is
	// cancelled by the second run starting.
	block := make(chan struct{})
	slow := marchFetcher()
	slow.block = block

	loader := NewLoader(slow, DefaultConfig())

	firstDone := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(), marchQuery())
		firstDone <- err
	}()

	// Wait for the first run to enter its fetch
	deadline := time.After(time.Second)
	for len(slow.fetchedCursors()) == 0 {
		select {
		case <-deadline:
			t.Fatal("first load never started fetching")
		case <-time.After(time.Millisecond):
		}
	}

	// Second load for a different range supersedes the first
	slow.mu.Lock()
	slow.block = nil
	slow.mu.Unlock()

	newQuery := calendar.Query{
		PropertyID: 42,
		StartDate:  calendar.MustParseDate("2025-03-01"),
		EndDate:    calendar.MustParseDate("2025-03-31"),
	}
	result, err := loader.Load(context.Background(), newQuery)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if result.Generation != 2 {
		t.Errorf("Generation = %d, want 2", result.Generation)
	}

	select {
	case err := <-firstDone:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("first load error = %v, want ErrSuperseded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("first load did not finish after being superseded")
	}
}

func TestLoader_StaleSuccessDiscarded(t *testing.T) {
	// A run that fetches successfully but finishes after a newer run
	// started must still be discarded.
	release := make(chan struct{})
	gate := &gatedFetcher{inner: marchFetcher(), release: release}
	loader := NewLoader(gate, DefaultConfig())

	firstDone := make(chan error, 1)
	go func() {
		_, err := loader.Load(context.Background(), marchQuery())
		firstDone <- err
	}()

	// Let the first run finish all fetches but hold its last page back
	// until a newer generation exists.
	deadline := time.After(time.Second)
	for gate.started.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("first load never started")
		case <-time.After(time.Millisecond):
		}
	}

	if _, err := loader.Load(context.Background(), marchQuery()); err != nil && !errors.Is(err, ErrSuperseded) {
		t.Fatalf("second Load failed: %v", err)
	}
	close(release)

	select {
	case err := <-firstDone:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("first load error = %v, want ErrSuperseded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("first load did not finish")
	}
}

func TestLoader_GenerationIncrements(t *testing.T) {
	loader := NewLoader(marchFetcher(), DefaultConfig())
	ctx := context.Background()

	if loader.Generation() != 0 {
		t.Errorf("initial Generation = %d, want 0", loader.Generation())
	}
	_, _ = loader.Load(ctx, marchQuery())
	_, _ = loader.Load(ctx, marchQuery())
	if loader.Generation() != 2 {
		t.Errorf("Generation = %d, want 2", loader.Generation())
	}
}
