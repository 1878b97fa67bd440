package client

import (
	"context"
	"sync"

	"github.com/rategrid/rate-calendar-client/pkg/calendar"
)

// flightCall is one in-progress fetch shared by every caller that asked for
// the same key while it was in flight.
type flightCall struct {
	done chan struct{}
	page *calendar.Page
	err  error
}

// flightGroup coalesces concurrent fetches for identical (query, cursor)
// keys into one underlying network call. The slot is removed as soon as the
// call completes, so a timeout never blocks a later retry.
type flightGroup struct {
	mu    sync.Mutex
	calls map[string]*flightCall
}

func newFlightGroup() *flightGroup {
	return &flightGroup{
		calls: make(map[string]*flightCall),
	}
}

// Do executes fn for key, or waits on an already in-flight execution.
// All coalesced callers receive the same page and error. The returned bool
// is true when the result came from another caller's execution.
//
// A waiter whose own context ends before the shared call completes gets its
// context error; the in-flight call itself is not cancelled, because other
// waiters may still want the result.
func (g *flightGroup) Do(ctx context.Context, key string, fn func() (*calendar.Page, error)) (*calendar.Page, error, bool) {
	g.mu.Lock()
	if c, ok := g.calls[key]; ok {
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.page, c.err, true
		case <-ctx.Done():
			return nil, ctx.Err(), true
		}
	}

	c := &flightCall{done: make(chan struct{})}
	g.calls[key] = c
	g.mu.Unlock()

	c.page, c.err = fn()

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()
	close(c.done)

	return c.page, c.err, false
}

// InFlight returns the number of keys currently being fetched.
func (g *flightGroup) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}
