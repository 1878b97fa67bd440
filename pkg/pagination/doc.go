// Package pagination walks cursor-paginated rate-calendar responses.
//
// The backend returns pages with an opaque next_cursor token; supplying it
// on the next request continues the run, and its absence ends it. Cursors
// are compared only for equality, never interpreted.
//
// Example usage:
//
//	paginator := pagination.NewPaginator(ratecalClient, pagination.DefaultConfig())
//	categories, err := paginator.FetchAll(ctx, query)
//
// The paginator:
//   - Fetches pages strictly in cursor order (cursor pagination cannot be
//     parallelized: each request needs the previous response's cursor)
//   - Detects repeated cursors and fails the run instead of looping
//   - Enforces category-ID uniqueness across the accumulated run
//
// Loader adds last-request-wins semantics on top: each Load cancels the
// previous one, and a superseded run's result is discarded. This replaces
// the implicit cancellation a UI layer would otherwise need when the user
// switches property or date range mid-fetch.
package pagination
