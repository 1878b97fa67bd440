package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rategrid/rate-calendar-client/pkg/calendar"
)

const (
	// DefaultTTL bounds how long a fetched page may be served without a
	// fresh request. Calendar data changes on booking activity, so the
	// window is kept short.
	DefaultTTL = 120 * time.Second
)

// Manager handles page caching on top of a Store backend.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager creates a cache manager. A non-positive ttl selects DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if store == nil {
		panic("cache store cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		store: store,
		ttl:   ttl,
	}
}

// TTL returns the configured entry lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GetPage retrieves and decodes a cached page.
// Returns ErrCacheMiss if no fresh entry exists for the key.
func (m *Manager) GetPage(ctx context.Context, key Key) (*calendar.Page, error) {
	entry, err := m.store.Get(ctx, key.String())
	if err != nil {
		if err == ErrCacheMiss {
			CacheMisses.Inc()
			return nil, ErrCacheMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var page calendar.Page
	if err := json.Unmarshal(entry.Data, &page); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		// A corrupted entry must not satisfy future lookups.
		_ = m.store.Delete(ctx, key.String())
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}

	CacheHits.WithLabelValues(m.store.Layer()).Inc()
	return &page, nil
}

// SetPage encodes and stores a page under the key for the manager's TTL.
func (m *Manager) SetPage(ctx context.Context, key Key, page *calendar.Page) error {
	if page == nil {
		return fmt.Errorf("page cannot be nil")
	}

	data, err := json.Marshal(page)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal page: %w", err)
	}

	now := time.Now()
	entry := &Entry{
		Data:      data,
		CachedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.store.Set(ctx, key.String(), entry); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

// Delete removes the entry for a key.
func (m *Manager) Delete(ctx context.Context, key Key) error {
	if err := m.store.Delete(ctx, key.String()); err != nil {
		CacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}
