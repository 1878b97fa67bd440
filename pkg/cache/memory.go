package cache

import (
	"context"
	"sync"
)

// MemoryStore is the default in-process store. It exists to absorb
// identical refetches arriving at re-render speed, so a network round-trip
// per lookup would defeat its purpose.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*Entry),
	}
}

// Get retrieves an entry. Expired entries are removed lazily on access.
func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}

	if entry.IsExpired() {
		s.mu.Lock()
		// Re-check under write lock: a concurrent Set may have replaced it.
		if current, ok := s.entries[key]; ok && current.IsExpired() {
			delete(s.entries, key)
			cacheEntries.WithLabelValues(s.Layer()).Set(float64(len(s.entries)))
		}
		s.mu.Unlock()
		return nil, ErrCacheMiss
	}

	return entry, nil
}

// Set stores an entry. Entries that are already expired are dropped.
func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}
	if entry.TTL() <= 0 {
		return nil
	}

	s.mu.Lock()
	s.entries[key] = entry
	cacheEntries.WithLabelValues(s.Layer()).Set(float64(len(s.entries)))
	s.mu.Unlock()

	return nil
}

// Delete removes an entry.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	cacheEntries.WithLabelValues(s.Layer()).Set(float64(len(s.entries)))
	s.mu.Unlock()
	return nil
}

// Layer identifies this store in metrics.
func (s *MemoryStore) Layer() string {
	return "memory"
}

// Len returns the number of stored entries, including any not yet swept.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
