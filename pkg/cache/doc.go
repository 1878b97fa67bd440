// Package cache provides short-lived caching of rate-calendar pages.
//
// The cache exists to absorb redundant fetches: an identical
// (query, cursor) request arriving again within the TTL window is served
// from the cache instead of hitting the backend. Keys cover the full
// request tuple including the pagination cursor and the fields projection.
//
// Two backends implement the Store interface:
//
//   - MemoryStore: in-process map, the default. Suited for the common case
//     of one client instance absorbing rapid identical refetches.
//   - RedisStore: shares entries across processes. Suited for fleets of
//     clients fronting the same backend.
//
// # Basic Usage
//
//	manager := cache.NewManager(cache.NewMemoryStore(), 0) // default TTL
//
//	key := cache.KeyForQuery(query, cursor)
//
//	page, err := manager.GetPage(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the backend, then:
//		// manager.SetPage(ctx, key, page)
//	}
//
// # Redis Backend
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(cache.NewRedisStore(redisClient), 120*time.Second)
//
// Expired entries are dropped lazily on access; the Redis backend
// additionally sets a key TTL so entries vanish without a reader.
package cache
