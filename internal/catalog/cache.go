package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// Fetcher is the subset of Client the cache needs; satisfied by *Client.
type Fetcher interface {
	GetAttributesForCategory(ctx context.Context, categoryID string) (Catalog, error)
}

type cacheEntry struct {
	catalog  Catalog
	loadedAt time.Time
}

// Cache is a TTL cache over the catalog client with per-category fetch
// deduplication. A category's attribute set is immutable for the duration of
// an edit session, so short TTLs are plenty.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration

	mu       sync.Mutex
	entries  map[string]cacheEntry
	inflight map[string]chan struct{}

	logger zerolog.Logger
}

// NewCache creates a catalog cache with the given TTL.
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		fetcher:  fetcher,
		ttl:      ttl,
		entries:  make(map[string]cacheEntry),
		inflight: make(map[string]chan struct{}),
		logger:   log.With().Str("component", "catalog_cache").Logger(),
	}
}

// Get returns the catalog for a category, fetching on miss or expiry.
// Concurrent requests for the same category share a single upstream fetch.
func (c *Cache) Get(ctx context.Context, categoryID string) (Catalog, error) {
	for {
		c.mu.Lock()
		if e, ok := c.entries[categoryID]; ok && time.Since(e.loadedAt) < c.ttl {
			c.mu.Unlock()
			return e.catalog, nil
		}
		if wait, ok := c.inflight[categoryID]; ok {
			c.mu.Unlock()
			select {
			case <-wait:
				continue
			case <-ctx.Done():
				return Catalog{}, ctx.Err()
			}
		}
		done := make(chan struct{})
		c.inflight[categoryID] = done
		c.mu.Unlock()

		cat, err := c.fetcher.GetAttributesForCategory(ctx, categoryID)

		c.mu.Lock()
		delete(c.inflight, categoryID)
		if err == nil {
			c.entries[categoryID] = cacheEntry{catalog: cat, loadedAt: time.Now()}
		}
		c.mu.Unlock()
		close(done)

		return cat, err
	}
}

// Invalidate drops a category from the cache.
func (c *Cache) Invalidate(categoryID string) {
	c.mu.Lock()
	delete(c.entries, categoryID)
	c.mu.Unlock()
}

// Warm prefetches a set of categories with bounded concurrency. Individual
// failures are logged and skipped; warming is best-effort.
func (c *Cache) Warm(ctx context.Context, categoryIDs []string, concurrency int) {
	if concurrency < 1 {
		concurrency = 3
	}
	sem := semaphore.NewWeighted(int64(concurrency))
	var wg sync.WaitGroup
	for _, id := range categoryIDs {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(categoryID string) {
			defer wg.Done()
			defer sem.Release(1)
			if _, err := c.Get(ctx, categoryID); err != nil {
				c.logger.Warn().Err(err).Str("category_id", categoryID).Msg("Catalog warmup failed")
			}
		}(id)
	}
	wg.Wait()
}
