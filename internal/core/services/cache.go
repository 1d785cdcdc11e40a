package services

import (
	"sync"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// ResultCache maps result identifiers to resolved display metadata.
// Entries are only added or overwritten, never evicted; the cache lives as
// long as the process. Safe for concurrent use; concurrent writers of the
// same identifier are resolved last-writer-wins.
type ResultCache struct {
	mu    sync.RWMutex
	metas map[string]domain.ResultMeta
}

// NewResultCache creates an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{metas: make(map[string]domain.ResultMeta)}
}

// Get returns the cached meta for id.
func (c *ResultCache) Get(id string) (domain.ResultMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.metas[id]
	return meta, ok
}

// Put stores meta under its ID.
func (c *ResultCache) Put(meta domain.ResultMeta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metas[meta.ID] = meta
}

// Partition splits ids into cached metas and the distinct identifiers that
// are not cached yet, both in first-seen order.
func (c *ResultCache) Partition(ids []string) (hits map[string]domain.ResultMeta, misses []string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hits = make(map[string]domain.ResultMeta, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		if meta, ok := c.metas[id]; ok {
			hits[id] = meta
			continue
		}
		misses = append(misses, id)
	}
	return hits, misses
}

// Len returns the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.metas)
}
