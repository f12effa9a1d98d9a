package extractor

import (
	"sync"

	"dealtrack/internal/types"
)

// VariantCache stores the last computed VariantInfo per page URL. Each
// successful extraction overwrites the entry for its URL; there is no expiry,
// the cache lives as long as the Extractor that owns it. Guarded by a lock so
// a single Extractor can safely back the HTTP API.
type VariantCache struct {
	mu      sync.RWMutex
	entries map[string]*types.VariantInfo
}

// NewVariantCache creates an empty cache
func NewVariantCache() *VariantCache {
	return &VariantCache{
		entries: make(map[string]*types.VariantInfo),
	}
}

// Get returns the cached VariantInfo for a URL, if any
func (c *VariantCache) Get(url string) (*types.VariantInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.entries[url]
	return info, ok
}

// Set stores the VariantInfo for a URL, replacing any previous entry
func (c *VariantCache) Set(url string, info *types.VariantInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = info
}

// Clear drops all entries
func (c *VariantCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*types.VariantInfo)
}

// Len returns the number of cached URLs
func (c *VariantCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
