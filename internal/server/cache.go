package server

import (
	"sync"
	"time"

	"github.com/mj1618/exportbot/internal/model"
)

// cacheKey identifies a unique window listing scope.
type cacheKey struct {
	Title string
	All   bool
}

// cacheEntry holds a cached window list with its timestamp.
type cacheEntry struct {
	windows   []model.Window
	timestamp time.Time
}

// WindowCache provides a TTL-based cache for window listings.
type WindowCache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewWindowCache creates a new cache. A ttl of 0 disables caching.
func NewWindowCache(ttl time.Duration) *WindowCache {
	return &WindowCache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Windows returns the cached list for (title, all) if within TTL, otherwise
// calls list and caches its result. Errors are not cached.
// The caller must hold the server mutex.
func (c *WindowCache) Windows(title string, all bool, list func(string, bool) ([]model.Window, error)) ([]model.Window, error) {
	if c.ttl == 0 {
		return list(title, all)
	}

	key := cacheKey{Title: title, All: all}

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.now().Sub(entry.timestamp) < c.ttl {
		windows := entry.windows
		c.mu.Unlock()
		return windows, nil
	}
	c.mu.Unlock()

	windows, err := list(title, all)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{windows: windows, timestamp: c.now()}
	c.mu.Unlock()

	return windows, nil
}

// InvalidateAll clears the entire cache. Activation and export change the
// foreground window, so both call it.
func (c *WindowCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]cacheEntry)
}
