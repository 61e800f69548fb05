package server

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sartorproj/sunspots/timeseries"
)

// Loader reads a series from a file.
type Loader func(path string) (*timeseries.Series, error)

type cacheEntry struct {
	modTime time.Time
	size    int64
	series  *timeseries.Series
}

// Cache memoises loaded series keyed by file path and modification time.
// A changed file is reloaded on the next Get; entries never cross files.
type Cache struct {
	load    Loader
	observe func(hit bool)

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates a cache backed by load. observe, when non-nil, is told
// about every hit and miss.
func NewCache(load Loader, observe func(hit bool)) *Cache {
	return &Cache{
		load:    load,
		observe: observe,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the series stored at path, loading it when it is not cached
// or the file changed since it was cached.
func (c *Cache) Get(path string) (*timeseries.Series, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		key = filepath.Clean(path)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		delete(c.entries, key)
		c.record(false)
		// The loader reports the error in its own terms.
		return c.load(path)
	}

	if e, ok := c.entries[key]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		c.record(true)
		return e.series, nil
	}

	c.record(false)
	series, err := c.load(path)
	if err != nil {
		delete(c.entries, key)
		return nil, err
	}
	c.entries[key] = cacheEntry{modTime: info.ModTime(), size: info.Size(), series: series}
	return series, nil
}

// Invalidate drops every entry.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) record(hit bool) {
	if c.observe != nil {
		c.observe(hit)
	}
}
