// Package cache provides caching utilities for the HAR server.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/harkit/pkg/har"
)

// Stamp identifies one version of an archive file on disk.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

type cached struct {
	stamp   Stamp
	archive *har.HAR
}

// ArchiveCache provides thread-safe LRU caching of loaded archives keyed by
// file path. A cached archive is only returned while its file is unchanged.
type ArchiveCache struct {
	cache *lru.Cache[string, cached]
}

// NewArchiveCache creates a new LRU cache with the specified maximum number of items.
func NewArchiveCache(maxItems int) (*ArchiveCache, error) {
	c, err := lru.New[string, cached](maxItems)
	if err != nil {
		return nil, err
	}
	return &ArchiveCache{cache: c}, nil
}

// Get returns the archive cached for path if it was stored with the same stamp.
// A stale entry is evicted.
func (c *ArchiveCache) Get(path string, stamp Stamp) (*har.HAR, bool) {
	v, ok := c.cache.Get(path)
	if !ok {
		return nil, false
	}
	if !v.stamp.ModTime.Equal(stamp.ModTime) || v.stamp.Size != stamp.Size {
		c.cache.Remove(path)
		return nil, false
	}
	return v.archive, true
}

// Put adds or updates an archive in the cache.
func (c *ArchiveCache) Put(path string, stamp Stamp, archive *har.HAR) {
	c.cache.Add(path, cached{stamp: stamp, archive: archive})
}

// Remove drops path from the cache.
func (c *ArchiveCache) Remove(path string) {
	c.cache.Remove(path)
}

// Len returns the current number of items in the cache.
func (c *ArchiveCache) Len() int {
	return c.cache.Len()
}
