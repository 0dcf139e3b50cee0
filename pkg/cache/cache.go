// Package cache provides content-addressed, in-memory caching of filtered
// image outputs. The duotone transform is deterministic, so a hash of the
// source bytes is a sound key: identical inputs always filter to identical
// outputs. Entries live only for the lifetime of the process.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"
)

// Item represents one cached filter output
type Item struct {
	Data      []byte    // encoded output bytes
	Name      string    // output name
	CreatedAt time.Time // time when the cache entry was created
}

// Cache is an interface for caching systems
type Cache interface {
	Get(key string) (Item, bool)
	Set(key string, item Item) error
	Clear() error
	Size() (int, error)
}

// InMemoryCache is a simple in-memory cache for filtered images
type InMemoryCache struct {
	items map[string]Item
	mutex sync.Mutex
	ttl   time.Duration // Time to live for cache items; 0 means no expiry
}

// NewInMemoryCache creates a new in-memory cache with specified TTL
func NewInMemoryCache(ttl time.Duration) *InMemoryCache {
	return &InMemoryCache{
		items: make(map[string]Item),
		ttl:   ttl,
	}
}

// ImageHash generates a content hash for raw image bytes to use as a
// cache key
func ImageHash(data []byte) string {
	hash := md5.Sum(data)
	return hex.EncodeToString(hash[:])
}

// Get retrieves an item from the in-memory cache
func (c *InMemoryCache) Get(key string) (Item, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item, exists := c.items[key]
	if !exists {
		return Item{}, false
	}

	// Check if item has expired
	if c.ttl > 0 && time.Since(item.CreatedAt) > c.ttl {
		delete(c.items, key)
		return Item{}, false
	}

	return item, true
}

// Set adds an item to the in-memory cache, stamping its creation time
func (c *InMemoryCache) Set(key string, item Item) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	item.CreatedAt = time.Now()
	c.items[key] = item
	return nil
}

// Clear empties the in-memory cache
func (c *InMemoryCache) Clear() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[string]Item)
	return nil
}

// Size returns the number of items in the in-memory cache
func (c *InMemoryCache) Size() (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.items), nil
}
