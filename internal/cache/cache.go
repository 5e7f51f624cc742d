// Package cache keeps rendered scene artifacts in memory so the preview
// server re-renders only when the scene file actually changes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"
)

// Cache stores artifacts keyed by a content hash
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	maxSize  int64 // Maximum cache size in bytes
	maxAge   time.Duration
	strategy EvictionStrategy
	stats    Stats
	now      func() time.Time
}

// Entry is a single cached artifact
type Entry struct {
	Key         string
	Data        []byte
	Created     time.Time
	LastAccess  time.Time
	AccessCount int
}

// Stats tracks cache performance
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

// EvictionStrategy defines how cache entries are removed
type EvictionStrategy int

const (
	// LRU removes least recently used entries
	LRU EvictionStrategy = iota
	// LFU removes least frequently used entries
	LFU
	// FIFO removes oldest entries first
	FIFO
)

// Config holds cache configuration
type Config struct {
	MaxSize  int64            // Maximum cache size in bytes; 0 means no limit
	MaxAge   time.Duration    // Maximum age for entries; 0 means no expiry
	Strategy EvictionStrategy // Eviction strategy (default: LRU)
}

// DefaultConfig returns the configuration the preview server uses
func DefaultConfig() Config {
	return Config{
		MaxSize:  32 << 20, // 32 MB
		MaxAge:   10 * time.Minute,
		Strategy: LRU,
	}
}

// New creates an empty cache
func New(config Config) *Cache {
	return &Cache{
		entries:  make(map[string]*Entry),
		maxSize:  config.MaxSize,
		maxAge:   config.MaxAge,
		strategy: config.Strategy,
		now:      time.Now,
	}
}

// Get retrieves a cached artifact
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	if c.isExpired(entry) {
		c.removeLocked(key)
		c.stats.Misses++
		return nil, false
	}

	entry.LastAccess = c.now()
	entry.AccessCount++
	c.stats.Hits++
	return entry.Data, true
}

// Put stores an artifact, evicting others when the size limit is hit.
// An artifact larger than the whole cache is not stored.
func (c *Cache) Put(key string, data []byte) error {
	size := int64(len(data))
	if c.maxSize > 0 && size > c.maxSize {
		return fmt.Errorf("artifact %s is %d bytes, cache holds %d", key, size, c.maxSize)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(key)
	c.ensureSpace(size)

	now := c.now()
	c.entries[key] = &Entry{
		Key:        key,
		Data:       data,
		Created:    now,
		LastAccess: now,
	}
	c.stats.TotalSize += size
	c.stats.EntryCount = len(c.entries)
	return nil
}

// Delete removes an entry from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(key)
}

// Clear removes all cached entries and resets the statistics
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	c.stats = Stats{}
}

// GetStats returns cache statistics
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Key generates a cache key from inputs
func Key(inputs ...string) string {
	h := sha256.New()
	for _, input := range inputs {
		h.Write([]byte(input))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// KeyFromFiles generates a cache key from file contents
func KeyFromFiles(files ...string) (string, error) {
	h := sha256.New()
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", file, err)
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (c *Cache) isExpired(entry *Entry) bool {
	if c.maxAge <= 0 {
		return false
	}
	return c.now().Sub(entry.Created) > c.maxAge
}

func (c *Cache) removeLocked(key string) {
	entry, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	c.stats.TotalSize -= int64(len(entry.Data))
	c.stats.EntryCount = len(c.entries)
}

func (c *Cache) ensureSpace(needed int64) {
	if c.maxSize <= 0 {
		return
	}

	for c.stats.TotalSize+needed > c.maxSize && len(c.entries) > 0 {
		var victim *Entry

		for _, entry := range c.entries {
			if victim == nil {
				victim = entry
				continue
			}
			switch c.strategy {
			case LFU:
				if entry.AccessCount < victim.AccessCount {
					victim = entry
				}
			case FIFO:
				if entry.Created.Before(victim.Created) {
					victim = entry
				}
			default:
				if entry.LastAccess.Before(victim.LastAccess) {
					victim = entry
				}
			}
		}

		c.removeLocked(victim.Key)
		c.stats.Evictions++
	}
}
