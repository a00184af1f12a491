package cache

import (
	"time"

	"go.uber.org/zap"
)

// LayeredCache reads memory first, then disk, and writes both
type LayeredCache struct {
	memory Cache
	disk   Cache
}

// NewLayeredCache creates a memory + disk cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration) *LayeredCache {
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
	}
}

// Get checks memory, then disk, promoting disk hits into memory
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	val, found := c.disk.Get(key)
	if !found {
		return nil, false
	}
	_ = c.memory.Set(key, val, 0)
	return val, true
}

// Set writes memory and disk. A disk failure is logged and the memory entry kept.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	if err := c.disk.Set(key, value, ttl); err != nil {
		zap.L().Warn("disk cache write failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes the key from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear empties both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}
