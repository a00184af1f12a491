// Package cache keeps structured cause-list payloads so repeated checks for
// the same court and date do not call the remote service again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores opaque payloads with a TTL
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the request parts (endpoint, codes, date)
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return "causelist:v1:" + hex.EncodeToString(hash[:])
}
