// Package cache provides the layered response cache used to avoid repeated
// provider invocations for identical prompts.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from the given parts by hashing their concatenation.
// The version prefix invalidates old entries when the key scheme changes.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0}) // Separator so ("ab","c") != ("a","bc")
	}
	return "groundgen:v1:" + hex.EncodeToString(h.Sum(nil))
}
