package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/factify/factify/internal/model"
)

// VerdictCache holds recent verdicts keyed by claim text so repeated
// checks of the same selection skip the adapter round trip.
type VerdictCache interface {
	Get(key string) (model.Verdict, bool)
	Set(key string, verdict model.Verdict)
}

// Key builds a stable cache key from the claim text
func Key(text string) string {
	hash := sha256.Sum256([]byte(text))
	return "factify:v1:" + hex.EncodeToString(hash[:])
}

// MemoryCache is an in-process TTL cache
type MemoryCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryCache creates a memory cache with the given TTL
func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get retrieves a cached verdict
func (c *MemoryCache) Get(key string) (model.Verdict, bool) {
	if val, found := c.cache.Get(key); found {
		return val.(model.Verdict), true
	}
	return model.Verdict{}, false
}

// Set stores a verdict until the TTL elapses
func (c *MemoryCache) Set(key string, verdict model.Verdict) {
	c.cache.Set(key, verdict, c.ttl)
}
