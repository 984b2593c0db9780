package config

import (
	"time"
)

// CacheConfig controls the Redis response cache wrapped around the
// public GET endpoints (search and the map feed). Caching lives at the
// HTTP layer only; the repositories always read the store directly.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads cache settings from the environment. The short
// default TTL keeps freshly approved claims visible on the map within
// half a minute.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
