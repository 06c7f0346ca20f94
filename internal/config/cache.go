package config

import "time"

// CacheConfig defines settings for the read cache in front of the
// leaderboard and statistics endpoints.  Entries are namespaced by a
// generation counter that every successful write bumps, so TTL only bounds
// memory use, not staleness.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
