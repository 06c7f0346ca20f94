package config

import "time"

// RateLimitConfig configures the Redis token bucket placed in front of the
// API.  Mutating endpoints (POST) draw from a separate, smaller bucket.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	WriteCapacity  int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables and clamps them to sane
// minimums.
func LoadRateLimitConfig() RateLimitConfig {
	c := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		WriteCapacity:  envInt("RATE_LIMIT_WRITE_CAPACITY", 20),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "rl"),
	}
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.WriteCapacity < 1 || c.WriteCapacity > c.Capacity {
		c.WriteCapacity = c.Capacity
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
	return c
}
