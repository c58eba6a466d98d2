package config

import (
	"strings"
	"time"
)

// CacheConfig tunes the ranking response cache.  The ranking covers the
// seven days before today, so a cached answer is only good until the
// next local midnight; entries are keyed by day and expire then.  MaxTTL
// optionally caps that lifetime further.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	MaxTTL       time.Duration // 0 = until midnight
	KeyStrategy  string
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads the CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      map[string]bool{},
		MaxTTL:       envDur("CACHE_TTL", 0),
		KeyStrategy:  envStr("CACHE_KEY_STRATEGY", "route_query"),
		Prefix:       envStr("CACHE_PREFIX", "roomescape:rank"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
	for _, m := range strings.Split(envStr("CACHE_METHODS", "GET"), ",") {
		if m = strings.ToUpper(strings.TrimSpace(m)); m != "" {
			cfg.Methods[m] = true
		}
	}
	if cfg.MaxTTL < 0 {
		cfg.MaxTTL = 0
	}
	return cfg
}

// TTLAt is the lifetime of an entry written at now: the time left until
// the next midnight in now's location, capped by MaxTTL when set.
func (c CacheConfig) TTLAt(now time.Time) time.Duration {
	y, m, d := now.Date()
	ttl := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location()).Sub(now)
	if c.MaxTTL > 0 && c.MaxTTL < ttl {
		ttl = c.MaxTTL
	}
	return ttl
}
