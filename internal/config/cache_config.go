package config

import "time"

type CacheConfig interface {
	GetRedisAddr() string
	GetCacheTTL() time.Duration
	GetCachePrefix() string
}

type Cache struct{}

var _ CacheConfig = Cache{}

// GetRedisAddr returns the Redis address for the query cache. Empty selects the in-memory cache.
func (Cache) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Cache) GetCacheTTL() time.Duration {
	return GetDurationEnv("CACHE_TTL", 5*time.Minute)
}

func (Cache) GetCachePrefix() string {
	return GetEnv("CACHE_PREFIX", "pdpkitchen:query")
}
