package app

import (
	"strings"

	"github.com/ehomehq/ehome/internal/cache"
)

// Cache tier drivers accepted by cache.driver.
const (
	CacheDriverRedis     = "redis"
	CacheDriverMemcached = "memcached"
	CacheDriverLocal     = "local"
	CacheDriverDatabase  = "database"
)

// DriverName returns the normalised cache driver, defaulting to the database tier.
func (c CacheConfig) DriverName() string {
	switch driver := strings.ToLower(strings.TrimSpace(c.Driver)); driver {
	case CacheDriverRedis, CacheDriverMemcached, CacheDriverLocal:
		return driver
	default:
		return CacheDriverDatabase
	}
}

// RedisClientConfig converts the application cache configuration into the cache package representation.
func (c CacheConfig) RedisClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  strings.TrimSpace(c.Redis.Address),
		Username: strings.TrimSpace(c.Redis.Username),
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		TLS:      c.Redis.TLS,
		Timeout:  c.Redis.Timeout,
	}
}

// MemcachedClientConfig converts the memcached settings, dropping blank servers.
func (c CacheConfig) MemcachedClientConfig() cache.MemcachedConfig {
	servers := make([]string, 0, len(c.Memcached.Servers))
	for _, server := range c.Memcached.Servers {
		if server = strings.TrimSpace(server); server != "" {
			servers = append(servers, server)
		}
	}
	return cache.MemcachedConfig{
		Servers:      servers,
		Timeout:      c.Memcached.Timeout,
		MaxIdleConns: c.Memcached.MaxIdleConns,
	}
}
