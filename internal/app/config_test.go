package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ehomehq/ehome/internal/auth"
	"github.com/ehomehq/ehome/internal/cache"
	"github.com/ehomehq/ehome/internal/database"
	"github.com/ehomehq/ehome/internal/services"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "console", cfg.Server.LogFormat)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5432, cfg.Database.Postgres.Port)

	require.Equal(t, CacheDriverMemcached, cfg.Cache.DriverName())
	require.Equal(t, []string{"cache-a:11211", "cache-b:11211"}, cfg.Cache.Memcached.Servers)
	require.Equal(t, 250*time.Millisecond, cfg.Cache.Memcached.Timeout)
	require.Equal(t, 2*time.Second, cfg.Cache.Redis.Timeout)

	require.Equal(t, 30*time.Minute, cfg.Listing.SearchTTL)
	require.Equal(t, 2*time.Hour, cfg.Listing.AreaTTL)
	require.Equal(t, 10, cfg.Listing.PageCapacity)
	require.Equal(t, 5, cfg.Listing.HomePageMaxHouses)
	require.Equal(t, "https://img.example.com/", cfg.Listing.ImageURLPrefix)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "accounts", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, "*/15 * * * *", cfg.Maintenance.CachePurgeSchedule)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/ehome.sqlite", cfg.Database.Path)
	require.Equal(t, CacheDriverRedis, cfg.Cache.DriverName())
	require.Equal(t, "127.0.0.1:6379", cfg.Cache.Redis.Address)
	require.Equal(t, int64(10000), cfg.Cache.Local.MaxSize)
	require.Equal(t, 2*time.Hour, cfg.Listing.DetailTTL)
	require.Equal(t, 2, cfg.Listing.PageCapacity)
	require.Equal(t, "@hourly", cfg.Maintenance.CachePurgeSchedule)
	require.True(t, cfg.Monitoring.Health.Enabled)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("EHOME_SERVER_PORT", "7001")
	t.Setenv("EHOME_CACHE_DRIVER", "local")
	t.Setenv("EHOME_LISTING_HOME_TTL", "15m")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 7001, cfg.Server.Port)
	require.Equal(t, CacheDriverLocal, cfg.Cache.DriverName())
	require.Equal(t, 15*time.Minute, cfg.Listing.HomeTTL)
}

func TestCacheDriverName(t *testing.T) {
	cases := map[string]string{
		"redis":      CacheDriverRedis,
		" Memcached": CacheDriverMemcached,
		"LOCAL":      CacheDriverLocal,
		"database":   CacheDriverDatabase,
		"":           CacheDriverDatabase,
		"etcd":       CacheDriverDatabase,
	}
	for input, want := range cases {
		require.Equal(t, want, CacheConfig{Driver: input}.DriverName(), input)
	}
}

func TestCacheConfigAdapters(t *testing.T) {
	cfg := CacheConfig{
		Redis: RedisCacheConfig{
			Address:  " redis:6379 ",
			Username: " user ",
			Password: "pass",
			DB:       2,
			TLS:      true,
			Timeout:  time.Second,
		},
		Memcached: MemcachedCacheConfig{
			Servers:      []string{" mc-1:11211", "", "mc-2:11211 "},
			Timeout:      time.Second,
			MaxIdleConns: 8,
		},
	}

	require.Equal(t, cache.RedisConfig{
		Address:  "redis:6379",
		Username: "user",
		Password: "pass",
		DB:       2,
		TLS:      true,
		Timeout:  time.Second,
	}, cfg.RedisClientConfig())

	require.Equal(t, cache.MemcachedConfig{
		Servers:      []string{"mc-1:11211", "mc-2:11211"},
		Timeout:      time.Second,
		MaxIdleConns: 8,
	}, cfg.MemcachedClientConfig())
}

func TestAuthConfigAdapters(t *testing.T) {
	cfg := AuthConfig{JWT: JWTSettings{Secret: "secret", Issuer: "issuer", TTL: 30 * time.Minute}}
	require.Equal(t, auth.Config{
		Secret: "secret",
		Issuer: "issuer",
		TTL:    30 * time.Minute,
	}, cfg.SessionConfig())

	var empty AuthConfig
	require.Zero(t, empty.SessionConfig().TTL)
}

func TestListingConfigAdapter(t *testing.T) {
	cfg := ListingConfig{
		AreaTTL:           time.Hour,
		SearchTTL:         time.Minute,
		HomePageMaxHouses: 3,
		PageCapacity:      4,
		ImageURLPrefix:    " https://img/ ",
	}

	require.Equal(t, services.ListingConfig{
		AreaTTL:           time.Hour,
		SearchTTL:         time.Minute,
		HomePageMaxHouses: 3,
		PageCapacity:      4,
		ImageURLPrefix:    "https://img/",
	}, cfg.ServiceConfig())
}

func TestDatabaseOpenConfig(t *testing.T) {
	require.Equal(t, database.Config{Driver: "sqlite", Path: "./data/x.sqlite"},
		DatabaseConfig{Path: " ./data/x.sqlite "}.OpenConfig())

	pg := DatabaseConfig{
		Driver:   "PostgreSQL",
		Postgres: DBAuthConfig{Host: "db", Port: 5432, Database: "ehome", Username: "u", Password: "p"},
	}.OpenConfig()
	require.Equal(t, database.Config{Driver: "postgres", Host: "db", Port: 5432, Name: "ehome", User: "u", Password: "p"}, pg)

	my := DatabaseConfig{
		Driver: "mysql",
		MySQL:  DBAuthConfig{Host: "mysql", Port: 3306, Database: "ehome", Username: "root"},
	}.OpenConfig()
	require.Equal(t, "mysql", my.Driver)
	require.Equal(t, "mysql", my.Host)
	require.Equal(t, "root", my.User)

	require.Equal(t, "oracle", DatabaseConfig{Driver: "oracle"}.OpenConfig().Driver)
}
