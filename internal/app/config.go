package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the ehome listing service.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Listing     ListingConfig     `mapstructure:"listing"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// CacheConfig selects and configures the cache tier.
type CacheConfig struct {
	Driver    string               `mapstructure:"driver"`
	Redis     RedisCacheConfig     `mapstructure:"redis"`
	Memcached MemcachedCacheConfig `mapstructure:"memcached"`
	Local     LocalCacheConfig     `mapstructure:"local"`
}

// RedisCacheConfig holds Redis connection options.
type RedisCacheConfig struct {
	Address  string        `mapstructure:"address"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TLS      bool          `mapstructure:"tls"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MemcachedCacheConfig holds memcached connection options.
type MemcachedCacheConfig struct {
	Servers      []string      `mapstructure:"servers"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
}

// LocalCacheConfig sizes the in-process cache.
type LocalCacheConfig struct {
	MaxSize int64 `mapstructure:"max_size"`
}

// ListingConfig holds cache lifetimes and paging for listing reads.
type ListingConfig struct {
	AreaTTL           time.Duration `mapstructure:"area_ttl"`
	HomeTTL           time.Duration `mapstructure:"home_ttl"`
	DetailTTL         time.Duration `mapstructure:"detail_ttl"`
	SearchTTL         time.Duration `mapstructure:"search_ttl"`
	HomePageMaxHouses int           `mapstructure:"home_page_max_houses"`
	PageCapacity      int           `mapstructure:"page_capacity"`
	ImageURLPrefix    string        `mapstructure:"image_url_prefix"`
}

// AuthConfig captures bearer token verification settings.
type AuthConfig struct {
	JWT JWTSettings `mapstructure:"jwt"`
}

// JWTSettings configures JWT access tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// MaintenanceConfig schedules background jobs.
type MaintenanceConfig struct {
	CachePurgeSchedule string `mapstructure:"cache_purge_schedule"`
}

// MonitoringConfig enables health checks and metrics.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Health     HealthConfig     `mapstructure:"health_check"`
}

// PrometheusConfig toggles metrics endpoints.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthConfig toggles health endpoints.
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("EHOME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "json")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/ehome.sqlite")
	v.SetDefault("database.mysql.port", 3306)
	v.SetDefault("database.postgres.port", 5432)

	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.redis.address", "127.0.0.1:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.tls", false)
	v.SetDefault("cache.redis.timeout", "5s")
	v.SetDefault("cache.memcached.servers", []string{"127.0.0.1:11211"})
	v.SetDefault("cache.memcached.timeout", "500ms")
	v.SetDefault("cache.memcached.max_idle_conns", 4)
	v.SetDefault("cache.local.max_size", 10000)

	v.SetDefault("listing.area_ttl", "2h")
	v.SetDefault("listing.home_ttl", "2h")
	v.SetDefault("listing.detail_ttl", "2h")
	v.SetDefault("listing.search_ttl", "2h")
	v.SetDefault("listing.home_page_max_houses", 5)
	v.SetDefault("listing.page_capacity", 2)
	v.SetDefault("listing.image_url_prefix", "")

	v.SetDefault("auth.jwt.issuer", "ehome")
	v.SetDefault("auth.jwt.access_token_ttl", "24h")

	v.SetDefault("maintenance.cache_purge_schedule", "@hourly")

	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.prometheus.endpoint", "/metrics")
	v.SetDefault("monitoring.health_check.enabled", true)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
