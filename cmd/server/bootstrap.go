package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ehomehq/ehome/internal/api"
	"github.com/ehomehq/ehome/internal/app"
	"github.com/ehomehq/ehome/internal/app/maintenance"
	"github.com/ehomehq/ehome/internal/auth"
	"github.com/ehomehq/ehome/internal/cache"
	"github.com/ehomehq/ehome/internal/cacheaside"
	"github.com/ehomehq/ehome/internal/database"
	"github.com/ehomehq/ehome/internal/monitoring"
	"github.com/ehomehq/ehome/internal/monitoring/checks"
	"github.com/ehomehq/ehome/internal/repository"
	"github.com/ehomehq/ehome/internal/services"
	"github.com/ehomehq/ehome/pkg/logger"
)

const (
	probeTimeout       = 2 * time.Second
	cacheConnectBudget = 5 * time.Second
)

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB          *gorm.DB
	Cache       cache.Store
	CacheDriver string
	Monitoring  *monitoring.Module
	Cleaner     *maintenance.Cleaner
	Router      *gin.Engine
}

// bootstrapRuntime initialises the database, cache tier, services and HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	// enable gin debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(cfg)
	if err != nil {
		return nil, err
	}

	stack.Cache, stack.CacheDriver = openCacheStore(ctx, cfg, stack.DB, log)

	sessions, err := auth.NewSessions(cfg.Auth.SessionConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise session tokens: %w", err)
	}

	repo, err := repository.NewGormRepository(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise repository: %w", err)
	}

	cacheLayer, err := cacheaside.New(stack.Cache, logger.WithModule("cache"))
	if err != nil {
		return nil, fmt.Errorf("initialise cache layer: %w", err)
	}

	listingSvc, err := services.NewListingService(repo, cacheLayer, cfg.Listing.ServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise listing service: %w", err)
	}

	houseSvc, err := services.NewHouseService(repo, cfg.Listing.ImageURLPrefix)
	if err != nil {
		return nil, fmt.Errorf("initialise house service: %w", err)
	}

	stack.Monitoring, err = monitoring.NewModule(monitoring.Options{IncludeDefaultRegistry: true})
	if err != nil {
		return nil, fmt.Errorf("initialise monitoring: %w", err)
	}
	monitoring.SetModule(stack.Monitoring)

	health := stack.Monitoring.Health()
	health.RegisterReadiness(checks.Database(stack.DB, probeTimeout))
	health.RegisterReadiness(checks.Cache(stack.CacheDriver, stack.Cache, probeTimeout))

	var purger maintenance.CachePurger
	if dbStore, ok := stack.Cache.(*cache.DatabaseStore); ok {
		purger = dbStore
	}
	stack.Cleaner = maintenance.NewCleaner(purger, maintenance.WithCachePurgeSchedule(cfg.Maintenance.CachePurgeSchedule))
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}
	if stack.Cleaner.Enabled() {
		interval, err := maintenance.ScheduleInterval(stack.Cleaner.CachePurgeSchedule(), time.Now())
		if err != nil {
			return nil, err
		}
		health.RegisterReadiness(checks.CachePurge(maintenance.JobCachePurge, interval))
	}

	stack.Router, err = api.NewRouter(api.Dependencies{
		Config:     cfg,
		Sessions:   sessions,
		Listing:    listingSvc,
		Houses:     houseSvc,
		Monitoring: stack.Monitoring,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// openCacheStore connects the configured cache tier. Any connection failure
// falls back to the database tier so reads keep working.
func openCacheStore(ctx context.Context, cfg *app.Config, db *gorm.DB, log *zap.Logger) (cache.Store, string) {
	driver := cfg.Cache.DriverName()

	switch driver {
	case app.CacheDriverRedis:
		connectCtx, cancel := context.WithTimeout(ctx, cacheConnectBudget)
		defer cancel()

		store, err := cache.NewRedisStore(connectCtx, cfg.Cache.RedisClientConfig())
		if err == nil {
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
			return store, driver
		}
		log.Warn("redis unavailable; falling back to database cache", zap.Error(err))
	case app.CacheDriverMemcached:
		store, err := cache.NewMemcachedStore(cfg.Cache.MemcachedClientConfig())
		if err == nil {
			log.Info("memcached configured", zap.Strings("servers", cfg.Cache.Memcached.Servers))
			return store, driver
		}
		log.Warn("memcached unavailable; falling back to database cache", zap.Error(err))
	case app.CacheDriverLocal:
		log.Info("using in-process cache", zap.Int64("max_size", cfg.Cache.Local.MaxSize))
		return cache.NewLocalStore(cfg.Cache.Local.MaxSize), driver
	}

	return cache.NewDatabaseStore(db), app.CacheDriverDatabase
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		if stopped := s.Cleaner.Stop(); stopped != nil {
			<-stopped.Done()
		}
		if err := s.Cleaner.RunOnce(ctx); err != nil {
			log.Warn("maintenance shutdown cleanup failed", zap.Error(err))
		}
	}

	var err error
	if closer, ok := s.Cache.(io.Closer); ok {
		err = multierr.Append(err, closer.Close())
	}
	if s.DB != nil {
		err = multierr.Append(err, closeDatabase(s.DB))
	}
	for _, closeErr := range multierr.Errors(err) {
		log.Warn("resource shutdown failed", zap.Error(closeErr))
	}
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database.OpenConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.AutoMigrateAndSeed(db); err != nil {
		_ = closeDatabase(db)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	logger.WithModule("database").Info("database connected", zap.String("driver", dbCfg.Driver))
	return db, nil
}

func closeDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("obtain sql db: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
