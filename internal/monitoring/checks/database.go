package checks

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ehomehq/ehome/internal/database"
	"github.com/ehomehq/ehome/internal/monitoring"
)

const defaultDatabaseTimeout = 2 * time.Second

// Database returns a readiness probe for the relational store. The store is
// the source of truth for every listing read, so an unreachable database is
// reported as down.
func Database(db *gorm.DB, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if db == nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDown,
				Details:  "database not configured",
				Duration: time.Since(start),
			}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultDatabaseTimeout))
		defer cancel()

		if err := database.Ping(probeCtx, db); err != nil {
			return monitoring.ResultFromError("database", err, time.Since(start))
		}

		details := db.Dialector.Name()
		if sqlDB, err := db.DB(); err == nil {
			stats := sqlDB.Stats()
			details = fmt.Sprintf("%s: %d open, %d in use", details, stats.OpenConnections, stats.InUse)
		}

		return monitoring.ProbeResult{
			Status:   monitoring.StatusUp,
			Details:  details,
			Duration: time.Since(start),
		}
	})
}

func chooseTimeout(provided, fallback time.Duration) time.Duration {
	if provided <= 0 {
		return fallback
	}
	return provided
}
