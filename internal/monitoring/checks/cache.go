package checks

import (
	"context"
	"time"

	"github.com/ehomehq/ehome/internal/monitoring"
)

const defaultCacheTimeout = time.Second

// CachePinger represents the minimal interface required to probe the cache tier.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// Cache returns a soft readiness probe for the cache tier. Reads fall back to
// the database when the cache is unreachable.
func Cache(driver string, client CachePinger, timeout time.Duration) monitoring.Check {
	return monitoring.NewSoftCheck("cache", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if client == nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDown,
				Details:  "cache not configured",
				Duration: time.Since(start),
			}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultCacheTimeout))
		defer cancel()

		if err := client.Ping(probeCtx); err != nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDown,
				Details:  driver + ": " + err.Error(),
				Duration: time.Since(start),
			}
		}

		return monitoring.ProbeResult{
			Status:   monitoring.StatusUp,
			Details:  driver,
			Duration: time.Since(start),
		}
	})
}
