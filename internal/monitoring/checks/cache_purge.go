package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/ehomehq/ehome/internal/monitoring"
)

// staleAfterRuns is how many missed purge intervals mark the job as overdue.
const staleAfterRuns = 2

// CachePurge is a soft probe over the scheduled purge of expired database
// cache rows. Reads ignore expired rows, so a stalled purge only costs space.
func CachePurge(job string, interval time.Duration) monitoring.Check {
	if interval <= 0 {
		interval = time.Hour
	}

	return monitoring.NewSoftCheck("cache_purge", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		summary := monitoring.Snapshot()

		var (
			run   monitoring.MaintenanceJobSummary
			found bool
		)
		for _, candidate := range summary.Maintenance.Jobs {
			if candidate.Job == job {
				run, found = candidate, true
				break
			}
		}

		if !found || run.TotalRuns == 0 {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusUp,
				Details:  "awaiting first run",
				Duration: time.Since(start),
			}
		}

		purged := fmt.Sprintf("%d rows purged", summary.Cache.PurgedEntries)

		if run.ConsecutiveFailures > 0 {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDown,
				Details:  fmt.Sprintf("%d consecutive failures: %s; %s", run.ConsecutiveFailures, run.LastError, purged),
				Duration: time.Since(start),
			}
		}

		if overdue := staleAfterRuns * interval; summary.GeneratedAt.Sub(run.LastSuccessAt) > overdue {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  "last success " + run.LastSuccessAt.UTC().Format(time.RFC3339) + "; " + purged,
				Duration: time.Since(start),
			}
		}

		return monitoring.ProbeResult{
			Status:   monitoring.StatusUp,
			Details:  purged,
			Duration: time.Since(start),
		}
	})
}
