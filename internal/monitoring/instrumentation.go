package monitoring

import (
	"strings"
	"time"
)

// RecordMaintenanceRun records the completion of a maintenance job. result is
// "success" or anything else for a failed run, with message carrying the error.
func RecordMaintenanceRun(job, result, message string, duration time.Duration) {
	module := ensureModule()
	if module == nil {
		return
	}
	job = normalizeLabel(job)
	result = normalizeLabel(result)
	now := time.Now()

	module.metrics.maintenanceRuns.WithLabelValues(job, result).Inc()
	module.metrics.maintenanceDuration.WithLabelValues(job).Observe(max(duration, 0).Seconds())
	if result == resultSuccess {
		module.metrics.maintenanceLastRun.WithLabelValues(job).Set(float64(now.Unix()))
	}
	module.jobs.record(job, result, strings.TrimSpace(message), duration, now)
}

// RecordCachePurge adds the number of expired cache rows removed by a purge.
func RecordCachePurge(rows int64) {
	module := ensureModule()
	if module == nil || rows <= 0 {
		return
	}
	module.metrics.cacheEntriesPurged.Add(float64(rows))
	module.jobs.addPurged(uint64(rows))
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
