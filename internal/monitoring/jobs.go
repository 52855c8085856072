package monitoring

import (
	"sort"
	"sync"
	"time"
)

const resultSuccess = "success"

// Summary is what background maintenance has done since the process started.
type Summary struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Maintenance MaintenanceSummary `json:"maintenance"`
	Cache       CacheSummary       `json:"cache"`
}

type MaintenanceSummary struct {
	Jobs []MaintenanceJobSummary `json:"jobs"`
}

type MaintenanceJobSummary struct {
	Job                 string        `json:"job"`
	LastStatus          string        `json:"last_status"`
	LastRunAt           time.Time     `json:"last_run_at"`
	LastDuration        time.Duration `json:"last_duration"`
	LastError           string        `json:"last_error,omitempty"`
	ConsecutiveFailures uint64        `json:"consecutive_failures"`
	ConsecutiveSuccess  uint64        `json:"consecutive_success"`
	LastSuccessAt       time.Time     `json:"last_success_at"`
	TotalRuns           uint64        `json:"total_runs"`
}

type CacheSummary struct {
	PurgedEntries uint64 `json:"purged_entries"`
}

// Snapshot returns the summary held by the process-wide module, or an empty
// summary when monitoring is not configured.
func Snapshot() Summary {
	if module := ensureModule(); module != nil && module.jobs != nil {
		return module.jobs.summary(time.Now())
	}
	return Summary{GeneratedAt: time.Now()}
}

// jobTracker keeps one summary per maintenance job.
type jobTracker struct {
	mu     sync.Mutex
	jobs   map[string]*MaintenanceJobSummary
	purged uint64
}

func newJobTracker() *jobTracker {
	return &jobTracker{jobs: make(map[string]*MaintenanceJobSummary)}
}

func (t *jobTracker) record(job, result, message string, duration time.Duration, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.jobs[job]
	if !ok {
		entry = &MaintenanceJobSummary{Job: job}
		t.jobs[job] = entry
	}

	entry.LastStatus = result
	entry.LastError = message
	entry.LastRunAt = at
	entry.LastDuration = max(duration, 0)
	entry.TotalRuns++

	if result == resultSuccess {
		entry.ConsecutiveFailures = 0
		entry.ConsecutiveSuccess++
		entry.LastSuccessAt = at
		return
	}
	entry.ConsecutiveFailures++
	entry.ConsecutiveSuccess = 0
}

func (t *jobTracker) addPurged(rows uint64) {
	t.mu.Lock()
	t.purged += rows
	t.mu.Unlock()
}

func (t *jobTracker) summary(now time.Time) Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	jobs := make([]MaintenanceJobSummary, 0, len(t.jobs))
	for _, entry := range t.jobs {
		jobs = append(jobs, *entry)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Job < jobs[j].Job })

	return Summary{
		GeneratedAt: now,
		Maintenance: MaintenanceSummary{Jobs: jobs},
		Cache:       CacheSummary{PurgedEntries: t.purged},
	}
}
