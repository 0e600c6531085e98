package report

import (
	"sync"
	"time"
)

// RunMetrics counts pipeline runs and their outcomes since process start.
type RunMetrics struct {
	RunsStarted        int64         `json:"runs_started"`
	RunsSucceeded      int64         `json:"runs_succeeded"`
	TokenFailures      int64         `json:"token_failures"`
	UpstreamFailures   int64         `json:"upstream_failures"`
	TransportFailures  int64         `json:"transport_failures"`
	UpstreamCalls      int64         `json:"upstream_calls"`
	EnrichmentFailures int64         `json:"enrichment_failures"`
	LastRunAt          time.Time     `json:"last_run_at"`
	LastRunDuration    time.Duration `json:"last_run_duration"`
}

// MetricsTracker provides a goroutine-safe wrapper around RunMetrics.
type MetricsTracker struct {
	mu      sync.RWMutex
	metrics RunMetrics
}

func NewMetricsTracker() *MetricsTracker {
	return &MetricsTracker{}
}

// Update applies a mutation in a thread-safe way. A nil tracker ignores it.
func (t *MetricsTracker) Update(fn func(*RunMetrics)) {
	if t == nil || fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.metrics)
}

// Snapshot returns a copy of the current metrics.
func (t *MetricsTracker) Snapshot() RunMetrics {
	if t == nil {
		return RunMetrics{}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.metrics
}
