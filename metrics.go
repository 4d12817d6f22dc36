package authgate

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts logins rejected for bad credentials.
	MetricLoginFailure
	// MetricLoginRateLimited counts logins rejected by the attempt budget.
	MetricLoginRateLimited
	// MetricRefreshSuccess counts successful rotations.
	MetricRefreshSuccess
	// MetricRefreshFailure counts rotations rejected as invalid or expired.
	MetricRefreshFailure
	// MetricTokenPairIssued counts issued access/refresh pairs.
	MetricTokenPairIssued
	// MetricLogout counts logout calls that found and revoked a record.
	MetricLogout
	// MetricLogoutAll counts bulk per-user revocations.
	MetricLogoutAll
	// MetricAccountCreated counts created accounts.
	MetricAccountCreated
	// MetricPasswordChangeSuccess counts successful password changes.
	MetricPasswordChangeSuccess
	// MetricPasswordChangeFailure counts rejected password changes.
	MetricPasswordChangeFailure
	metricIDCount
)

// MetricsSnapshot is a point-in-time copy of all engine counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Metrics holds the engine's in-process counters. All methods are safe for
// concurrent use; a nil or disabled Metrics drops every increment.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics creates a Metrics set honoring cfg.Enabled.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricIDCount)}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}

// MetricsSnapshot returns a copy of the engine's counters. Empty when metrics
// are disabled.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil {
		return
	}
	e.metrics.Inc(id)
}
