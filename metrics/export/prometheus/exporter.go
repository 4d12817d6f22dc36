// Package prometheus exposes the engine's counters as Prometheus metrics.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rvalden/authgate"
)

// MetricsSource yields counter snapshots. *authgate.Engine satisfies it.
type MetricsSource interface {
	MetricsSnapshot() authgate.MetricsSnapshot
}

type counterDef struct {
	id   authgate.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{authgate.MetricLoginSuccess, "authgate_login_success_total", "Successful logins."},
	{authgate.MetricLoginFailure, "authgate_login_failure_total", "Logins rejected for bad credentials."},
	{authgate.MetricLoginRateLimited, "authgate_login_rate_limited_total", "Logins rejected by the attempt budget."},
	{authgate.MetricRefreshSuccess, "authgate_refresh_success_total", "Successful refresh token rotations."},
	{authgate.MetricRefreshFailure, "authgate_refresh_failure_total", "Rotations rejected as invalid or expired."},
	{authgate.MetricTokenPairIssued, "authgate_token_pairs_issued_total", "Issued access/refresh token pairs."},
	{authgate.MetricLogout, "authgate_logout_total", "Logouts that revoked a refresh token."},
	{authgate.MetricLogoutAll, "authgate_logout_all_total", "Bulk per-user revocations."},
	{authgate.MetricAccountCreated, "authgate_accounts_created_total", "Created accounts."},
	{authgate.MetricPasswordChangeSuccess, "authgate_password_change_success_total", "Successful password changes."},
	{authgate.MetricPasswordChangeFailure, "authgate_password_change_failure_total", "Rejected password changes."},
}

// Exporter adapts a [MetricsSource] to a prometheus.Collector. Register it
// with a prometheus.Registerer, or use [Exporter.Handler] for a standalone
// scrape endpoint.
type Exporter struct {
	source MetricsSource
	descs  map[authgate.MetricID]*prometheus.Desc
}

// NewExporter creates an Exporter reading from the given source.
func NewExporter(source MetricsSource) *Exporter {
	descs := make(map[authgate.MetricID]*prometheus.Desc, len(counterDefs))
	for _, def := range counterDefs {
		descs[def.id] = prometheus.NewDesc(def.name, def.help, nil, nil)
	}
	return &Exporter{source: source, descs: descs}
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range e.descs {
		ch <- d
	}
}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	if e == nil || e.source == nil {
		return
	}

	snap := e.source.MetricsSnapshot()
	for _, def := range counterDefs {
		ch <- prometheus.MustNewConstMetric(
			e.descs[def.id],
			prometheus.CounterValue,
			float64(snap.Counters[def.id]),
		)
	}
}

// Handler returns an http.Handler serving this exporter from its own
// registry.
func (e *Exporter) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(e)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
