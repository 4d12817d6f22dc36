package prometheus

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvalden/authgate"
)

type stubSource struct {
	snap authgate.MetricsSnapshot
}

func (s *stubSource) MetricsSnapshot() authgate.MetricsSnapshot {
	return s.snap
}

func snapshotWith(values map[authgate.MetricID]uint64) authgate.MetricsSnapshot {
	return authgate.MetricsSnapshot{Counters: values}
}

func TestExporterCollect(t *testing.T) {
	source := &stubSource{snap: snapshotWith(map[authgate.MetricID]uint64{
		authgate.MetricLoginSuccess:    7,
		authgate.MetricRefreshFailure:  2,
		authgate.MetricTokenPairIssued: 9,
	})}

	exp := NewExporter(source)

	expected := strings.NewReader(`
# HELP authgate_login_success_total Successful logins.
# TYPE authgate_login_success_total counter
authgate_login_success_total 7
# HELP authgate_refresh_failure_total Rotations rejected as invalid or expired.
# TYPE authgate_refresh_failure_total counter
authgate_refresh_failure_total 2
# HELP authgate_token_pairs_issued_total Issued access/refresh token pairs.
# TYPE authgate_token_pairs_issued_total counter
authgate_token_pairs_issued_total 9
`)

	err := testutil.CollectAndCompare(exp, expected,
		"authgate_login_success_total",
		"authgate_refresh_failure_total",
		"authgate_token_pairs_issued_total",
	)
	assert.NoError(t, err)
}

func TestExporterHandlerServesAllCounters(t *testing.T) {
	source := &stubSource{snap: snapshotWith(map[authgate.MetricID]uint64{
		authgate.MetricLogout: 3,
	})}

	srv := httptest.NewServer(NewExporter(source).Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	for _, def := range counterDefs {
		assert.Contains(t, text, def.name)
	}
	assert.Contains(t, text, "authgate_logout_total 3")
}

func TestExporterCountsFromEngine(t *testing.T) {
	metrics := authgate.NewMetrics(authgate.MetricsConfig{Enabled: true})
	metrics.Inc(authgate.MetricLoginSuccess)
	metrics.Inc(authgate.MetricLoginSuccess)

	exp := NewExporter(&stubSource{snap: metrics.Snapshot()})

	got := testutil.CollectAndCount(exp)
	assert.Equal(t, len(counterDefs), got)
}
