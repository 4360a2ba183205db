package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRequest("/api/v1/compare", http.MethodGet, "200", 15*time.Millisecond)
	m.ObserveRequest("/api/v1/compare", http.MethodGet, "200", 5*time.Millisecond)
	m.ComparisonDone("career", OutcomeOK)
	m.ComparisonDone("season", OutcomeIncomplete)
	m.CacheHit("career")
	m.CacheMiss("career")
	m.CacheMiss("career")
	m.ImportDone(nil, 42)
	m.ImportDone(errors.New("timeout"), 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/v1/compare", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.comparisons.WithLabelValues("season", OutcomeIncomplete)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("career", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.importRuns.WithLabelValues(OutcomeError)))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.importedRows))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ComparisonDone("career", OutcomeOK)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `player_stats_comparisons_total{mode="career",outcome="ok"} 1`))
	assert.Contains(t, body, "go_goroutines")
}
