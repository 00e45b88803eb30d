package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.AnalysesTotal.WithLabelValues("success").Inc()
	m.LastScore.WithLabelValues("AAPL").Set(5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `trendsignal_analyses_total{status="success"} 1`)
	assert.Contains(t, body, `trendsignal_last_score_total{symbol="AAPL"} 5`)
}

func TestServer_ServesMetricsOnDedicatedPort(t *testing.T) {
	m := New()
	srv := m.Server("9090")

	require.Equal(t, ":9090", srv.Addr)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/other", nil)
	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
