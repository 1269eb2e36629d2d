package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/cyclingprofile/internal/telemetry/metrics"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMetrics(t *testing.T) {
	metricsManager, reg := metrics.NewTestManagerAndRegistry()

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Name("health")
	r.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.Use(RequestMetrics(metricsManager))

	for _, path := range []string{"/health", "/health", "/broken"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRequests.WithLabelValues("GET", "502")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.GaugeRequests))

	count, err := testutil.GatherAndCount(reg, "backend_test_server_request_duration_seconds")
	require.NoError(t, err)
	// one series per (route, method, status) combination
	assert.Equal(t, 2, count)
}
