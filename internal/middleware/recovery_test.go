package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/cyclingprofile/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPanicRecovery(t *testing.T) {
	tests := []struct {
		name         string
		panicValue   any
		expectedCode int
		expectedBody string
		expectPanics float64
	}{
		{
			name:         "no panic",
			expectedCode: http.StatusOK,
			expectedBody: "ok",
		},
		{
			name:         "string panic",
			panicValue:   "flat tyre",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Internal server error"}`,
			expectPanics: 1,
		},
		{
			name:         "error panic",
			panicValue:   assert.AnError,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Internal server error"}`,
			expectPanics: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metricsManager := metrics.NewTestManager()
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				if tt.panicValue != nil {
					panic(tt.panicValue)
				}
				_, _ = w.Write([]byte("ok"))
			})

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
			req.Header.Set(RequestIDHeader, "req-1")
			PanicRecovery(metricsManager)(next).ServeHTTP(rr, req)

			assert.True(t, called)
			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, tt.expectedBody, rr.Body.String())
			} else {
				assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
			assert.Equal(t, tt.expectPanics, testutil.ToFloat64(metricsManager.CounterHandleRequestPanic))
		})
	}
}

func TestPanicRecovery_AbortHandlerIsRepanicked(t *testing.T) {
	metricsManager := metrics.NewTestManager()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	})

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		PanicRecovery(metricsManager)(next).ServeHTTP(
			httptest.NewRecorder(),
			httptest.NewRequest(http.MethodGet, "/", nil),
		)
	})
	assert.Equal(t, float64(0), testutil.ToFloat64(metricsManager.CounterHandleRequestPanic))
}
