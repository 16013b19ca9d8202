package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRoute(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.TrackRoutes("/api/ocean/conditions", "/api/alerts")

	tests := []struct {
		path string
		want string
	}{
		{"/", "page"},
		{"/species", "page"},
		{"/ws", "/ws"},
		{"/static/css/style.css", "/static/*"},
		{"/api/ocean/conditions", "/api/ocean/conditions"},
		{"/api/alerts", "/api/alerts"},
		{"/api/alerts/3f1c/resolve", "/api/alerts/{id}/resolve"},
		{"/api/v1/health-analyzer/summary", "/api/v1/health-analyzer/*"},
		{"/api/unknown/thing", "/api/other"},
		{"/wp-login.php", "other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, m.normalizeRoute(tt.path), tt.path)
	}
}

func TestMiddleware_CountsRequests(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.TrackRoutes("/api/alerts")

	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/alerts" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))

	for _, path := range []string{"/api/alerts", "/api/alerts", "/api/missing"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/alerts", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/api/other", "GET", "404")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.OceanHealthScore.WithLabelValues("Great Barrier Reef").Set(82)
	m.MeasurementsRecorded.WithLabelValues("http").Add(3)

	clients := 4
	m.RegisterWebSocketClients(func() int { return clients })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `marine_dashboard_ocean_health_score{location="Great Barrier Reef"} 82`))
	assert.True(t, strings.Contains(body, `marine_dashboard_measurements_recorded_total{source="http"} 3`))
	assert.True(t, strings.Contains(body, "marine_dashboard_websocket_clients 4"))
}
