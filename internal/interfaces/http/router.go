package http

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/dreschagin/marine-dashboard/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/marine-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/marine-dashboard/pkg/config"
	"github.com/dreschagin/marine-dashboard/pkg/logger"
)

// Handlers - HTTP обработчики приложения
type Handlers struct {
	Dashboard      *handler.DashboardHandler
	WebSocket      *handler.WebSocketHandler
	Ocean          *handler.OceanAPIHandler
	Catalogue      *handler.CatalogueAPIHandler
	Alerts         *handler.AlertsAPIHandler
	Measurements   *handler.MeasurementsAPIHandler
	Identification *handler.IdentificationAPIHandler
	HealthAnalyzer *handler.HealthAnalyzerAPIHandler
	Auth           *handler.AuthAPIHandler
}

// ReadinessCheck проверяет зависимости для /readyz (например, ping БД)
type ReadinessCheck func(ctx context.Context) error

// Router настраивает маршруты приложения
type Router struct {
	mux         *http.ServeMux
	handlers    Handlers
	security    config.SecurityConfig
	metrics     *metrics.Metrics
	rateLimiter *middleware.IPRateLimiter
	ready       ReadinessCheck
	logger      *logger.Logger
}

// NewRouter создает новый router
func NewRouter(
	handlers Handlers,
	security config.SecurityConfig,
	m *metrics.Metrics, // Can be nil if Prometheus disabled
	rateLimiter *middleware.IPRateLimiter, // Can be nil if rate limiting disabled
	ready ReadinessCheck, // Can be nil
	logger *logger.Logger,
) *Router {
	return &Router{
		mux:         http.NewServeMux(),
		handlers:    handlers,
		security:    security,
		metrics:     m,
		rateLimiter: rateLimiter,
		ready:       ready,
		logger:      logger,
	}
}

// apiRoutes - пути, которые учитываются в метриках как отдельные маршруты
var apiRoutes = []string{
	"/api/ocean-data",
	"/api/ocean/conditions",
	"/api/ocean/temperature-trends",
	"/api/species-data",
	"/api/species/identify",
	"/api/species/identifications",
	"/api/fisheries-data",
	"/api/fisheries/summary",
	"/api/biodiversity-index",
	"/api/biodiversity/regional-trends",
	"/api/alerts",
	"/api/sustainability-metrics",
	"/api/v1/measurements",
	"/api/v1/auth/login",
	"/api/v1/auth/logout",
	"/api/v1/auth/status",
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	// Статика встроена в бинарник
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic("failed to initialize embedded static assets: " + err.Error())
	}
	rt.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// healthz и readyz без аутентификации
	rt.mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rt.mux.HandleFunc("/readyz", rt.readyz)
	if rt.metrics != nil {
		rt.mux.Handle("/metrics", rt.metrics.Handler())
	}

	authConfig := rt.authConfig()
	protect := func(h http.HandlerFunc) http.Handler {
		return middleware.Auth(authConfig, rt.logger)(h)
	}

	h := rt.handlers

	// Страницы
	rt.mux.Handle("/", protect(h.Dashboard.ShowDashboard))
	rt.mux.Handle("/dashboard", protect(h.Dashboard.ShowDashboard))
	rt.mux.Handle("/species", protect(h.Dashboard.ShowSpecies))
	rt.mux.Handle("/fisheries", protect(h.Dashboard.ShowFisheries))
	rt.mux.Handle("/alerts", protect(h.Dashboard.ShowAlerts))

	// WebSocket сам проверяет токен до upgrade
	rt.mux.HandleFunc("/ws", h.WebSocket.HandleConnection)

	// Auth
	rt.mux.HandleFunc("/api/v1/auth/login", h.Auth.Login)
	rt.mux.HandleFunc("/api/v1/auth/logout", h.Auth.Logout)
	rt.mux.HandleFunc("/api/v1/auth/status", h.Auth.Status)

	// API
	rt.mux.Handle("/api/ocean-data", protect(h.Ocean.GetOceanData))
	rt.mux.Handle("/api/ocean/conditions", protect(h.Ocean.GetConditions))
	rt.mux.Handle("/api/ocean/temperature-trends", protect(h.Ocean.GetTemperatureTrends))
	rt.mux.Handle("/api/species-data", protect(h.Catalogue.GetSpecies))
	rt.mux.Handle("/api/fisheries-data", protect(h.Catalogue.GetFisheries))
	rt.mux.Handle("/api/fisheries/summary", protect(h.Catalogue.GetFisheriesSummary))
	rt.mux.Handle("/api/biodiversity-index", protect(h.Catalogue.GetBiodiversityIndex))
	rt.mux.Handle("/api/biodiversity/regional-trends", protect(h.Catalogue.GetRegionalTrends))
	rt.mux.Handle("/api/alerts", protect(h.Alerts.GetAlerts))
	rt.mux.Handle("/api/alerts/{id}/resolve", protect(h.Alerts.ResolveAlert))
	rt.mux.Handle("/api/sustainability-metrics", protect(h.Alerts.GetSustainabilityMetrics))
	rt.mux.Handle("/api/species/identify", protect(h.Identification.Identify))
	rt.mux.Handle("/api/species/identifications", protect(h.Identification.ListIdentifications))
	rt.mux.Handle("/api/v1/measurements", protect(h.Measurements.RecordMeasurements))
	rt.mux.Handle("/api/v1/health-analyzer/summary", protect(h.HealthAnalyzer.GetSummary))
	rt.mux.Handle("/api/v1/health-analyzer/run", protect(h.HealthAnalyzer.RunNow))

	// Применяем middleware, снаружи внутрь: Recovery, Logger, Metrics, RateLimit, Compression
	var handler http.Handler = rt.mux
	handler = middleware.Compression(handler)
	if rt.rateLimiter != nil {
		handler = middleware.RateLimit(rt.rateLimiter, rt.onRateLimited)(handler)
	}
	if rt.metrics != nil {
		rt.metrics.TrackRoutes(apiRoutes...)
		handler = rt.metrics.Middleware(handler)
	}
	handler = middleware.Logger(rt.logger)(handler)
	handler = middleware.Recovery(rt.logger)(handler)

	return handler
}

func (rt *Router) authConfig() middleware.AuthConfig {
	cfg := middleware.AuthConfig{
		Enabled:     rt.security.AuthEnabled,
		BearerToken: rt.security.AuthToken,
	}
	if rt.metrics != nil {
		cfg.OnFailure = rt.metrics.AuthFailures.Inc
	}
	return cfg
}

func (rt *Router) onRateLimited() {
	if rt.metrics != nil {
		rt.metrics.RateLimitDropped.Inc()
	}
}

func (rt *Router) readyz(w http.ResponseWriter, r *http.Request) {
	if rt.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := rt.ready(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", "error", err.Error())
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
