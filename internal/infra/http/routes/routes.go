// Package routes registers all HTTP routes for the API.
// Routes are organized by domain for maintainability.
package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	infrahttp "github.com/anish-u/insight-guard/internal/infra/http"
	"github.com/anish-u/insight-guard/internal/infra/http/handler"
	"github.com/anish-u/insight-guard/internal/infra/http/middleware"
)

// Middleware is an alias to the http package's Middleware type.
type Middleware = infrahttp.Middleware

// Router is an alias to the http package's Router interface.
type Router = infrahttp.Router

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Ingest    *handler.IngestHandler    // nil if not initialized (no database)
	Dashboard *handler.DashboardHandler // nil if not initialized (no database)
	Analytics *handler.AnalyticsHandler // nil if not initialized (no database)
}

// Register registers all application routes.
// This keeps route definitions in the infrastructure layer, not in main.
func Register(router Router, h Handlers) {
	// Health and metrics routes (public)
	registerHealthRoutes(router, h.Health)

	if h.Ingest != nil {
		registerIngestRoutes(router, h.Ingest)
	}

	if h.Dashboard != nil {
		registerDashboardRoutes(router, h.Dashboard)
	}

	if h.Analytics != nil {
		registerAnalyticsRoutes(router, h.Analytics)
	}
}

// registerHealthRoutes registers health check endpoints.
func registerHealthRoutes(router Router, h *handler.HealthHandler) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
}

// registerIngestRoutes registers the report upload endpoints.
// Uploads accept compressed request bodies (Content-Encoding: gzip or
// zstd) with higher size limits than the rest of the API.
func registerIngestRoutes(router Router, h *handler.IngestHandler) {
	decompressMiddleware := middleware.DecompressForIngest()

	router.Group("/api/v1/ingest", func(r Router) {
		r.POST("/weekly-dhs", h.UploadWeekly, decompressMiddleware)
		r.POST("/monthly-dhs-web", h.UploadMonthlyWeb, decompressMiddleware)
		r.POST("/dept-scan", h.UploadDept, decompressMiddleware)
	})
}

// registerDashboardRoutes registers the latest-scan graph endpoints.
func registerDashboardRoutes(router Router, h *handler.DashboardHandler) {
	router.Group("/api/v1/dashboard", func(r Router) {
		r.GET("/weekly-latest", h.WeeklyLatest)
		r.GET("/monthly-web-latest", h.MonthlyWebLatest)
		r.GET("/dept-latest", h.DeptLatest)
	})
}

// registerAnalyticsRoutes registers the weekly scan drill-down endpoints.
func registerAnalyticsRoutes(router Router, h *handler.AnalyticsHandler) {
	router.Group("/api/v1/weekly-dhs", func(r Router) {
		r.GET("/scans", h.ListScans)
		r.GET("/{scan_id}/summary", h.Summary)
		r.GET("/{scan_id}/charts", h.Charts)
		r.GET("/{scan_id}/findings", h.Findings)
		r.GET("/{scan_id}/graph", h.Graph)
	})
}
