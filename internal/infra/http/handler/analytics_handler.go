package handler

import (
	"net/http"

	"github.com/anish-u/insight-guard/internal/app"
	httpx "github.com/anish-u/insight-guard/internal/infra/http"
	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/logger"
	"github.com/anish-u/insight-guard/pkg/pagination"
	"github.com/anish-u/insight-guard/pkg/validator"
)

// AnalyticsHandler serves the weekly scan drill-down endpoints.
type AnalyticsHandler struct {
	service   *app.AnalyticsService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(service *app.AnalyticsService, v *validator.Validator, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:   service,
		validator: v,
		logger:    log,
	}
}

// ScanListResponse wraps the scan list.
type ScanListResponse struct {
	Items []app.ScanListItem `json:"items"`
}

// severityQuery validates the optional min_severity query parameter.
type severityQuery struct {
	MinSeverity *int `validate:"omitempty,severity_level"`
}

// ListScans handles GET /api/v1/weekly-dhs/scans.
// @Summary      List weekly scans
// @Description  Returns all weekly scans, newest first
// @Tags         Analytics
// @Produce      json
// @Success      200  {object}  ScanListResponse
// @Router       /api/v1/weekly-dhs/scans [get]
func (h *AnalyticsHandler) ListScans(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListScans(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "Scans", err)
		return
	}

	writeJSON(w, http.StatusOK, ScanListResponse{Items: items})
}

// Summary handles GET /api/v1/weekly-dhs/{scan_id}/summary.
// @Summary      Scan KPI summary
// @Description  Returns headline counts for one weekly scan
// @Tags         Analytics
// @Produce      json
// @Param        scan_id  path  string  true  "Scan id"
// @Success      200  {object}  app.ScanSummary
// @Failure      404  {object}  apierror.Error
// @Router       /api/v1/weekly-dhs/{scan_id}/summary [get]
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	scanID := httpx.PathParam(r, "scan_id")

	summary, err := h.service.Summary(r.Context(), scanID)
	if err != nil {
		writeServiceError(w, h.logger, "Scan", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// Charts handles GET /api/v1/weekly-dhs/{scan_id}/charts.
// @Summary      Scan chart data
// @Description  Returns severity buckets and most active hosts and vulnerabilities
// @Tags         Analytics
// @Produce      json
// @Param        scan_id       path   string  true   "Scan id"
// @Param        min_severity  query  int     false  "Minimum severity (0-5)"
// @Success      200  {object}  app.ChartData
// @Failure      404  {object}  apierror.Error
// @Failure      422  {object}  apierror.Error
// @Router       /api/v1/weekly-dhs/{scan_id}/charts [get]
func (h *AnalyticsHandler) Charts(w http.ResponseWriter, r *http.Request) {
	scanID := httpx.PathParam(r, "scan_id")

	query := severityQuery{
		MinSeverity: parseQueryIntPtr(r.URL.Query().Get("min_severity")),
	}
	if err := h.validator.Validate(query); err != nil {
		writeValidationError(w, err)
		return
	}

	charts, err := h.service.Charts(r.Context(), scanID, query.MinSeverity)
	if err != nil {
		writeServiceError(w, h.logger, "Scan", err)
		return
	}

	writeJSON(w, http.StatusOK, charts)
}

// Findings handles GET /api/v1/weekly-dhs/{scan_id}/findings.
// @Summary      List scan findings
// @Description  Returns paginated findings for one weekly scan
// @Tags         Analytics
// @Produce      json
// @Param        scan_id       path   string  true   "Scan id"
// @Param        min_severity  query  int     false  "Minimum severity (0-5)"
// @Param        search        query  string  false  "Match against host IP or vulnerability name"
// @Param        offset        query  int     false  "Result offset"
// @Param        limit         query  int     false  "Page size"
// @Success      200  {object}  pagination.Result[scangraph.Finding]
// @Failure      404  {object}  apierror.Error
// @Failure      422  {object}  apierror.Error
// @Router       /api/v1/weekly-dhs/{scan_id}/findings [get]
func (h *AnalyticsHandler) Findings(w http.ResponseWriter, r *http.Request) {
	scanID := httpx.PathParam(r, "scan_id")

	query := severityQuery{
		MinSeverity: parseQueryIntPtr(r.URL.Query().Get("min_severity")),
	}
	if err := h.validator.Validate(query); err != nil {
		writeValidationError(w, err)
		return
	}

	filter := scangraph.FindingsFilter{
		MinSeverity: query.MinSeverity,
		Search:      r.URL.Query().Get("search"),
	}
	p := pagination.New(
		parseQueryInt(r.URL.Query().Get("offset"), 0),
		parseQueryInt(r.URL.Query().Get("limit"), pagination.DefaultLimit),
	)

	result, err := h.service.Findings(r.Context(), scanID, filter, p)
	if err != nil {
		writeServiceError(w, h.logger, "Scan", err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Graph handles GET /api/v1/weekly-dhs/{scan_id}/graph.
// @Summary      Scan graph payload
// @Description  Returns the drill-down graph payload for one weekly scan
// @Tags         Analytics
// @Produce      json
// @Param        scan_id  path  string  true  "Scan id"
// @Success      200  {object}  graphview.Payload
// @Failure      404  {object}  apierror.Error
// @Router       /api/v1/weekly-dhs/{scan_id}/graph [get]
func (h *AnalyticsHandler) Graph(w http.ResponseWriter, r *http.Request) {
	scanID := httpx.PathParam(r, "scan_id")

	payload, err := h.service.Graph(r.Context(), scanID)
	if err != nil {
		writeServiceError(w, h.logger, "Scan", err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}
