package handler

import (
	"net/http"

	"github.com/anish-u/insight-guard/internal/app"
	"github.com/anish-u/insight-guard/pkg/logger"
)

// DashboardHandler serves the latest-scan graph payloads the dashboard
// renders.
type DashboardHandler struct {
	service *app.DashboardService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(service *app.DashboardService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  log,
	}
}

// WeeklyLatest handles GET /api/v1/dashboard/weekly-latest.
// @Summary      Latest weekly scan graph
// @Description  Returns the graph payload for the most recent weekly scan
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  graphview.Payload
// @Failure      404  {object}  apierror.Error
// @Router       /api/v1/dashboard/weekly-latest [get]
func (h *DashboardHandler) WeeklyLatest(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.WeeklyLatest(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "Weekly scan", err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// MonthlyWebLatest handles GET /api/v1/dashboard/monthly-web-latest.
// @Summary      Latest monthly web scan graph
// @Description  Returns the graph payload for the most recent monthly web scan
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  graphview.Payload
// @Failure      404  {object}  apierror.Error
// @Router       /api/v1/dashboard/monthly-web-latest [get]
func (h *DashboardHandler) MonthlyWebLatest(w http.ResponseWriter, r *http.Request) {
	payload, err := h.service.MonthlyWebLatest(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, "Monthly web scan", err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

// DeptLatest handles GET /api/v1/dashboard/dept-latest.
// @Summary      Latest departmental scan graph
// @Description  Returns the graph payload for a department's most recent scan
// @Tags         Dashboard
// @Produce      json
// @Param        department  query  string  false  "Department name"  default(IT)
// @Success      200  {object}  graphview.Payload
// @Failure      404  {object}  apierror.Error
// @Router       /api/v1/dashboard/dept-latest [get]
func (h *DashboardHandler) DeptLatest(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")

	payload, err := h.service.DeptLatest(r.Context(), department)
	if err != nil {
		writeServiceError(w, h.logger, "Departmental scan", err)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}
