package handler

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/anish-u/insight-guard/internal/app/ingest"
	"github.com/anish-u/insight-guard/pkg/apierror"
	"github.com/anish-u/insight-guard/pkg/logger"
	"github.com/anish-u/insight-guard/pkg/validator"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing.
// Larger uploads spill to temporary files.
const maxMultipartMemory = 64 << 20

// IngestHandler handles scan report upload endpoints.
type IngestHandler struct {
	service   *ingest.Service
	validator *validator.Validator
	logger    *logger.Logger
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(service *ingest.Service, v *validator.Validator, log *logger.Logger) *IngestHandler {
	return &IngestHandler{
		service:   service,
		validator: v,
		logger:    log,
	}
}

// WeeklyUploadRequest carries the form fields of a weekly report upload.
type WeeklyUploadRequest struct {
	Year      int `validate:"required,scan_year"`
	Month     int `validate:"required,scan_month"`
	WeekIndex int `validate:"required,week_index"`
}

// MonthlyWebUploadRequest carries the form fields of a monthly web
// report upload.
type MonthlyWebUploadRequest struct {
	Year  int `validate:"required,scan_year"`
	Month int `validate:"required,scan_month"`
}

// DeptUploadRequest carries the form fields of a departmental report
// upload.
type DeptUploadRequest struct {
	Year       int    `validate:"required,scan_year"`
	Month      int    `validate:"required,scan_month"`
	Department string `validate:"required,department"`
}

// UploadWeekly handles POST /api/v1/ingest/weekly-dhs.
// @Summary      Ingest weekly infrastructure report
// @Description  Uploads and ingests a weekly vulnerability scan CSV
// @Tags         Ingest
// @Accept       multipart/form-data
// @Produce      json
// @Param        report      formData  file  true  "CSV report"
// @Param        year        formData  int   true  "Report year"
// @Param        month       formData  int   true  "Report month (1-12)"
// @Param        week_index  formData  int   true  "Week of month (1-6)"
// @Success      201  {object}  ingest.Output
// @Failure      400  {object}  apierror.Error
// @Failure      422  {object}  apierror.Error
// @Router       /api/v1/ingest/weekly-dhs [post]
func (h *IngestHandler) UploadWeekly(w http.ResponseWriter, r *http.Request) {
	name, content, ok := h.readReportFile(w, r)
	if !ok {
		return
	}

	req := WeeklyUploadRequest{
		Year:      parseQueryInt(r.FormValue("year"), 0),
		Month:     parseQueryInt(r.FormValue("month"), 0),
		WeekIndex: parseQueryInt(r.FormValue("week_index"), 0),
	}
	if err := h.validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	out, err := h.service.IngestWeekly(r.Context(), ingest.WeeklyInput{
		Year:      req.Year,
		Month:     req.Month,
		WeekIndex: req.WeekIndex,
		FileName:  name,
		Content:   content,
	})
	if err != nil {
		writeServiceError(w, h.logger, "Weekly report", err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

// UploadMonthlyWeb handles POST /api/v1/ingest/monthly-dhs-web.
// @Summary      Ingest monthly web application report
// @Description  Uploads and ingests a monthly web vulnerability scan CSV
// @Tags         Ingest
// @Accept       multipart/form-data
// @Produce      json
// @Param        report      formData  file  true  "CSV report"
// @Param        year        formData  int   true  "Report year"
// @Param        month       formData  int   true  "Report month (1-12)"
// @Success      201  {object}  ingest.Output
// @Failure      400  {object}  apierror.Error
// @Failure      422  {object}  apierror.Error
// @Router       /api/v1/ingest/monthly-dhs-web [post]
func (h *IngestHandler) UploadMonthlyWeb(w http.ResponseWriter, r *http.Request) {
	name, content, ok := h.readReportFile(w, r)
	if !ok {
		return
	}

	req := MonthlyWebUploadRequest{
		Year:  parseQueryInt(r.FormValue("year"), 0),
		Month: parseQueryInt(r.FormValue("month"), 0),
	}
	if err := h.validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	out, err := h.service.IngestMonthlyWeb(r.Context(), ingest.MonthlyWebInput{
		Year:     req.Year,
		Month:    req.Month,
		FileName: name,
		Content:  content,
	})
	if err != nil {
		writeServiceError(w, h.logger, "Monthly web report", err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

// UploadDept handles POST /api/v1/ingest/dept-scan.
// @Summary      Ingest departmental scan report
// @Description  Uploads and ingests a departmental vulnerability scan CSV
// @Tags         Ingest
// @Accept       multipart/form-data
// @Produce      json
// @Param        report      formData  file    true  "CSV report"
// @Param        year        formData  int     true  "Report year"
// @Param        month       formData  int     true  "Report month (1-12)"
// @Param        department  formData  string  true  "Department name"
// @Success      201  {object}  ingest.Output
// @Failure      400  {object}  apierror.Error
// @Failure      422  {object}  apierror.Error
// @Router       /api/v1/ingest/dept-scan [post]
func (h *IngestHandler) UploadDept(w http.ResponseWriter, r *http.Request) {
	name, content, ok := h.readReportFile(w, r)
	if !ok {
		return
	}

	req := DeptUploadRequest{
		Year:       parseQueryInt(r.FormValue("year"), 0),
		Month:      parseQueryInt(r.FormValue("month"), 0),
		Department: r.FormValue("department"),
	}
	if err := h.validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	out, err := h.service.IngestDept(r.Context(), ingest.DeptInput{
		Year:       req.Year,
		Month:      req.Month,
		Department: req.Department,
		FileName:   name,
		Content:    content,
	})
	if err != nil {
		writeServiceError(w, h.logger, "Departmental report", err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

// readReportFile parses the multipart form and reads the uploaded CSV.
// On failure it writes the error response and returns ok=false.
func (h *IngestHandler) readReportFile(w http.ResponseWriter, r *http.Request) (string, []byte, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		apierror.BadRequest("Invalid multipart form").WriteJSON(w)
		return "", nil, false
	}

	file, header, err := r.FormFile("report")
	if err != nil {
		apierror.BadRequest("Missing file in request").WriteJSON(w)
		return "", nil, false
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		apierror.BadRequest("Only .csv files are accepted").WriteJSON(w)
		return "", nil, false
	}

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "file", name, "error", err)
		apierror.BadRequest("Failed to read upload").WriteJSON(w)
		return "", nil, false
	}

	return name, content, true
}
