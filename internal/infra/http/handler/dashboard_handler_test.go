package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anish-u/insight-guard/internal/app"
	"github.com/anish-u/insight-guard/internal/app/graphview"
	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/logger"
)

func strRef(s string) *string { return &s }

func newDashboardFixture() *DashboardHandler {
	scanDate := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	scans := &stubScanRepo{scans: map[string]*scangraph.Scan{
		"weekly_dhs_2025_03_wk2": {
			ID:        "weekly_dhs_2025_03_wk2",
			Series:    scangraph.SeriesWeekly,
			Year:      2025,
			Month:     3,
			WeekIndex: intRef(2),
			ScanDate:  scanDate,
		},
		"dept_scan_it_2025_04": {
			ID:       "dept_scan_it_2025_04",
			Series:   scangraph.SeriesDept,
			Year:     2025,
			Month:    4,
			DeptID:   strRef("it"),
			ScanDate: scanDate,
		},
	}}
	obs := &stubObsRepo{}

	svc := app.NewDashboardService(scans, obs, 50, nil, nil, nil, logger.NewNop())
	return NewDashboardHandler(svc, logger.NewNop())
}

func TestDashboardWeeklyLatest(t *testing.T) {
	h := newDashboardFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/weekly-latest", nil)
	rec := httptest.NewRecorder()
	h.WeeklyLatest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp graphview.Payload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "weekly_dhs_2025_03_wk2", resp.ScanID)
	assert.NotNil(t, resp.Graph.Nodes)
	assert.NotNil(t, resp.Graph.Links)
}

func TestDashboardMonthlyWebLatest_NoScans(t *testing.T) {
	h := newDashboardFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/monthly-web-latest", nil)
	rec := httptest.NewRecorder()
	h.MonthlyWebLatest(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDashboardDeptLatest_DefaultsToIT(t *testing.T) {
	h := newDashboardFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/dept-latest", nil)
	rec := httptest.NewRecorder()
	h.DeptLatest(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp graphview.Payload
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "dept_scan_it_2025_04", resp.ScanID)
	require.NotNil(t, resp.DeptID)
	assert.Equal(t, "it", *resp.DeptID)
}

func TestDashboardDeptLatest_UnknownDepartment(t *testing.T) {
	h := newDashboardFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/dept-latest?department=Facilities", nil)
	rec := httptest.NewRecorder()
	h.DeptLatest(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
