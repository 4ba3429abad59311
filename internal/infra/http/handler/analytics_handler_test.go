package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anish-u/insight-guard/internal/app"
	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/domain/shared"
	"github.com/anish-u/insight-guard/pkg/logger"
	"github.com/anish-u/insight-guard/pkg/validator"
)

type stubScanRepo struct {
	scans map[string]*scangraph.Scan
}

func (r *stubScanRepo) List(_ context.Context, series scangraph.Series) ([]*scangraph.Scan, error) {
	var out []*scangraph.Scan
	for _, s := range r.scans {
		if s.Series == series {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubScanRepo) GetByID(_ context.Context, id string) (*scangraph.Scan, error) {
	s, ok := r.scans[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (r *stubScanRepo) Latest(_ context.Context, series scangraph.Series) (*scangraph.Scan, error) {
	var latest *scangraph.Scan
	for _, s := range r.scans {
		if s.Series != series {
			continue
		}
		if latest == nil || s.ScanDate.After(latest.ScanDate) {
			latest = s
		}
	}
	if latest == nil {
		return nil, shared.ErrNotFound
	}
	return latest, nil
}

func (r *stubScanRepo) LatestForDepartment(_ context.Context, deptID string) (*scangraph.Scan, *scangraph.Department, error) {
	for _, s := range r.scans {
		if s.DeptID != nil && *s.DeptID == deptID {
			return s, &scangraph.Department{ID: deptID, Name: "IT"}, nil
		}
	}
	return nil, nil, shared.ErrNotFound
}

type stubObsRepo struct {
	kpis      *scangraph.ScanKPIs
	findings  []scangraph.Finding
	total     int64
	lastLimit int
}

func (r *stubObsRepo) GraphRows(_ context.Context, _ string, limit int) ([]scangraph.GraphRow, error) {
	r.lastLimit = limit
	return nil, nil
}

func (r *stubObsRepo) KPIs(_ context.Context, _ string) (*scangraph.ScanKPIs, error) {
	return r.kpis, nil
}

func (r *stubObsRepo) SeverityBuckets(_ context.Context, _ string, _ *int) ([]scangraph.SeverityBucket, error) {
	return []scangraph.SeverityBucket{{Severity: 4, Count: 2}}, nil
}

func (r *stubObsRepo) TopHosts(_ context.Context, _ string, _ *int, _ int) ([]scangraph.HostActivity, error) {
	return []scangraph.HostActivity{{IP: "10.0.0.1", Findings: 3}}, nil
}

func (r *stubObsRepo) TopVulns(_ context.Context, _ string, _ *int, _ int) ([]scangraph.VulnActivity, error) {
	return []scangraph.VulnActivity{{ID: "19506", Name: "Nessus Scan Information", Findings: 3}}, nil
}

func (r *stubObsRepo) CountFindings(_ context.Context, _ string, _ scangraph.FindingsFilter) (int64, error) {
	return r.total, nil
}

func (r *stubObsRepo) ListFindings(_ context.Context, _ string, _ scangraph.FindingsFilter, _, _ int) ([]scangraph.Finding, error) {
	return r.findings, nil
}

func intRef(v int) *int { return &v }

func newAnalyticsFixture() (*stubScanRepo, *stubObsRepo, *AnalyticsHandler) {
	scanDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	scans := &stubScanRepo{scans: map[string]*scangraph.Scan{
		"weekly_dhs_2025_03_wk2": {
			ID:        "weekly_dhs_2025_03_wk2",
			Series:    scangraph.SeriesWeekly,
			Year:      2025,
			Month:     3,
			WeekIndex: intRef(2),
			ScanDate:  scanDate,
		},
	}}
	obs := &stubObsRepo{
		kpis:     &scangraph.ScanKPIs{TotalObservations: 12, Critical: 2, High: 4, HostCount: 5, VulnCount: 7},
		findings: []scangraph.Finding{{ObsID: "weekly_dhs_2025_03_wk2:10.0.0.1:19506", Severity: 4, IP: "10.0.0.1"}},
		total:    12,
	}

	svc := app.NewAnalyticsService(scans, obs, 80, logger.NewNop())
	return scans, obs, NewAnalyticsHandler(svc, validator.New(), logger.NewNop())
}

func getWithScanID(h http.HandlerFunc, path, scanID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.SetPathValue("scan_id", scanID)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestAnalyticsListScans(t *testing.T) {
	_, _, h := newAnalyticsFixture()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/weekly-dhs/scans", nil)
	rec := httptest.NewRecorder()
	h.ListScans(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ScanListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "weekly_dhs_2025_03_wk2", resp.Items[0].ScanID)
}

func TestAnalyticsSummary(t *testing.T) {
	_, _, h := newAnalyticsFixture()

	rec := getWithScanID(h.Summary, "/api/v1/weekly-dhs/weekly_dhs_2025_03_wk2/summary", "weekly_dhs_2025_03_wk2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp app.ScanSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 12, resp.Summary.TotalObservations)
	assert.Equal(t, 2, resp.Summary.Critical)
}

func TestAnalyticsSummary_NotFound(t *testing.T) {
	_, _, h := newAnalyticsFixture()

	rec := getWithScanID(h.Summary, "/api/v1/weekly-dhs/nope/summary", "nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyticsCharts_InvalidSeverity(t *testing.T) {
	_, _, h := newAnalyticsFixture()

	rec := getWithScanID(h.Charts, "/api/v1/weekly-dhs/weekly_dhs_2025_03_wk2/charts?min_severity=9", "weekly_dhs_2025_03_wk2")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyticsCharts(t *testing.T) {
	_, _, h := newAnalyticsFixture()

	rec := getWithScanID(h.Charts, "/api/v1/weekly-dhs/weekly_dhs_2025_03_wk2/charts?min_severity=4", "weekly_dhs_2025_03_wk2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp app.ChartData
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.SeverityBuckets, 1)
	assert.Equal(t, 4, resp.SeverityBuckets[0].Severity)
	require.Len(t, resp.TopHosts, 1)
	assert.Equal(t, "10.0.0.1", resp.TopHosts[0].IP)
}

func TestAnalyticsFindings(t *testing.T) {
	_, _, h := newAnalyticsFixture()

	rec := getWithScanID(h.Findings, "/api/v1/weekly-dhs/weekly_dhs_2025_03_wk2/findings?limit=10&offset=0", "weekly_dhs_2025_03_wk2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data   []scangraph.Finding `json:"data"`
		Total  int64               `json:"total"`
		Offset int                 `json:"offset"`
		Limit  int                 `json:"limit"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(12), resp.Total)
	assert.Equal(t, 10, resp.Limit)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "10.0.0.1", resp.Data[0].IP)
}

func TestAnalyticsGraph_UsesDrillDownCap(t *testing.T) {
	_, obs, h := newAnalyticsFixture()

	rec := getWithScanID(h.Graph, "/api/v1/weekly-dhs/weekly_dhs_2025_03_wk2/graph", "weekly_dhs_2025_03_wk2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 80, obs.lastLimit)
}
