package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/domain/shared"
	"github.com/anish-u/insight-guard/pkg/logger"
	"github.com/anish-u/insight-guard/pkg/pagination"
)

func analyticsFixtures() (*fakeScanRepo, *fakeObsRepo) {
	week := 1
	scan := &scangraph.Scan{
		ID:        "weekly_dhs_2025_03_wk1",
		Series:    scangraph.SeriesWeekly,
		Year:      2025,
		Month:     3,
		WeekIndex: &week,
		ScanDate:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	monthly := &scangraph.Scan{
		ID:     "monthly_dhs_web_2025_03",
		Series: scangraph.SeriesMonthlyWeb,
		Year:   2025,
		Month:  3,
	}
	scans := &fakeScanRepo{scans: map[string]*scangraph.Scan{
		scan.ID:    scan,
		monthly.ID: monthly,
	}}
	obs := &fakeObsRepo{
		kpis: &scangraph.ScanKPIs{TotalObservations: 12, Critical: 2, High: 5},
		buckets: []scangraph.SeverityBucket{
			{Severity: 5, Count: 2},
			{Severity: 4, Count: 5},
		},
		hosts:      []scangraph.HostActivity{{IP: "10.0.0.1", Findings: 7, Critical: 2}},
		vulns:      []scangraph.VulnActivity{{ID: "weekly:19506", Name: "Nessus Scan Info", Findings: 7}},
		totalCount: 12,
		findings:   []scangraph.Finding{{ObsID: "obs-1", Severity: 5}},
	}
	return scans, obs
}

func TestAnalyticsSummary(t *testing.T) {
	scans, obs := analyticsFixtures()
	svc := NewAnalyticsService(scans, obs, 80, logger.NewNop())

	got, err := svc.Summary(context.Background(), "weekly_dhs_2025_03_wk1")
	require.NoError(t, err)

	assert.Equal(t, "weekly_dhs_2025_03_wk1", got.Scan.ScanID)
	require.NotNil(t, got.Scan.WeekIndex)
	assert.Equal(t, 1, *got.Scan.WeekIndex)
	assert.Equal(t, 12, got.Summary.TotalObservations)
	assert.Equal(t, 2, got.Summary.Critical)
}

func TestAnalyticsSummary_NotFound(t *testing.T) {
	scans, obs := analyticsFixtures()
	svc := NewAnalyticsService(scans, obs, 80, logger.NewNop())

	_, err := svc.Summary(context.Background(), "weekly_dhs_1999_01_wk1")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAnalyticsSummary_WrongSeries(t *testing.T) {
	scans, obs := analyticsFixtures()
	svc := NewAnalyticsService(scans, obs, 80, logger.NewNop())

	// A monthly web scan id is not a weekly analytics target.
	_, err := svc.Summary(context.Background(), "monthly_dhs_web_2025_03")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAnalyticsCharts(t *testing.T) {
	scans, obs := analyticsFixtures()
	svc := NewAnalyticsService(scans, obs, 80, logger.NewNop())

	minSev := 4
	got, err := svc.Charts(context.Background(), "weekly_dhs_2025_03_wk1", &minSev)
	require.NoError(t, err)

	require.Len(t, got.SeverityBuckets, 2)
	assert.Equal(t, 5, got.SeverityBuckets[0].Severity)
	require.Len(t, got.TopHosts, 1)
	assert.Equal(t, "10.0.0.1", got.TopHosts[0].IP)
	require.Len(t, got.TopVulns, 1)
	assert.Equal(t, "weekly:19506", got.TopVulns[0].ID)
}

func TestAnalyticsFindings(t *testing.T) {
	scans, obs := analyticsFixtures()
	svc := NewAnalyticsService(scans, obs, 80, logger.NewNop())

	got, err := svc.Findings(context.Background(), "weekly_dhs_2025_03_wk1",
		scangraph.FindingsFilter{}, pagination.New(0, 50))
	require.NoError(t, err)

	assert.Equal(t, int64(12), got.Total)
	assert.Equal(t, 0, got.Offset)
	assert.Equal(t, 50, got.Limit)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "obs-1", got.Data[0].ObsID)
}

func TestAnalyticsGraph_UsesLargerCap(t *testing.T) {
	scans, obs := analyticsFixtures()
	svc := NewAnalyticsService(scans, obs, 80, logger.NewNop())

	p, err := svc.Graph(context.Background(), "weekly_dhs_2025_03_wk1")
	require.NoError(t, err)

	assert.Equal(t, 80, obs.lastLimit)
	assert.Equal(t, "weekly_dhs_2025_03_wk1", p.ScanID)
}

func TestAnalyticsListScans(t *testing.T) {
	scans, obs := analyticsFixtures()
	svc := NewAnalyticsService(scans, obs, 80, logger.NewNop())

	items, err := svc.ListScans(context.Background())
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "weekly_dhs_2025_03_wk1", items[0].ScanID)
}
