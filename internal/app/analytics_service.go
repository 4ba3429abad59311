package app

import (
	"context"
	"time"

	"github.com/anish-u/insight-guard/internal/app/graphview"
	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/domain/shared"
	"github.com/anish-u/insight-guard/pkg/logger"
	"github.com/anish-u/insight-guard/pkg/pagination"
)

// TopActivityLimit caps the top-hosts and top-vulns chart series.
const TopActivityLimit = 10

// ScanListItem is one entry of the scan picker.
type ScanListItem struct {
	ScanID    string    `json:"scan_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	WeekIndex *int      `json:"week_index,omitempty"`
	ScanDate  time.Time `json:"scan_date"`
}

// ScanSummary pairs a scan with its KPI block.
type ScanSummary struct {
	Scan    ScanListItem        `json:"scan"`
	Summary *scangraph.ScanKPIs `json:"summary"`
}

// ChartData bundles the aggregations behind the analytics charts.
type ChartData struct {
	SeverityBuckets []scangraph.SeverityBucket `json:"severity_buckets"`
	TopHosts        []scangraph.HostActivity   `json:"top_hosts"`
	TopVulns        []scangraph.VulnActivity   `json:"top_vulns"`
}

// AnalyticsService serves drill-down analytics over weekly
// infrastructure scans.
type AnalyticsService struct {
	scans       ScanRepository
	obs         ObservationRepository
	graphMaxObs int
	logger      *logger.Logger
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(scans ScanRepository, obs ObservationRepository, graphMaxObs int, log *logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		scans:       scans,
		obs:         obs,
		graphMaxObs: graphMaxObs,
		logger:      log.With("service", "analytics"),
	}
}

// ListScans returns all weekly scans, newest first.
func (s *AnalyticsService) ListScans(ctx context.Context) ([]ScanListItem, error) {
	scans, err := s.scans.List(ctx, scangraph.SeriesWeekly)
	if err != nil {
		return nil, err
	}

	items := make([]ScanListItem, 0, len(scans))
	for _, scan := range scans {
		items = append(items, toScanListItem(scan))
	}
	return items, nil
}

// Summary returns the KPI block for one weekly scan. Returns
// shared.ErrNotFound when the scan does not exist.
func (s *AnalyticsService) Summary(ctx context.Context, scanID string) (*ScanSummary, error) {
	scan, err := s.getWeeklyScan(ctx, scanID)
	if err != nil {
		return nil, err
	}

	kpis, err := s.obs.KPIs(ctx, scanID)
	if err != nil {
		return nil, err
	}

	return &ScanSummary{
		Scan:    toScanListItem(scan),
		Summary: kpis,
	}, nil
}

// Charts returns the aggregated chart series for one weekly scan,
// optionally restricted to observations at or above minSeverity.
func (s *AnalyticsService) Charts(ctx context.Context, scanID string, minSeverity *int) (*ChartData, error) {
	if _, err := s.getWeeklyScan(ctx, scanID); err != nil {
		return nil, err
	}

	buckets, err := s.obs.SeverityBuckets(ctx, scanID, minSeverity)
	if err != nil {
		return nil, err
	}
	hosts, err := s.obs.TopHosts(ctx, scanID, minSeverity, TopActivityLimit)
	if err != nil {
		return nil, err
	}
	vulns, err := s.obs.TopVulns(ctx, scanID, minSeverity, TopActivityLimit)
	if err != nil {
		return nil, err
	}

	return &ChartData{
		SeverityBuckets: buckets,
		TopHosts:        hosts,
		TopVulns:        vulns,
	}, nil
}

// Findings returns one page of the findings table for a weekly scan.
func (s *AnalyticsService) Findings(ctx context.Context, scanID string, filter scangraph.FindingsFilter, p pagination.Pagination) (*pagination.Result[scangraph.Finding], error) {
	if _, err := s.getWeeklyScan(ctx, scanID); err != nil {
		return nil, err
	}

	total, err := s.obs.CountFindings(ctx, scanID, filter)
	if err != nil {
		return nil, err
	}

	items, err := s.obs.ListFindings(ctx, scanID, filter, p.Offset, p.Limit)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(items, total, p)
	return &result, nil
}

// Graph renders the drill-down graph for one weekly scan. Uses a
// larger observation cap than the landing dashboard.
func (s *AnalyticsService) Graph(ctx context.Context, scanID string) (*graphview.Payload, error) {
	scan, err := s.getWeeklyScan(ctx, scanID)
	if err != nil {
		return nil, err
	}

	rows, err := s.obs.GraphRows(ctx, scanID, s.graphMaxObs)
	if err != nil {
		return nil, err
	}
	return graphview.AssembleWeekly(scan, rows), nil
}

// getWeeklyScan fetches a scan and rejects ids from other series.
func (s *AnalyticsService) getWeeklyScan(ctx context.Context, scanID string) (*scangraph.Scan, error) {
	scan, err := s.scans.GetByID(ctx, scanID)
	if err != nil {
		return nil, err
	}
	if scan.Series != scangraph.SeriesWeekly {
		return nil, shared.ErrNotFound
	}
	return scan, nil
}

func toScanListItem(scan *scangraph.Scan) ScanListItem {
	return ScanListItem{
		ScanID:    scan.ID,
		Year:      scan.Year,
		Month:     scan.Month,
		WeekIndex: scan.WeekIndex,
		ScanDate:  scan.ScanDate,
	}
}
