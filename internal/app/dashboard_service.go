package app

import (
	"context"

	"github.com/anish-u/insight-guard/internal/app/graphview"
	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/logger"
)

// DefaultDepartment is assumed when a departmental dashboard request
// names no department.
const DefaultDepartment = "IT"

// PayloadCache caches assembled dashboard payloads. Implementations
// treat errors as misses so a cache outage never breaks dashboards.
type PayloadCache interface {
	GetOrSet(ctx context.Context, key string, loader func(ctx context.Context) (*graphview.Payload, error)) (*graphview.Payload, error)
	DeletePattern(ctx context.Context, pattern string) error
}

// DashboardService builds the latest-scan graph payload per series.
type DashboardService struct {
	scans   ScanRepository
	obs     ObservationRepository
	maxObs  int
	weekly  PayloadCache
	monthly PayloadCache
	dept    PayloadCache
	logger  *logger.Logger
}

// NewDashboardService creates a new DashboardService. Caches may be
// nil, in which case every request hits the store.
func NewDashboardService(
	scans ScanRepository,
	obs ObservationRepository,
	maxObs int,
	weekly, monthly, dept PayloadCache,
	log *logger.Logger,
) *DashboardService {
	return &DashboardService{
		scans:   scans,
		obs:     obs,
		maxObs:  maxObs,
		weekly:  weekly,
		monthly: monthly,
		dept:    dept,
		logger:  log.With("service", "dashboard"),
	}
}

// WeeklyLatest returns the graph of the most recent weekly
// infrastructure scan. Returns shared.ErrNotFound when no weekly scan
// has been ingested yet.
func (s *DashboardService) WeeklyLatest(ctx context.Context) (*graphview.Payload, error) {
	return s.cached(ctx, s.weekly, "latest", func(ctx context.Context) (*graphview.Payload, error) {
		scan, err := s.scans.Latest(ctx, scangraph.SeriesWeekly)
		if err != nil {
			return nil, err
		}
		rows, err := s.obs.GraphRows(ctx, scan.ID, s.maxObs)
		if err != nil {
			return nil, err
		}
		return graphview.AssembleWeekly(scan, rows), nil
	})
}

// MonthlyWebLatest returns the graph of the most recent monthly web
// scan.
func (s *DashboardService) MonthlyWebLatest(ctx context.Context) (*graphview.Payload, error) {
	return s.cached(ctx, s.monthly, "latest", func(ctx context.Context) (*graphview.Payload, error) {
		scan, err := s.scans.Latest(ctx, scangraph.SeriesMonthlyWeb)
		if err != nil {
			return nil, err
		}
		rows, err := s.obs.GraphRows(ctx, scan.ID, s.maxObs)
		if err != nil {
			return nil, err
		}
		return graphview.AssembleMonthlyWeb(scan, rows), nil
	})
}

// DeptLatest returns the graph of the most recent departmental scan
// for one department. A blank department falls back to
// DefaultDepartment.
func (s *DashboardService) DeptLatest(ctx context.Context, department string) (*graphview.Payload, error) {
	if department == "" {
		department = DefaultDepartment
	}
	deptID := scangraph.SlugifyDepartment(department)

	return s.cached(ctx, s.dept, deptID, func(ctx context.Context) (*graphview.Payload, error) {
		scan, dept, err := s.scans.LatestForDepartment(ctx, deptID)
		if err != nil {
			return nil, err
		}
		rows, err := s.obs.GraphRows(ctx, scan.ID, s.maxObs)
		if err != nil {
			return nil, err
		}
		return graphview.AssembleDept(scan, dept, rows), nil
	})
}

// Invalidate drops cached payloads for a series after new data lands.
// Implements the ingest service's cache invalidation hook.
func (s *DashboardService) Invalidate(ctx context.Context, series scangraph.Series) error {
	var cache PayloadCache
	switch series {
	case scangraph.SeriesWeekly:
		cache = s.weekly
	case scangraph.SeriesMonthlyWeb:
		cache = s.monthly
	case scangraph.SeriesDept:
		cache = s.dept
	}
	if cache == nil {
		return nil
	}
	return cache.DeletePattern(ctx, "*")
}

func (s *DashboardService) cached(
	ctx context.Context,
	cache PayloadCache,
	key string,
	loader func(ctx context.Context) (*graphview.Payload, error),
) (*graphview.Payload, error) {
	if cache == nil {
		return loader(ctx)
	}
	return cache.GetOrSet(ctx, key, loader)
}
