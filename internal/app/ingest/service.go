// Package ingest turns uploaded scan report CSVs into graph writes.
// Each series has its own row mapper; the service wires archiving,
// scan creation, the per-row merge loop and cache invalidation
// together.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/anish-u/insight-guard/internal/metrics"
	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/logger"
)

// GraphWriter is the merge surface the service writes through. All
// writes are idempotent upserts keyed by natural ids.
type GraphWriter interface {
	UpsertScan(ctx context.Context, scan *scangraph.Scan, now time.Time) error
	UpsertDepartment(ctx context.Context, dept *scangraph.Department, now time.Time) error
	UpsertRelationship(ctx context.Context, rel scangraph.Relationship) error
	ApplyRow(ctx context.Context, rs *scangraph.RowSet, now time.Time) error
}

// ReportStore archives the raw uploaded file before ingestion.
type ReportStore interface {
	WeeklyPath(year, month, weekIndex int) string
	MonthlyWebPath(year, month int) string
	DeptPath(department string, year, month int) string
	Save(path string, content []byte) error
}

// CacheInvalidator drops cached dashboard payloads after a series
// gains new data. May be nil when caching is disabled.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, series scangraph.Series) error
}

// WeeklyInput carries one weekly infrastructure report upload.
type WeeklyInput struct {
	Year      int
	Month     int
	WeekIndex int
	FileName  string
	Content   []byte
}

// MonthlyWebInput carries one monthly web report upload.
type MonthlyWebInput struct {
	Year     int
	Month    int
	FileName string
	Content  []byte
}

// DeptInput carries one departmental report upload.
type DeptInput struct {
	Year       int
	Month      int
	Department string
	FileName   string
	Content    []byte
}

// Output summarizes one ingestion run.
type Output struct {
	Status        string  `json:"status"`
	Type          string  `json:"type"`
	ScanID        string  `json:"scan_id"`
	StoredAt      string  `json:"stored_at"`
	Year          int     `json:"year"`
	Month         int     `json:"month"`
	WeekIndex     *int    `json:"week_index,omitempty"`
	Department    *string `json:"department,omitempty"`
	DeptID        *string `json:"dept_id,omitempty"`
	RowsProcessed int     `json:"rows_processed"`
	RowsSkipped   int     `json:"rows_skipped"`
}

// Service ingests scan report CSVs into the graph store.
type Service struct {
	graph  GraphWriter
	store  ReportStore
	cache  CacheInvalidator
	logger *logger.Logger
}

// NewService creates a new ingest service. cache may be nil.
func NewService(graph GraphWriter, store ReportStore, cache CacheInvalidator, log *logger.Logger) *Service {
	return &Service{
		graph:  graph,
		store:  store,
		cache:  cache,
		logger: log.With("service", "ingest"),
	}
}

// IngestWeekly archives and ingests one weekly infrastructure report.
func (s *Service) IngestWeekly(ctx context.Context, in WeeklyInput) (*Output, error) {
	start := time.Now()
	now := start.UTC()

	storedAt := s.store.WeeklyPath(in.Year, in.Month, in.WeekIndex)
	if err := s.store.Save(storedAt, in.Content); err != nil {
		return s.fail(scangraph.SeriesWeekly, err)
	}

	rows, err := readRows(in.Content)
	if err != nil {
		return s.fail(scangraph.SeriesWeekly, err)
	}

	weekIndex := in.WeekIndex
	scan := &scangraph.Scan{
		ID:         scangraph.WeeklyScanID(in.Year, in.Month, in.WeekIndex),
		Series:     scangraph.SeriesWeekly,
		Year:       in.Year,
		Month:      in.Month,
		WeekIndex:  &weekIndex,
		ScanDate:   periodStart(in.Year, in.Month),
		SourceFile: storedAt,
	}
	if err := s.graph.UpsertScan(ctx, scan, now); err != nil {
		return s.fail(scangraph.SeriesWeekly, err)
	}

	out := &Output{
		Status:    "ok",
		Type:      string(scangraph.SeriesWeekly),
		ScanID:    scan.ID,
		StoredAt:  storedAt,
		Year:      in.Year,
		Month:     in.Month,
		WeekIndex: &weekIndex,
	}
	err = s.applyRows(ctx, scangraph.SeriesWeekly, rows, now, out, func(row map[string]string, _ int) (*scangraph.RowSet, bool) {
		return mapWeeklyRow(scan.ID, row, now)
	})
	if err != nil {
		return s.fail(scangraph.SeriesWeekly, err)
	}

	s.finish(ctx, scangraph.SeriesWeekly, out, start)
	return out, nil
}

// IngestMonthlyWeb archives and ingests one monthly web report.
func (s *Service) IngestMonthlyWeb(ctx context.Context, in MonthlyWebInput) (*Output, error) {
	start := time.Now()
	now := start.UTC()

	storedAt := s.store.MonthlyWebPath(in.Year, in.Month)
	if err := s.store.Save(storedAt, in.Content); err != nil {
		return s.fail(scangraph.SeriesMonthlyWeb, err)
	}

	rows, err := readRows(in.Content)
	if err != nil {
		return s.fail(scangraph.SeriesMonthlyWeb, err)
	}

	scan := &scangraph.Scan{
		ID:         scangraph.MonthlyWebScanID(in.Year, in.Month),
		Series:     scangraph.SeriesMonthlyWeb,
		Year:       in.Year,
		Month:      in.Month,
		ScanDate:   periodStart(in.Year, in.Month),
		SourceFile: storedAt,
	}
	if err := s.graph.UpsertScan(ctx, scan, now); err != nil {
		return s.fail(scangraph.SeriesMonthlyWeb, err)
	}

	out := &Output{
		Status:   "ok",
		Type:     string(scangraph.SeriesMonthlyWeb),
		ScanID:   scan.ID,
		StoredAt: storedAt,
		Year:     in.Year,
		Month:    in.Month,
	}
	err = s.applyRows(ctx, scangraph.SeriesMonthlyWeb, rows, now, out, func(row map[string]string, idx int) (*scangraph.RowSet, bool) {
		return mapMonthlyWebRow(scan.ID, row, idx, now)
	})
	if err != nil {
		return s.fail(scangraph.SeriesMonthlyWeb, err)
	}

	s.finish(ctx, scangraph.SeriesMonthlyWeb, out, start)
	return out, nil
}

// IngestDept archives and ingests one departmental report.
func (s *Service) IngestDept(ctx context.Context, in DeptInput) (*Output, error) {
	start := time.Now()
	now := start.UTC()

	storedAt := s.store.DeptPath(in.Department, in.Year, in.Month)
	if err := s.store.Save(storedAt, in.Content); err != nil {
		return s.fail(scangraph.SeriesDept, err)
	}

	rows, err := readRows(in.Content)
	if err != nil {
		return s.fail(scangraph.SeriesDept, err)
	}

	deptID := scangraph.SlugifyDepartment(in.Department)
	dept := &scangraph.Department{ID: deptID, Name: in.Department}
	if err := s.graph.UpsertDepartment(ctx, dept, now); err != nil {
		return s.fail(scangraph.SeriesDept, err)
	}

	scan := &scangraph.Scan{
		ID:         scangraph.DeptScanID(deptID, in.Year, in.Month),
		Series:     scangraph.SeriesDept,
		Year:       in.Year,
		Month:      in.Month,
		DeptID:     &deptID,
		ScanDate:   periodStart(in.Year, in.Month),
		SourceFile: storedAt,
	}
	if err := s.graph.UpsertScan(ctx, scan, now); err != nil {
		return s.fail(scangraph.SeriesDept, err)
	}

	rel := scangraph.Relationship{
		SourceID: scan.ID,
		TargetID: deptID,
		Type:     scangraph.RelType(scangraph.SeriesDept, scangraph.RelForDepartment),
	}
	if err := s.graph.UpsertRelationship(ctx, rel); err != nil {
		return s.fail(scangraph.SeriesDept, err)
	}

	department := in.Department
	out := &Output{
		Status:     "ok",
		Type:       string(scangraph.SeriesDept),
		ScanID:     scan.ID,
		StoredAt:   storedAt,
		Year:       in.Year,
		Month:      in.Month,
		Department: &department,
		DeptID:     &deptID,
	}
	err = s.applyRows(ctx, scangraph.SeriesDept, rows, now, out, func(row map[string]string, _ int) (*scangraph.RowSet, bool) {
		return mapDeptRow(scan.ID, deptID, row, now)
	})
	if err != nil {
		return s.fail(scangraph.SeriesDept, err)
	}

	s.finish(ctx, scangraph.SeriesDept, out, start)
	return out, nil
}

// applyRows runs the mapper over every row and writes each produced
// row set. The row index passed to the mapper is 1-based.
func (s *Service) applyRows(
	ctx context.Context,
	series scangraph.Series,
	rows []map[string]string,
	now time.Time,
	out *Output,
	mapRow func(row map[string]string, idx int) (*scangraph.RowSet, bool),
) error {
	for i, row := range rows {
		rs, skip := mapRow(row, i+1)
		if skip {
			out.RowsSkipped++
			metrics.IngestRowsTotal.WithLabelValues(string(series), "skipped").Inc()
			continue
		}
		if err := s.graph.ApplyRow(ctx, rs, now); err != nil {
			return fmt.Errorf("failed to apply row %d: %w", i+1, err)
		}
		out.RowsProcessed++
		metrics.IngestRowsTotal.WithLabelValues(string(series), "processed").Inc()
	}
	return nil
}

func (s *Service) finish(ctx context.Context, series scangraph.Series, out *Output, start time.Time) {
	metrics.IngestRunsTotal.WithLabelValues(string(series), "success").Inc()
	metrics.IngestDuration.WithLabelValues(string(series)).Observe(time.Since(start).Seconds())

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, series); err != nil {
			s.logger.Warn("failed to invalidate dashboard cache",
				"series", string(series),
				"error", err)
		}
	}

	s.logger.Info("report ingested",
		"series", string(series),
		"scan_id", out.ScanID,
		"rows_processed", out.RowsProcessed,
		"rows_skipped", out.RowsSkipped,
		"duration_ms", time.Since(start).Milliseconds())
}

func (s *Service) fail(series scangraph.Series, err error) (*Output, error) {
	metrics.IngestRunsTotal.WithLabelValues(string(series), "error").Inc()
	return nil, err
}

// periodStart anchors a report period to the first day of its month.
func periodStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}
