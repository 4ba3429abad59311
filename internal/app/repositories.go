package app

import (
	"context"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
)

// ScanRepository selects scans by series and recency.
type ScanRepository interface {
	List(ctx context.Context, series scangraph.Series) ([]*scangraph.Scan, error)
	GetByID(ctx context.Context, id string) (*scangraph.Scan, error)
	Latest(ctx context.Context, series scangraph.Series) (*scangraph.Scan, error)
	LatestForDepartment(ctx context.Context, deptID string) (*scangraph.Scan, *scangraph.Department, error)
}

// ObservationRepository reads observation-centric views for dashboards
// and analytics.
type ObservationRepository interface {
	GraphRows(ctx context.Context, scanID string, limit int) ([]scangraph.GraphRow, error)
	KPIs(ctx context.Context, scanID string) (*scangraph.ScanKPIs, error)
	SeverityBuckets(ctx context.Context, scanID string, minSeverity *int) ([]scangraph.SeverityBucket, error)
	TopHosts(ctx context.Context, scanID string, minSeverity *int, limit int) ([]scangraph.HostActivity, error)
	TopVulns(ctx context.Context, scanID string, minSeverity *int, limit int) ([]scangraph.VulnActivity, error)
	CountFindings(ctx context.Context, scanID string, filter scangraph.FindingsFilter) (int64, error)
	ListFindings(ctx context.Context, scanID string, filter scangraph.FindingsFilter, offset, limit int) ([]scangraph.Finding, error)
}
