package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/domain/shared"
)

// scanRecency is the ordering that defines "latest": newest report
// period first, week index as the final tiebreaker.
const scanRecency = "scan_date DESC, year DESC, month DESC, week_index DESC NULLS LAST"

// ScanRepository implements scan selection queries using PostgreSQL.
type ScanRepository struct {
	db *DB
}

// NewScanRepository creates a new ScanRepository.
func NewScanRepository(db *DB) *ScanRepository {
	return &ScanRepository{db: db}
}

const scanColumns = `id, series, year, month, week_index, dept_id, scan_date, source_file, created_at, updated_at`

func scanScanRow(row interface{ Scan(...any) error }) (*scangraph.Scan, error) {
	var s scangraph.Scan
	var series string
	var weekIndex sql.NullInt64
	var deptID sql.NullString

	err := row.Scan(
		&s.ID, &series, &s.Year, &s.Month, &weekIndex, &deptID,
		&s.ScanDate, &s.SourceFile, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Series = scangraph.Series(series)
	s.WeekIndex = nullIntValue(weekIndex)
	s.DeptID = nullStringValue(deptID)
	return &s, nil
}

// List returns all scans of a series, newest first.
func (r *ScanRepository) List(ctx context.Context, series scangraph.Series) ([]*scangraph.Scan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM scans
		WHERE series = $1
		ORDER BY %s
	`, scanColumns, scanRecency)

	rows, err := r.db.QueryContext(ctx, query, string(series))
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	scans := make([]*scangraph.Scan, 0)
	for rows.Next() {
		s, err := scanScanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scans: %w", err)
	}

	return scans, nil
}

// GetByID retrieves a scan by its natural key.
func (r *ScanRepository) GetByID(ctx context.Context, id string) (*scangraph.Scan, error) {
	query := fmt.Sprintf(`SELECT %s FROM scans WHERE id = $1`, scanColumns)

	s, err := scanScanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get scan %s: %w", id, err)
	}
	return s, nil
}

// Latest returns the most recent scan of a series, or
// shared.ErrNotFound when the series has no scans yet.
func (r *ScanRepository) Latest(ctx context.Context, series scangraph.Series) (*scangraph.Scan, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM scans
		WHERE series = $1
		ORDER BY %s
		LIMIT 1
	`, scanColumns, scanRecency)

	s, err := scanScanRow(r.db.QueryRowContext(ctx, query, string(series)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest %s scan: %w", series, err)
	}
	return s, nil
}

// LatestForDepartment returns the most recent departmental scan for
// one department together with the department record.
func (r *ScanRepository) LatestForDepartment(ctx context.Context, deptID string) (*scangraph.Scan, *scangraph.Department, error) {
	query := fmt.Sprintf(`
		SELECT s.id, s.series, s.year, s.month, s.week_index, s.dept_id,
			s.scan_date, s.source_file, s.created_at, s.updated_at,
			d.id, d.name
		FROM scans s
		JOIN departments d ON d.id = s.dept_id
		WHERE s.series = $1 AND s.dept_id = $2
		ORDER BY %s
		LIMIT 1
	`, scanRecency)

	var s scangraph.Scan
	var d scangraph.Department
	var series string
	var weekIndex sql.NullInt64
	var scanDeptID sql.NullString

	err := r.db.QueryRowContext(ctx, query, string(scangraph.SeriesDept), deptID).Scan(
		&s.ID, &series, &s.Year, &s.Month, &weekIndex, &scanDeptID,
		&s.ScanDate, &s.SourceFile, &s.CreatedAt, &s.UpdatedAt,
		&d.ID, &d.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, shared.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get latest scan for department %s: %w", deptID, err)
	}

	s.Series = scangraph.Series(series)
	s.WeekIndex = nullIntValue(weekIndex)
	s.DeptID = nullStringValue(scanDeptID)
	return &s, &d, nil
}
