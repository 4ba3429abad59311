// Package storage archives uploaded scan reports on the local
// filesystem under a deterministic per-period directory layout, so
// re-uploading a report for the same period overwrites the previous
// copy instead of accumulating duplicates.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
)

const reportFileName = "report.csv"

// Store writes uploaded reports below a base directory.
type Store struct {
	baseDir string
}

// NewStore creates a report store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// WeeklyPath returns the archive path for a weekly report.
func (s *Store) WeeklyPath(year, month, weekIndex int) string {
	return filepath.Join(s.baseDir,
		string(scangraph.SeriesWeekly),
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", month),
		fmt.Sprintf("week-%d", weekIndex),
		reportFileName,
	)
}

// MonthlyWebPath returns the archive path for a monthly web report.
func (s *Store) MonthlyWebPath(year, month int) string {
	return filepath.Join(s.baseDir,
		string(scangraph.SeriesMonthlyWeb),
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", month),
		reportFileName,
	)
}

// DeptPath returns the archive path for a departmental report. The
// department name is slugged the same way as its graph key, so the
// archive tree lines up with the stored department ids.
func (s *Store) DeptPath(department string, year, month int) string {
	return filepath.Join(s.baseDir,
		string(scangraph.SeriesDept),
		scangraph.SlugifyDepartment(department),
		fmt.Sprintf("%04d", year),
		fmt.Sprintf("%02d", month),
		reportFileName,
	)
}

// Save writes content to path, creating parent directories as needed
// and overwriting any existing file.
func (s *Store) Save(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
