package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePaths(t *testing.T) {
	s := NewStore("/data/uploads")

	assert.Equal(t,
		filepath.Join("/data/uploads", "weekly_dhs", "2025", "03", "week-2", "report.csv"),
		s.WeeklyPath(2025, 3, 2))

	assert.Equal(t,
		filepath.Join("/data/uploads", "monthly_dhs_web", "2025", "11", "report.csv"),
		s.MonthlyWebPath(2025, 11))

	assert.Equal(t,
		filepath.Join("/data/uploads", "dept_scan", "human_resources", "2024", "07", "report.csv"),
		s.DeptPath("Human Resources", 2024, 7))
}

func TestStoreSave(t *testing.T) {
	s := NewStore(t.TempDir())
	path := s.WeeklyPath(2025, 1, 1)

	require.NoError(t, s.Save(path, []byte("first")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))

	// Re-uploading the same period overwrites.
	require.NoError(t, s.Save(path, []byte("second")))

	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}
