package scangraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanIDs(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "weekly pads year and month",
			got:  WeeklyScanID(2024, 7, 1),
			want: "weekly_dhs_2024_07_wk1",
		},
		{
			name: "monthly web",
			got:  MonthlyWebScanID(2024, 11),
			want: "monthly_dhs_web_2024_11",
		},
		{
			name: "departmental includes slug",
			got:  DeptScanID("human_resources", 2025, 3),
			want: "dept_scan_human_resources_2025_03",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestSlugifyDepartment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "IT", want: "it"},
		{name: "spaces become underscores", input: "Human Resources", want: "human_resources"},
		{name: "keeps hyphens", input: "net-ops", want: "net-ops"},
		{name: "drops punctuation", input: "R&D (Labs)", want: "rd_labs"},
		{name: "blank collapses to unknown", input: "   ", want: "unknown"},
		{name: "all symbols collapse to unknown", input: "///", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugifyDepartment(tt.input))
		})
	}
}

func TestServiceIDs(t *testing.T) {
	port := 443

	tests := []struct {
		name string
		got  string
		want string
	}{
		{
			name: "weekly with port and protocol",
			got:  WeeklyServiceID("10.0.0.5", &port, "tcp"),
			want: "10.0.0.5:443/tcp",
		},
		{
			name: "weekly without port",
			got:  WeeklyServiceID("10.0.0.5", nil, "tcp"),
			want: "10.0.0.5:unknown",
		},
		{
			name: "weekly without protocol",
			got:  WeeklyServiceID("10.0.0.5", &port, ""),
			want: "10.0.0.5:unknown",
		},
		{
			name: "dept with port and protocol",
			got:  DeptServiceID("it:10.0.0.5", &port, "tcp"),
			want: "it:10.0.0.5:443/tcp",
		},
		{
			name: "dept without port",
			got:  DeptServiceID("it:10.0.0.5", nil, ""),
			want: "it:10.0.0.5:no-port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestVulnAndObservationIDs(t *testing.T) {
	assert.Equal(t, "weekly:19506", WeeklyVulnID(19506))
	assert.Equal(t, "monthly_web:150001", MonthlyWebVulnID("150001"))
	assert.Equal(t, "dept:38170", DeptVulnID("38170"))

	assert.Equal(t, "app:https://portal.example.gov", AppID("https://portal.example.gov"))
	assert.Equal(t, "app:unknown", AppID(""))

	assert.Equal(t,
		"weekly_dhs_2024_07_wk1:10.0.0.5:10.0.0.5:443/tcp:19506",
		WeeklyObservationID("weekly_dhs_2024_07_wk1", "10.0.0.5", "10.0.0.5:443/tcp", 19506),
	)
	assert.Equal(t,
		"monthly_dhs_web_2024_11:app:unknown:150001:3",
		MonthlyWebObservationID("monthly_dhs_web_2024_11", "app:unknown", "150001", 3),
	)
	assert.Equal(t,
		"dept_scan_it_2025_03:it:10.0.0.5:38170:0",
		DeptObservationID("dept_scan_it_2025_03", "it:10.0.0.5", "38170", ""),
	)
	assert.Equal(t,
		"dept_scan_it_2025_03:it:10.0.0.5:38170:2",
		DeptObservationID("dept_scan_it_2025_03", "it:10.0.0.5", "38170", "2"),
	)
}

func TestKeyDeterminism(t *testing.T) {
	// The same logical identity must always produce the same key.
	for i := 0; i < 3; i++ {
		assert.Equal(t, WeeklyScanID(2024, 7, 1), WeeklyScanID(2024, 7, 1))
		assert.Equal(t, DeptHostID("it", "10.0.0.5"), DeptHostID("it", "10.0.0.5"))
	}
}

func TestRelType(t *testing.T) {
	assert.Equal(t, "WEEKLY_DHS_FOUND_IN", RelType(SeriesWeekly, RelFoundIn))
	assert.Equal(t, "MONTHLY_DHS_WEB_HAS_OBSERVATION", RelType(SeriesMonthlyWeb, RelHasObservation))
	assert.Equal(t, "DEPT_SCAN_OWNS_HOST", RelType(SeriesDept, RelOwnsHost))
}
