// Package scangraph defines the canonical graph model shared by every
// report series: scans, departments, hosts, apps, services,
// vulnerabilities, observations and the relationships between them.
// All identities are deterministic natural keys so re-ingesting the
// same report converges on the same graph.
package scangraph

// Series identifies a report family. Each series has its own key
// space and relationship namespace.
type Series string

const (
	SeriesWeekly     Series = "weekly_dhs"
	SeriesMonthlyWeb Series = "monthly_dhs_web"
	SeriesDept       Series = "dept_scan"
)

// IsValid reports whether the series is one of the known families.
func (s Series) IsValid() bool {
	switch s {
	case SeriesWeekly, SeriesMonthlyWeb, SeriesDept:
		return true
	}
	return false
}

// RelPrefix returns the namespace prefix used in relationship type
// names for this series, e.g. WEEKLY_DHS.
func (s Series) RelPrefix() string {
	switch s {
	case SeriesWeekly:
		return "WEEKLY_DHS"
	case SeriesMonthlyWeb:
		return "MONTHLY_DHS_WEB"
	case SeriesDept:
		return "DEPT_SCAN"
	}
	return ""
}

// Relationship kinds shared across series.
const (
	RelOwnsHost        = "OWNS_HOST"
	RelRuns            = "RUNS"
	RelHasObservation  = "HAS_OBSERVATION"
	RelOfVulnerability = "OF_VULNERABILITY"
	RelFoundIn         = "FOUND_IN"
	RelForDepartment   = "FOR_DEPARTMENT"
)

// RelType composes the full relationship type name for a series,
// e.g. RelType(SeriesWeekly, RelFoundIn) == "WEEKLY_DHS_FOUND_IN".
func RelType(series Series, kind string) string {
	return series.RelPrefix() + "_" + kind
}

// AllSeries returns every known series.
func AllSeries() []Series {
	return []Series{SeriesWeekly, SeriesMonthlyWeb, SeriesDept}
}
