package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
)

// ObservationRepository implements observation read queries using
// PostgreSQL: graph rows for dashboard assembly and the weekly
// analytics aggregations.
type ObservationRepository struct {
	db *DB
}

// NewObservationRepository creates a new ObservationRepository.
func NewObservationRepository(db *DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

// GraphRows returns the highest-severity observations of a scan with
// their related entities joined in, capped at limit.
func (r *ObservationRepository) GraphRows(ctx context.Context, scanID string, limit int) ([]scangraph.GraphRow, error) {
	query := `
		SELECT o.id, o.severity_at_scan, o.cvss_at_scan, o.url,
			h.id, h.ip, h.hostname,
			svc.id,
			a.id, a.name,
			v.id, v.name, v.severity, v.cvss
		FROM observations o
		LEFT JOIN hosts h ON h.id = o.host_id
		LEFT JOIN services svc ON svc.id = o.service_id
		LEFT JOIN apps a ON a.id = o.app_id
		LEFT JOIN vulnerabilities v ON v.id = o.vuln_id
		WHERE o.scan_id = $1
		ORDER BY o.severity_at_scan DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, scanID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query graph rows: %w", err)
	}
	defer rows.Close()

	results := make([]scangraph.GraphRow, 0, limit)
	for rows.Next() {
		var gr scangraph.GraphRow
		var cvss sql.NullFloat64
		var url sql.NullString
		var hostID, hostIP, hostname sql.NullString
		var serviceID sql.NullString
		var appID, appName sql.NullString
		var vulnID, vulnName sql.NullString
		var vulnSeverity sql.NullInt64
		var vulnCVSS sql.NullFloat64

		err := rows.Scan(
			&gr.ObsID, &gr.Severity, &cvss, &url,
			&hostID, &hostIP, &hostname,
			&serviceID,
			&appID, &appName,
			&vulnID, &vulnName, &vulnSeverity, &vulnCVSS,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan graph row: %w", err)
		}

		gr.CVSS = nullFloatValue(cvss)
		gr.URL = nullStringValue(url)
		gr.HostID = nullStringValue(hostID)
		gr.HostIP = nullStringValue(hostIP)
		gr.Hostname = nullStringValue(hostname)
		gr.ServiceID = nullStringValue(serviceID)
		gr.AppID = nullStringValue(appID)
		gr.AppName = nullStringValue(appName)
		gr.VulnID = nullStringValue(vulnID)
		gr.VulnName = nullStringValue(vulnName)
		gr.VulnSeverity = nullIntValue(vulnSeverity)
		gr.VulnCVSS = nullFloatValue(vulnCVSS)
		results = append(results, gr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate graph rows: %w", err)
	}

	return results, nil
}

// KPIs returns the headline numbers for a scan.
func (r *ObservationRepository) KPIs(ctx context.Context, scanID string) (*scangraph.ScanKPIs, error) {
	query := `
		SELECT count(*),
			count(*) FILTER (WHERE o.severity_at_scan = 5),
			count(*) FILTER (WHERE o.severity_at_scan = 4),
			count(DISTINCT o.host_id),
			count(DISTINCT o.vuln_id),
			count(*) FILTER (WHERE v.known_exploited),
			count(*) FILTER (WHERE v.ransomware_exploited)
		FROM observations o
		LEFT JOIN vulnerabilities v ON v.id = o.vuln_id
		WHERE o.scan_id = $1
	`

	var kpis scangraph.ScanKPIs
	err := r.db.QueryRowContext(ctx, query, scanID).Scan(
		&kpis.TotalObservations,
		&kpis.Critical,
		&kpis.High,
		&kpis.HostCount,
		&kpis.VulnCount,
		&kpis.KnownExploitedCount,
		&kpis.RansomwareExploitedCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan KPIs: %w", err)
	}
	return &kpis, nil
}

// SeverityBuckets returns the per-severity observation counts of a
// scan, highest severity first.
func (r *ObservationRepository) SeverityBuckets(ctx context.Context, scanID string, minSeverity *int) ([]scangraph.SeverityBucket, error) {
	query := `
		SELECT o.severity_at_scan, count(*)
		FROM observations o
		WHERE o.scan_id = $1
			AND ($2::int IS NULL OR o.severity_at_scan >= $2)
		GROUP BY o.severity_at_scan
		ORDER BY o.severity_at_scan DESC
	`

	rows, err := r.db.QueryContext(ctx, query, scanID, nullInt(minSeverity))
	if err != nil {
		return nil, fmt.Errorf("failed to query severity buckets: %w", err)
	}
	defer rows.Close()

	buckets := make([]scangraph.SeverityBucket, 0)
	for rows.Next() {
		var b scangraph.SeverityBucket
		if err := rows.Scan(&b.Severity, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan severity bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate severity buckets: %w", err)
	}

	return buckets, nil
}

// TopHosts returns the hosts with the most findings in a scan.
func (r *ObservationRepository) TopHosts(ctx context.Context, scanID string, minSeverity *int, limit int) ([]scangraph.HostActivity, error) {
	query := `
		SELECT h.ip, h.hostname, count(o.id),
			count(*) FILTER (WHERE o.severity_at_scan = 5)
		FROM observations o
		JOIN hosts h ON h.id = o.host_id
		WHERE o.scan_id = $1
			AND ($2::int IS NULL OR o.severity_at_scan >= $2)
		GROUP BY h.ip, h.hostname
		ORDER BY count(o.id) DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, scanID, nullInt(minSeverity), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top hosts: %w", err)
	}
	defer rows.Close()

	hosts := make([]scangraph.HostActivity, 0, limit)
	for rows.Next() {
		var h scangraph.HostActivity
		var hostname sql.NullString
		if err := rows.Scan(&h.IP, &hostname, &h.Findings, &h.Critical); err != nil {
			return nil, fmt.Errorf("failed to scan top host: %w", err)
		}
		h.Hostname = nullStringValue(hostname)
		hosts = append(hosts, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate top hosts: %w", err)
	}

	return hosts, nil
}

// TopVulns returns the vulnerabilities with the most findings in a
// scan.
func (r *ObservationRepository) TopVulns(ctx context.Context, scanID string, minSeverity *int, limit int) ([]scangraph.VulnActivity, error) {
	query := `
		SELECT v.id, v.plugin_id, v.name, v.severity, v.cvss,
			COALESCE(v.known_exploited, false),
			COALESCE(v.ransomware_exploited, false),
			count(o.id)
		FROM observations o
		JOIN vulnerabilities v ON v.id = o.vuln_id
		WHERE o.scan_id = $1
			AND ($2::int IS NULL OR o.severity_at_scan >= $2)
		GROUP BY v.id, v.plugin_id, v.name, v.severity, v.cvss,
			v.known_exploited, v.ransomware_exploited
		ORDER BY count(o.id) DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, scanID, nullInt(minSeverity), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top vulnerabilities: %w", err)
	}
	defer rows.Close()

	vulns := make([]scangraph.VulnActivity, 0, limit)
	for rows.Next() {
		var v scangraph.VulnActivity
		var pluginID sql.NullInt64
		var cvss sql.NullFloat64
		err := rows.Scan(
			&v.ID, &pluginID, &v.Name, &v.Severity, &cvss,
			&v.KnownExploited, &v.RansomwareExploited, &v.Findings,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top vulnerability: %w", err)
		}
		v.PluginID = nullIntValue(pluginID)
		v.CVSS = nullFloatValue(cvss)
		vulns = append(vulns, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate top vulnerabilities: %w", err)
	}

	return vulns, nil
}

// findingsWhere is the shared filter clause of CountFindings and
// ListFindings. $2 is the optional minimum severity, $3/$4 the
// optional search term and its wrapped ILIKE pattern.
const findingsWhere = `
	o.scan_id = $1
	AND ($2::int IS NULL OR o.severity_at_scan >= $2)
	AND ($3::text IS NULL
		OR h.ip ILIKE $4
		OR COALESCE(h.hostname, '') ILIKE $4
		OR COALESCE(v.name, '') ILIKE $4
		OR COALESCE(v.plugin_id::text, '') ILIKE $4)
`

// CountFindings returns how many findings of a scan match the filter.
func (r *ObservationRepository) CountFindings(ctx context.Context, scanID string, filter scangraph.FindingsFilter) (int64, error) {
	query := `
		SELECT count(*)
		FROM observations o
		JOIN hosts h ON h.id = o.host_id
		JOIN vulnerabilities v ON v.id = o.vuln_id
		WHERE ` + findingsWhere

	search, pattern := searchParams(filter.Search)

	var total int64
	err := r.db.QueryRowContext(ctx, query, scanID, nullInt(filter.MinSeverity), search, pattern).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count findings: %w", err)
	}
	return total, nil
}

// ListFindings returns one page of the findings table, ordered by
// severity then age, both descending.
func (r *ObservationRepository) ListFindings(ctx context.Context, scanID string, filter scangraph.FindingsFilter, offset, limit int) ([]scangraph.Finding, error) {
	query := `
		SELECT o.id, o.severity_at_scan, o.cvss_at_scan,
			o.first_seen, o.last_seen, o.age_days,
			h.ip, h.hostname,
			v.plugin_id, v.name,
			COALESCE(v.known_exploited, false),
			COALESCE(v.ransomware_exploited, false)
		FROM observations o
		JOIN hosts h ON h.id = o.host_id
		JOIN vulnerabilities v ON v.id = o.vuln_id
		WHERE ` + findingsWhere + `
		ORDER BY o.severity_at_scan DESC, o.age_days DESC NULLS LAST
		OFFSET $5
		LIMIT $6
	`

	search, pattern := searchParams(filter.Search)

	rows, err := r.db.QueryContext(ctx, query, scanID, nullInt(filter.MinSeverity), search, pattern, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	findings := make([]scangraph.Finding, 0, limit)
	for rows.Next() {
		var f scangraph.Finding
		var cvss sql.NullFloat64
		var ageDays sql.NullInt64
		var hostname, vulnName sql.NullString
		var pluginID sql.NullInt64

		err := rows.Scan(
			&f.ObsID, &f.Severity, &cvss,
			&f.FirstSeen, &f.LastSeen, &ageDays,
			&f.IP, &hostname,
			&pluginID, &vulnName,
			&f.KnownExploited, &f.RansomwareExploited,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}

		f.CVSS = nullFloatValue(cvss)
		f.AgeDays = nullIntValue(ageDays)
		f.Hostname = nullStringValue(hostname)
		f.PluginID = nullIntValue(pluginID)
		f.VulnName = nullStringValue(vulnName)
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate findings: %w", err)
	}

	return findings, nil
}

// searchParams renders a search term into the nullable term and ILIKE
// pattern parameters of findingsWhere.
func searchParams(search string) (sql.NullString, sql.NullString) {
	if search == "" {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: search, Valid: true},
		sql.NullString{String: wrapLikePattern(search), Valid: true}
}
