package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
)

// GraphRepository is the merge engine behind ingestion. Every write is
// an idempotent INSERT ... ON CONFLICT keyed by the entity's natural
// key, so replaying a report converges instead of duplicating.
type GraphRepository struct {
	db *DB
}

// NewGraphRepository creates a new GraphRepository.
func NewGraphRepository(db *DB) *GraphRepository {
	return &GraphRepository{db: db}
}

// UpsertScan creates or refreshes a scan. Period attributes and the
// source file path are overwritten on every ingest; created_at is
// fixed at first creation.
func (r *GraphRepository) UpsertScan(ctx context.Context, scan *scangraph.Scan, now time.Time) error {
	query := `
		INSERT INTO scans (
			id, series, year, month, week_index, dept_id,
			scan_date, source_file, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		ON CONFLICT (id) DO UPDATE SET
			year = EXCLUDED.year,
			month = EXCLUDED.month,
			week_index = EXCLUDED.week_index,
			dept_id = EXCLUDED.dept_id,
			scan_date = EXCLUDED.scan_date,
			source_file = EXCLUDED.source_file,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		scan.ID,
		string(scan.Series),
		scan.Year,
		scan.Month,
		nullInt(scan.WeekIndex),
		nullString(scan.DeptID),
		scan.ScanDate,
		scan.SourceFile,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert scan %s: %w", scan.ID, err)
	}
	return nil
}

// UpsertDepartment creates or refreshes a department. The display
// name is kept from the latest ingest that provided one.
func (r *GraphRepository) UpsertDepartment(ctx context.Context, dept *scangraph.Department, now time.Time) error {
	query := `
		INSERT INTO departments (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), departments.name)
	`

	_, err := r.db.ExecContext(ctx, query, dept.ID, dept.Name, now)
	if err != nil {
		return fmt.Errorf("failed to upsert department %s: %w", dept.ID, err)
	}
	return nil
}

// upsertHost merges a host sighting. Identity attributes fill in when
// previously unknown but are never blanked by a sparser row;
// first_seen is fixed at creation while last_seen advances.
func (r *GraphRepository) upsertHost(ctx context.Context, host *scangraph.Host, now time.Time) error {
	query := `
		INSERT INTO hosts (
			id, series, ip, hostname, dns, netbios, os_name, ip_status,
			first_seen, last_seen, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			hostname = COALESCE(EXCLUDED.hostname, hosts.hostname),
			dns = COALESCE(EXCLUDED.dns, hosts.dns),
			netbios = COALESCE(EXCLUDED.netbios, hosts.netbios),
			os_name = COALESCE(EXCLUDED.os_name, hosts.os_name),
			ip_status = COALESCE(EXCLUDED.ip_status, hosts.ip_status),
			last_seen = COALESCE(EXCLUDED.last_seen, hosts.last_seen)
	`

	_, err := r.db.ExecContext(ctx, query,
		host.ID,
		string(host.Series),
		host.IP,
		nullString(host.Hostname),
		nullString(host.DNS),
		nullString(host.NetBIOS),
		nullString(host.OSName),
		nullString(host.IPStatus),
		nullTime(host.FirstSeen),
		nullTime(host.LastSeen),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert host %s: %w", host.ID, err)
	}
	return nil
}

// upsertApp merges a web application. The name is fixed at creation;
// the base URL fills in when a later report provides one.
func (r *GraphRepository) upsertApp(ctx context.Context, app *scangraph.App, now time.Time) error {
	query := `
		INSERT INTO apps (id, name, base_url, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			base_url = COALESCE(EXCLUDED.base_url, apps.base_url)
	`

	_, err := r.db.ExecContext(ctx, query,
		app.ID,
		app.Name,
		nullString(app.BaseURL),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert app %s: %w", app.ID, err)
	}
	return nil
}

// upsertService records a service endpoint. Service attributes are
// immutable once created.
func (r *GraphRepository) upsertService(ctx context.Context, svc *scangraph.Service, now time.Time) error {
	query := `
		INSERT INTO services (id, series, ip, port, protocol, ssl, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query,
		svc.ID,
		string(svc.Series),
		svc.IP,
		nullInt(svc.Port),
		nullString(svc.Protocol),
		nullString(svc.SSL),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert service %s: %w", svc.ID, err)
	}
	return nil
}

// upsertVulnerability merges a catalog entry. Every descriptive field
// is overwritten so the catalog tracks the newest report.
func (r *GraphRepository) upsertVulnerability(ctx context.Context, vuln *scangraph.Vulnerability, now time.Time) error {
	query := `
		INSERT INTO vulnerabilities (
			id, series, name, severity, plugin_id, cvss, cvss_version,
			known_exploited, ransomware_exploited, description, solution, source,
			qid, type, cve_id, vendor_reference, bugtraq_id, threat, impact,
			exploitability, associated_malware, pci_vuln, category,
			vuln_id, cwe, cve, group_name, vuln_type,
			created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
			$27, $28, $29, $29
		)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			severity = EXCLUDED.severity,
			cvss = EXCLUDED.cvss,
			cvss_version = EXCLUDED.cvss_version,
			known_exploited = EXCLUDED.known_exploited,
			ransomware_exploited = EXCLUDED.ransomware_exploited,
			description = EXCLUDED.description,
			solution = EXCLUDED.solution,
			source = EXCLUDED.source,
			type = EXCLUDED.type,
			cve_id = EXCLUDED.cve_id,
			vendor_reference = EXCLUDED.vendor_reference,
			bugtraq_id = EXCLUDED.bugtraq_id,
			threat = EXCLUDED.threat,
			impact = EXCLUDED.impact,
			exploitability = EXCLUDED.exploitability,
			associated_malware = EXCLUDED.associated_malware,
			pci_vuln = EXCLUDED.pci_vuln,
			category = EXCLUDED.category,
			vuln_id = EXCLUDED.vuln_id,
			cwe = EXCLUDED.cwe,
			cve = EXCLUDED.cve,
			group_name = EXCLUDED.group_name,
			vuln_type = EXCLUDED.vuln_type,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		vuln.ID,
		string(vuln.Series),
		vuln.Name,
		vuln.Severity,
		nullInt(vuln.PluginID),
		nullFloat(vuln.CVSS),
		nullString(vuln.CVSSVersion),
		nullBool(vuln.KnownExploited),
		nullBool(vuln.RansomwareExploited),
		nullString(vuln.Description),
		nullString(vuln.Solution),
		nullString(vuln.Source),
		nullString(vuln.QID),
		nullString(vuln.Type),
		nullString(vuln.CVEID),
		nullString(vuln.VendorReference),
		nullString(vuln.BugtraqID),
		nullString(vuln.Threat),
		nullString(vuln.Impact),
		nullString(vuln.Exploitability),
		nullString(vuln.AssociatedMalware),
		nullString(vuln.PCIVuln),
		nullString(vuln.Category),
		nullString(vuln.VulnID),
		nullString(vuln.CWE),
		nullString(vuln.CVE),
		nullString(vuln.GroupName),
		nullString(vuln.VulnType),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vulnerability %s: %w", vuln.ID, err)
	}
	return nil
}

// upsertObservation merges a finding. Scan-time measurements and
// last_seen advance on every re-observation; first_seen and status
// are fixed at creation.
func (r *GraphRepository) upsertObservation(ctx context.Context, obs *scangraph.Observation, now time.Time) error {
	query := `
		INSERT INTO observations (
			id, series, scan_id, vuln_id, host_id, service_id, app_id,
			severity_at_scan, cvss_at_scan, url, instance, age_days,
			status, first_seen, last_seen, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $16
		)
		ON CONFLICT (id) DO UPDATE SET
			severity_at_scan = EXCLUDED.severity_at_scan,
			cvss_at_scan = EXCLUDED.cvss_at_scan,
			url = EXCLUDED.url,
			instance = EXCLUDED.instance,
			age_days = EXCLUDED.age_days,
			last_seen = EXCLUDED.last_seen,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		obs.ID,
		string(obs.Series),
		obs.ScanID,
		obs.VulnID,
		nullString(obs.HostID),
		nullString(obs.ServiceID),
		nullString(obs.AppID),
		obs.Severity,
		nullFloat(obs.CVSS),
		nullString(obs.URL),
		nullString(obs.Instance),
		nullInt(obs.AgeDays),
		scangraph.ObservationStatusOpen,
		obs.FirstSeen,
		obs.LastSeen,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert observation %s: %w", obs.ID, err)
	}
	return nil
}

// UpsertRelationship asserts a typed edge. Re-asserting an existing
// edge is a no-op.
func (r *GraphRepository) UpsertRelationship(ctx context.Context, rel scangraph.Relationship) error {
	query := `
		INSERT INTO edges (source_id, target_id, rel_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (source_id, target_id, rel_type) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, rel.SourceID, rel.TargetID, rel.Type)
	if err != nil {
		return fmt.Errorf("failed to upsert edge %s-[%s]->%s: %w", rel.SourceID, rel.Type, rel.TargetID, err)
	}
	return nil
}

// ApplyRow applies one mapped CSV row: entities in
// parents-before-observation order, then the edges tying them
// together. The first failing statement aborts the row.
func (r *GraphRepository) ApplyRow(ctx context.Context, rs *scangraph.RowSet, now time.Time) error {
	if rs.Department != nil {
		if err := r.UpsertDepartment(ctx, rs.Department, now); err != nil {
			return err
		}
	}
	if rs.Host != nil {
		if err := r.upsertHost(ctx, rs.Host, now); err != nil {
			return err
		}
	}
	if rs.App != nil {
		if err := r.upsertApp(ctx, rs.App, now); err != nil {
			return err
		}
	}
	if rs.Service != nil {
		if err := r.upsertService(ctx, rs.Service, now); err != nil {
			return err
		}
	}
	if rs.Vulnerability != nil {
		if err := r.upsertVulnerability(ctx, rs.Vulnerability, now); err != nil {
			return err
		}
	}
	if rs.Observation != nil {
		if err := r.upsertObservation(ctx, rs.Observation, now); err != nil {
			return err
		}
	}
	for _, rel := range rs.Relationships {
		if err := r.UpsertRelationship(ctx, rel); err != nil {
			return err
		}
	}
	return nil
}
