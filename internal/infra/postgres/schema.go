package postgres

import (
	"context"
	"fmt"
)

// schemaStatements is applied in order on startup. Every statement is
// idempotent so repeated boots converge on the same schema.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS departments (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS scans (
		id          TEXT PRIMARY KEY,
		series      TEXT NOT NULL,
		year        INT NOT NULL,
		month       INT NOT NULL,
		week_index  INT,
		dept_id     TEXT REFERENCES departments(id),
		scan_date   DATE NOT NULL,
		source_file TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_scans_series_recency
		ON scans (series, scan_date DESC, year DESC, month DESC, week_index DESC)`,

	`CREATE TABLE IF NOT EXISTS hosts (
		id         TEXT PRIMARY KEY,
		series     TEXT NOT NULL,
		ip         TEXT NOT NULL,
		hostname   TEXT,
		dns        TEXT,
		netbios    TEXT,
		os_name    TEXT,
		ip_status  TEXT,
		first_seen TIMESTAMPTZ,
		last_seen  TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS apps (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		base_url   TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS services (
		id         TEXT PRIMARY KEY,
		series     TEXT NOT NULL,
		ip         TEXT NOT NULL,
		port       INT,
		protocol   TEXT,
		ssl        TEXT,
		created_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS vulnerabilities (
		id                   TEXT PRIMARY KEY,
		series               TEXT NOT NULL,
		name                 TEXT NOT NULL,
		severity             INT NOT NULL DEFAULT 0,
		plugin_id            INT,
		cvss                 DOUBLE PRECISION,
		cvss_version         TEXT,
		known_exploited      BOOLEAN,
		ransomware_exploited BOOLEAN,
		description          TEXT,
		solution             TEXT,
		source               TEXT,
		qid                  TEXT,
		type                 TEXT,
		cve_id               TEXT,
		vendor_reference     TEXT,
		bugtraq_id           TEXT,
		threat               TEXT,
		impact               TEXT,
		exploitability       TEXT,
		associated_malware   TEXT,
		pci_vuln             TEXT,
		category             TEXT,
		vuln_id              TEXT,
		cwe                  TEXT,
		cve                  TEXT,
		group_name           TEXT,
		vuln_type            TEXT,
		created_at           TIMESTAMPTZ NOT NULL,
		updated_at           TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS observations (
		id               TEXT PRIMARY KEY,
		series           TEXT NOT NULL,
		scan_id          TEXT NOT NULL REFERENCES scans(id),
		vuln_id          TEXT NOT NULL REFERENCES vulnerabilities(id),
		host_id          TEXT REFERENCES hosts(id),
		service_id       TEXT REFERENCES services(id),
		app_id           TEXT REFERENCES apps(id),
		severity_at_scan INT NOT NULL DEFAULT 0,
		cvss_at_scan     DOUBLE PRECISION,
		url              TEXT,
		instance         TEXT,
		age_days         INT,
		status           TEXT NOT NULL DEFAULT 'open',
		first_seen       TIMESTAMPTZ NOT NULL,
		last_seen        TIMESTAMPTZ NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_observations_scan_severity
		ON observations (scan_id, severity_at_scan DESC)`,

	`CREATE TABLE IF NOT EXISTS edges (
		source_id  TEXT NOT NULL,
		target_id  TEXT NOT NULL,
		rel_type   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (source_id, target_id, rel_type)
	)`,
}

// EnsureSchema creates the graph tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
