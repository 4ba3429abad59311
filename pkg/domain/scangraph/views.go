package scangraph

import "time"

// GraphRow is the denormalized read model behind dashboard graph
// assembly: one observation plus whatever related entities exist.
// Pointer fields are nil when the observation has no such neighbor.
type GraphRow struct {
	ObsID    string
	Severity int
	CVSS     *float64
	URL      *string

	HostID   *string
	HostIP   *string
	Hostname *string

	ServiceID *string

	AppID   *string
	AppName *string

	VulnID       *string
	VulnName     *string
	VulnSeverity *int
	VulnCVSS     *float64
}

// ScanKPIs are the headline numbers for one scan.
type ScanKPIs struct {
	TotalObservations        int `json:"total_observations"`
	Critical                 int `json:"critical"`
	High                     int `json:"high"`
	HostCount                int `json:"host_count"`
	VulnCount                int `json:"vuln_count"`
	KnownExploitedCount      int `json:"known_exploited_count"`
	RansomwareExploitedCount int `json:"ransomware_exploited_count"`
}

// SeverityBucket is one bar of the severity distribution chart.
type SeverityBucket struct {
	Severity int `json:"severity"`
	Count    int `json:"count"`
}

// HostActivity ranks a host by finding volume within one scan.
type HostActivity struct {
	IP       string  `json:"ip"`
	Hostname *string `json:"hostname"`
	Findings int     `json:"findings"`
	Critical int     `json:"critical"`
}

// VulnActivity ranks a vulnerability by finding volume within one scan.
type VulnActivity struct {
	ID                  string   `json:"weekly_vuln_id"`
	PluginID            *int     `json:"plugin_id"`
	Name                string   `json:"name"`
	Severity            int      `json:"severity"`
	CVSS                *float64 `json:"cvss"`
	KnownExploited      bool     `json:"known_exploited"`
	RansomwareExploited bool     `json:"ransomware_exploited"`
	Findings            int      `json:"findings"`
}

// Finding is one row of the paginated findings table.
type Finding struct {
	ObsID               string    `json:"obs_id"`
	Severity            int       `json:"severity"`
	CVSS                *float64  `json:"cvss"`
	FirstSeen           time.Time `json:"first_seen"`
	LastSeen            time.Time `json:"last_seen"`
	AgeDays             *int      `json:"age_days"`
	IP                  string    `json:"ip"`
	Hostname            *string   `json:"hostname"`
	PluginID            *int      `json:"plugin_id"`
	VulnName            *string   `json:"vuln_name"`
	KnownExploited      bool      `json:"known_exploited"`
	RansomwareExploited bool      `json:"ransomware_exploited"`
}

// FindingsFilter narrows the findings table. Search matches
// case-insensitively against host IP, hostname, vulnerability name
// and the plugin id rendered as text.
type FindingsFilter struct {
	MinSeverity *int
	Search      string
}
