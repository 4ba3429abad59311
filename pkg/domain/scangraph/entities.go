package scangraph

import "time"

// Scan is one ingested report period.
type Scan struct {
	ID         string
	Series     Series
	Year       int
	Month      int
	WeekIndex  *int    // weekly series only
	DeptID     *string // departmental series only
	ScanDate   time.Time
	SourceFile string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Department is the owning organizational unit of departmental scans.
type Department struct {
	ID   string
	Name string
}

// Host is a scanned machine. Weekly hosts carry hostname and
// first/last seen timestamps; departmental hosts carry the inventory
// attributes their reports expose. Unused fields stay nil.
type Host struct {
	ID       string
	Series   Series
	IP       string
	Hostname *string
	DNS      *string
	NetBIOS  *string
	OSName   *string
	IPStatus *string

	// FirstSeen is written only when the host is first created;
	// LastSeen advances on every sighting.
	FirstSeen *time.Time
	LastSeen  *time.Time
}

// App is a scanned web application.
type App struct {
	ID      string
	Name    string
	BaseURL *string
}

// Service is a port/protocol endpoint on a host. Service attributes
// are fixed at creation and never updated afterwards.
type Service struct {
	ID       string
	Series   Series
	IP       string
	Port     *int
	Protocol *string
	SSL      *string
}

// Vulnerability is the catalog entry behind observations. Every
// mutable attribute is overwritten on each ingest so the catalog
// always reflects the newest report. Field usage varies by series.
type Vulnerability struct {
	ID       string
	Series   Series
	Name     string
	Severity int

	// Weekly infrastructure fields.
	PluginID            *int
	CVSS                *float64
	CVSSVersion         *string
	KnownExploited      *bool
	RansomwareExploited *bool
	Description         *string
	Solution            *string
	Source              *string

	// Departmental fields.
	QID               *string
	Type              *string
	CVEID             *string
	VendorReference   *string
	BugtraqID         *string
	Threat            *string
	Impact            *string
	Exploitability    *string
	AssociatedMalware *string
	PCIVuln           *string
	Category          *string

	// Monthly web fields.
	VulnID    *string
	CWE       *string
	CVE       *string
	GroupName *string
	VulnType  *string
}

// Observation is one finding of a vulnerability on an asset within a
// scan. Exactly one of HostID/AppID is set depending on the series.
type Observation struct {
	ID        string
	Series    Series
	ScanID    string
	VulnID    string
	HostID    *string
	ServiceID *string
	AppID     *string

	Severity int
	CVSS     *float64
	URL      *string
	Instance *string
	AgeDays  *int

	// FirstSeen is fixed at creation; LastSeen advances on every
	// re-observation.
	FirstSeen time.Time
	LastSeen  time.Time
}

// ObservationStatusOpen is the lifecycle status stamped on newly
// created observations.
const ObservationStatusOpen = "open"

// Relationship is a typed edge between two entities, identified by
// the full (source, target, type) triple.
type Relationship struct {
	SourceID string
	TargetID string
	Type     string
}

// RowSet is the canonical output of mapping one CSV row: the entities
// to upsert, in parents-before-observation order, plus the edges that
// tie them together. Nil entity fields mean the row does not touch
// that entity kind.
type RowSet struct {
	Department    *Department
	Host          *Host
	App           *App
	Service       *Service
	Vulnerability *Vulnerability
	Observation   *Observation
	Relationships []Relationship
}
