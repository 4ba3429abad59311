// Package graphview assembles dashboard graph payloads from ranked
// observation rows. Nodes are deduplicated by id and links by the
// (source, target, type) triple, both in first-seen order so payloads
// are deterministic for a given row ordering.
package graphview

import (
	"fmt"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
)

// Node is one rendered graph node. Optional attributes are omitted
// when the node type does not carry them.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`

	Year      *int     `json:"year,omitempty"`
	Month     *int     `json:"month,omitempty"`
	WeekIndex *int     `json:"week_index,omitempty"`
	Severity  *int     `json:"severity,omitempty"`
	CVSS      *float64 `json:"cvss,omitempty"`
	URL       *string  `json:"url,omitempty"`
}

// Link is one rendered graph edge.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Graph is the node-link structure consumed by the frontend renderer.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Summary counts only what was actually rendered, so truncated graphs
// report the rendered subset rather than the full scan.
type Summary struct {
	ObservationCount int  `json:"observation_count"`
	HostCount        *int `json:"host_count,omitempty"`
	AppCount         *int `json:"app_count,omitempty"`
	VulnCount        int  `json:"vuln_count"`
	NodeCount        int  `json:"node_count"`
	LinkCount        int  `json:"link_count"`
}

// Payload is a complete dashboard graph response for one scan.
type Payload struct {
	ScanID     string  `json:"scan_id"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	WeekIndex  *int    `json:"week_index,omitempty"`
	Department *string `json:"department,omitempty"`
	DeptID     *string `json:"dept_id,omitempty"`
	Summary    Summary `json:"summary"`
	Graph      Graph   `json:"graph"`
}

// builder accumulates deduplicated nodes and links in insertion order.
type builder struct {
	nodes     []Node
	nodeSeen  map[string]bool
	links     []Link
	linkSeen  map[string]bool
	obsCount  int
	assetSeen map[string]bool
	vulnSeen  map[string]bool
}

func newBuilder() *builder {
	return &builder{
		nodeSeen:  make(map[string]bool),
		linkSeen:  make(map[string]bool),
		assetSeen: make(map[string]bool),
		vulnSeen:  make(map[string]bool),
	}
}

func (b *builder) addNode(n Node) {
	if b.nodeSeen[n.ID] {
		return
	}
	b.nodeSeen[n.ID] = true
	b.nodes = append(b.nodes, n)
}

func (b *builder) addLink(source, target, linkType string) {
	key := fmt.Sprintf("%s->%s:%s", source, target, linkType)
	if b.linkSeen[key] {
		return
	}
	b.linkSeen[key] = true
	b.links = append(b.links, Link{Source: source, Target: target, Type: linkType})
}

func (b *builder) graph() Graph {
	nodes := b.nodes
	if nodes == nil {
		nodes = []Node{}
	}
	links := b.links
	if links == nil {
		links = []Link{}
	}
	return Graph{Nodes: nodes, Links: links}
}

func (b *builder) summary(withHosts bool) Summary {
	s := Summary{
		ObservationCount: b.obsCount,
		VulnCount:        len(b.vulnSeen),
		NodeCount:        len(b.nodes),
		LinkCount:        len(b.links),
	}
	assets := len(b.assetSeen)
	if withHosts {
		s.HostCount = &assets
	} else {
		s.AppCount = &assets
	}
	return s
}

func obsLabel(id string) string {
	return "Obs " + id
}

func vulnLabel(id string, name *string) string {
	if name != nil && *name != "" {
		return *name
	}
	return "Vuln " + id
}

// AssembleWeekly renders the host/service/observation/vulnerability
// neighborhood of one weekly infrastructure scan.
func AssembleWeekly(scan *scangraph.Scan, rows []scangraph.GraphRow) *Payload {
	b := newBuilder()
	series := scangraph.SeriesWeekly

	year, month := scan.Year, scan.Month
	b.addNode(Node{
		ID: scan.ID, Label: scan.ID, Type: "weekly_scan",
		Year: &year, Month: &month, WeekIndex: scan.WeekIndex,
	})

	for i := range rows {
		row := &rows[i]
		b.obsCount++

		severity := row.Severity
		b.addNode(Node{
			ID: row.ObsID, Label: obsLabel(row.ObsID), Type: "weekly_observation",
			Severity: &severity, CVSS: row.CVSS,
		})
		b.addLink(row.ObsID, scan.ID, scangraph.RelType(series, scangraph.RelFoundIn))

		if row.HostID != nil {
			label := *row.HostID
			if row.Hostname != nil && *row.Hostname != "" {
				label = *row.Hostname
			}
			b.assetSeen[*row.HostID] = true
			b.addNode(Node{ID: *row.HostID, Label: label, Type: "weekly_host"})
			b.addLink(*row.HostID, row.ObsID, scangraph.RelType(series, scangraph.RelHasObservation))
		}

		if row.ServiceID != nil {
			b.addNode(Node{ID: *row.ServiceID, Label: *row.ServiceID, Type: "weekly_service"})
			if row.HostID != nil {
				b.addLink(*row.HostID, *row.ServiceID, scangraph.RelType(series, scangraph.RelRuns))
			}
			b.addLink(*row.ServiceID, row.ObsID, scangraph.RelType(series, scangraph.RelHasObservation))
		}

		if row.VulnID != nil {
			b.vulnSeen[*row.VulnID] = true
			b.addNode(Node{
				ID: *row.VulnID, Label: vulnLabel(*row.VulnID, row.VulnName), Type: "weekly_vuln",
				Severity: row.VulnSeverity, CVSS: row.VulnCVSS,
			})
			b.addLink(row.ObsID, *row.VulnID, scangraph.RelType(series, scangraph.RelOfVulnerability))
		}
	}

	return &Payload{
		ScanID:    scan.ID,
		Year:      scan.Year,
		Month:     scan.Month,
		WeekIndex: scan.WeekIndex,
		Summary:   b.summary(true),
		Graph:     b.graph(),
	}
}

// AssembleMonthlyWeb renders the app/observation/vulnerability
// neighborhood of one monthly web scan.
func AssembleMonthlyWeb(scan *scangraph.Scan, rows []scangraph.GraphRow) *Payload {
	b := newBuilder()
	series := scangraph.SeriesMonthlyWeb

	year, month := scan.Year, scan.Month
	b.addNode(Node{
		ID: scan.ID, Label: scan.ID, Type: "monthly_web_scan",
		Year: &year, Month: &month,
	})

	for i := range rows {
		row := &rows[i]
		b.obsCount++

		severity := row.Severity
		b.addNode(Node{
			ID: row.ObsID, Label: obsLabel(row.ObsID), Type: "monthly_web_observation",
			Severity: &severity, CVSS: row.CVSS, URL: row.URL,
		})
		b.addLink(row.ObsID, scan.ID, scangraph.RelType(series, scangraph.RelFoundIn))

		if row.AppID != nil {
			label := *row.AppID
			if row.AppName != nil && *row.AppName != "" {
				label = *row.AppName
			}
			b.assetSeen[*row.AppID] = true
			b.addNode(Node{ID: *row.AppID, Label: label, Type: "monthly_web_app"})
			b.addLink(*row.AppID, row.ObsID, scangraph.RelType(series, scangraph.RelHasObservation))
		}

		if row.VulnID != nil {
			b.vulnSeen[*row.VulnID] = true
			b.addNode(Node{
				ID: *row.VulnID, Label: vulnLabel(*row.VulnID, row.VulnName), Type: "monthly_web_vuln",
				Severity: row.VulnSeverity, CVSS: row.VulnCVSS,
			})
			b.addLink(row.ObsID, *row.VulnID, scangraph.RelType(series, scangraph.RelOfVulnerability))
		}
	}

	return &Payload{
		ScanID:  scan.ID,
		Year:    scan.Year,
		Month:   scan.Month,
		Summary: b.summary(false),
		Graph:   b.graph(),
	}
}

// AssembleDept renders the department/host/service/observation/
// vulnerability neighborhood of one departmental scan.
func AssembleDept(scan *scangraph.Scan, dept *scangraph.Department, rows []scangraph.GraphRow) *Payload {
	b := newBuilder()
	series := scangraph.SeriesDept

	deptLabel := dept.Name
	if deptLabel == "" {
		deptLabel = dept.ID
	}
	b.addNode(Node{ID: dept.ID, Label: deptLabel, Type: "dept"})

	year, month := scan.Year, scan.Month
	b.addNode(Node{
		ID: scan.ID, Label: scan.ID, Type: "dept_scan",
		Year: &year, Month: &month,
	})
	b.addLink(scan.ID, dept.ID, scangraph.RelType(series, scangraph.RelForDepartment))

	for i := range rows {
		row := &rows[i]
		b.obsCount++

		severity := row.Severity
		b.addNode(Node{
			ID: row.ObsID, Label: obsLabel(row.ObsID), Type: "dept_observation",
			Severity: &severity,
		})
		b.addLink(row.ObsID, scan.ID, scangraph.RelType(series, scangraph.RelFoundIn))

		if row.HostID != nil {
			label := *row.HostID
			if row.HostIP != nil && *row.HostIP != "" {
				label = *row.HostIP
			}
			b.assetSeen[*row.HostID] = true
			b.addNode(Node{ID: *row.HostID, Label: label, Type: "dept_host"})
			b.addLink(dept.ID, *row.HostID, scangraph.RelType(series, scangraph.RelOwnsHost))
			b.addLink(*row.HostID, row.ObsID, scangraph.RelType(series, scangraph.RelHasObservation))
		}

		if row.ServiceID != nil {
			b.addNode(Node{ID: *row.ServiceID, Label: *row.ServiceID, Type: "dept_service"})
			if row.HostID != nil {
				b.addLink(*row.HostID, *row.ServiceID, scangraph.RelType(series, scangraph.RelRuns))
			}
			b.addLink(*row.ServiceID, row.ObsID, scangraph.RelType(series, scangraph.RelHasObservation))
		}

		if row.VulnID != nil {
			b.vulnSeen[*row.VulnID] = true
			b.addNode(Node{
				ID: *row.VulnID, Label: vulnLabel(*row.VulnID, row.VulnName), Type: "dept_vuln",
				Severity: row.VulnSeverity,
			})
			b.addLink(row.ObsID, *row.VulnID, scangraph.RelType(series, scangraph.RelOfVulnerability))
		}
	}

	deptName := dept.Name
	return &Payload{
		ScanID:     scan.ID,
		Year:       scan.Year,
		Month:      scan.Month,
		Department: &deptName,
		DeptID:     &dept.ID,
		Summary:    b.summary(true),
		Graph:      b.graph(),
	}
}
