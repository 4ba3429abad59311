package ingest

import (
	"time"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
)

// mapDeptRow converts one departmental CSV row. Host keys are scoped
// by the department slug so identical IPs across departments stay
// distinct. Rows missing an IP or a QID are skipped.
func mapDeptRow(scanID, deptID string, row map[string]string, now time.Time) (*scangraph.RowSet, bool) {
	ip := trimCell(row["IP"])
	if ip == "" {
		return nil, true
	}

	qid := trimCell(row["QID"])
	if qid == "" {
		return nil, true
	}

	port := parseInt(row["Port"])
	protocol := trimCell(row["Protocol"])

	severity := 0
	if v := parseInt(row["Severity"]); v != nil {
		severity = *v
	}

	instance := trimCell(row["Instance"])

	hostID := scangraph.DeptHostID(deptID, ip)
	serviceID := scangraph.DeptServiceID(hostID, port, protocol)
	vulnID := scangraph.DeptVulnID(qid)
	obsID := scangraph.DeptObservationID(scanID, hostID, qid, instance)

	rs := &scangraph.RowSet{
		Host: &scangraph.Host{
			ID:       hostID,
			Series:   scangraph.SeriesDept,
			IP:       ip,
			DNS:      optString(row["DNS"]),
			NetBIOS:  optString(row["NetBIOS"]),
			OSName:   optString(row["OS"]),
			IPStatus: optString(row["IP Status"]),
		},
		Service: &scangraph.Service{
			ID:       serviceID,
			Series:   scangraph.SeriesDept,
			IP:       ip,
			Port:     port,
			Protocol: optString(protocol),
			SSL:      optString(row["SSL"]),
		},
		Vulnerability: &scangraph.Vulnerability{
			ID:                vulnID,
			Series:            scangraph.SeriesDept,
			Name:              trimCell(row["Title"]),
			Severity:          severity,
			QID:               &qid,
			Type:              optString(row["Type"]),
			CVEID:             optString(row["CVE ID"]),
			VendorReference:   optString(row["Vendor Reference"]),
			BugtraqID:         optString(row["Bugtraq ID"]),
			Threat:            optString(row["Threat"]),
			Impact:            optString(row["Impact"]),
			Solution:          optString(row["Solution"]),
			Exploitability:    optString(row["Exploitability"]),
			AssociatedMalware: optString(row["Associated Malware"]),
			PCIVuln:           optString(row["PCI Vuln"]),
			Category:          optString(row["Category"]),
		},
		Observation: &scangraph.Observation{
			ID:        obsID,
			Series:    scangraph.SeriesDept,
			ScanID:    scanID,
			VulnID:    vulnID,
			HostID:    &hostID,
			ServiceID: &serviceID,
			Severity:  severity,
			Instance:  optString(instance),
			FirstSeen: now,
			LastSeen:  now,
		},
		Relationships: []scangraph.Relationship{
			{SourceID: deptID, TargetID: hostID, Type: scangraph.RelType(scangraph.SeriesDept, scangraph.RelOwnsHost)},
			{SourceID: hostID, TargetID: serviceID, Type: scangraph.RelType(scangraph.SeriesDept, scangraph.RelRuns)},
			{SourceID: hostID, TargetID: obsID, Type: scangraph.RelType(scangraph.SeriesDept, scangraph.RelHasObservation)},
			{SourceID: serviceID, TargetID: obsID, Type: scangraph.RelType(scangraph.SeriesDept, scangraph.RelHasObservation)},
			{SourceID: obsID, TargetID: vulnID, Type: scangraph.RelType(scangraph.SeriesDept, scangraph.RelOfVulnerability)},
			{SourceID: obsID, TargetID: scanID, Type: scangraph.RelType(scangraph.SeriesDept, scangraph.RelFoundIn)},
		},
	}
	return rs, false
}
