package ingest

import (
	"time"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
)

const weeklyDefaultSource = "dhs_weekly"

// mapWeeklyRow converts one weekly infrastructure CSV row into the
// entities and edges it contributes to the graph. Rows without an IP
// or a parseable plugin id carry no usable identity and are skipped.
func mapWeeklyRow(scanID string, row map[string]string, now time.Time) (*scangraph.RowSet, bool) {
	ip := trimCell(row["ip"])
	if ip == "" {
		return nil, true
	}

	pluginID := parseInt(row["plugin_id"])
	if pluginID == nil {
		return nil, true
	}

	port := parseInt(row["port"])
	protocol := trimCell(row["protocol"])

	severity := 0
	if v := parseInt(row["severity"]); v != nil {
		severity = *v
	}

	initialDetection := parseISOTime(row["initial_detection"])
	latestDetection := parseISOTime(row["latest_detection"])

	firstSeen := now
	if initialDetection != nil {
		firstSeen = *initialDetection
	}
	lastSeen := now
	if latestDetection != nil {
		lastSeen = *latestDetection
	}

	source := trimCell(row["source"])
	if source == "" {
		source = weeklyDefaultSource
	}

	hostID := scangraph.WeeklyHostID(ip)
	serviceID := scangraph.WeeklyServiceID(ip, port, protocol)
	vulnID := scangraph.WeeklyVulnID(*pluginID)
	obsID := scangraph.WeeklyObservationID(scanID, ip, serviceID, *pluginID)

	rs := &scangraph.RowSet{
		Host: &scangraph.Host{
			ID:        hostID,
			Series:    scangraph.SeriesWeekly,
			IP:        ip,
			Hostname:  optString(row["Hostname"]),
			FirstSeen: &firstSeen,
			LastSeen:  &lastSeen,
		},
		Service: &scangraph.Service{
			ID:       serviceID,
			Series:   scangraph.SeriesWeekly,
			IP:       ip,
			Port:     port,
			Protocol: optString(protocol),
		},
		Vulnerability: &scangraph.Vulnerability{
			ID:                  vulnID,
			Series:              scangraph.SeriesWeekly,
			Name:                trimCell(row["name"]),
			Severity:            severity,
			PluginID:            pluginID,
			CVSS:                parseFloat(row["cvss_base_score"]),
			CVSSVersion:         optString(row["cvss_version"]),
			KnownExploited:      parseBool(row["known_exploited"]),
			RansomwareExploited: parseBool(row["ransomware_exploited"]),
			Description:         optString(row["description"]),
			Solution:            optString(row["solution"]),
			Source:              &source,
		},
		Observation: &scangraph.Observation{
			ID:        obsID,
			Series:    scangraph.SeriesWeekly,
			ScanID:    scanID,
			VulnID:    vulnID,
			HostID:    &hostID,
			ServiceID: &serviceID,
			Severity:  severity,
			CVSS:      parseFloat(row["cvss_base_score"]),
			AgeDays:   parseInt(row["age_days"]),
			FirstSeen: firstSeen,
			LastSeen:  lastSeen,
		},
		Relationships: []scangraph.Relationship{
			{SourceID: hostID, TargetID: serviceID, Type: scangraph.RelType(scangraph.SeriesWeekly, scangraph.RelRuns)},
			{SourceID: hostID, TargetID: obsID, Type: scangraph.RelType(scangraph.SeriesWeekly, scangraph.RelHasObservation)},
			{SourceID: serviceID, TargetID: obsID, Type: scangraph.RelType(scangraph.SeriesWeekly, scangraph.RelHasObservation)},
			{SourceID: obsID, TargetID: vulnID, Type: scangraph.RelType(scangraph.SeriesWeekly, scangraph.RelOfVulnerability)},
			{SourceID: obsID, TargetID: scanID, Type: scangraph.RelType(scangraph.SeriesWeekly, scangraph.RelFoundIn)},
		},
	}
	return rs, false
}
