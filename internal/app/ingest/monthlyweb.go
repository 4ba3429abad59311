package ingest

import (
	"time"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
)

const unknownAppName = "Unknown App"

// mapMonthlyWebRow converts one monthly web CSV row. The 1-based row
// index feeds the observation key so repeated QID/app pairs within one
// report stay distinct. Rows without a QID are skipped.
func mapMonthlyWebRow(scanID string, row map[string]string, rowIdx int, now time.Time) (*scangraph.RowSet, bool) {
	qid := trimCell(row["QID"])
	if qid == "" {
		return nil, true
	}

	webapp := trimCell(row["WEB APPLICATION"])
	appName := webapp
	if appName == "" {
		appName = unknownAppName
	}

	url := trimCell(row["URL"])
	if url == "" {
		url = "/"
	}

	severity := 0
	if v := parseInt(row["SEVERITY"]); v != nil {
		severity = *v
	}
	baseCVSS := parseFloat(row["BASE CVSS"])

	firstDetection := parseWebTime(row["FIRST DETECTION"])
	lastDetection := parseWebTime(row["LAST DETECTION"])

	firstSeen := now
	if firstDetection != nil {
		firstSeen = *firstDetection
	}
	lastSeen := now
	if lastDetection != nil {
		lastSeen = *lastDetection
	}

	appID := scangraph.AppID(webapp)
	vulnID := scangraph.MonthlyWebVulnID(qid)
	obsID := scangraph.MonthlyWebObservationID(scanID, appID, qid, rowIdx)

	rs := &scangraph.RowSet{
		App: &scangraph.App{
			ID:      appID,
			Name:    appName,
			BaseURL: optString(webapp),
		},
		Vulnerability: &scangraph.Vulnerability{
			ID:          vulnID,
			Series:      scangraph.SeriesMonthlyWeb,
			Name:        trimCell(row["NAME"]),
			Severity:    severity,
			QID:         &qid,
			VulnID:      optString(row["VULN_ID"]),
			CVSS:        baseCVSS,
			CWE:         optString(row["CWE"]),
			CVE:         optString(row["CVE"]),
			GroupName:   optString(row["GROUP"]),
			Description: optString(row["DESCRIPTION"]),
			Impact:      optString(row["IMPACT"]),
			Solution:    optString(row["SOLUTION"]),
			VulnType:    optString(row["VULN TYPE"]),
		},
		Observation: &scangraph.Observation{
			ID:        obsID,
			Series:    scangraph.SeriesMonthlyWeb,
			ScanID:    scanID,
			VulnID:    vulnID,
			AppID:     &appID,
			Severity:  severity,
			CVSS:      baseCVSS,
			URL:       &url,
			FirstSeen: firstSeen,
			LastSeen:  lastSeen,
		},
		Relationships: []scangraph.Relationship{
			{SourceID: appID, TargetID: obsID, Type: scangraph.RelType(scangraph.SeriesMonthlyWeb, scangraph.RelHasObservation)},
			{SourceID: obsID, TargetID: vulnID, Type: scangraph.RelType(scangraph.SeriesMonthlyWeb, scangraph.RelOfVulnerability)},
			{SourceID: obsID, TargetID: scanID, Type: scangraph.RelType(scangraph.SeriesMonthlyWeb, scangraph.RelFoundIn)},
		},
	}
	return rs, false
}
