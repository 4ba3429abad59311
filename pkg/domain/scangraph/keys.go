package scangraph

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ComposeKey joins ordered key components with a colon. Every
// multi-part identity in the graph is built through this helper so
// the same inputs always produce the same key.
func ComposeKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// SlugifyDepartment normalizes a department display name into a key
// component: lowercased, spaces become underscores, anything outside
// [a-z0-9_-] is dropped. An empty result collapses to "unknown".
func SlugifyDepartment(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "_")

	var b strings.Builder
	for _, r := range slug {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

// WeeklyScanID returns the scan key for a weekly infrastructure
// report period.
func WeeklyScanID(year, month, weekIndex int) string {
	return fmt.Sprintf("weekly_dhs_%04d_%02d_wk%d", year, month, weekIndex)
}

// MonthlyWebScanID returns the scan key for a monthly web report
// period.
func MonthlyWebScanID(year, month int) string {
	return fmt.Sprintf("monthly_dhs_web_%04d_%02d", year, month)
}

// DeptScanID returns the scan key for a departmental report period.
// The slug must already be normalized via SlugifyDepartment.
func DeptScanID(deptSlug string, year, month int) string {
	return fmt.Sprintf("dept_scan_%s_%04d_%02d", deptSlug, year, month)
}

// WeeklyHostID returns the host key for a weekly row. Weekly hosts
// are keyed by bare IP.
func WeeklyHostID(ip string) string {
	return ip
}

// DeptHostID returns the host key for a departmental row, scoped by
// department so the same IP in two departments stays distinct.
func DeptHostID(deptSlug, ip string) string {
	return ComposeKey(deptSlug, ip)
}

// WeeklyServiceID returns the service key for a weekly row. Without a
// usable port/protocol pair the service collapses to a single
// "unknown" bucket per host.
func WeeklyServiceID(ip string, port *int, protocol string) string {
	if port != nil && protocol != "" {
		return fmt.Sprintf("%s:%d/%s", ip, *port, protocol)
	}
	return ComposeKey(ip, "unknown")
}

// DeptServiceID returns the service key for a departmental row.
func DeptServiceID(hostID string, port *int, protocol string) string {
	if port != nil && protocol != "" {
		return fmt.Sprintf("%s:%d/%s", hostID, *port, protocol)
	}
	return ComposeKey(hostID, "no-port")
}

// AppID returns the web application key. A blank application name
// maps to a shared "unknown" app.
func AppID(webapp string) string {
	if webapp == "" {
		return "app:unknown"
	}
	return ComposeKey("app", webapp)
}

// WeeklyVulnID returns the vulnerability key for a weekly plugin.
func WeeklyVulnID(pluginID int) string {
	return ComposeKey("weekly", strconv.Itoa(pluginID))
}

// MonthlyWebVulnID returns the vulnerability key for a monthly web
// QID.
func MonthlyWebVulnID(qid string) string {
	return ComposeKey("monthly_web", qid)
}

// DeptVulnID returns the vulnerability key for a departmental QID.
func DeptVulnID(qid string) string {
	return ComposeKey("dept", qid)
}

// WeeklyObservationID returns the observation key for a weekly row:
// one observation per scan/host/service/plugin combination.
func WeeklyObservationID(scanID, ip, serviceID string, pluginID int) string {
	return ComposeKey(scanID, ip, serviceID, strconv.Itoa(pluginID))
}

// MonthlyWebObservationID returns the observation key for a monthly
// web row. The 1-based row index keeps repeated QID/app pairs within
// one report distinct.
func MonthlyWebObservationID(scanID, appID, qid string, rowIdx int) string {
	return ComposeKey(scanID, appID, qid, strconv.Itoa(rowIdx))
}

// DeptObservationID returns the observation key for a departmental
// row. A missing instance discriminator folds to "0".
func DeptObservationID(scanID, hostID, qid, instance string) string {
	if instance == "" {
		instance = "0"
	}
	return ComposeKey(scanID, hostID, qid, instance)
}
