package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anish-u/insight-guard/pkg/domain/scangraph"
	"github.com/anish-u/insight-guard/pkg/logger"
)

// fakeGraph records every write so tests can assert on the exact
// entities and edges an ingestion produced.
type fakeGraph struct {
	scans     []*scangraph.Scan
	depts     []*scangraph.Department
	rels      []scangraph.Relationship
	rowSets   []*scangraph.RowSet
	applyErrs map[int]error
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{applyErrs: map[int]error{}}
}

func (f *fakeGraph) UpsertScan(_ context.Context, scan *scangraph.Scan, _ time.Time) error {
	f.scans = append(f.scans, scan)
	return nil
}

func (f *fakeGraph) UpsertDepartment(_ context.Context, dept *scangraph.Department, _ time.Time) error {
	f.depts = append(f.depts, dept)
	return nil
}

func (f *fakeGraph) UpsertRelationship(_ context.Context, rel scangraph.Relationship) error {
	f.rels = append(f.rels, rel)
	return nil
}

func (f *fakeGraph) ApplyRow(_ context.Context, rs *scangraph.RowSet, _ time.Time) error {
	if err, ok := f.applyErrs[len(f.rowSets)]; ok {
		return err
	}
	f.rowSets = append(f.rowSets, rs)
	return nil
}

type fakeStore struct {
	saved map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string][]byte{}}
}

func (f *fakeStore) WeeklyPath(year, month, weekIndex int) string {
	return "weekly-path"
}

func (f *fakeStore) MonthlyWebPath(year, month int) string {
	return "monthly-path"
}

func (f *fakeStore) DeptPath(department string, year, month int) string {
	return "dept-path"
}

func (f *fakeStore) Save(path string, content []byte) error {
	f.saved[path] = content
	return nil
}

type fakeInvalidator struct {
	series []scangraph.Series
}

func (f *fakeInvalidator) Invalidate(_ context.Context, series scangraph.Series) error {
	f.series = append(f.series, series)
	return nil
}

func newTestService(graph *fakeGraph, store *fakeStore, cache CacheInvalidator) *Service {
	return NewService(graph, store, cache, logger.NewNop())
}

const weeklyCSV = `ip,Hostname,port,protocol,plugin_id,severity,known_exploited,ransomware_exploited,cvss_base_score,cvss_version,initial_detection,latest_detection,age_days,name,description,solution,source
10.0.0.1,web-01,443,tcp,19506,4,true,false,9.8,3.1,2025-03-01T00:00:00Z,2025-03-10T00:00:00Z,9,Nessus Scan Info,desc,fix it,
10.0.0.2,,,,abc,3,,,,,,,,Bad Plugin,,,
,db-01,5432,tcp,10863,2,,,,,,,,No IP,,,
10.0.0.3,,,,"",0,,,,,,,,Blank Plugin,,,
`

func TestIngestWeekly(t *testing.T) {
	graph := newFakeGraph()
	store := newFakeStore()
	cache := &fakeInvalidator{}
	svc := newTestService(graph, store, cache)

	out, err := svc.IngestWeekly(context.Background(), WeeklyInput{
		Year: 2025, Month: 3, WeekIndex: 2,
		FileName: "report.csv",
		Content:  []byte(weeklyCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, "ok", out.Status)
	assert.Equal(t, "weekly_dhs", out.Type)
	assert.Equal(t, "weekly_dhs_2025_03_wk2", out.ScanID)
	assert.Equal(t, 1, out.RowsProcessed)
	assert.Equal(t, 3, out.RowsSkipped)
	require.NotNil(t, out.WeekIndex)
	assert.Equal(t, 2, *out.WeekIndex)

	// Raw file archived before any graph write.
	assert.Contains(t, store.saved, "weekly-path")

	require.Len(t, graph.scans, 1)
	scan := graph.scans[0]
	assert.Equal(t, scangraph.SeriesWeekly, scan.Series)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), scan.ScanDate)

	require.Len(t, graph.rowSets, 1)
	rs := graph.rowSets[0]
	assert.Equal(t, "10.0.0.1", rs.Host.ID)
	assert.Equal(t, "10.0.0.1:443/tcp", rs.Service.ID)
	assert.Equal(t, "weekly:19506", rs.Vulnerability.ID)
	assert.Equal(t, "weekly_dhs_2025_03_wk2:10.0.0.1:10.0.0.1:443/tcp:19506", rs.Observation.ID)
	assert.Equal(t, 4, rs.Observation.Severity)
	require.NotNil(t, rs.Vulnerability.KnownExploited)
	assert.True(t, *rs.Vulnerability.KnownExploited)
	require.NotNil(t, rs.Vulnerability.Source)
	assert.Equal(t, "dhs_weekly", *rs.Vulnerability.Source)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), rs.Observation.FirstSeen.UTC())
	assert.Len(t, rs.Relationships, 5)

	assert.Equal(t, []scangraph.Series{scangraph.SeriesWeekly}, cache.series)
}

func TestIngestWeekly_Idempotent(t *testing.T) {
	graph := newFakeGraph()
	svc := newTestService(graph, newFakeStore(), nil)

	in := WeeklyInput{Year: 2025, Month: 3, WeekIndex: 2, Content: []byte(weeklyCSV)}

	first, err := svc.IngestWeekly(context.Background(), in)
	require.NoError(t, err)
	second, err := svc.IngestWeekly(context.Background(), in)
	require.NoError(t, err)

	// Same period, same file: identical scan id and identical keys
	// everywhere, so replaying is a pure overwrite.
	assert.Equal(t, first.ScanID, second.ScanID)
	require.Len(t, graph.rowSets, 2)
	assert.Equal(t, graph.rowSets[0].Observation.ID, graph.rowSets[1].Observation.ID)
	assert.Equal(t, graph.rowSets[0].Relationships, graph.rowSets[1].Relationships)
}

const monthlyWebCSV = `QID,NAME,VULN_ID,SEVERITY,BASE CVSS,CWE,CVE,GROUP,WEB APPLICATION,URL,DESCRIPTION,IMPACT,SOLUTION,VULN TYPE,FIRST DETECTION,LAST DETECTION
150001,Reflected XSS,V-100,3,6.1,CWE-79,CVE-2024-1111,XSS,Customer Portal,/search,desc,impact,fix,CONFIRMED,01 Feb 2025 9:00AM GMT,15 Mar 2025 7:30PM GMT
150001,Reflected XSS,V-100,3,6.1,CWE-79,CVE-2024-1111,XSS,Customer Portal,/login,desc,impact,fix,CONFIRMED,,
,Missing QID,,2,,,,,Customer Portal,/,,,,,,
150002,Weak Cipher,,1,,,,TLS,,,,,,POTENTIAL,,
`

func TestIngestMonthlyWeb(t *testing.T) {
	graph := newFakeGraph()
	svc := newTestService(graph, newFakeStore(), nil)

	out, err := svc.IngestMonthlyWeb(context.Background(), MonthlyWebInput{
		Year: 2025, Month: 3,
		Content: []byte(monthlyWebCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, "monthly_dhs_web_2025_03", out.ScanID)
	assert.Equal(t, 3, out.RowsProcessed)
	assert.Equal(t, 1, out.RowsSkipped)
	assert.Nil(t, out.WeekIndex)

	require.Len(t, graph.rowSets, 3)

	// Same QID and app on rows 1 and 2: row index keeps observations
	// distinct while app and vulnerability keys collapse.
	first, second := graph.rowSets[0], graph.rowSets[1]
	assert.Equal(t, first.App.ID, second.App.ID)
	assert.Equal(t, first.Vulnerability.ID, second.Vulnerability.ID)
	assert.NotEqual(t, first.Observation.ID, second.Observation.ID)
	assert.Equal(t, "monthly_dhs_web_2025_03:app:Customer Portal:150001:1", first.Observation.ID)

	require.NotNil(t, first.Observation.URL)
	assert.Equal(t, "/search", *first.Observation.URL)
	assert.Equal(t, time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC), first.Observation.FirstSeen)
	assert.Equal(t, time.Date(2025, 3, 15, 19, 30, 0, 0, time.UTC), first.Observation.LastSeen)

	// Blank app name falls back to the shared unknown app; blank URL
	// falls back to "/".
	last := graph.rowSets[2]
	assert.Equal(t, "app:unknown", last.App.ID)
	assert.Equal(t, "Unknown App", last.App.Name)
	assert.Nil(t, last.App.BaseURL)
	require.NotNil(t, last.Observation.URL)
	assert.Equal(t, "/", *last.Observation.URL)
}

const deptCSV = `IP,DNS,NetBIOS,OS,IP Status,QID,Title,Type,Severity,Port,Protocol,SSL,CVE ID,Vendor Reference,Bugtraq ID,Threat,Impact,Solution,Exploitability,Associated Malware,PCI Vuln,Instance,Category
192.168.1.10,fin-01.corp,FIN01,Windows Server 2019,host scanned,90043,SMB Signing Disabled,Vuln,3,445,tcp,no,CVE-2016-2115,MS16-075,,threat,impact,fix,easy,,yes,,Windows
192.168.1.10,,,,,90043,SMB Signing Disabled,Vuln,3,445,tcp,no,,,,,,,,,,lsass,Windows
,,,,,90044,No IP,Vuln,2,,,,,,,,,,,,,,
192.168.1.11,,,,,,No QID,Vuln,1,,,,,,,,,,,,,,
`

func TestIngestDept(t *testing.T) {
	graph := newFakeGraph()
	svc := newTestService(graph, newFakeStore(), nil)

	out, err := svc.IngestDept(context.Background(), DeptInput{
		Year: 2025, Month: 4, Department: "Human Resources",
		Content: []byte(deptCSV),
	})
	require.NoError(t, err)

	assert.Equal(t, "dept_scan_human_resources_2025_04", out.ScanID)
	assert.Equal(t, 2, out.RowsProcessed)
	assert.Equal(t, 2, out.RowsSkipped)
	require.NotNil(t, out.Department)
	assert.Equal(t, "Human Resources", *out.Department)
	require.NotNil(t, out.DeptID)
	assert.Equal(t, "human_resources", *out.DeptID)

	// Department upserted once, scan linked to it.
	require.Len(t, graph.depts, 1)
	assert.Equal(t, "human_resources", graph.depts[0].ID)
	assert.Equal(t, "Human Resources", graph.depts[0].Name)
	require.Len(t, graph.rels, 1)
	assert.Equal(t, scangraph.Relationship{
		SourceID: "dept_scan_human_resources_2025_04",
		TargetID: "human_resources",
		Type:     "DEPT_SCAN_FOR_DEPARTMENT",
	}, graph.rels[0])

	require.Len(t, graph.rowSets, 2)
	rs := graph.rowSets[0]
	assert.Equal(t, "human_resources:192.168.1.10", rs.Host.ID)
	assert.Equal(t, "human_resources:192.168.1.10:445/tcp", rs.Service.ID)
	assert.Equal(t, "dept:90043", rs.Vulnerability.ID)
	assert.Equal(t, "dept_scan_human_resources_2025_04:human_resources:192.168.1.10:90043:0", rs.Observation.ID)

	// Second row names an instance, so it keeps its own observation.
	assert.Equal(t, "dept_scan_human_resources_2025_04:human_resources:192.168.1.10:90043:lsass", graph.rowSets[1].Observation.ID)

	// Department ownership edge emitted per row.
	assert.Equal(t, scangraph.Relationship{
		SourceID: "human_resources",
		TargetID: rs.Host.ID,
		Type:     "DEPT_SCAN_OWNS_HOST",
	}, rs.Relationships[0])
	assert.Len(t, rs.Relationships, 6)
}

func TestIngestWeekly_EmptyFile(t *testing.T) {
	svc := newTestService(newFakeGraph(), newFakeStore(), nil)

	_, err := svc.IngestWeekly(context.Background(), WeeklyInput{
		Year: 2025, Month: 3, WeekIndex: 1,
		Content: []byte(""),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestIngestWeekly_HeaderOnly(t *testing.T) {
	graph := newFakeGraph()
	svc := newTestService(graph, newFakeStore(), nil)

	out, err := svc.IngestWeekly(context.Background(), WeeklyInput{
		Year: 2025, Month: 3, WeekIndex: 1,
		Content: []byte("ip,plugin_id,severity\n"),
	})
	require.NoError(t, err)

	// A header-only file still registers the scan period.
	assert.Equal(t, 0, out.RowsProcessed)
	assert.Equal(t, 0, out.RowsSkipped)
	require.Len(t, graph.scans, 1)
	assert.Empty(t, graph.rowSets)
}

func TestReadRows_BOMAndShortRows(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("ip,port,protocol\n10.0.0.1,443\n")...)

	rows, err := readRows(content)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// BOM stripped from the first header; missing trailing column
	// reads as blank.
	assert.Equal(t, "10.0.0.1", rows[0]["ip"])
	assert.Equal(t, "443", rows[0]["port"])
	assert.Equal(t, "", rows[0]["protocol"])
}
