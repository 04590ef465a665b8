package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	if got := exitCode(nil); got != exitOK {
		t.Fatalf("nil error: got %d", got)
	}
	if got := exitCode(errors.New("boom")); got != 1 {
		t.Fatalf("plain error: got %d", got)
	}
	wrapped := withCode(exitLoad, errors.New("no sheet"))
	if got := exitCode(wrapped); got != exitLoad {
		t.Fatalf("coded error: got %d", got)
	}
	if withCode(exitLoad, nil) != nil {
		t.Fatalf("withCode(nil) must stay nil")
	}
}

func TestCellText(t *testing.T) {
	t.Parallel()

	cases := map[string]sheet.Cell{
		"":      sheet.Null(),
		"0.50":  sheet.Float(0.5),
		"12":    sheet.Int(12),
		"N/A":   sheet.String("N/A"),
		"2.00":  sheet.Float(2.0),
		"XX":    sheet.String("XX"),
		"-1.25": sheet.Float(-1.25),
	}
	for want, c := range cases {
		if got := cellText(c); got != want {
			t.Fatalf("cellText(%v) = %q, want %q", c, got, want)
		}
	}
}

func TestIndexName(t *testing.T) {
	t.Parallel()

	senior := sheet.NewTable(sheet.SeniorSheet, []string{sheet.ColOrganisation, sheet.ColUnit})
	senior.AppendRow(sheet.String("Dept X"), sheet.String("Unit A"))
	senior.AppendRow(sheet.String("Agency Y"), sheet.String("Unit B"))
	senior.AppendRow(sheet.String("Dept X"), sheet.String("Unit A"))
	if got := indexName(senior, nil); got != "Dept X & Agency Y" {
		t.Fatalf("unexpected name: %q", got)
	}

	mod := sheet.NewTable(sheet.SeniorSheet, []string{sheet.ColOrganisation, sheet.ColUnit})
	mod.AppendRow(sheet.String(ministryOfDefence), sheet.String("Army"))
	mod.AppendRow(sheet.String(ministryOfDefence), sheet.String("Navy"))
	if got := indexName(mod, nil); got != "Ministry of Defence - Army & Navy" {
		t.Fatalf("unexpected name: %q", got)
	}

	empty := sheet.NewTable(sheet.SeniorSheet, []string{sheet.ColOrganisation})
	junior := sheet.NewTable(sheet.JuniorSheet, []string{sheet.ColOrganisation})
	junior.AppendRow(sheet.String("Dept Z"))
	if got := indexName(empty, junior); got != "Dept Z" {
		t.Fatalf("junior fallback: %q", got)
	}
}

func TestVerifyLevelCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCLI(t, "verify-level", "2011-09-30", "30-09-2015", "2016-03-31", "2016-09-30")
	if err != nil {
		t.Fatalf("verify-level: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	want := []string{"load-only", "load-and-display", "load-and-display", "load-display-and-validate"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %s", len(want), len(lines), stdout)
	}
	for i, line := range lines {
		var got struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal([]byte(line), &got); err != nil {
			t.Fatalf("line %d: %v", i, err)
		}
		if got.Level != want[i] {
			t.Fatalf("line %d: level %q, want %q", i, got.Level, want[i])
		}
	}

	_, _, err = runCLI(t, "verify-level", "sometime")
	if exitCode(err) != exitUsage {
		t.Fatalf("expected usage exit, got %v", err)
	}

	stdout, _, err = runCLI(t, "verify-level", "--from-filename", "dept-2012-03-31.xls")
	if err != nil {
		t.Fatalf("from filename: %v", err)
	}
	if !strings.Contains(stdout, `"vintage":"2012-03-31"`) {
		t.Fatalf("unexpected output: %s", stdout)
	}
}

func TestCheckCmd_Displayable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeWorkbook(t, dir, "dept-x-2016-09-30.xlsx", true)
	reportPath := filepath.Join(dir, "out", "report.json")

	stdout, _, err := runCLI(t, "check", "--output", reportPath, input)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	var summary struct {
		Displayable bool     `json:"displayable"`
		Errors      []string `json:"errors"`
	}
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("summary: %v (%s)", err, stdout)
	}
	if !summary.Displayable || len(summary.Errors) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	var report checkReportV1
	if err := readJSONFile(reportPath, &report); err != nil {
		t.Fatalf("read report: %v", err)
	}
	if err := report.validate(); err != nil {
		t.Fatalf("report invalid: %v", err)
	}
	if report.Input != input || !report.Summary.Displayable {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestCheckCmd_NotDisplayable(t *testing.T) {
	t.Parallel()

	input := writeWorkbook(t, t.TempDir(), "dept-x-2016-09-30.xlsx", false)
	stdout, _, err := runCLI(t, "check", input)
	if exitCode(err) != exitNotDisplayable {
		t.Fatalf("expected not displayable exit, got %v", err)
	}
	if !strings.Contains(stdout, "No sheet named <'(final data) junior-staff'>") {
		t.Fatalf("missing sheet not reported: %s", stdout)
	}
}

func TestETLCmd_WritesOutputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeWorkbook(t, dir, "dept-x-2016-09-30.xlsx", true)
	outDir := filepath.Join(dir, "out")
	metrics := filepath.Join(dir, "metrics.prom")

	stdout, stderr, err := runCLI(t, "etl", "--output", outDir, "--date-from-filename", "--metrics-file", metrics, input)
	if err != nil {
		t.Fatalf("etl: %v (stderr: %s)", err, stderr)
	}
	if !strings.Contains(stdout, `"level":"load-display-and-validate"`) {
		t.Fatalf("unexpected summary: %s", stdout)
	}

	senior := readLines(t, filepath.Join(outDir, "dept-x-2016-09-30-senior.csv"))
	if len(senior) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(senior))
	}
	if !strings.HasPrefix(senior[0], `"Post Unique Reference","Name",`) {
		t.Fatalf("unexpected header: %s", senior[0])
	}
	if !strings.HasPrefix(senior[2], `"2","John Roe",`) {
		t.Fatalf("unexpected row: %s", senior[2])
	}
	junior := readLines(t, filepath.Join(outDir, "dept-x-2016-09-30-junior.csv"))
	if len(junior) != 2 {
		t.Fatalf("expected header and 1 row, got %d", len(junior))
	}

	var index []indexEntry
	if err := readJSONFile(filepath.Join(outDir, "index.json"), &index); err != nil {
		t.Fatalf("index: %v", err)
	}
	if len(index) != 1 || index[0].Name != "Dept X" || index[0].Value != "dept-x-2016-09-30" {
		t.Fatalf("unexpected index: %+v", index)
	}

	b, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	if !strings.Contains(string(b), "organogram_pipeline_outcomes_total") {
		t.Fatalf("metrics missing pipeline outcomes")
	}
}

func TestETLCmd_Rejections(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeWorkbook(t, dir, "dept-x-2016-09-30.xlsx", false)
	outDir := filepath.Join(dir, "out")

	_, stderr, err := runCLI(t, "etl", "--output", outDir, "--date", "2016-09-30", input)
	if exitCode(err) != exitLoad {
		t.Fatalf("expected load exit, got %v", err)
	}
	if !strings.Contains(stderr, "ERROR: No sheet named <'(final data) junior-staff'>") {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if _, err := os.Stat(filepath.Join(outDir, "index.json")); !os.IsNotExist(err) {
		t.Fatalf("index must not be written for a rejected workbook")
	}

	_, _, err = runCLI(t, "etl", "--output", outDir, input)
	if exitCode(err) != exitUsage {
		t.Fatalf("expected usage exit without a date, got %v", err)
	}
	_, _, err = runCLI(t, "etl", "--output", outDir, "--date", "2016-09-30", "--date-from-filename", input)
	if exitCode(err) != exitUsage {
		t.Fatalf("expected usage exit for both date flags, got %v", err)
	}
}

func TestCompareCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	uploads := filepath.Join(dir, "uploads.csv")
	triplestore := filepath.Join(dir, "triplestore.csv")
	out := filepath.Join(dir, "compare.csv")
	writeFile(t, uploads, "body_title,graph,senior_posts\nDept X,2012-03-31,5\nAgency Y,2011-09-30,2\n")
	writeFile(t, triplestore, "body_title,graph,senior_posts\nDept X,2012-03-31,7\nDept Z,2011-09-30,1\n")

	if _, _, err := runCLI(t, "compare", "--uploads", uploads, "--triplestore", triplestore, "--out", out); err != nil {
		t.Fatalf("compare: %v", err)
	}
	got := readLines(t, out)
	want := []string{
		"body_title,graph,senior_posts_triplestore,senior_posts_uploads",
		"Agency Y,2011-09-30,,2",
		"Dept Z,2011-09-30,1,",
		"Dept X,2012-03-31,7,5",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected comparison:\n%s", strings.Join(got, "\n"))
	}

	writeFile(t, uploads, "org,graph\nDept X,2012-03-31\n")
	_, _, err := runCLI(t, "compare", "--uploads", uploads, "--triplestore", triplestore, "--out", out)
	if exitCode(err) != exitRejected {
		t.Fatalf("expected rejected exit for a bad header, got %v", err)
	}
}

func TestCountUploadsCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	xlsDir := filepath.Join(dir, "xls")
	if err := os.MkdirAll(xlsDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeWorkbook(t, xlsDir, "dept-x.xlsx", true)
	report := filepath.Join(dir, "uploads_report.csv")
	writeFile(t, report, strings.Join([]string{
		"version,org_name,xls_path,upload_date,state,action_datetime,xls_filename",
		"30/09/2016,Dept X,/data/x/dept-x.xls,2016-10-01,published,2016-10-02,dept-x.xlsx",
		"30/09/2016,Dept X,/data/x/draft.xls,2016-10-01,draft,2016-10-02,draft.xlsx",
		"31/03/2016,Agency Y,/data/y/missing.xls,2016-04-01,published,2016-04-02,missing.xlsx",
		"30/09/2016,Dept X,/data/x/dept-x-fixed.xls,2016-10-05,published,2016-10-06,dept-x.xlsx",
	}, "\n")+"\n")
	out := filepath.Join(dir, "counts.csv")

	stdout, _, err := runCLI(t, "count-uploads", "--uploads", report, "--xls-dir", xlsDir, "--out", out)
	if err != nil {
		t.Fatalf("count-uploads: %v", err)
	}
	if !strings.Contains(stdout, `"skipped":1`) {
		t.Fatalf("expected the missing workbook to be skipped: %s", stdout)
	}
	got := readLines(t, out)
	if len(got) != 3 || got[1] != "Dept X,2016-09-30,2" || got[2] != got[1] {
		t.Fatalf("expected one row per published upload: %v", got)
	}
	if !strings.Contains(stdout, `"rows":2`) {
		t.Fatalf("unexpected summary: %s", stdout)
	}
}

func TestCombineCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	compare := filepath.Join(dir, "compare.csv")
	writeFile(t, compare, strings.Join([]string{
		"body_title,graph,senior_posts_triplestore,senior_posts_uploads",
		"Dept X,2016-09-30,1,2",
		"Ministry of Defence,2016-09-30,0,3",
		"Empty Org,2016-09-30,0,0",
		"Agency Y,2016-09-30,4,1",
	}, "\n")+"\n")
	uploads := filepath.Join(dir, "uploads.csv")
	writeFile(t, uploads, strings.Join([]string{
		"version,org_name,xls_path,upload_date,state,action_datetime,xls_filename",
		"30/09/2016,Dept X,/data/x/dept-x.xls,2016-10-01,published,2016-10-02,dept-x.xls",
	}, "\n")+"\n")
	out := filepath.Join(dir, "combined.csv")

	stdout, _, err := runCLI(t, "combine", "--compare", compare, "--uploads", uploads, "--out", out)
	if err != nil {
		t.Fatalf("combine: %v", err)
	}
	if !strings.Contains(stdout, `"selected":3`) {
		t.Fatalf("unexpected summary: %s", stdout)
	}
	got := readLines(t, out)
	if len(got) != 4 {
		t.Fatalf("expected header and 3 selections, got %v", got)
	}
	if !strings.HasPrefix(got[1], "Dept X,2016-09-30,uploads,data/dgu/xls/dept-x.xls,,/data/x/dept-x.xls,") {
		t.Fatalf("unexpected upload selection: %s", got[1])
	}
	if !strings.HasPrefix(got[2], "Ministry of Defence,2016-09-30,triplestore,") {
		t.Fatalf("forced organisation must use the triplestore: %s", got[2])
	}
	if !strings.HasPrefix(got[3], "Agency Y,2016-09-30,triplestore,") {
		t.Fatalf("larger triplestore count must win: %s", got[3])
	}
}

func TestConvertTriplestoreCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := filepath.Join(dir, "export.json")
	writeFile(t, input, `{
  "body_title": "Dept X",
  "graph": "2016-09-30",
  "senior": [
    {"uri": "http://example.gov.uk/id/post/1", "name": "Jane Doe", "grade": "SCS1", "salary_range": "£120,000 - £124,999"},
    {"uri": "http://example.gov.uk/id/post/2", "name": "Eliminated", "reports_to_uri": "http://example.gov.uk/id/post/1", "salary_range": "weird"}
  ],
  "junior": [
    {"uri": "http://example.gov.uk/id/junior/1", "reports_to": "1", "row_index": 0, "grade": "EO"}
  ]
}`)
	outDir := filepath.Join(dir, "csv")

	stdout, _, err := runCLI(t, "convert-triplestore", "--out-dir", outDir, input)
	if err != nil {
		t.Fatalf("convert-triplestore: %v", err)
	}
	if !strings.Contains(stdout, `"senior_posts":1`) || !strings.Contains(stdout, `"issues":1`) {
		t.Fatalf("unexpected summary: %s", stdout)
	}
	senior := readLines(t, filepath.Join(outDir, "dept_x-2016-09-30-senior.csv"))
	if len(senior) != 3 || !strings.HasPrefix(senior[1], `"1","Jane Doe","SCS1"`) {
		t.Fatalf("unexpected senior csv: %v", senior)
	}
	if !strings.Contains(senior[2], `"1"`) {
		t.Fatalf("reports-to not taken from the uri: %s", senior[2])
	}
	junior := readLines(t, filepath.Join(outDir, "dept_x-2016-09-30-junior.csv"))
	if len(junior) != 2 {
		t.Fatalf("unexpected junior csv: %v", junior)
	}

	writeFile(t, input, `{"body_title": "Dept X", "graph": "2016-09-30", "extra": true}`)
	_, _, err = runCLI(t, "convert-triplestore", "--out-dir", outDir, input)
	if exitCode(err) != exitRejected {
		t.Fatalf("expected rejected exit for unknown fields, got %v", err)
	}
}
