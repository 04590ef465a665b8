package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/organogram/modules/organogram/domain/reference"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

// runCLI executes the root command with no env files and captured output.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func addSheet(t *testing.T, f *excelize.File, name string, rows [][]any) {
	t.Helper()
	if _, err := f.NewSheet(name); err != nil {
		t.Fatalf("new sheet %s: %v", name, err)
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow(name, axis, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
}

func header(columns []string) []any {
	out := make([]any, 0, len(columns))
	for _, c := range columns {
		out = append(out, c)
	}
	return out
}

// writeWorkbook saves a valid two-post organogram into dir. The junior sheet
// is left out when withJunior is false.
func writeWorkbook(t *testing.T, dir, name string, withJunior bool) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	addSheet(t, f, sheet.SeniorSheet, [][]any{
		header(sheet.SeniorSchema().Columns),
		{1, "Jane Doe", "SCS1", "Director", "Policy", "Dept X", "Dept X", "Unit A", "0207 000 0000", "jane@x.gov.uk", "XX", "N/A", 1, 120000, 124999, nil, "Policy", nil, 1},
		{2, "John Roe", "SCS2", "Deputy", "Finance", "Dept X", "Dept X", "Unit B", "0207 000 0001", "john@x.gov.uk", 1, nil, 1, 80000, 84999, nil, "Finance", nil, 1},
	})
	if withJunior {
		addSheet(t, f, sheet.JuniorSheet, [][]any{
			header(sheet.JuniorSchema().Columns),
			{"Dept X", "Dept X", "Unit A", 1, "EO", 20000, 25000, "Officer", 2.5, "Policy", 1},
		})
	}
	addSheet(t, f, reference.SeniorGradesSheet, [][]any{{"Grade"}, {"SCS1"}, {"SCS2"}})
	addSheet(t, f, reference.UnitsSheet, [][]any{{"Unit"}, {"Unit A"}, {"Unit B"}, {"N/A"}})
	addSheet(t, f, reference.ProfessionsSheet, [][]any{{"Profession"}, {"Policy"}, {"Finance"}})

	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n"), "\n")
}
