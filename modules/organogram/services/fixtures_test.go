package services

import (
	"context"

	"github.com/iota-uz/organogram/modules/organogram/domain/post"
	"github.com/iota-uz/organogram/modules/organogram/domain/reference"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/pkg/logging"
)

func testContext() context.Context {
	return logging.WithLogger(context.Background(), logging.Nop())
}

func testRefs() reference.Lists {
	return reference.Lists{
		SeniorGrades: []string{"SCS1", "SCS2", "SCS3"},
		Units:        []string{"Unit A", "Unit B", "N/A"},
		Professions:  []string{"Policy", "Finance"},
	}
}

// janeDoe is a fully valid normalized senior row.
func janeDoe() map[string]sheet.Cell {
	return map[string]sheet.Cell{
		sheet.ColReference:        sheet.String("1"),
		sheet.ColName:             sheet.String("Jane Doe"),
		sheet.ColGrade:            sheet.String("SCS1"),
		sheet.ColJobTitle:         sheet.String("Director"),
		sheet.ColFunction:         sheet.String("Policy"),
		sheet.ColOrganisation:     sheet.String("Dept X"),
		sheet.ColUnit:             sheet.String("Unit A"),
		sheet.ColContactPhone:     sheet.String("0207 000 0000"),
		sheet.ColContactEmail:     sheet.String("jane@x.gov.uk"),
		sheet.ColReportsTo:        sheet.String("XX"),
		sheet.ColPayFloor:         sheet.String("120000"),
		sheet.ColPayCeiling:       sheet.String("124999"),
		sheet.ColFTE:              sheet.Int(1),
		sheet.ColValid:            sheet.Int(1),
		sheet.ColParentDepartment: sheet.String("Dept X"),
	}
}

func with(row map[string]sheet.Cell, overrides map[string]sheet.Cell) map[string]sheet.Cell {
	out := make(map[string]sheet.Cell, len(row)+len(overrides))
	for k, v := range row {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

func seniorCells(values map[string]sheet.Cell) []sheet.Cell {
	schema := sheet.SeniorSchema()
	cells := make([]sheet.Cell, len(schema.Columns))
	for i := range cells {
		cells[i] = sheet.Null()
	}
	cells[schema.Position(sheet.ColTotalPay)] = sheet.String("")
	for col, c := range values {
		cells[schema.Position(col)] = c
	}
	return cells
}

func seniorTable(rows ...map[string]sheet.Cell) *sheet.Table {
	schema := sheet.SeniorSchema()
	t := sheet.NewTable(schema.Sheet, schema.OutputColumns())
	for _, r := range rows {
		t.AppendRow(seniorCells(r)...)
	}
	return t
}

func juniorTable(rows ...map[string]sheet.Cell) *sheet.Table {
	schema := sheet.JuniorSchema()
	t := sheet.NewTable(schema.Sheet, schema.OutputColumns())
	for _, values := range rows {
		cells := make([]sheet.Cell, len(schema.Columns))
		for i := range cells {
			cells[i] = sheet.Null()
		}
		for col, c := range values {
			cells[schema.Position(col)] = c
		}
		t.AppendRow(cells...)
	}
	return t
}

func ruleRow(values map[string]sheet.Cell) RuleRow {
	return NewRuleRow(sheet.SeniorSheet, sheet.Row{Index: 0, Cells: seniorCells(values)}, testRefs())
}

// reportsTo builds a minimal senior post; index follows slice position in callers.
func reportsTo(index int, ref, parent string) post.Post {
	return post.Post{
		Index:     index,
		Reference: ref,
		Name:      "Holder " + ref,
		Grade:     "SCS1",
		JobTitle:  "Director",
		ReportsTo: parent,
	}
}

func chain(pairs ...[2]string) []post.Post {
	out := make([]post.Post, len(pairs))
	for i, p := range pairs {
		out[i] = reportsTo(i, p[0], p[1])
	}
	return out
}

// rawSheet is an in-memory SheetSource keyed by sheet name.
type rawSheet map[string]*sheet.Table

func (s rawSheet) ReadSheet(_ context.Context, name string, maxColumns int) (*sheet.Table, error) {
	t, ok := s[name]
	if !ok {
		return nil, errSheetMissing(name)
	}
	out := sheet.NewTable(t.Sheet, t.Columns)
	if len(out.Columns) > maxColumns {
		out.Columns = out.Columns[:maxColumns]
	}
	for _, r := range t.Rows {
		cells := r.Cells
		if len(cells) > maxColumns {
			cells = cells[:maxColumns]
		}
		out.Rows = append(out.Rows, sheet.Row{Index: r.Index, Cells: cells})
	}
	return out, nil
}

type errSheetMissing string

func (e errSheetMissing) Error() string { return "No sheet named <'" + string(e) + "'>" }

// referenceSheet lays a list out as a one-column reference sheet.
func referenceSheet(name string, values ...string) *sheet.Table {
	t := sheet.NewTable(name, []string{"Value"})
	for _, v := range values {
		t.AppendRow(sheet.String(v))
	}
	return t
}

func workbookWithReferences(senior, junior *sheet.Table) rawSheet {
	refs := testRefs()
	return rawSheet{
		sheet.SeniorSheet:           senior,
		sheet.JuniorSheet:           junior,
		reference.SeniorGradesSheet: referenceSheet(reference.SeniorGradesSheet, refs.SeniorGrades...),
		reference.UnitsSheet:        referenceSheet(reference.UnitsSheet, refs.Units...),
		reference.ProfessionsSheet:  referenceSheet(reference.ProfessionsSheet, refs.Professions...),
	}
}
