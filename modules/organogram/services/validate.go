package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/reference"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/pkg/cellref"
)

type SheetKind string

const (
	SheetSenior SheetKind = "senior"
	SheetJunior SheetKind = "junior"
)

// SheetValidation is the outcome of validating one normalized sheet.
type SheetValidation struct {
	// CellErrors come from the rule engine.
	CellErrors issue.List
	// RowMarkers summarises rows flagged by the sheet's own "Valid?" column.
	RowMarkers issue.List
}

// ValidateSheet runs the cell rules of kind over t and cross-checks them
// against the embedded validity marker.
func ValidateSheet(ctx context.Context, t *sheet.Table, kind SheetKind, refs reference.Lists) SheetValidation {
	var out SheetValidation
	if t == nil {
		return out
	}
	out.RowMarkers = CheckRowMarkers(t)

	switch kind {
	case SheetSenior:
		rules := SeniorRules()
		for _, r := range t.Rows {
			out.CellErrors.Add(ValidateSeniorRow(NewRuleRow(t.Sheet, r, refs), rules)...)
		}
	case SheetJunior:
		rules := JuniorRules()
		for _, r := range t.Rows {
			for _, rule := range rules {
				out.CellErrors.Add(rule(t.Sheet, r, refs)...)
			}
		}
	}

	switch {
	case len(out.CellErrors) > 0 && len(out.RowMarkers) == 0:
		logWithFields(ctx, logrus.ErrorLevel, "Errors found by ETL were not picked up by spreadsheet", logrus.Fields{
			"sheet":  t.Sheet,
			"errors": out.CellErrors.Texts(),
		})
	case len(out.RowMarkers) > 0 && len(out.CellErrors) == 0:
		logWithFields(ctx, logrus.ErrorLevel, "Errors found by spreadsheet were not picked up by ETL", logrus.Fields{
			"sheet":  t.Sheet,
			"errors": out.RowMarkers.Texts(),
		})
	}
	recordIssues(t.Sheet, out.CellErrors)
	return out
}

// CheckRowMarkers counts rows whose "Valid?" cell is zero.
func CheckRowMarkers(t *sheet.Table) issue.List {
	col := t.ColumnIndex(sheet.ColValid)
	if col < 0 {
		return nil
	}
	var invalid []sheet.Row
	for _, r := range t.Rows {
		if r.Cell(col).IsNumericZero() {
			invalid = append(invalid, r)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	plural, first := "", ""
	if len(invalid) > 1 {
		plural, first = "s", "first "
	}
	row := invalid[0].Index
	iss := issue.New(issue.KindRowMarker,
		`Sheet "%s" has %d invalid row%s. The %sproblem is on row %d, as indicated by the red colour in cell %s.`,
		t.Sheet, len(invalid), plural, first, cellref.RowName(row), cellref.CellName(row, col)).WithSheet(t.Sheet)
	return issue.List{iss}
}
