package services

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/post"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/pkg/cellref"
)

var nonLetters = regexp.MustCompile(`[^A-Z]`)

// Normalized is a sheet mapped onto its canonical schema.
type Normalized struct {
	Table *sheet.Table
	// LoadErrors mean the sheet cannot be trusted at all.
	LoadErrors issue.List
	// ValidationErrors are coercion failures; the affected cells are replaced.
	ValidationErrors issue.List
}

// Loaded reports whether the sheet produced a usable table.
func (n Normalized) Loaded() bool {
	return len(n.LoadErrors) == 0
}

// NormalizeFailed is the result for a sheet that could not be read at all.
func NormalizeFailed(schema sheet.Schema, err error) Normalized {
	out := Normalized{Table: sheet.NewTable(schema.Sheet, schema.OutputColumns())}
	out.LoadErrors.Add(issue.New(issue.KindLoad, "%s", err.Error()).WithSheet(schema.Sheet))
	recordSheetLoaded(schema.Sheet, false)
	return out
}

// Normalize maps raw onto schema. raw.Columns holds the header titles as read
// and raw.Rows the typed cells below it.
func Normalize(ctx context.Context, raw *sheet.Table, schema sheet.Schema) Normalized {
	out := Normalized{Table: sheet.NewTable(schema.Sheet, schema.OutputColumns())}
	if raw == nil {
		return NormalizeFailed(schema, ErrNilInput)
	}

	expected := len(schema.Columns)
	if len(raw.Columns) < expected {
		out.LoadErrors.Add(issue.New(issue.KindLoad,
			"Sheet '%s' contains %d columns. I expect at least %d columns.",
			schema.Sheet, len(raw.Columns), expected).WithSheet(schema.Sheet))
		recordSheetLoaded(schema.Sheet, false)
		return out
	}

	blank := positions(schema, schema.BlankColumns)
	for i := 0; i < expected; i++ {
		if blank[i] {
			continue
		}
		title := raw.Columns[i]
		if !schema.AcceptsTitle(i, title) {
			out.LoadErrors.Add(issue.New(issue.KindColumnTitle,
				"Wrong column title. Sheet '%s' column %s: Title='%s' Expected='%s'",
				schema.Sheet, cellref.ColumnName(i), title, schema.Columns[i]).WithSheet(schema.Sheet))
		}
	}

	integer := positions(schema, schema.IntegerColumns)
	str := positions(schema, schema.StringColumns)
	naForBlank := positions(schema, schema.NAForBlankColumns)

	for _, r := range raw.Rows {
		cells := make([]sheet.Cell, expected)
		for i := range cells {
			cells[i] = r.Cell(i)
			if blank[i] {
				cells[i] = sheet.String("")
			}
		}
		if cells[0].IsBlank() && cells[1].IsBlank() {
			continue
		}
		for i := range cells {
			switch {
			case integer[i]:
				var iss *issue.Issue
				cells[i], iss = coerceIntOrSentinel(cells[i], schema.OutputColumn(i))
				if iss != nil {
					e := iss.WithSheet(schema.Sheet).WithDetails(map[string]any{
						"row":  cellref.RowName(r.Index),
						"cell": cellref.CellName(r.Index, i),
					})
					out.ValidationErrors.Add(e)
				}
			case str[i]:
				cells[i] = coerceString(cells[i])
			}
			if s, ok := cells[i].Str(); ok {
				cells[i] = sheet.String(strings.TrimSpace(s))
			}
			if naForBlank[i] && cells[i].IsNull() {
				cells[i] = sheet.String(post.NotApplicable)
			}
		}
		out.Table.Rows = append(out.Table.Rows, sheet.Row{Index: r.Index, Cells: cells})
	}

	recordSheetLoaded(schema.Sheet, out.Loaded())
	logWithFields(ctx, logrus.DebugLevel, "normalized sheet", logrus.Fields{
		"sheet":             schema.Sheet,
		"rows_read":         len(raw.Rows),
		"rows_kept":         len(out.Table.Rows),
		"load_errors":       len(out.LoadErrors),
		"validation_errors": len(out.ValidationErrors),
	})
	return out
}

func positions(schema sheet.Schema, columns []string) map[int]bool {
	out := make(map[int]bool, len(columns))
	for _, c := range columns {
		if i := schema.Position(c); i >= 0 {
			out[i] = true
		}
	}
	return out
}

// coerceIntOrSentinel turns a pay-like cell into integer text, "N/A" or "N/D".
// Anything else is reported and replaced with 0.
func coerceIntOrSentinel(c sheet.Cell, column string) (sheet.Cell, *issue.Issue) {
	switch c.Kind() {
	case sheet.KindNull:
		return sheet.String(post.NotApplicable), nil
	case sheet.KindInt:
		return sheet.String(c.Text()), nil
	case sheet.KindFloat:
		f, _ := c.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return notNumeric(column, c.Text())
		}
		return sheet.String(strconv.FormatInt(decimal.NewFromFloat(f).Round(0).IntPart(), 10)), nil
	}

	s, _ := c.Str()
	if s == "" {
		return sheet.String(post.NotApplicable), nil
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(s)); err == nil && d.IsInteger() {
		return sheet.String(strconv.FormatInt(d.IntPart(), 10)), nil
	}
	switch nonLetters.ReplaceAllString(strings.ToUpper(s), "") {
	case "NA":
		return sheet.String(post.NotApplicable), nil
	case "ND":
		return sheet.String(post.NotDisclosed), nil
	}
	return notNumeric(column, s)
}

func notNumeric(column, text string) (sheet.Cell, *issue.Issue) {
	iss := issue.New(issue.KindCoercion,
		`Expected numeric values in column "%s" (or N/A or N/D), but got text="%s".`, column, text)
	return sheet.Int(0), &iss
}

// coerceString keeps identifiers textual without float artifacts: 1.0 becomes "1".
func coerceString(c sheet.Cell) sheet.Cell {
	switch c.Kind() {
	case sheet.KindNull:
		return sheet.String("")
	case sheet.KindInt:
		return sheet.String(c.Text())
	case sheet.KindFloat:
		f, _ := c.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return sheet.String(c.Text())
		}
		return sheet.String(strconv.FormatInt(int64(f), 10))
	}
	s, _ := c.Str()
	trimmed := strings.TrimSpace(s)
	if strings.Contains(trimmed, ".") {
		if d, err := decimal.NewFromString(trimmed); err == nil && d.IsInteger() {
			return sheet.String(strconv.FormatInt(d.IntPart(), 10))
		}
	}
	return c
}

// ApplyOutputDrops removes the columns that are only needed during validation.
func ApplyOutputDrops(t *sheet.Table, schema sheet.Schema) {
	for _, c := range schema.DropAfterValidation {
		t.DropColumn(c)
	}
}
