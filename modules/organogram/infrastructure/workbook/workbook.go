// Package workbook reads organogram sheets from xlsx, legacy xls and csv files.
package workbook

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

var (
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrUnsupportedFormat = errors.New("unsupported workbook format")
)

// SheetNotFoundError names the missing sheet; it matches ErrSheetNotFound.
type SheetNotFoundError struct {
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("No sheet named <'%s'>", e.Sheet)
}

func (e *SheetNotFoundError) Is(target error) bool {
	return target == ErrSheetNotFound
}

// Workbook is an open source of named sheets.
type Workbook interface {
	ReadSheet(ctx context.Context, name string, maxColumns int) (*sheet.Table, error)
	SheetNames() []string
	Close() error
}

// Open detects the format of path and opens it. A csv path is paired with
// its senior/junior sibling when it follows the "<base>-senior.csv" naming.
func Open(path string) (Workbook, error) {
	format, err := Detect(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLSX:
		return OpenXLSX(path)
	case FormatXLS:
		return OpenXLS(path)
	case FormatCSV:
		senior, junior := CSVPair(path)
		return NewCSVWorkbook(map[string]string{
			sheet.SeniorSheet: senior,
			sheet.JuniorSheet: junior,
		}), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%s", path)
}

// CSVPair returns the senior and junior csv paths that belong with path.
func CSVPair(path string) (senior, junior string) {
	dir, base := filepath.Split(path)
	for _, suffix := range []string{"-senior.csv", "-junior.csv"} {
		if strings.HasSuffix(base, suffix) {
			stem := strings.TrimSuffix(base, suffix)
			return filepath.Join(dir, stem+"-senior.csv"), filepath.Join(dir, stem+"-junior.csv")
		}
	}
	return path, ""
}

type cellFunc func(row, col int, raw string) (sheet.Cell, error)

// buildTable turns header-first rows into a table of at most maxColumns
// columns. Short rows are padded with nulls.
func buildTable(name string, rows [][]string, maxColumns int, cell cellFunc) (*sheet.Table, error) {
	if len(rows) == 0 {
		return sheet.NewTable(name, nil), nil
	}
	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	if maxColumns > 0 {
		width = min(width, maxColumns)
	}

	header := make([]string, width)
	copy(header, rows[0])
	t := sheet.NewTable(name, header)

	for i, raw := range rows[1:] {
		cells := make([]sheet.Cell, width)
		for col := range cells {
			if col >= len(raw) || raw[col] == "" {
				cells[col] = sheet.Null()
				continue
			}
			c, err := cell(i+1, col, raw[col])
			if err != nil {
				return nil, errors.Wrapf(err, "sheet %q row %d column %d", name, i+1, col)
			}
			cells[col] = c
		}
		t.Rows = append(t.Rows, sheet.Row{Index: i, Cells: cells})
	}
	return t, nil
}

var plainNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// textColumns are identifiers; untyped sources hand them over as written.
var textColumns = map[string]bool{
	sheet.ColReference:           true,
	sheet.ColReportsTo:           true,
	sheet.ColReportingSeniorPost: true,
}

// markerColumns carry numeric flags even in text-only sources.
var markerColumns = map[string]bool{
	sheet.ColValid: true,
}

func columnTitle(rows [][]string, col int) string {
	if len(rows) == 0 || col >= len(rows[0]) {
		return ""
	}
	return strings.TrimSpace(rows[0][col])
}

// inferCell reads untyped text the way a spreadsheet does: a plain decimal
// is a number. Words such as "Inf" or "NaN" and zero-padded codes like "007"
// stay text.
func inferCell(raw string) sheet.Cell {
	if raw == "" {
		return sheet.Null()
	}
	if !plainNumber.MatchString(raw) || zeroPadded(raw) {
		return sheet.String(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return sheet.String(raw)
	}
	return sheet.Number(f)
}

func zeroPadded(raw string) bool {
	s := strings.TrimLeft(raw, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}
