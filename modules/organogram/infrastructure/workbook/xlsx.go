package workbook

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

type XLSXWorkbook struct {
	path string
	f    *excelize.File
}

func OpenXLSX(path string) (*XLSXWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open xlsx %s", path)
	}
	return &XLSXWorkbook{path: path, f: f}, nil
}

func (w *XLSXWorkbook) SheetNames() []string {
	return w.f.GetSheetList()
}

func (w *XLSXWorkbook) Close() error {
	return w.f.Close()
}

// ReadSheet keeps cell types: shared and inline strings stay text, booleans
// become 0/1 and everything else is read as a number when it parses as one.
func (w *XLSXWorkbook) ReadSheet(ctx context.Context, name string, maxColumns int) (*sheet.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx, err := w.f.GetSheetIndex(name); err != nil || idx < 0 {
		return nil, &SheetNotFoundError{Sheet: name}
	}
	rows, err := w.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q of %s", name, w.path)
	}
	return buildTable(name, rows, maxColumns, func(row, col int, raw string) (sheet.Cell, error) {
		return w.cell(name, row, col, raw)
	})
}

func (w *XLSXWorkbook) cell(sheetName string, row, col int, raw string) (sheet.Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return sheet.Cell{}, err
	}
	typ, err := w.f.GetCellType(sheetName, axis)
	if err != nil {
		return sheet.Cell{}, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return sheet.String(raw), nil
	case excelize.CellTypeBool:
		if raw == "1" || raw == "TRUE" {
			return sheet.Int(1), nil
		}
		return sheet.Int(0), nil
	}
	return inferCell(raw), nil
}
