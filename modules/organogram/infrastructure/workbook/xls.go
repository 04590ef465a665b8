package workbook

import (
	"context"

	"github.com/extrame/xls"
	"github.com/go-faster/errors"

	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

const xlsCharset = "utf-8"

// XLSWorkbook reads legacy BIFF workbooks. Cells come back as display text,
// so numbers are recovered by parsing.
type XLSWorkbook struct {
	path string
	wb   *xls.WorkBook
}

func OpenXLS(path string) (*XLSWorkbook, error) {
	wb, err := xls.Open(path, xlsCharset)
	if err != nil {
		return nil, errors.Wrapf(err, "open xls %s", path)
	}
	return &XLSWorkbook{path: path, wb: wb}, nil
}

func (w *XLSWorkbook) SheetNames() []string {
	names := make([]string, 0, w.wb.NumSheets())
	for i := 0; i < w.wb.NumSheets(); i++ {
		if s := w.wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	return names
}

func (w *XLSWorkbook) Close() error { return nil }

func (w *XLSWorkbook) ReadSheet(ctx context.Context, name string, maxColumns int) (*sheet.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i := 0; i < w.wb.NumSheets(); i++ {
		if s := w.wb.GetSheet(i); s != nil && s.Name == name {
			return readGrid(name, xlsSheet{ws: s}, maxColumns)
		}
	}
	return nil, &SheetNotFoundError{Sheet: name}
}

// textGrid is a sheet that only yields display text.
type textGrid interface {
	rowCount() int
	// rowText returns nil for a missing row.
	rowText(i, maxColumns int) []string
}

type xlsSheet struct {
	ws *xls.WorkSheet
}

func (s xlsSheet) rowCount() int { return int(s.ws.MaxRow) + 1 }

func (s xlsSheet) rowText(i, maxColumns int) []string {
	row := s.ws.Row(i)
	if row == nil {
		return nil
	}
	last := row.LastCol()
	if maxColumns > 0 {
		last = min(last, maxColumns)
	}
	values := make([]string, last)
	for c := range values {
		values[c] = row.Col(c)
	}
	return values
}

// readGrid types the cells of g: identifier columns keep their text, the
// rest is inferred.
func readGrid(name string, g textGrid, maxColumns int) (*sheet.Table, error) {
	rows := make([][]string, 0, g.rowCount())
	for i := 0; i < g.rowCount(); i++ {
		rows = append(rows, g.rowText(i, maxColumns))
	}
	return buildTable(name, rows, maxColumns, func(_, col int, raw string) (sheet.Cell, error) {
		if textColumns[columnTitle(rows, col)] {
			return sheet.String(raw), nil
		}
		return inferCell(raw), nil
	})
}
