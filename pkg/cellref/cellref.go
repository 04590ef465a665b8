// Package cellref formats spreadsheet coordinates for data rows that sit
// below a single header row.
package cellref

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// HeaderOffset converts a zero-based data row index into the row number a
// spreadsheet user sees: one for the 1-based numbering, one for the header.
const HeaderOffset = 2

// RowName returns the displayed row number. 0 returns 2.
func RowName(rowIndex int) int {
	return rowIndex + HeaderOffset
}

// ColumnName returns the column letters for a zero-based column index. 0 returns "A".
func ColumnName(columnIndex int) string {
	name, err := excelize.ColumnNumberToName(columnIndex + 1)
	if err != nil {
		return fmt.Sprintf("?%d", columnIndex)
	}
	return name
}

// ColumnIndex is the inverse of ColumnName. "A" returns 0.
func ColumnIndex(columnName string) (int, error) {
	n, err := excelize.ColumnNameToNumber(columnName)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

// MustColumnIndex panics on an invalid column name. Only use it with constants.
func MustColumnIndex(columnName string) int {
	i, err := ColumnIndex(columnName)
	if err != nil {
		panic(err)
	}
	return i
}

// Coord is a zero-based (row, column) position inside the data area of a sheet.
type Coord struct {
	Row    int
	Column int
}

// String renders the coordinate as a cell name, e.g. (0, 0) is "A2" and (12, 2) is "C14".
func (c Coord) String() string {
	return CellName(c.Row, c.Column)
}

// CellName renders a zero-based (row, column) pair as a cell name.
func CellName(rowIndex, columnIndex int) string {
	return fmt.Sprintf("%s%d", ColumnName(columnIndex), RowName(rowIndex))
}
