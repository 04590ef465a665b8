package sheet

type Row struct {
	// Index is the 0-based position of the row below the header, kept across filtering.
	Index int
	Cells []Cell
}

func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r.Cells) {
		return Null()
	}
	return r.Cells[col]
}

type Table struct {
	Sheet   string
	Columns []string
	Rows    []Row
}

func NewTable(sheetName string, columns []string) *Table {
	return &Table{
		Sheet:   sheetName,
		Columns: append([]string(nil), columns...),
		Rows:    []Row{},
	}
}

// ColumnIndex returns -1 when the column is unknown.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (t *Table) Value(r Row, column string) Cell {
	return r.Cell(t.ColumnIndex(column))
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// AppendRow adds a row indexed after the current last row.
func (t *Table) AppendRow(cells ...Cell) {
	t.Rows = append(t.Rows, Row{Index: len(t.Rows), Cells: cells})
}

// DropColumn removes a column and its cells.
func (t *Table) DropColumn(name string) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return
	}
	t.Columns = append(t.Columns[:idx:idx], t.Columns[idx+1:]...)
	for i := range t.Rows {
		cells := t.Rows[i].Cells
		if idx < len(cells) {
			t.Rows[i].Cells = append(cells[:idx:idx], cells[idx+1:]...)
		}
	}
}

// Distinct returns the non-null texts of a column in first-appearance order.
func (t *Table) Distinct(column string) []string {
	idx := t.ColumnIndex(column)
	if idx < 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range t.Rows {
		c := r.Cell(idx)
		if c.IsNull() {
			continue
		}
		v := c.Text()
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
