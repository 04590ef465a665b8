package workbook

import (
	"bufio"
	"context"
	"encoding/csv"
	"io"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-faster/errors"

	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
)

// CSVWorkbook maps sheet names onto csv files. Values are kept as text,
// except the "Valid?" markers; empty fields are null.
type CSVWorkbook struct {
	paths map[string]string
}

func NewCSVWorkbook(paths map[string]string) *CSVWorkbook {
	out := make(map[string]string, len(paths))
	for name, p := range paths {
		if p != "" {
			out[name] = p
		}
	}
	return &CSVWorkbook{paths: out}
}

func (w *CSVWorkbook) SheetNames() []string {
	names := make([]string, 0, len(w.paths))
	for name := range w.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (w *CSVWorkbook) Close() error { return nil }

func (w *CSVWorkbook) ReadSheet(ctx context.Context, name string, maxColumns int) (*sheet.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, ok := w.paths[name]
	if !ok {
		return nil, &SheetNotFoundError{Sheet: name}
	}
	rows, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	return buildTable(name, rows, maxColumns, func(_, col int, raw string) (sheet.Cell, error) {
		if markerColumns[columnTitle(rows, col)] {
			return inferCell(strings.TrimSpace(raw)), nil
		}
		return sheet.String(raw), nil
	})
}

// ReadCSV reads every record of path, header included. A UTF-8 BOM is
// skipped and header titles are trimmed.
func ReadCSV(path string) ([][]string, error) {
	r, closeFn, err := openCSV(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open csv %s", path)
	}
	defer func() { _ = closeFn() }()

	header, err := readHeader(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read csv header %s", path)
	}
	rows := [][]string{header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read csv %s", path)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func openCSV(path string) (*csv.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	br := stripUTF8BOM(bufio.NewReader(f))

	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = false
	return r, f.Close, nil
}

func stripUTF8BOM(r *bufio.Reader) *bufio.Reader {
	b, err := r.Peek(3)
	if err == nil && len(b) == 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = r.Discard(3)
	}
	return r
}

func readHeader(r *csv.Reader) ([]string, error) {
	h, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("missing header")
		}
		return nil, err
	}
	for i := range h {
		h[i] = strings.TrimSpace(h[i])
		if !utf8.ValidString(h[i]) {
			return nil, errors.New("invalid header encoding")
		}
	}
	return h, nil
}

// HeaderIndex maps header titles to their positions.
func HeaderIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, name := range header {
		m[name] = i
	}
	return m
}

// RequireHeader checks that every required title is present.
func RequireHeader(header []string, required ...string) error {
	idx := HeaderIndex(header)
	for _, req := range required {
		if _, ok := idx[req]; !ok {
			return errors.Errorf("missing required header column: %s", req)
		}
	}
	return nil
}
