package workbook

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimeCSV  = "text/csv"
	mimeZip  = "application/zip"
	mimeOLE  = "application/x-ole-storage"
	mimeText = "text/plain"
)

// Detect sniffs the content of path. Generic containers (zip, OLE, plain
// text) fall back to the file extension.
func Detect(path string) (Format, error) {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "detect format of %s", path)
	}
	switch {
	case mt.Is(mimeXLSX):
		return FormatXLSX, nil
	case mt.Is(mimeXLS):
		return FormatXLS, nil
	case mt.Is(mimeCSV):
		return FormatCSV, nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case mt.Is(mimeZip) && ext == ".xlsx":
		return FormatXLSX, nil
	case mt.Is(mimeOLE) && ext == ".xls":
		return FormatXLS, nil
	case mt.Is(mimeText) && ext == ".csv":
		return FormatCSV, nil
	}
	return "", errors.Wrapf(ErrUnsupportedFormat, "%s (%s)", path, mt.String())
}
