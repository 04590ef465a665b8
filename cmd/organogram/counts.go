package main

import (
	"github.com/go-faster/errors"

	"github.com/iota-uz/organogram/modules/organogram/infrastructure/workbook"
	"github.com/iota-uz/organogram/modules/organogram/services"
)

const (
	colBodyTitle = "body_title"
	colGraph     = "graph"
)

// readCounts loads a post counts CSV: body_title, graph and any value columns.
func readCounts(path, source string) (services.SourceCounts, error) {
	rows, err := workbook.ReadCSV(path)
	if err != nil {
		return services.SourceCounts{}, withCode(exitIO, err)
	}
	header := rows[0]
	if err := workbook.RequireHeader(header, colBodyTitle, colGraph); err != nil {
		return services.SourceCounts{}, withCode(exitRejected, errors.Wrap(err, path))
	}
	out := services.SourceCounts{Source: source}
	for _, rec := range rows[1:] {
		c := services.PostCount{Values: map[string]string{}}
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			switch name {
			case colBodyTitle:
				c.BodyTitle = rec[i]
			case colGraph:
				c.Graph = rec[i]
			default:
				c.Values[name] = rec[i]
			}
		}
		out.Rows = append(out.Rows, c)
	}
	return out, nil
}

// readComparison loads the output of the compare command back into rows.
func readComparison(path string) ([]services.ComparisonRow, error) {
	counts, err := readCounts(path, "comparison")
	if err != nil {
		return nil, err
	}
	out := make([]services.ComparisonRow, 0, len(counts.Rows))
	for _, c := range counts.Rows {
		out = append(out, services.ComparisonRow{
			CountKey: services.CountKey{BodyTitle: c.BodyTitle, Graph: c.Graph},
			Values:   c.Values,
		})
	}
	return out, nil
}

var uploadsReportColumns = []string{"version", "org_name", "xls_path", "upload_date", "state", "action_datetime", "xls_filename"}

// readUploadsReport loads the scraped index of uploaded organogram files.
func readUploadsReport(path string) ([]services.Upload, error) {
	rows, err := workbook.ReadCSV(path)
	if err != nil {
		return nil, withCode(exitIO, err)
	}
	header := rows[0]
	if err := workbook.RequireHeader(header, uploadsReportColumns...); err != nil {
		return nil, withCode(exitRejected, errors.Wrap(err, path))
	}
	idx := workbook.HeaderIndex(header)
	field := func(rec []string, name string) string {
		if i := idx[name]; i < len(rec) {
			return rec[i]
		}
		return ""
	}
	out := make([]services.Upload, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		out = append(out, services.Upload{
			Version:        field(rec, "version"),
			OrgName:        field(rec, "org_name"),
			XLSPath:        field(rec, "xls_path"),
			UploadDate:     field(rec, "upload_date"),
			State:          field(rec, "state"),
			ActionDatetime: field(rec, "action_datetime"),
			XLSFilename:    field(rec, "xls_filename"),
		})
	}
	return out, nil
}
