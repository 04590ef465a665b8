package main

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/modules/organogram/infrastructure/workbook"
	"github.com/iota-uz/organogram/modules/organogram/services"
)

func openWorkbook(path string) (workbook.Workbook, error) {
	if strings.TrimSpace(path) == "" {
		return nil, withCode(exitUsage, errors.New("input workbook is required"))
	}
	wb, err := workbook.Open(path)
	if err != nil {
		return nil, withCode(exitLoad, err)
	}
	return wb, nil
}

// pipelineOptions takes sheet names and depth from config; a references file
// given on the command line wins over the configured one.
func (a *app) pipelineOptions(referencesFile string) (services.PipelineOptions, error) {
	opts := services.PipelineOptions{
		MaxDepth:    a.cfg.MaxReportingDepth,
		SeniorSheet: a.cfg.Sheets.Senior,
		JuniorSheet: a.cfg.Sheets.Junior,
	}
	if referencesFile == "" {
		referencesFile = a.cfg.ReferencesFile
	}
	if referencesFile != "" {
		refs, err := workbook.LoadReferencesYAML(referencesFile)
		if err != nil {
			return opts, withCode(exitUsage, err)
		}
		opts.References = &refs
	}
	return opts, nil
}

// cellText renders a cell for published CSV: floats get two decimals, null is empty.
func cellText(c sheet.Cell) string {
	if c.Kind() == sheet.KindFloat {
		f, _ := c.Float()
		return fmt.Sprintf("%.2f", f)
	}
	return c.Text()
}

func tableRecords(t *sheet.Table) [][]string {
	if t == nil {
		return nil
	}
	out := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i := range t.Columns {
			rec[i] = cellText(r.Cell(i))
		}
		out = append(out, rec)
	}
	return out
}
