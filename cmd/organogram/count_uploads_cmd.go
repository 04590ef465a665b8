package main

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/modules/organogram/services"
)

type countUploadsOptions struct {
	uploads string
	xlsDir  string
	out     string
}

func newCountUploadsCmd(a *app) *cobra.Command {
	var opts countUploadsOptions
	cmd := &cobra.Command{
		Use:   "count-uploads",
		Short: "Count senior posts in every published upload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCountUploads(cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.uploads, "uploads", "uploads_report.csv", "scraped uploads index")
	cmd.Flags().StringVar(&opts.xlsDir, "xls-dir", services.DefaultUploadXLSDir, "directory holding the uploaded workbooks")
	cmd.Flags().StringVar(&opts.out, "out", "uploads_post_counts.csv", "output CSV")
	return cmd
}

func runCountUploads(cmd *cobra.Command, a *app, opts countUploadsOptions) error {
	uploads, err := readUploadsReport(opts.uploads)
	if err != nil {
		return err
	}
	log := loggerFor(cmd)

	// One row per upload; a body publishing twice for a date gets two rows.
	var records [][]string
	skipped := 0
	for _, u := range uploads {
		if u.State != services.UploadStatePublished || containsPath(services.DefaultIgnoredXLSPaths, u.XLSPath) {
			continue
		}
		path := filepath.Join(opts.xlsDir, u.XLSFilename)
		n, err := countUploadPosts(cmd, a, path)
		if err != nil {
			log.WithFields(logrus.Fields{"path": path, "error": err.Error()}).Warn("cannot count upload")
			skipped++
			continue
		}
		records = append(records, []string{u.OrgName, services.DateToYearFirst(u.Version), strconv.Itoa(n)})
	}
	if err := writePlainCSVFile(opts.out, []string{colBodyTitle, colGraph, services.FieldSeniorPosts}, records); err != nil {
		return err
	}

	type summary struct {
		Out     string `json:"out"`
		Rows    int    `json:"rows"`
		Skipped int    `json:"skipped"`
	}
	return writeJSONLine(cmd.OutOrStdout(), summary{Out: opts.out, Rows: len(records), Skipped: skipped})
}

func countUploadPosts(cmd *cobra.Command, a *app, path string) (int, error) {
	wb, err := openWorkbook(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = wb.Close() }()
	schema := sheet.SeniorSchema()
	schema.Sheet = a.cfg.Sheets.Senior
	raw, err := wb.ReadSheet(cmd.Context(), schema.Sheet, len(schema.Columns))
	if err != nil {
		return 0, err
	}
	n := services.Normalize(cmd.Context(), raw, schema)
	if !n.Loaded() {
		return 0, errors.New(strings.Join(n.LoadErrors.Texts(), "; "))
	}
	return services.CountSeniorPosts(n.Table), nil
}

func containsPath(paths []string, p string) bool {
	for _, x := range paths {
		if x == p {
			return true
		}
	}
	return false
}
