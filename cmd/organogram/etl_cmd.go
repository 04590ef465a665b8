package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/organogram/modules/organogram/domain/issue"
	"github.com/iota-uz/organogram/modules/organogram/domain/sheet"
	"github.com/iota-uz/organogram/modules/organogram/services"
)

const ministryOfDefence = "Ministry of Defence"

type etlOptions struct {
	output           string
	date             string
	dateFromFilename bool
	references       string
	metricsFile      string
}

type indexEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func newETLCmd(a *app) *cobra.Command {
	var opts etlOptions
	cmd := &cobra.Command{
		Use:   "etl <workbook>",
		Short: "Verify an organogram workbook and write its senior and junior CSVs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runETL(cmd, a, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.output, "output", "", "output directory")
	cmd.Flags().StringVar(&opts.date, "date", "", "vintage of the data (YYYY-MM-DD or DD-MM-YYYY)")
	cmd.Flags().BoolVar(&opts.dateFromFilename, "date-from-filename", false, "take the vintage from a date in the workbook file name")
	cmd.Flags().StringVar(&opts.references, "references", "", "YAML file with grade, unit and profession lists")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus metrics in text format to this file")
	return cmd
}

func runETL(cmd *cobra.Command, a *app, input string, opts etlOptions) error {
	if err := ensureDir(opts.output); err != nil {
		return err
	}
	vintage, err := resolveVintage(input, opts)
	if err != nil {
		return err
	}
	level, err := services.VerifyLevelFor(vintage)
	if err != nil {
		return withCode(exitUsage, err)
	}
	pipelineOpts, err := a.pipelineOptions(opts.references)
	if err != nil {
		return err
	}
	if opts.metricsFile == "" {
		opts.metricsFile = a.cfg.MetricsFile
	}

	wb, err := openWorkbook(input)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	ctx := cmd.Context()
	out, err := services.LoadAndVerify(ctx, wb, level, pipelineOpts)
	if err != nil {
		return withCode(exitUsage, err)
	}
	if err := writeMetrics(opts.metricsFile); err != nil {
		return err
	}

	if !out.Accepted {
		printIssues(cmd.ErrOrStderr(), "ERROR", out.Issues)
		return withCode(rejectionCode(out), errors.Errorf("%s rejected at %s stage (%s): %d issues", input, out.Stage, level, len(out.Issues)))
	}
	printIssues(cmd.ErrOrStderr(), "WARNING", out.Issues)

	basename := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	seniorPath := filepath.Join(opts.output, basename+"-senior.csv")
	juniorPath := filepath.Join(opts.output, basename+"-junior.csv")
	indexPath := filepath.Join(opts.output, "index.json")

	loggerFor(cmd).WithFields(logrus.Fields{
		"senior": seniorPath,
		"junior": juniorPath,
	}).Info("Writing")
	if err := writeCSVFile(seniorPath, out.Senior.Columns, tableRecords(out.Senior)); err != nil {
		return err
	}
	if err := writeCSVFile(juniorPath, out.Junior.Columns, tableRecords(out.Junior)); err != nil {
		return err
	}
	if err := writeJSONFile(indexPath, []indexEntry{{Name: indexName(out.Senior, out.Junior), Value: basename}}); err != nil {
		return err
	}

	type summary struct {
		Input    string `json:"input"`
		Vintage  string `json:"vintage"`
		Level    string `json:"level"`
		Senior   string `json:"senior"`
		Junior   string `json:"junior"`
		Index    string `json:"index"`
		Warnings int    `json:"warnings"`
	}
	return writeJSONLine(cmd.OutOrStdout(), summary{
		Input:    input,
		Vintage:  vintage,
		Level:    string(level),
		Senior:   seniorPath,
		Junior:   juniorPath,
		Index:    indexPath,
		Warnings: len(out.Issues),
	})
}

func resolveVintage(input string, opts etlOptions) (string, error) {
	if opts.dateFromFilename {
		if opts.date != "" {
			return "", withCode(exitUsage, errors.New("--date and --date-from-filename are mutually exclusive"))
		}
		d, err := services.DateFromFilename(filepath.Base(input))
		if err != nil {
			return "", withCode(exitUsage, err)
		}
		return d, nil
	}
	if strings.TrimSpace(opts.date) == "" {
		return "", withCode(exitUsage, errors.New("--date or --date-from-filename is required"))
	}
	return strings.TrimSpace(opts.date), nil
}

func rejectionCode(out services.Outcome) int {
	switch {
	case out.Stage == services.StageLoad:
		return exitLoad
	case out.Issues.HasFatal():
		return exitNotDisplayable
	default:
		return exitRejected
	}
}

func printIssues(w io.Writer, prefix string, issues issue.List) {
	for _, text := range issues.Texts() {
		fmt.Fprintf(w, "%s: %s\n", prefix, text)
	}
}

// indexName joins the organisations found in the data; Ministry of Defence
// publishes per unit, so its units are listed too.
func indexName(senior, junior *sheet.Table) string {
	orgs := senior.Distinct(sheet.ColOrganisation)
	if len(orgs) == 0 && junior != nil {
		orgs = junior.Distinct(sheet.ColOrganisation)
	}
	name := strings.Join(orgs, " & ")
	if name == ministryOfDefence {
		if units := senior.Distinct(sheet.ColUnit); len(units) > 0 {
			name += " - " + strings.Join(units, " & ")
		}
	}
	return name
}

func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "write metrics %s", path))
	}
	return nil
}
