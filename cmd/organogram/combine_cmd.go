package main

import (
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/organogram/modules/organogram/services"
)

type combineOptions struct {
	compare    string
	uploads    string
	out        string
	body       string
	graph      string
	check      bool
	references string
}

var combineColumns = []string{"body_title", "graph", "source", "xls_path", "csv_path", "original_xls_path", "upload_date", "publish_date"}

func newCombineCmd(a *app) *cobra.Command {
	var opts combineOptions
	cmd := &cobra.Command{
		Use:   "combine",
		Short: "Choose the authoritative source for every organisation and period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCombine(cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.compare, "compare", "compare_post_counts.csv", "output of the compare command")
	cmd.Flags().StringVar(&opts.uploads, "uploads", "uploads_report.csv", "scraped uploads index")
	cmd.Flags().StringVar(&opts.out, "out", "combined.csv", "output CSV")
	cmd.Flags().StringVar(&opts.body, "body", "", "only this organisation")
	cmd.Flags().StringVar(&opts.graph, "graph", "", "only this period")
	cmd.Flags().BoolVar(&opts.check, "check", false, "verify every selected workbook at the level for its period")
	cmd.Flags().StringVar(&opts.references, "references", "", "YAML file with grade, unit and profession lists, used with --check")
	return cmd
}

func runCombine(cmd *cobra.Command, a *app, opts combineOptions) error {
	if strings.TrimSpace(opts.out) == "" {
		return withCode(exitUsage, errors.New("--out is required"))
	}
	rows, err := readComparison(opts.compare)
	if err != nil {
		return err
	}
	uploads, err := readUploadsReport(opts.uploads)
	if err != nil {
		return err
	}

	selections, issues := services.SelectSources(rows, uploads, services.SelectOptions{
		TriplestoreOrgs:    a.cfg.Sources.TriplestoreOrgs,
		ExcludedUploadOrgs: a.cfg.Sources.ExcludedUploadOrgs,
		Body:               opts.body,
		Graph:              opts.graph,
	})
	printIssues(cmd.ErrOrStderr(), "WARNING", issues)

	header := combineColumns
	if opts.check {
		header = append(append([]string(nil), combineColumns...), "verify_level", "accepted", "errors")
	}
	records := make([][]string, 0, len(selections))
	rejected := 0
	for _, sel := range selections {
		rec := []string{sel.BodyTitle, sel.Graph, sel.Source, sel.XLSPath, sel.CSVPath, sel.OriginalXLSPath, sel.UploadDate, sel.PublishDate}
		if opts.check {
			level, accepted, nIssues := checkSelection(cmd, a, sel, opts.references)
			if !accepted {
				rejected++
			}
			rec = append(rec, string(level), strconv.FormatBool(accepted), strconv.Itoa(nIssues))
		}
		records = append(records, rec)
	}
	if err := writePlainCSVFile(opts.out, header, records); err != nil {
		return err
	}

	type summary struct {
		Out      string `json:"out"`
		Selected int    `json:"selected"`
		Issues   int    `json:"issues"`
		Rejected int    `json:"rejected,omitempty"`
	}
	return writeJSONLine(cmd.OutOrStdout(), summary{Out: opts.out, Selected: len(selections), Issues: len(issues), Rejected: rejected})
}

// checkSelection runs the publish pipeline on a selected workbook. Failures
// to open are reported as a rejection, not an error.
func checkSelection(cmd *cobra.Command, a *app, sel services.Selection, referencesFile string) (services.Level, bool, int) {
	log := loggerFor(cmd).WithFields(logrus.Fields{
		"body_title": sel.BodyTitle,
		"graph":      sel.Graph,
	})
	level, err := services.VerifyLevelFor(sel.Graph)
	if err != nil {
		log.WithField("error", err.Error()).Warn("cannot derive verify level")
		return "", false, 1
	}
	opts, err := a.pipelineOptions(referencesFile)
	if err != nil {
		log.WithField("error", err.Error()).Warn("cannot load references")
		return level, false, 1
	}
	path := sel.XLSPath
	if sel.Source == services.SourceTriplestore {
		path = sel.CSVPath
	}
	wb, err := openWorkbook(path)
	if err != nil {
		log.WithField("error", err.Error()).Warn("cannot open workbook")
		return level, false, 1
	}
	defer func() { _ = wb.Close() }()

	out, err := services.LoadAndVerify(cmd.Context(), wb, level, opts)
	if err != nil {
		log.WithField("error", err.Error()).Warn("cannot verify workbook")
		return level, false, 1
	}
	return level, out.Accepted, len(out.Issues)
}
