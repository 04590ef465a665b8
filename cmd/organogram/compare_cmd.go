package main

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/organogram/modules/organogram/services"
)

type compareOptions struct {
	uploads     string
	triplestore string
	out         string
	fields      []string
}

func newCompareCmd() *cobra.Command {
	var opts compareOptions
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Merge upload and triplestore post counts into one comparison CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCompare(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.uploads, "uploads", "uploads_post_counts.csv", "post counts from uploaded workbooks")
	cmd.Flags().StringVar(&opts.triplestore, "triplestore", "triplestore_post_counts.csv", "post counts from the triplestore")
	cmd.Flags().StringVar(&opts.out, "out", "compare_post_counts.csv", "output CSV")
	cmd.Flags().StringSliceVar(&opts.fields, "fields", []string{services.FieldSeniorPosts}, "count fields to compare")
	return cmd
}

func runCompare(cmd *cobra.Command, opts compareOptions) error {
	if strings.TrimSpace(opts.out) == "" {
		return withCode(exitUsage, errors.New("--out is required"))
	}
	uploads, err := readCounts(opts.uploads, services.SourceUploads)
	if err != nil {
		return err
	}
	triplestore, err := readCounts(opts.triplestore, services.SourceTriplestore)
	if err != nil {
		return err
	}
	cmp, err := services.Compare(opts.fields, uploads, triplestore)
	if err != nil {
		return withCode(exitRejected, err)
	}
	records := make([][]string, 0, len(cmp.Rows))
	for _, r := range cmp.Rows {
		records = append(records, cmp.Record(r))
	}
	if err := writePlainCSVFile(opts.out, cmp.Headers, records); err != nil {
		return err
	}

	type summary struct {
		Out  string `json:"out"`
		Rows int    `json:"rows"`
	}
	return writeJSONLine(cmd.OutOrStdout(), summary{Out: opts.out, Rows: len(records)})
}
