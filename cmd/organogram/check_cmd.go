package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/organogram/modules/organogram/services"
)

type checkOptions struct {
	output     string
	references string
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkOptions
	cmd := &cobra.Command{
		Use:   "check <workbook>",
		Short: "Check whether an organogram workbook can be displayed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, a, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.output, "output", "", "write the JSON check report to this file")
	cmd.Flags().StringVar(&opts.references, "references", "", "YAML file with grade, unit and profession lists")
	return cmd
}

func runCheck(cmd *cobra.Command, a *app, input string, opts checkOptions) error {
	pipelineOpts, err := a.pipelineOptions(opts.references)
	if err != nil {
		return err
	}
	wb, err := openWorkbook(input)
	if err != nil {
		return err
	}
	defer func() { _ = wb.Close() }()

	res := services.LoadAndCheck(cmd.Context(), wb, pipelineOpts)
	report := newCheckReport(input, res.Displayable, res.Issues, res.RowMarkers)
	if err := report.validate(); err != nil {
		return err
	}
	if opts.output != "" {
		if err := writeJSONFile(opts.output, report); err != nil {
			return err
		}
	}

	type summary struct {
		Input       string   `json:"input"`
		RunID       string   `json:"run_id"`
		Displayable bool     `json:"displayable"`
		Errors      []string `json:"errors"`
		Report      string   `json:"report,omitempty"`
	}
	if err := writeJSONLine(cmd.OutOrStdout(), summary{
		Input:       input,
		RunID:       report.RunID.String(),
		Displayable: res.Displayable,
		Errors:      res.Issues.Texts(),
		Report:      opts.output,
	}); err != nil {
		return err
	}
	if !res.Displayable {
		return withCode(exitNotDisplayable, errors.Errorf("%s is not displayable", input))
	}
	return nil
}
